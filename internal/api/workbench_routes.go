package api

import (
	"cmp"
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"workbench/internal/faults"
	"workbench/internal/logging"
	"workbench/internal/unit"
	"workbench/internal/workbench"
)

func (h *handlers) status(c *gin.Context) {
	c.JSON(http.StatusOK, h.station.Status())
}

func (h *handlers) assignUnit(c *gin.Context) {
	id := c.Param("id")
	if err := h.station.AssignUnitByID(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok(fmt.Sprintf("Unit %s has been assigned", id)))
}

func (h *handlers) removeUnit(c *gin.Context) {
	if err := h.station.RemoveUnit(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok("Unit has been removed"))
}

func (h *handlers) startOperation(c *gin.Context) {
	var body OperationDetails
	if !bindJSON(c, &body) {
		return
	}
	if err := h.station.StartOperation(c.Request.Context(), body.AdditionalInfo); err != nil {
		abortWithError(c, err)
		return
	}
	snap := h.station.Status()
	c.JSON(http.StatusOK, ok(fmt.Sprintf("Started operation on unit %s", snap.UnitInternalID)))
}

func (h *handlers) endOperation(c *gin.Context) {
	var body EndOperationDetails
	if !bindJSON(c, &body) {
		return
	}
	if err := h.station.EndOperation(c.Request.Context(), body.AdditionalInfo, body.PrematureEnding); err != nil {
		abortWithError(c, err)
		return
	}
	snap := h.station.Status()
	c.JSON(http.StatusOK, ok(fmt.Sprintf("Ended current operation on unit %s", snap.UnitInternalID)))
}

func (h *handlers) schemaNames(c *gin.Context) {
	schemas, err := h.catalog.ListSchemas(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, SchemasList{
		GenericResponse:  ok(fmt.Sprintf("Gathered %d schemas", len(schemas))),
		AvailableSchemas: SchemaTree(schemas),
	})
}

// SchemaTree nests component schemas under the composites that require
// them. Composites are visited first so a component is listed only once,
// and the top level is ordered by name length.
func SchemaTree(schemas []unit.Schema) []SchemaListEntry {
	byID := make(map[string]unit.Schema, len(schemas))
	for _, s := range schemas {
		byID[s.SchemaID] = s
	}
	handled := make(map[string]bool, len(schemas))

	var entry func(s unit.Schema, path map[string]bool) SchemaListEntry
	entry = func(s unit.Schema, path map[string]bool) SchemaListEntry {
		handled[s.SchemaID] = true
		out := SchemaListEntry{SchemaID: s.SchemaID, SchemaName: s.UnitName}
		if !s.IsComposite() {
			return out
		}
		out.IncludedSchemas = []SchemaListEntry{}
		path[s.SchemaID] = true
		defer delete(path, s.SchemaID)
		for _, id := range s.RequiredComponentIDs {
			child, found := byID[id]
			if !found || path[id] {
				continue
			}
			out.IncludedSchemas = append(out.IncludedSchemas, entry(child, path))
		}
		return out
	}

	ordered := slices.Clone(schemas)
	slices.SortStableFunc(ordered, func(a, b unit.Schema) int {
		switch {
		case a.IsComposite() == b.IsComposite():
			return 0
		case a.IsComposite():
			return -1
		default:
			return 1
		}
	})
	available := make([]SchemaListEntry, 0, len(ordered))
	for _, s := range ordered {
		if handled[s.SchemaID] {
			continue
		}
		available = append(available, entry(s, map[string]bool{}))
	}
	slices.SortStableFunc(available, func(a, b SchemaListEntry) int {
		return cmp.Compare(len(a.SchemaName), len(b.SchemaName))
	})
	return available
}

func (h *handlers) schema(c *gin.Context) {
	schema, err := h.station.LookupSchema(c.Request.Context(), c.Param("schema_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, SchemaResponse{
		GenericResponse:  ok(fmt.Sprintf("Found schema %s", schema.SchemaID)),
		ProductionSchema: schema,
	})
}

func (h *handlers) hidEvent(c *gin.Context) {
	var event workbench.HIDEvent
	if !bindJSON(c, &event) {
		return
	}
	logging.WithContext(c.Request.Context(), h.logger).Debug("hid event received",
		logging.String("sender", event.Name))
	if err := h.station.HandleHIDEvent(c.Request.Context(), event); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok("Hid event has been handled as expected"))
}

// bindJSON decodes the request body. An empty body leaves dst untouched.
func bindJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, faults.Wrap(faults.ErrValidation, "api", c.FullPath(), "malformed request body", err))
		return false
	}
	return true
}
