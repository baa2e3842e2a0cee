package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"workbench/internal/unit"
)

func (h *handlers) createUnit(c *gin.Context) {
	ctx := c.Request.Context()
	schema, err := h.station.LookupSchema(ctx, c.Param("schema_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	u, err := h.station.CreateUnit(ctx, schema)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, UnitOut{
		GenericResponse: ok("New unit created successfully"),
		UnitInternalID:  u.InternalID,
	})
}

func (h *handlers) unitInfo(c *gin.Context) {
	u, err := h.station.UnitInfo(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, FromUnit(u))
}

func (h *handlers) pendingRevision(c *gin.Context) {
	summaries, err := h.catalog.UnitsByStatus(c.Request.Context(), unit.StatusRevision)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, UnitsPending{
		GenericResponse: ok(fmt.Sprintf("%d units awaiting revision.", len(summaries))),
		Units:           FromSummaries(summaries),
	})
}

func (h *handlers) upload(c *gin.Context) {
	result, err := h.station.UploadPassport(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, PassportOut{
		GenericResponse: ok(fmt.Sprintf("Uploaded data for unit %s", result.UnitID)),
		PassportCID:     result.CID,
		PassportLink:    result.Link,
	})
}

func (h *handlers) assignComponent(c *gin.Context) {
	if err := h.station.AssignComponentByID(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok("Component has been assigned"))
}
