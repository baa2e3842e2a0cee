package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/heptiolabs/healthcheck"

	"workbench/internal/logging"
	"workbench/internal/notify"
	"workbench/internal/store"
	"workbench/internal/unit"
	"workbench/internal/workbench"
)

// Station is the workbench surface the routes drive.
type Station interface {
	State() workbench.State
	Status() workbench.Snapshot
	WatchStatus(ctx context.Context, fn func(workbench.Snapshot) error) error
	AssignUnitByID(ctx context.Context, internalID string) error
	RemoveUnit(ctx context.Context) error
	StartOperation(ctx context.Context, metadata map[string]string) error
	EndOperation(ctx context.Context, metadata map[string]string, premature bool) error
	HandleHIDEvent(ctx context.Context, event workbench.HIDEvent) error
	CreateUnit(ctx context.Context, schema unit.Schema) (*unit.Unit, error)
	UnitInfo(ctx context.Context, internalID string) (*unit.Unit, error)
	UploadPassport(ctx context.Context) (workbench.PassportResult, error)
	AssignComponentByID(ctx context.Context, internalID string) error
	LookupEmployee(ctx context.Context, cardID string) (unit.Employee, error)
	LookupSchema(ctx context.Context, schemaID string) (unit.Schema, error)
	LoginByCard(ctx context.Context, cardID string) (unit.Employee, error)
	Logout(ctx context.Context) error
}

// Catalog is the read side of the store the routes query directly.
type Catalog interface {
	ListSchemas(ctx context.Context) ([]unit.Schema, error)
	UnitsByStatus(ctx context.Context, status unit.Status) ([]store.UnitSummary, error)
}

// Deps wires the router. Station, Catalog, and Bus are required.
type Deps struct {
	Station Station
	Catalog Catalog
	Bus     *notify.Bus
	Logger  *slog.Logger
	// Token enables bearer authentication when non-empty.
	Token string
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Health serves /live and /ready when set.
	Health healthcheck.Handler
}

type handlers struct {
	station Station
	catalog Catalog
	bus     *notify.Bus
	logger  *slog.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Deps) (*gin.Engine, error) {
	switch {
	case deps.Station == nil:
		return nil, errors.New("api router requires a station")
	case deps.Catalog == nil:
		return nil, errors.New("api router requires a catalog")
	case deps.Bus == nil:
		return nil, errors.New("api router requires a notification bus")
	}
	logger := logging.NewComponentLogger(deps.Logger, "api")
	h := &handlers{station: deps.Station, catalog: deps.Catalog, bus: deps.Bus, logger: logger}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(recovery(logger), requestLogger(logger), cors())

	if deps.Health != nil {
		router.GET("/live", gin.WrapF(deps.Health.LiveEndpoint))
		router.GET("/ready", gin.WrapF(deps.Health.ReadyEndpoint))
	}
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	authed := router.Group("", bearerAuth(deps.Token))
	authed.GET("/workbench/status/stream", h.streamStatus)
	authed.GET("/notifications", h.streamNotifications)

	compressed := authed.Group("", gzip.Gzip(gzip.DefaultCompression))

	wb := compressed.Group("/workbench")
	wb.GET("/status", h.status)
	wb.POST("/assign-unit/:id", h.assignUnit)
	wb.POST("/remove-unit", h.removeUnit)
	wb.POST("/start-operation", h.startOperation)
	wb.POST("/end-operation", h.endOperation)
	wb.GET("/production-schemas/names", h.schemaNames)
	wb.GET("/production-schemas/:schema_id", h.schema)
	wb.POST("/hid-event", h.hidEvent)

	units := compressed.Group("/unit")
	units.POST("/new/:schema_id", h.createUnit)
	units.GET("/:id/info", h.unitInfo)
	units.GET("/pending_revision", h.pendingRevision)
	units.POST("/upload", h.upload)
	units.POST("/assign-component/:id", h.assignComponent)

	employees := compressed.Group("/employee")
	employees.POST("/info", h.employeeInfo)
	employees.POST("/log-in", h.logIn)
	employees.POST("/log-out", h.logOut)

	compressed.POST("/notifications", h.emitNotification)

	return router, nil
}
