// Package v1 provides HTTP API version 1.
package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"

	"stockview/internal/infrastructure/http/v1/handlers"
	"stockview/internal/infrastructure/http/v1/middleware"
	"stockview/internal/infrastructure/metrics"
	"stockview/internal/metadata"
	"stockview/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Views serves view-models from backend snapshots
	Views handlers.ViewsService

	// MetadataRegistry stores view-model definitions
	MetadataRegistry *metadata.Registry

	// Metrics is exposed on /metrics when set
	Metrics *metrics.Registry

	// Backend and Snapshots feed the readiness probe; both optional
	Backend        handlers.BackendPinger
	Snapshots      handlers.SnapshotInspector
	MaxSnapshotAge time.Duration

	Version string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Backend, cfg.Snapshots, cfg.MaxSnapshotAge, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	base := handlers.NewBaseHandler()

	v1 := router.Group("/api/v1")
	{
		registerMetaRoutes(v1, base, cfg)
		registerViewRoutes(v1, base, cfg)
		registerNormalizeRoutes(v1, base, cfg)
	}

	return router
}

// NewHandler wraps the router with gzip response compression.
func NewHandler(cfg RouterConfig) http.Handler {
	return gzhttp.GzipHandler(NewRouter(cfg))
}

func registerMetaRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	if cfg.MetadataRegistry == nil {
		return
	}
	h := handlers.NewMetadataHandler(base, cfg.MetadataRegistry)
	meta := rg.Group("/meta")
	{
		meta.GET("/entities", h.ListEntities)
		meta.GET("/entities/:name", h.GetEntity)
	}
}

func registerViewRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	if cfg.Views == nil {
		return
	}
	h := handlers.NewViewsHandler(base, cfg.Views)
	views := rg.Group("/views")
	{
		views.GET("/:entity", h.List)
		views.GET("/:entity/summary", h.Summary)
	}
}

func registerNormalizeRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewNormalizeHandler(base, cfg.Metrics)
	rg.POST("/normalize/:entity", h.Normalize)
}
