package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iEmiya/ruaddress/config"
	"github.com/iEmiya/ruaddress/internal/logger"
	"github.com/iEmiya/ruaddress/internal/metrics"
	"github.com/iEmiya/ruaddress/internal/source"
	"github.com/iEmiya/ruaddress/services"
)

// Backend is everything the HTTP API serves.
type Backend interface {
	services.AddressService
	services.Rebuilder
	services.JobManager
}

// SourceFactory opens the configured ingestion source for a rebuild.
type SourceFactory func() (source.Source, error)

// Options wires optional parts of the API.
type Options struct {
	Sources  SourceFactory       // nil disables POST /rebuild
	Gatherer prometheus.Gatherer // nil disables GET /metrics
	Logger   *slog.Logger
}

// API holds dependencies for API handlers.
type API struct {
	backend Backend
	sources SourceFactory
	logger  *slog.Logger
}

// NewAPI creates a new API handler structure.
func NewAPI(backend Backend, opts Options) *API {
	l := opts.Logger
	if l == nil {
		l = logger.Discard()
	}
	return &API{backend: backend, sources: opts.Sources, logger: l}
}

// NewRouter creates a gin engine with the middleware chain and every route.
func NewRouter(backend Backend, cfg config.ServerConfig, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(opts.Logger))
	router.Use(CORSMiddleware())
	if cfg.MaxBodyBytes > 0 {
		router.Use(RequestSizeLimitMiddleware(cfg.MaxBodyBytes))
	}
	if cfg.RateLimit > 0 {
		router.Use(RateLimitMiddleware(cfg.RateLimit, cfg.RateBurst))
	}

	SetupRoutes(router, backend, opts)
	return router
}

// SetupRoutes defines all the API routes without any middleware.
func SetupRoutes(router *gin.Engine, backend Backend, opts Options) {
	NewAPI(backend, opts).setupRoutes(router, opts)
}

func (api *API) setupRoutes(router *gin.Engine, opts Options) {
	// Health check route
	router.GET("/health", api.HealthCheckHandler)

	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(opts.Gatherer)))
	}

	router.GET("/search", api.SearchHandler)

	codeRoutes := router.Group("/codes/:code")
	{
		codeRoutes.GET("", api.GetByCodeHandler)            // Ancestor chain of a code
		codeRoutes.GET("/level", api.GetLevelHandler)       // Level encoded in a code
		codeRoutes.GET("/siblings", api.GetByLevelHandler)  // Parts on the same level under the same parent
		codeRoutes.GET("/children", api.GetChildrenHandler) // Nearest populated level below a code
	}

	postalRoutes := router.Group("/postal/:index")
	{
		postalRoutes.GET("", api.GetByIndexHandler)               // Full addresses of streets with a postal code
		postalRoutes.GET("/parts", api.GetByIndexForSearchHandler) // Streets with a postal code
	}

	router.GET("/reductions/:level/:short", api.GetReductionHandler)

	router.POST("/rebuild", api.RebuildHandler)

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", api.ListJobsHandler)
		jobRoutes.GET("/:jobId", api.GetJobHandler)         // Get job status by ID
		jobRoutes.GET("/metrics", api.GetJobMetricsHandler) // Get job performance metrics
	}
}

// HealthCheckHandler reports liveness and the build being served.
func (api *API) HealthCheckHandler(c *gin.Context) {
	buildID := api.backend.BuildID()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"build_id":  buildID,
		"has_store": buildID != "",
	})
}
