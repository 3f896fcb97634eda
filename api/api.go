package api

import (
	"ChartService/internal/config"
	"ChartService/internal/model"
	"context"
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// The package is split by concern:
// - api.go: handler type, dependencies and routes (this file)
// - handler.go: HTTP request handlers
// - middleware.go: middleware functions
// - validator.go: request validation

const (
	DefaultTimeout      = 30 * time.Second
	ServiceVersion      = "1.0.0"
	ServiceName         = "chart-service"
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
	WarningsHeaderKey   = "X-Chart-Warnings"
)

// ChartService is the behaviour the handlers depend on
type ChartService interface {
	Columns(ctx context.Context) ([]model.ColumnInfo, error)
	Preview(ctx context.Context, limit int) (model.DataPreview, error)
	ChartTypes() []model.ChartTypeInfo
	Generate(ctx context.Context, req model.ChartRequest) (model.ChartResult, error)
	RenderPNG(ctx context.Context, req model.ChartRequest) ([]byte, model.ChartResult, error)
	ExportXLSX(ctx context.Context, w io.Writer) error
	RendererState() string
}

// APIHandler handles HTTP requests using Gin framework
type APIHandler struct {
	chartService ChartService
	validator    *Validator
	logger       *zap.Logger
	cors         config.CORSConfig
	rateLimit    config.RateLimitConfig
}

// Option customises an APIHandler
type Option func(*APIHandler)

// WithCORS sets the CORS policy
func WithCORS(cfg config.CORSConfig) Option {
	return func(h *APIHandler) { h.cors = cfg }
}

// WithRateLimit enables per-client rate limiting when cfg.Enabled is set
func WithRateLimit(cfg config.RateLimitConfig) Option {
	return func(h *APIHandler) { h.rateLimit = cfg }
}

// WithPreviewLimits overrides the default and maximum preview row counts
func WithPreviewLimits(defaultLimit, maxLimit int) Option {
	return func(h *APIHandler) { h.validator = NewValidator(defaultLimit, maxLimit) }
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(chartService ChartService, logger *zap.Logger, opts ...Option) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &APIHandler{
		chartService: chartService,
		validator:    GetValidator(),
		logger:       logger,
		cors:         config.Default().CORS,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// StartServer runs the router directly; cmd uses its own http.Server for graceful shutdown
func (h *APIHandler) StartServer(port int) error {
	router := h.SetupRoutes()
	return router.Run(":" + strconv.Itoa(port))
}

// SetupRoutes configures all API routes
func (h *APIHandler) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(h.logger))
	router.Use(recoveryMiddleware(h.logger))
	router.Use(corsMiddleware(h.cors))
	if h.rateLimit.Enabled {
		router.Use(rateLimitMiddleware(newClientLimiter(h.rateLimit)))
	}

	router.GET("/health", h.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/columns", h.GetColumns)
		api.GET("/data-preview", h.GetDataPreview)
		api.GET("/graph-types", h.GetGraphTypes)
		api.POST("/generate-graph", h.GenerateGraph)
		api.POST("/render-graph", h.RenderGraph)
		api.GET("/export", h.ExportDataset)
	}

	return router
}
