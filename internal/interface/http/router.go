package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/question-bank/internal/domain/auth"
	"github.com/yanqian/question-bank/internal/infra/config"
	"github.com/yanqian/question-bank/pkg/metrics"
)

// queryPaths serve the same lookup; /api/query matches the serverless
// deployment layout.
var queryPaths = []string{"/query", "/api/query"}

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		metricsMiddleware(),
		corsMiddleware(cfg.HTTP.CORS.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/", handler.Health)
	router.GET("/healthz", handler.Liveness)
	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	api := router.Group("/")
	api.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))
	if authSvc != nil && authSvc.Enabled() {
		api.Use(authMiddleware(authSvc))
	}
	for _, path := range queryPaths {
		api.GET(path, handler.Query)
		api.POST(path, handler.Query)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"request_id", requestID(c),
		)
	}
}
