package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/eval"
	"github.com/start-again-06/Travel-Agent-Voice-Based/pkg/version"
)

// Options configures the router.
type Options struct {
	Logger *slog.Logger

	// MetricsHandler, when set, is mounted at MetricsPath.
	MetricsHandler http.Handler
	MetricsPath    string

	// ReportTTL bounds how long reports stay retrievable by run ID.
	ReportTTL time.Duration
}

// SetupRouter builds the HTTP surface around runner.
//
//	GET  /health
//	GET  /version
//	POST /api/v1/evaluations   run every checker over an itinerary
//	GET  /api/v1/evaluations/:id   a recently served report
//	POST /api/v1/reports       render a saved report as text
//	GET  <metrics path>        prometheus scrape endpoint, when enabled
func SetupRouter(runner *eval.Runner, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "tripeval is running",
		})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, version.Info())
	})

	if opts.MetricsHandler != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(opts.MetricsHandler))
	}

	h := NewEvaluationHandler(runner, logger, opts.ReportTTL)
	api := r.Group("/api/v1")
	{
		api.POST("/evaluations", h.Evaluate)
		api.GET("/evaluations/:id", h.Get)
		api.POST("/reports", h.Render)
	}

	return r
}

// requestLogger logs one line per request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
