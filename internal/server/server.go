package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Skufu/vitalrisk/internal/history"
	"github.com/Skufu/vitalrisk/internal/session"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to HealthChecker.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type TrendReader interface {
	ListTrends(ctx context.Context, userID string, limit int) ([]history.TrendRecord, error)
}

// Options wires the router. Nil collaborators disable the routes and checks
// that need them.
type Options struct {
	DB           HealthChecker
	Cache        HealthChecker
	Trends       TrendReader
	Sessions     *session.Registry
	Alerts       http.Handler
	Log          zerolog.Logger
	CORSOrigins  []string
	MaxBodyBytes int64
}

const defaultMaxBody = 1 << 20

// New builds the HTTP router.
func New(opts Options) *gin.Engine {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBody
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewRegistry(session.Deps{Log: opts.Log})
	}

	router := gin.New()
	router.Use(
		requestLogger(opts.Log),
		recovery(opts.Log),
		limitBodySize(opts.MaxBodyBytes),
		cors.New(cors.Config{
			AllowOrigins: origins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", readyz(opts.DB, opts.Cache))

	h := &handlers{opts: opts}
	api := router.Group("/api")
	api.GET("/catalog", h.catalog)
	api.POST("/predict", h.predict)
	api.POST("/interactions", h.interactions)
	api.POST("/batch", h.batch)
	api.POST("/batch/export", h.batchExport)

	api.POST("/sessions", h.createSession)
	api.POST("/sessions/:id/predict", h.sessionPredict)
	api.GET("/sessions/:id/history", h.sessionHistory)
	api.GET("/sessions/:id/enrichment", h.sessionEnrichment)
	api.GET("/sessions/:id/evolution", h.sessionEvolution)
	api.GET("/sessions/:id/report", h.sessionReport)

	if opts.Trends != nil {
		api.GET("/users/:uid/trends", h.userTrends)
	}
	if opts.Alerts != nil {
		router.GET("/ws/alerts", gin.WrapH(opts.Alerts))
	}

	return router
}

func readyz(db, cache HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		body := gin.H{"status": "ok"}
		code := http.StatusOK
		for name, check := range map[string]HealthChecker{"db": db, "redis": cache} {
			if check == nil {
				body[name] = "disabled"
				continue
			}
			if err := check.Ping(ctx); err != nil {
				body[name] = fmt.Sprintf("unhealthy: %v", err)
				body["status"] = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			body[name] = "ok"
		}
		c.JSON(code, body)
	}
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		evt := log.Info()
		if len(c.Errors) > 0 {
			evt = log.Error().Str("errors", c.Errors.String())
		} else if c.Writer.Status() >= http.StatusInternalServerError {
			evt = log.Error()
		}
		evt.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("remote_ip", c.ClientIP()).
			Msg("request")
	}
}

func recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				var stack [4096]byte
				n := runtime.Stack(stack[:], false)
				log.Error().
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(stack[:n])).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil {
			c.Request.Body = http.NoBody
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
