package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"

	"employee-directory/internal/auth"
	"employee-directory/internal/metrics"
)

// Identifier resolves the caller of a request, returning nil when anonymous.
type Identifier interface {
	Identify(r *http.Request) *auth.Identity
}

// UploadLimits bounds multipart GraphQL requests.
type UploadLimits struct {
	MaxFileSize int64
	MaxFiles    int
}

// Handler wires HTTP routes to the GraphQL schema.
type Handler struct {
	schema     graphql.Schema
	identifier Identifier
	metrics    *metrics.Metrics
	limits     UploadLimits
	logger     logrus.FieldLogger
}

func NewHandler(schema graphql.Schema, identifier Identifier, m *metrics.Metrics, limits UploadLimits, logger logrus.FieldLogger) *Handler {
	if limits.MaxFileSize <= 0 {
		limits.MaxFileSize = 5_000_000
	}
	if limits.MaxFiles <= 0 {
		limits.MaxFiles = 1
	}
	return &Handler{
		schema:     schema,
		identifier: identifier,
		metrics:    m,
		limits:     limits,
		logger:     logger.WithField("component", "http"),
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), requestLogger(h.logger))

	gql := router.Group("/graphql", h.identify)
	{
		gql.POST("", h.graphqlPost)
		gql.GET("", h.graphqlGet)
	}

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}

	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, Apollo-Require-Preflight")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request served")
	}
}

// identify attaches the caller identity, if any, to the request context.
// Requests without a valid token proceed anonymously.
func (h *Handler) identify(c *gin.Context) {
	if h.identifier == nil {
		c.Next()
		return
	}
	if identity := h.identifier.Identify(c.Request); identity != nil {
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
	}
	c.Next()
}
