// Package middleware provides the gin middleware of the catalogue API.
package middleware

import (
	"net/http"

	"github.com/catalogue/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName is the name of the service for trace identification.
	ServiceName string
	// Enabled controls whether tracing is active.
	Enabled bool
}

// TracingWithConfig returns OpenTelemetry tracing middleware. Span names
// follow "METHOD route" (e.g. "GET /api/v1/catalog/products/:id").
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanAttributes enriches the request span with request_id before the
// handler runs and with user_id and error status afterwards. It must be
// placed after TracingWithConfig and RequestID.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if requestID := c.GetString(logger.GinRequestIDKey); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}

		c.Next()

		if userID := c.GetString(logger.GinUserIDKey); userID != "" {
			span.SetAttributes(attribute.String("user_id", userID))
		}
		markSpanStatus(span, c.Writer.Status())
	}
}

func markSpanStatus(span trace.Span, statusCode int) {
	if statusCode < http.StatusBadRequest {
		return
	}

	var description string
	switch {
	case statusCode >= http.StatusInternalServerError:
		description = "Internal Server Error"
	case statusCode == http.StatusUnauthorized:
		description = "Unauthorized"
	case statusCode == http.StatusForbidden:
		description = "Forbidden"
	case statusCode == http.StatusNotFound:
		description = "Not Found"
	default:
		description = "Client Error"
	}

	span.SetStatus(codes.Error, description)
	span.SetAttributes(attribute.Int("http.status_code", statusCode))
}
