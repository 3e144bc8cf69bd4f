package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Gin context keys shared with the HTTP middleware
const (
	GinLoggerKey    = "logger"
	GinRequestIDKey = "request_id"
	GinUserIDKey    = "user_id"
)

type accessLogConfig struct {
	skip map[string]struct{}
}

// AccessLogOption configures AccessLog
type AccessLogOption func(*accessLogConfig)

// WithSkipPaths suppresses the access line for the given request paths.
// The request logger is still attached.
func WithSkipPaths(paths ...string) AccessLogOption {
	return func(cfg *accessLogConfig) {
		for _, p := range paths {
			cfg.skip[p] = struct{}{}
		}
	}
}

// AccessLog attaches a request-scoped logger to the gin context and to the
// request context, then writes one line per request once it completes.
func AccessLog(base *zap.Logger, opts ...AccessLogOption) gin.HandlerFunc {
	cfg := accessLogConfig{skip: map[string]struct{}{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		ctx, reqLogger := WithRequestID(req.Context(), base.With(
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
		), c.GetString(GinRequestIDKey))
		c.Request = req.WithContext(ctx)
		c.Set(GinLoggerKey, reqLogger)

		c.Next()

		if _, skip := cfg.skip[req.URL.Path]; skip {
			return
		}

		status := c.Writer.Status()
		fields := make([]zap.Field, 0, 8)
		fields = append(fields,
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		)
		if route := c.FullPath(); route != "" {
			fields = append(fields, zap.String("route", route))
		}
		if req.URL.RawQuery != "" {
			fields = append(fields, zap.String("query", req.URL.RawQuery))
		}
		if userID := c.GetString(GinUserIDKey); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}
		if errs := c.Errors.Errors(); len(errs) > 0 {
			fields = append(fields, zap.Strings("errors", errs))
		}

		if ce := reqLogger.Check(statusLevel(status), "request served"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func statusLevel(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}

// Recovery turns a handler panic into a logged 500 with the standard error
// body
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		requestID := c.GetString(GinRequestIDKey)
		base.Error("Panic recovered",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stacktrace"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":       "INTERNAL_ERROR",
				"message":    "An internal error occurred",
				"request_id": requestID,
			},
		})
	})
}

// GetGinLogger returns the request logger set by AccessLog, or a no-op
// logger
func GetGinLogger(c *gin.Context) *zap.Logger {
	if zl, ok := c.Value(GinLoggerKey).(*zap.Logger); ok && zl != nil {
		return zl
	}
	return zap.NewNop()
}
