package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// scope is the per-request logging state carried on a context
type scope struct {
	logger    *zap.Logger
	requestID string
}

type scopeKey struct{}

func scopeFrom(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

// WithContext attaches logger to ctx, keeping any request id already there
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	s := scopeFrom(ctx)
	s.logger = logger
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithRequestID tags ctx with requestID and attaches logger enriched with
// the same id. The enriched logger is returned too.
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	enriched := logger.With(zap.String("request_id", requestID))
	return context.WithValue(ctx, scopeKey{}, scope{logger: enriched, requestID: requestID}), enriched
}

// FromContext returns the logger attached to ctx, with trace_id and
// span_id when ctx carries a valid span. Without one it returns a no-op
// logger.
func FromContext(ctx context.Context) *zap.Logger {
	s := scopeFrom(ctx)
	if s.logger == nil {
		return zap.NewNop()
	}
	return WithTraceContext(ctx, s.logger)
}

// GetRequestID returns the request id on ctx, or ""
func GetRequestID(ctx context.Context) string {
	return scopeFrom(ctx).requestID
}

// WithTraceContext adds the ids of ctx's span to logger
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return logger
	}
	return logger.With(
		zap.Stringer("trace_id", sc.TraceID()),
		zap.Stringer("span_id", sc.SpanID()),
	)
}
