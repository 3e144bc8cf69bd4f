package middleware

import (
	"errors"
	"time"

	"github.com/catalogue/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// unmatchedRoute labels requests that matched no route
const unmatchedRoute = "unmatched"

// responseSizeBuckets are histogram boundaries in bytes
var responseSizeBuckets = []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576}

// HTTPMetrics returns a middleware recording request count, latency,
// response size and in-flight requests. Routes are labelled by pattern so
// ids in paths do not blow up cardinality.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	requests, errTotal := meter.Int64Counter("http_server_request_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"))
	latency, errLatency := meter.Float64Histogram("http_server_request_duration_seconds",
		metric.WithDescription("HTTP request latency distribution in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(telemetry.HTTPDurationBuckets...))
	size, errSize := meter.Int64Histogram("http_server_response_size_bytes",
		metric.WithDescription("HTTP response body size"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(responseSizeBuckets...))
	inflight, errInflight := meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("Number of HTTP requests being served"),
		metric.WithUnit("{request}"))
	if err := errors.Join(errTotal, errLatency, errSize, errInflight); err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		inflight.Add(ctx, 1)
		defer inflight.Add(ctx, -1)
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		byRoute := attribute.NewSet(
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
		)
		latency.Record(ctx, time.Since(start).Seconds(), metric.WithAttributeSet(byRoute))
		if n := c.Writer.Size(); n >= 0 {
			size.Record(ctx, int64(n), metric.WithAttributeSet(byRoute))
		}
		requests.Add(ctx, 1, metric.WithAttributes(append(byRoute.ToSlice(),
			telemetry.AttrHTTPStatus.Int(c.Writer.Status()))...))
	}, nil
}
