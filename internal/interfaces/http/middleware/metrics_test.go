package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/catalogue/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp, err := telemetry.NewWithReader("test", reader, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	mw, err := HTTPMetrics(mp.Meter("http.server"))
	require.NoError(t, err)

	router := gin.New()
	router.Use(mw)
	router.GET("/products/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	for _, path := range []string{"/products/1", "/products/2", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	routes := map[string]int64{}
	var sawDuration, sawActive bool
	var sizeCount uint64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch m.Name {
			case "http_server_request_total":
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				for _, dp := range sum.DataPoints {
					route, _ := dp.Attributes.Value(telemetry.AttrHTTPRoute)
					routes[route.AsString()] += dp.Value
				}
			case "http_server_request_duration_seconds":
				sawDuration = true
			case "http_server_response_size_bytes":
				hist, ok := m.Data.(metricdata.Histogram[int64])
				require.True(t, ok)
				for _, dp := range hist.DataPoints {
					sizeCount += dp.Count
				}
			case "http_server_active_requests":
				sawActive = true
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				for _, dp := range sum.DataPoints {
					assert.Zero(t, dp.Value)
				}
			}
		}
	}

	assert.Equal(t, int64(2), routes["/products/:id"])
	assert.Equal(t, int64(1), routes[unmatchedRoute])
	assert.True(t, sawDuration)
	assert.True(t, sawActive)
	assert.Equal(t, uint64(2), sizeCount, "unwritten bodies are not recorded")
}
