package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/catalogue/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// serve runs one request through mw and a handler answering "ok"
func serve(mw gin.HandlerFunc, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	engine := gin.New()
	engine.Use(mw)
	engine.Handle(method, path, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestCORSWithConfig(t *testing.T) {
	shop := CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}
	open := CORSConfig{AllowOrigins: []string{"*"}, AllowCredentials: true}

	tests := []struct {
		name     string
		cfg      CORSConfig
		method   string
		origin   string
		status   int
		expected map[string]string
	}{
		{
			name:   "default config rejects cross origin",
			cfg:    DefaultCORSConfig(),
			method: http.MethodGet,
			origin: "http://malicious.com",
			status: http.StatusOK,
			expected: map[string]string{
				"Access-Control-Allow-Origin": "",
				"Vary":                        "Origin",
			},
		},
		{
			name:   "listed origin",
			cfg:    shop,
			method: http.MethodGet,
			origin: "http://localhost:3000",
			status: http.StatusOK,
			expected: map[string]string{
				"Access-Control-Allow-Origin":      "http://localhost:3000",
				"Access-Control-Allow-Credentials": "true",
				"Access-Control-Allow-Methods":     "GET, POST",
				"Access-Control-Allow-Headers":     "Content-Type",
				"Access-Control-Expose-Headers":    RequestIDHeader,
				"Access-Control-Max-Age":           "3600",
			},
		},
		{
			name:   "same origin request",
			cfg:    shop,
			method: http.MethodGet,
			status: http.StatusOK,
			expected: map[string]string{
				"Access-Control-Allow-Methods": "",
				"Vary":                         "Origin",
			},
		},
		{
			name:   "unknown origin",
			cfg:    shop,
			method: http.MethodGet,
			origin: "http://other.com",
			status: http.StatusOK,
			expected: map[string]string{
				"Access-Control-Allow-Origin": "",
			},
		},
		{
			name:   "preflight",
			cfg:    shop,
			method: http.MethodOptions,
			origin: "http://localhost:3000",
			status: http.StatusNoContent,
			expected: map[string]string{
				"Access-Control-Allow-Origin": "http://localhost:3000",
			},
		},
		{
			name:   "preflight from unknown origin",
			cfg:    shop,
			method: http.MethodOptions,
			origin: "http://other.com",
			status: http.StatusNoContent,
			expected: map[string]string{
				"Access-Control-Allow-Origin": "",
			},
		},
		{
			name:   "wildcard never sends credentials",
			cfg:    open,
			method: http.MethodGet,
			origin: "http://anything.example",
			status: http.StatusOK,
			expected: map[string]string{
				"Access-Control-Allow-Origin":      "*",
				"Access-Control-Allow-Credentials": "",
				"Access-Control-Allow-Methods":     "",
				"Vary":                             "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.origin != "" {
				headers["Origin"] = tt.origin
			}
			rec := serve(CORSWithConfig(tt.cfg), tt.method, "/products", headers)

			assert.Equal(t, tt.status, rec.Code)
			for name, want := range tt.expected {
				assert.Equal(t, want, rec.Header().Get(name), name)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(logger.GinRequestIDKey))
	})
	call := func(supplied string) (header, seen string) {
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		if supplied != "" {
			req.Header.Set(RequestIDHeader, supplied)
		}
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec.Header().Get(RequestIDHeader), rec.Body.String()
	}

	header, seen := call("")
	assert.Len(t, seen, 36, "generated ids are UUIDs")
	assert.Equal(t, header, seen)

	header, seen = call("checkout-7f3a")
	assert.Equal(t, "checkout-7f3a", header)
	assert.Equal(t, "checkout-7f3a", seen)

	long := strings.Repeat("a", maxRequestIDLength+1)
	_, seen = call(long)
	assert.NotEqual(t, long, seen)
	assert.Len(t, seen, 36)
}

func TestSecureWithConfig(t *testing.T) {
	rec := serve(SecureWithConfig(DefaultSecurityConfig()), http.MethodGet, "/products", nil)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", rec.Header().Get("Content-Security-Policy"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = serve(SecureWithConfig(DefaultSecurityConfig()), http.MethodGet, "/swagger/index.html", nil)
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"), "swagger UI needs inline scripts")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	rec = serve(SecureWithConfig(cfg), http.MethodGet, "/products", nil)
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
}
