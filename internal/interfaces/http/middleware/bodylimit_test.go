package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// echoLength answers with how many body bytes could be read, or 400 when
// reading hit the limit
func echoLength(c *gin.Context) {
	n, err := io.Copy(io.Discard, c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "body too large")
		return
	}
	c.String(http.StatusOK, "%d", n)
}

func TestBodyLimit(t *testing.T) {
	router := gin.New()
	router.Use(BodyLimit(64))
	router.Any("/echo", echoLength)

	t.Run("declared length over the limit is rejected up front", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 200)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "PAYLOAD_TOO_LARGE")
	})

	t.Run("undeclared length is cut off while reading", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 200)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("small bodies and bodiless requests pass", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"a":1}`)))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "7", w.Body.String())

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestBodyLimitWithUploads(t *testing.T) {
	router := gin.New()
	router.Use(BodyLimitWithUploads(100, 1000))
	router.POST("/echo", echoLength)

	tests := []struct {
		name        string
		contentType string
		size        int
		want        int
	}{
		{"json within body limit", "application/json", 50, http.StatusOK},
		{"json over body limit", "application/json", 500, http.StatusRequestEntityTooLarge},
		{"multipart uses upload limit", "multipart/form-data; boundary=x", 500, http.StatusOK},
		{"multipart over upload limit", "multipart/form-data; boundary=x", 2000, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", tt.size)))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
