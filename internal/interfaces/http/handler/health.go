package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/catalogue/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// healthCheckTimeout bounds each dependency probe
const healthCheckTimeout = 2 * time.Second

// Checker probes one dependency
type Checker func(ctx context.Context) error

// HealthHandler reports dependency health
type HealthHandler struct {
	BaseHandler
	checks map[string]Checker
	order  []string
}

// NewHealthHandler creates a HealthHandler probing the database
func NewHealthHandler(database Checker) *HealthHandler {
	h := &HealthHandler{checks: make(map[string]Checker)}
	h.AddCheck("database", database)
	return h
}

// AddCheck registers an additional named probe
func (h *HealthHandler) AddCheck(name string, check Checker) *HealthHandler {
	if _, exists := h.checks[name]; !exists {
		h.order = append(h.order, name)
	}
	h.checks[name] = check
	return h
}

// HealthResponse represents the health check response
// @name HandlerHealthResponse
type HealthResponse struct {
	Status string            `json:"status" example:"healthy"`
	Time   string            `json:"time" example:"2026-01-23T12:00:00Z"`
	Checks map[string]string `json:"checks"`
}

// Check godoc
// @Summary      Health check
// @Description  Probes the database and, when configured, redis
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status: "healthy",
		Checks: make(map[string]string, len(h.order)),
	}
	status := http.StatusOK

	for _, name := range h.order {
		if err := h.checks[name](ctx); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			resp.Checks[name] = "error"
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	resp.Time = time.Now().Format(time.RFC3339)
	c.JSON(status, resp)
}
