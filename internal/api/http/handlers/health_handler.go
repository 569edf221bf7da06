package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portfolio-api/internal/api/response"
	"github.com/spec-kit/portfolio-api/internal/persistence"
)

// HealthHandler reports liveness and readiness.
type HealthHandler struct {
	postgres *persistence.Postgres
	redis    *persistence.Redis
}

// NewHealthHandler constructs handler.
func NewHealthHandler(pg *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{postgres: pg, redis: redis}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return response.JSON(c, http.StatusOK, "alive", nil)
}

// Ready handles GET /health/ready, pinging both stores.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{"postgres": "ok", "redis": "ok"}
	status := http.StatusOK

	if h.postgres == nil || h.postgres.Pool == nil {
		checks["postgres"] = "not configured"
		status = http.StatusServiceUnavailable
	} else if err := h.postgres.Pool.Ping(c.UserContext()); err != nil {
		checks["postgres"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	if err := h.redis.Ping(c.UserContext()); err != nil {
		checks["redis"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	message := "ready"
	if status != http.StatusOK {
		message = "not ready"
	}
	return response.JSON(c, status, message, checks)
}
