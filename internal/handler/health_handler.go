package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Pinger is the part of the database pool the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the booking system can reach its database.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a HealthHandler backed by the given database pool.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check pings the database with a short timeout. Returns 200 with
// {"status": "healthy"} when the database answers, 503 otherwise.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("health check failed: database unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "unhealthy",
			"service": "booking-system",
			"error":   "database connection failed",
		})
	}
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "booking-system",
	})
}
