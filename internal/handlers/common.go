package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/services"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/store"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/types"
)

// versionBody is the common mutation body fragment carrying the document
// revision the client based its change on. Zero means no staleness check.
type versionBody struct {
	Version types.FlexUint64 `json:"version"`
}

// HealthHandler handles the service health route.
type HealthHandler struct {
	Client   store.Client
	Sessions *gorm.DB
	MediaURL string
	Logger   *zap.Logger
}

// GetHealth handles GET /api/health
// @Summary Service health
// @Description Probe the document host and the local session database
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	result := services.HealthCheck(context.Background(), h.Client, h.Sessions, h.MediaURL, h.Logger)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
