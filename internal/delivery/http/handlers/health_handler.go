package handlers

import (
	"convert-mastery/internal/domain/dto"
	consts "convert-mastery/pkg/constants"

	"github.com/gofiber/fiber/v2"
)

// Health
//
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: consts.StatusOK})
}
