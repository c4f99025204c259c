package handler

import (
	"go-pos-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type StatsHandler struct {
	stats service.StatsService
	log   zerolog.Logger
}

func NewStatsHandler(stats service.StatsService, log zerolog.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, log: log}
}

// GetStats handles GET /api/stats?period&startDate&endDate
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	start, err := parseDateQuery(c.Query("startDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	end, err := parseDateQuery(c.Query("endDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	stats, err := h.stats.GetStats(c.Query("period", "daily"), start, end)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(stats)
}
