package handler

import (
	"go-pos-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type SaleHandler struct {
	sales service.SalesService
	log   zerolog.Logger
}

func NewSaleHandler(sales service.SalesService, log zerolog.Logger) *SaleHandler {
	return &SaleHandler{sales: sales, log: log}
}

// GetSales handles GET /api/sales?startDate&endDate
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	start, err := parseDateQuery(c.Query("startDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	end, err := parseDateQuery(c.Query("endDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sales, err := h.sales.GetSales(start, end)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(sales)
}

// RecordSale handles POST /api/sales
func (h *SaleHandler) RecordSale(c *fiber.Ctx) error {
	var req service.RecordSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.sales.RecordSale(&req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}
