package handler

import (
	"go-pos-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type ProductHandler struct {
	catalog service.CatalogService
	log     zerolog.Logger
}

func NewProductHandler(catalog service.CatalogService, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, log: log}
}

// GetProducts handles GET /api/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.catalog.GetProducts()
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

// GetProduct handles GET /api/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.catalog.GetProduct(id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.catalog.CreateProduct(&req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// UpdateProduct handles PUT /api/products/:id. A body carrying "amount" is a
// back-room restock; anything else is a partial field update. The two paths
// validate independently.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var body struct {
		service.UpdateProductRequest
		Amount *int `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if body.Amount != nil {
		product, err := h.catalog.RestockStock(id, *body.Amount)
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(product)
	}

	product, err := h.catalog.UpdateProduct(id, &body.UpdateProductRequest)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}

// RestockForSale handles PATCH /api/products/:id, moving units from back-room
// stock into sale availability.
func (h *ProductHandler) RestockForSale(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var body struct {
		Amount *int `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if body.Amount == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Amount is required"})
	}

	product, err := h.catalog.RestockForSale(id, *body.Amount)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}

// DeleteProduct handles DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.catalog.DeleteProduct(id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
