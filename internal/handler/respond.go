package handler

import (
	"errors"
	"strconv"
	"time"

	"go-pos-backend/internal/service"
	"go-pos-backend/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// respondError maps the service error taxonomy onto HTTP statuses. Unknown
// errors are logged and surfaced as a generic 500.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrInsufficientSaleStock),
		errors.Is(err, service.ErrProductHasSales):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrProductNameTaken),
		errors.Is(err, service.ErrUsernameTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, token.ErrNoSecret):
		log.Error().Err(err).Str("path", c.Path()).Msg("session secret missing")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})

	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}

// parseID parses a numeric path id; non-numeric input is a 400 at the caller.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDateQuery accepts RFC3339 or bare YYYY-MM-DD query bounds; an empty
// value means the bound is open.
func parseDateQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("invalid date: " + raw)
}
