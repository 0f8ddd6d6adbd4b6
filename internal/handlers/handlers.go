package handlers

import (
	"errors"

	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// statusFromError maps domain errors onto HTTP statuses. Validation-style
// failures are 400, ownership failures 403, missing resources 404, state
// conflicts 409; anything unrecognized is a generic 500.
func statusFromError(err error) int {
	var stockErr *services.InsufficientStockError
	switch {
	case errors.As(err, &stockErr),
		errors.Is(err, services.ErrInvalidAddress),
		errors.Is(err, services.ErrProductUnavailable),
		errors.Is(err, services.ErrVariantUnavailable):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrNotCancellable),
		errors.Is(err, services.ErrInvalidTransition):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes the standard error envelope.
func fail(c *fiber.Ctx, err error, message string) error {
	return c.Status(statusFromError(err)).JSON(fiber.Map{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}

// pagination extracts page/limit query params with the usual defaults.
func pagination(c *fiber.Ctx) (page, limit, offset int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit, (page - 1) * limit
}

// paginationMeta is the envelope slice metadata for list responses.
func paginationMeta(page, limit int, total int64) fiber.Map {
	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return fiber.Map{
		"current_page":   page,
		"total_pages":    totalPages,
		"total_items":    total,
		"items_per_page": limit,
	}
}
