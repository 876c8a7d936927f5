package middlewares

import (
	"errors"
	"log"

	"hotel-backend/models"
	"hotel-backend/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
//
// Taxonomy: validation errors surface as 422 with field info, conflicts
// (double-booking or duplicate-number races caught by storage constraints)
// as 409 retryable, referential protection as 409 with a friendly message,
// not-found as 404, unimplemented as 501. Anything else is a sanitized 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Fiber errors (use their status code + message)
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 2) Validation errors (422 + per-field info)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	// 3) Domain validation errors
	switch {
	case errors.Is(err, models.ErrInvalidDateRange),
		errors.Is(err, models.ErrRoomUnavailable),
		errors.Is(err, models.ErrMissingSeasonTarget):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, services.ErrAlreadyClosed):
		// Re-closing a closed day is a warning, not a failure; nothing moved.
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"level":   "warning",
			"message": err.Error(),
		})
	case errors.Is(err, models.ErrInvoiceLocked):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, models.ErrNotImplemented):
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not found"})
	}

	// 4) Storage constraint violations
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23P01": // unique_violation, exclusion_violation
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "conflicting concurrent change, please try again",
			})
		case "23503": // foreign_key_violation
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "cannot delete, record is still referenced",
			})
		}
	}

	// 5) Unknown errors (500)
	log.Printf("internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}
