package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"techmart/internal/apperrors"
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return fiber.StatusBadRequest
	case apperrors.KindAuth:
		return fiber.StatusUnauthorized
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindConflict, apperrors.KindInvalidTransition:
		return fiber.StatusConflict
	case apperrors.KindInsufficientStock:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// fail translates an error into the uniform {success:false, error:...}
// response. Internal errors are logged in full but surfaced generically so
// store details never leak to clients.
func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Printf("Internal error handling %s %s: %v", c.Method(), c.Path(), err)
		message = "something went wrong"
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// failValidation reports validator.v10 violations field by field.
func failValidation(c *fiber.Ctx, err error) error {
	fields := make(map[string]string)
	if violations, ok := err.(validator.ValidationErrors); ok {
		for _, v := range violations {
			fields[v.Field()] = "failed on the '" + v.Tag() + "' rule"
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   "validation failed",
		"fields":  fields,
	})
}

// badRequest reports an unparseable body.
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
