package httpapi

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"doorman/internal/common"
)

// statusFor maps the error taxonomy to outward status codes. Anything
// outside the taxonomy is an internal failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrDuplicateEmail),
		errors.Is(err, common.ErrEmailInUse):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrPasswordMismatch),
		errors.Is(err, common.ErrUserNotFound),
		errors.Is(err, common.ErrTokenMissing),
		errors.Is(err, common.ErrTokenInvalid):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error response for err. Internal details never leak into
// the body.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Context(), "request failed", "err", err.Error())
		message = common.ErrorInternal.Error()
	}

	return c.Status(status).JSON(fiber.Map{"error": message})
}
