package serverutils

import (
	"errors"

	"career-mentor-be/internal/pkg/logger"
	"career-mentor-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON
// envelope with a status matching the error kind.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := statusFor(err)
		res := ErrorResponse(code, message)

		var verr *ValidationError
		if errors.As(err, &verr) {
			res.Errors = verr.Fields
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"status": code,
				"error":  err.Error(),
			})
		}

		return ctx.Status(code).JSON(res)
	}
}

func statusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case apperror.IsInvalidInput(err):
		return fiber.StatusBadRequest, err.Error()
	case apperror.IsNotFound(err):
		return fiber.StatusNotFound, err.Error()
	case apperror.IsStoreUnavailable(err):
		return fiber.StatusServiceUnavailable, "storage is temporarily unavailable"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
