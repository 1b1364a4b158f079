package serverutils

import (
	"errors"

	"study-assistant-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the response envelope.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		if appErr, ok := AsAppError(err); ok {
			if appErr.Code >= fiber.StatusInternalServerError {
				log.Error("HTTP", appErr.Message, map[string]interface{}{
					"path":  ctx.Path(),
					"error": err.Error(),
				})
			}
			return ctx.Status(appErr.Code).JSON(ErrorResponse(appErr.Code, appErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"path":   ctx.Path(),
			"method": ctx.Method(),
			"error":  err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}
