package serverutils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// AppError is an error with a status code and a message safe to show to clients.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string, err error) *AppError {
	return newAppError(fiber.StatusBadRequest, message, err)
}

func Unauthorized(message string) *AppError {
	return newAppError(fiber.StatusUnauthorized, message, nil)
}

func NotFound(message string, err error) *AppError {
	return newAppError(fiber.StatusNotFound, message, err)
}

func Conflict(message string, err error) *AppError {
	return newAppError(fiber.StatusConflict, message, err)
}

func Unprocessable(message string, err error) *AppError {
	return newAppError(fiber.StatusUnprocessableEntity, message, err)
}

func Internal(message string, err error) *AppError {
	return newAppError(fiber.StatusInternalServerError, message, err)
}

// AsAppError unwraps err to an *AppError if there is one in its chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
