package utils

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// APIResponse describes the common structure for successful API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// ErrorResponse is the uniform error envelope returned by every endpoint.
type ErrorResponse struct {
	Status  int               `json:"status"`
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Path    string            `json:"path"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// SendSuccess sends a successful JSON response with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}

	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus sends a success payload using the provided HTTP status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError sends the error envelope with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	return SendErrorWithFields(c, status, message, nil)
}

// SendErrorWithFields sends the error envelope with a field-level error map,
// used for request validation failures.
func SendErrorWithFields(c *fiber.Ctx, status int, message string, fields map[string]string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(ErrorResponse{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
		Path:    c.Path(),
		Errors:  fields,
	})
}
