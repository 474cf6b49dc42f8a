package presenters

import (
	"NativeRecipe-Backend/domain"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Success: false,
		Message: message,
	}
	if err != nil {
		res.Error = domain.MessageOf(err)
	}
	return c.Status(statusCode).JSON(res)
}

// DomainErrorResponse picks the status from the error kind and attaches any
// payload carried by the error.
func DomainErrorResponse(c *fiber.Ctx, message string, err error) error {
	return c.Status(domain.KindOf(err).HTTPStatus()).JSON(Response{
		Success: false,
		Message: message,
		Data:    domain.DataOf(err),
		Error:   domain.MessageOf(err),
	})
}
