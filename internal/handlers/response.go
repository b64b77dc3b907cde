package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// errorJSON writes the {"message": ...} body the web client shows verbatim.
func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"message": message})
}

// ErrorHandler renders errors returned from handlers and middleware in the same shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		message = fe.Message
	}

	return errorJSON(c, status, message)
}
