package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"studio-backend/internal/models"
	"studio-backend/internal/services"
)

// RegisterHandler creates a photographer account
func RegisterHandler(userService *services.UserService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "Invalid request")
		}

		p, err := userService.Register(c.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMissingFields):
				return errorJSON(c, http.StatusBadRequest, "All fields are required")
			case errors.Is(err, services.ErrPasswordMismatch):
				return errorJSON(c, http.StatusBadRequest, "Passwords do not match")
			case errors.Is(err, services.ErrPasswordTooShort):
				return errorJSON(c, http.StatusBadRequest, "Password must be at least 6 characters")
			case errors.Is(err, services.ErrEmailExists):
				return errorJSON(c, http.StatusBadRequest, "Email already registered")
			}
			log.Error().Err(err).Msg("registration error")
			return errorJSON(c, http.StatusInternalServerError, "Registration failed")
		}

		return c.Status(http.StatusCreated).JSON(models.AuthResponse{
			Message:      "Registration successful",
			Photographer: p,
		})
	}
}

// LoginHandler checks credentials and returns the photographer with a session token
func LoginHandler(userService *services.UserService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "Invalid request")
		}

		res, err := userService.Login(c.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMissingFields):
				return errorJSON(c, http.StatusBadRequest, "Email and password are required")
			case errors.Is(err, services.ErrInvalidCredentials):
				return errorJSON(c, http.StatusUnauthorized, "Invalid email or password")
			}
			log.Error().Err(err).Msg("login error")
			return errorJSON(c, http.StatusInternalServerError, "Login failed")
		}

		return c.JSON(res)
	}
}
