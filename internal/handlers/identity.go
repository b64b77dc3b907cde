package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"studio-backend/internal/models"
	"studio-backend/internal/services"
)

// PhotographerHeader carries the photographer record the client got at login.
const PhotographerHeader = "X-Photographer"

const localPhotographer = "photographer"

// IdentityMiddleware resolves the uploading photographer.
//
// A bearer token from login takes precedence and must verify. Without one the
// X-Photographer header is read; it is an unsigned record, so any caller who
// knows a photographer id can act as that photographer. Only existence is
// checked.
func IdentityMiddleware(userService *services.UserService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			p   *models.Photographer
			err error
		)

		if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return errorJSON(c, http.StatusUnauthorized, "Invalid or expired token")
			}
			p, err = userService.PhotographerFromToken(c.Context(), strings.TrimSpace(token))
		} else {
			raw := c.Get(PhotographerHeader)
			if raw == "" {
				return errorJSON(c, http.StatusForbidden, "Photographer ID required. Please login.")
			}

			var asserted struct {
				ID *int `json:"id"`
			}
			if err := json.Unmarshal([]byte(raw), &asserted); err != nil || asserted.ID == nil || *asserted.ID <= 0 {
				return errorJSON(c, http.StatusBadRequest, "Invalid photographer data")
			}
			p, err = userService.GetPhotographer(c.Context(), *asserted.ID)
		}

		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidToken):
				return errorJSON(c, http.StatusUnauthorized, "Invalid or expired token")
			case errors.Is(err, services.ErrPhotographerNotFound):
				return errorJSON(c, http.StatusNotFound, "Photographer not found")
			}
			log.Error().Err(err).Msg("error verifying photographer")
			return errorJSON(c, http.StatusInternalServerError, "Failed to verify photographer")
		}

		c.Locals(localPhotographer, p)
		return c.Next()
	}
}

// CurrentPhotographer returns the photographer set by IdentityMiddleware.
func CurrentPhotographer(c *fiber.Ctx) (*models.Photographer, bool) {
	p, ok := c.Locals(localPhotographer).(*models.Photographer)
	return p, ok && p != nil
}
