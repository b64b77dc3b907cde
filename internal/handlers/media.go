package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"studio-backend/internal/models"
	"studio-backend/internal/services"
)

// ListMediaHandler returns every image or video with its owner, newest first
func ListMediaHandler(mediaService *services.MediaService, kind models.MediaKind, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := mediaService.List(c.Context(), kind)
		if err != nil {
			log.Error().Err(err).Str("kind", string(kind)).Msg("error fetching media")
			return errorJSON(c, http.StatusInternalServerError, "Failed to fetch "+kind.Plural())
		}
		return c.JSON(items)
	}
}
