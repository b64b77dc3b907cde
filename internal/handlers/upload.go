package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"studio-backend/internal/models"
	"studio-backend/internal/services"
)

// UploadHandler forwards a multipart "file" to the upload gateway and records it
// as an image or video owned by the photographer from IdentityMiddleware.
func UploadHandler(mediaService *services.MediaService, maxBytes int64, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := CurrentPhotographer(c)
		if !ok {
			return errorJSON(c, http.StatusForbidden, "Photographer ID required. Please login.")
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "File is required")
		}

		kindValue := c.FormValue("type")
		if kindValue == "" {
			kindValue = string(models.KindImage)
		}
		kind, ok := models.ParseMediaKind(kindValue)
		if !ok {
			return errorJSON(c, http.StatusBadRequest, "Invalid media type. Must be 'image' or 'video'")
		}

		if maxBytes > 0 && fileHeader.Size > maxBytes {
			return errorJSON(c, http.StatusRequestEntityTooLarge, "File too large")
		}

		src, err := fileHeader.Open()
		if err != nil {
			log.Error().Err(err).Msg("failed to read uploaded file")
			return errorJSON(c, http.StatusInternalServerError, "Upload failed")
		}
		defer src.Close()

		media, err := mediaService.Upload(c.Context(), services.UploadInput{
			Photographer: p,
			Kind:         kind,
			Filename:     fileHeader.Filename,
			ContentType:  fileHeader.Header.Get(fiber.HeaderContentType),
			Size:         fileHeader.Size,
			Body:         src,
		})
		if err != nil {
			log.Error().Err(err).Int("photographer_id", p.ID).Str("kind", string(kind)).Msg("upload error")
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
				"message": "Upload failed",
				"error":   err.Error(),
			})
		}

		return c.Status(http.StatusCreated).JSON(media)
	}
}
