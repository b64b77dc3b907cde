package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"studio-backend/internal/models"
	"studio-backend/internal/services"
)

// CreateReviewHandler stores a testimonial or a review of one image or video
func CreateReviewHandler(reviewService *services.ReviewService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateReviewRequest
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "Invalid request")
		}

		review, err := reviewService.Create(c.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrContentRequired):
				return errorJSON(c, http.StatusBadRequest, "Review content is required")
			case errors.Is(err, services.ErrAmbiguousTarget):
				return errorJSON(c, http.StatusBadRequest, "Provide either imageId or videoId, not both")
			case errors.Is(err, services.ErrImageNotFound):
				return errorJSON(c, http.StatusNotFound, "Image not found")
			case errors.Is(err, services.ErrVideoNotFound):
				return errorJSON(c, http.StatusNotFound, "Video not found")
			}
			log.Error().Err(err).Msg("review creation error")
			return errorJSON(c, http.StatusInternalServerError, "Failed to create review")
		}

		return c.Status(http.StatusCreated).JSON(review)
	}
}

// ListReviewsHandler lists reviews for ?imageId= or ?videoId=, or all of them
func ListReviewsHandler(reviewService *services.ReviewService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter models.ReviewFilter

		if raw := c.Query("imageId"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				return errorJSON(c, http.StatusBadRequest, "Invalid imageId")
			}
			filter.ImageID = &id
		} else if raw := c.Query("videoId"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				return errorJSON(c, http.StatusBadRequest, "Invalid videoId")
			}
			filter.VideoID = &id
		}

		reviews, err := reviewService.List(c.Context(), filter)
		if err != nil {
			log.Error().Err(err).Msg("review retrieval error")
			return errorJSON(c, http.StatusInternalServerError, "Failed to retrieve reviews")
		}

		return c.JSON(reviews)
	}
}
