package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"studio-backend/internal/metrics"
	"studio-backend/internal/models"
)

var (
	ErrContentRequired = errors.New("review content is required")
	ErrAmbiguousTarget = errors.New("provide either imageId or videoId, not both")
	ErrImageNotFound   = errors.New("image not found")
	ErrVideoNotFound   = errors.New("video not found")
)

// ReviewStore is the review store.
type ReviewStore interface {
	Create(ctx context.Context, review models.Review) (models.Review, error)
	List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error)
}

type ReviewService struct {
	reviews   ReviewStore
	media     MediaStore
	publisher Publisher
	log       zerolog.Logger
}

func NewReviewService(reviews ReviewStore, media MediaStore, publisher Publisher, log zerolog.Logger) *ReviewService {
	return &ReviewService{
		reviews:   reviews,
		media:     media,
		publisher: publisherOrNop(publisher),
		log:       log.With().Str("component", "review-service").Logger(),
	}
}

// ClampRating maps an optional rating onto [1,5], defaulting to 5.
func ClampRating(r models.LooseInt) int {
	if !r.Set {
		return models.DefaultRating
	}
	return min(max(r.Value, models.MinRating), models.MaxRating)
}

// Create stores a review, attached to at most one media item.
func (s *ReviewService) Create(ctx context.Context, req models.CreateReviewRequest) (*models.Review, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		content = strings.TrimSpace(req.Text)
	}
	if content == "" {
		return nil, ErrContentRequired
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = models.DefaultReviewerName
	}

	imageID, videoID := req.ImageID.ID(), req.VideoID.ID()
	if imageID != nil && videoID != nil {
		return nil, ErrAmbiguousTarget
	}

	target := "testimonial"
	if imageID != nil {
		target = "image"
		if err := s.ensureExists(ctx, models.KindImage, *imageID, ErrImageNotFound); err != nil {
			return nil, err
		}
	}
	if videoID != nil {
		target = "video"
		if err := s.ensureExists(ctx, models.KindVideo, *videoID, ErrVideoNotFound); err != nil {
			return nil, err
		}
	}

	review, err := s.reviews.Create(ctx, models.Review{
		Content: content,
		Name:    name,
		Rating:  ClampRating(req.Rating),
		ImageID: imageID,
		VideoID: videoID,
	})
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	metrics.ReviewsTotal.WithLabelValues(target).Inc()
	s.publisher.Publish(models.FeedEvent{
		Event:  models.EventReviewCreated,
		Review: &review,
	})

	return &review, nil
}

func (s *ReviewService) ensureExists(ctx context.Context, kind models.MediaKind, id int, notFound error) error {
	exists, err := s.media.Exists(ctx, kind, id)
	if err != nil {
		return fmt.Errorf("check %s %d: %w", kind, id, err)
	}
	if !exists {
		return notFound
	}
	return nil
}

// List returns reviews for one media item when the filter names one, otherwise all reviews. Newest first.
func (s *ReviewService) List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error) {
	reviews, err := s.reviews.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
