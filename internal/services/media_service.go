package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/rs/zerolog"

	"studio-backend/internal/gateway"
	"studio-backend/internal/metrics"
	"studio-backend/internal/models"
)

// MediaStore is the image and video store.
type MediaStore interface {
	Create(ctx context.Context, kind models.MediaKind, url string, photographerID int) (models.Media, error)
	List(ctx context.Context, kind models.MediaKind) ([]models.Media, error)
	Exists(ctx context.Context, kind models.MediaKind, id int) (bool, error)
}

type MediaServiceConfig struct {
	Store         MediaStore
	Gateway       gateway.Gateway
	Publisher     Publisher
	UploadFolder  string
	UploadTimeout time.Duration
	Log           zerolog.Logger
}

type MediaService struct {
	store         MediaStore
	gateway       gateway.Gateway
	publisher     Publisher
	uploadFolder  string
	uploadTimeout time.Duration
	log           zerolog.Logger
}

func NewMediaService(config MediaServiceConfig) *MediaService {
	return &MediaService{
		store:         config.Store,
		gateway:       config.Gateway,
		publisher:     publisherOrNop(config.Publisher),
		uploadFolder:  config.UploadFolder,
		uploadTimeout: config.UploadTimeout,
		log:           config.Log.With().Str("component", "media-service").Logger(),
	}
}

// List returns every record of the kind with its owner, newest first.
func (s *MediaService) List(ctx context.Context, kind models.MediaKind) ([]models.Media, error) {
	items, err := s.store.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.Plural(), err)
	}
	return items, nil
}

type UploadInput struct {
	Photographer *models.Photographer
	Kind         models.MediaKind
	Filename     string
	ContentType  string
	Size         int64
	Body         io.Reader
}

// Upload forwards the file to the gateway and records the returned URL.
// The caller has already authenticated the photographer and checked the kind.
func (s *MediaService) Upload(ctx context.Context, in UploadInput) (*models.Media, error) {
	resource := gateway.ResourceAuto
	if in.Kind == models.KindVideo {
		resource = gateway.ResourceVideo
	}

	uploadCtx := ctx
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		uploadCtx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	url, err := s.gateway.Upload(uploadCtx, gateway.File{
		Name:        in.Filename,
		ContentType: in.ContentType,
		Size:        in.Size,
		Body:        in.Body,
	}, path.Join(s.uploadFolder, in.Kind.Plural()), resource)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(string(in.Kind), "gateway_error").Inc()
		return nil, err
	}

	media, err := s.store.Create(ctx, in.Kind, url, in.Photographer.ID)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(string(in.Kind), "store_error").Inc()
		s.log.Error().Err(err).Str("url", url).Msg("uploaded file has no media record")
		return nil, fmt.Errorf("record %s: %w", in.Kind, err)
	}

	metrics.UploadsTotal.WithLabelValues(string(in.Kind), "ok").Inc()
	if in.Size > 0 {
		metrics.UploadBytesTotal.WithLabelValues(string(in.Kind)).Add(float64(in.Size))
	}

	s.publisher.Publish(models.FeedEvent{
		Event: models.EventMediaCreated,
		Kind:  in.Kind,
		Media: &media,
	})

	return &media, nil
}
