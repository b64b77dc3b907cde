package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL overrides the endpoint when building object URLs, e.g. a CDN.
	PublicURL string
}

// MinioGateway stores uploads in an S3-compatible bucket.
type MinioGateway struct {
	client    *minio.Client
	bucket    string
	publicURL string
	log       zerolog.Logger

	// ready is set once the bucket is known to exist. Failures are not
	// remembered, so the next call checks again.
	mu    sync.Mutex
	ready bool
}

func NewMinioClient(cfg MinioConfig) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	return client, nil
}

func NewMinioGateway(client *minio.Client, cfg MinioConfig, log zerolog.Logger) *MinioGateway {
	publicURL := strings.TrimRight(strings.TrimSpace(cfg.PublicURL), "/")
	if publicURL == "" && client != nil {
		publicURL = strings.TrimRight(client.EndpointURL().String(), "/")
	}

	return &MinioGateway{
		client:    client,
		bucket:    strings.TrimSpace(cfg.Bucket),
		publicURL: publicURL,
		log:       log.With().Str("component", "minio-gateway").Logger(),
	}
}

// EnsureBucket creates the bucket if it is missing. After the first success it
// is a no-op; after a failure the next call tries again.
func (g *MinioGateway) EnsureBucket(ctx context.Context) error {
	if g.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	if g.bucket == "" {
		return fmt.Errorf("s3 bucket is empty")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ready {
		return nil
	}

	exists, err := g.client.BucketExists(ctx, g.bucket)
	if err != nil {
		return fmt.Errorf("ensure s3 bucket %q: %w", g.bucket, err)
	}
	if !exists {
		g.log.Info().Str("bucket", g.bucket).Msg("creating bucket")
		if err := g.client.MakeBucket(ctx, g.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("ensure s3 bucket %q: %w", g.bucket, err)
		}
	}

	g.ready = true
	return nil
}

func (g *MinioGateway) Upload(ctx context.Context, file File, folder string, resource ResourceKind) (string, error) {
	if err := g.EnsureBucket(ctx); err != nil {
		return "", err
	}

	contentType, body, err := sniff(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	key := objectKey(folder, file.Name, contentType)
	size := file.Size
	if size <= 0 {
		size = -1
	}

	_, err = g.client.PutObject(ctx, g.bucket, key, body, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"resource-type": string(resource)},
	})
	if err != nil {
		return "", fmt.Errorf("put object to s3: %w", err)
	}

	g.log.Debug().Str("key", key).Str("content_type", contentType).Msg("uploaded object")
	return g.objectURL(key), nil
}

func (g *MinioGateway) objectURL(key string) string {
	return g.publicURL + "/" + url.PathEscape(g.bucket) + "/" + key
}
