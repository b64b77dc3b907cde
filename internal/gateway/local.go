package gateway

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// LocalGateway writes uploads under a directory that the API serves at /uploads.
type LocalGateway struct {
	dir     string
	baseURL string
	log     zerolog.Logger
}

func NewLocalGateway(dir, baseURL string, log zerolog.Logger) (*LocalGateway, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	return &LocalGateway{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log.With().Str("component", "local-gateway").Logger(),
	}, nil
}

func (g *LocalGateway) Upload(ctx context.Context, file File, folder string, resource ResourceKind) (string, error) {
	contentType, body, err := sniff(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	key := objectKey(folder, file.Name, contentType)
	destPath := filepath.Join(g.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(dest, &ctxReader{ctx: ctx, r: body}); err != nil {
		dest.Close()
		_ = os.Remove(destPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := dest.Close(); err != nil {
		_ = os.Remove(destPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	g.log.Debug().Str("path", destPath).Str("resource", string(resource)).Msg("stored upload")

	// Served from /uploads
	return g.baseURL + path.Join("/uploads", key), nil
}

// ctxReader stops a copy once the context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
