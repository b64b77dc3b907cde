package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"studio-backend/internal/models"
)

// MediaRepo stores images and videos. Both tables share one shape.
type MediaRepo struct {
	pool *pgxpool.Pool
}

func NewMediaRepo(pool *pgxpool.Pool) *MediaRepo {
	return &MediaRepo{pool: pool}
}

func tableFor(kind models.MediaKind) (string, error) {
	switch kind {
	case models.KindImage:
		return "images", nil
	case models.KindVideo:
		return "videos", nil
	}
	return "", fmt.Errorf("unknown media kind %q", kind)
}

func (r *MediaRepo) Create(ctx context.Context, kind models.MediaKind, url string, photographerID int) (models.Media, error) {
	table, err := tableFor(kind)
	if err != nil {
		return models.Media{}, err
	}

	m := models.Media{Kind: kind}
	err = r.pool.QueryRow(ctx, `
INSERT INTO `+table+` (url, photographer_id)
VALUES ($1, $2)
RETURNING id, url, photographer_id, created_at
`, url, photographerID).Scan(&m.ID, &m.URL, &m.PhotographerID, &m.CreatedAt)
	if err != nil {
		return models.Media{}, fmt.Errorf("insert %s: %w", kind, err)
	}

	return m, nil
}

func (r *MediaRepo) List(ctx context.Context, kind models.MediaKind) ([]models.Media, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT m.id, m.url, m.photographer_id, m.created_at, p.name, p.email
FROM `+table+` AS m
	INNER JOIN photographers AS p ON p.id = m.photographer_id
ORDER BY m.created_at DESC, m.id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	items := make([]models.Media, 0)
	for rows.Next() {
		m := models.Media{Kind: kind, Photographer: &models.PhotographerSummary{}}
		if err := rows.Scan(&m.ID, &m.URL, &m.PhotographerID, &m.CreatedAt, &m.Photographer.Name, &m.Photographer.Email); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}

	return items, nil
}

func (r *MediaRepo) Exists(ctx context.Context, kind models.MediaKind, id int) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s %d: %w", kind, id, err)
	}

	return exists, nil
}
