package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studio-backend/internal/models"
)

type ReviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

func (r *ReviewRepo) Create(ctx context.Context, review models.Review) (models.Review, error) {
	out := models.Review{}
	err := r.pool.QueryRow(ctx, `
INSERT INTO reviews (content, name, rating, image_id, video_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, content, name, rating, image_id, video_id, created_at
`, review.Content, review.Name, review.Rating, review.ImageID, review.VideoID).Scan(
		&out.ID, &out.Content, &out.Name, &out.Rating, &out.ImageID, &out.VideoID, &out.CreatedAt,
	)
	if err != nil {
		return models.Review{}, fmt.Errorf("insert review: %w", err)
	}

	return out, nil
}

func (r *ReviewRepo) List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error) {
	query := `
SELECT id, content, name, rating, image_id, video_id, created_at
FROM reviews
`
	var args []any
	switch {
	case filter.ImageID != nil:
		query += "WHERE image_id = $1\n"
		args = append(args, *filter.ImageID)
	case filter.VideoID != nil:
		query += "WHERE video_id = $1\n"
		args = append(args, *filter.VideoID)
	}
	query += "ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	reviews, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Review, error) {
		var rv models.Review
		err := row.Scan(&rv.ID, &rv.Content, &rv.Name, &rv.Rating, &rv.ImageID, &rv.VideoID, &rv.CreatedAt)
		return rv, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan reviews: %w", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	return reviews, nil
}
