package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"studio-backend/internal/models"
)

const uniqueViolation = "23505"

type PhotographerRepo struct {
	pool *pgxpool.Pool
}

func NewPhotographerRepo(pool *pgxpool.Pool) *PhotographerRepo {
	return &PhotographerRepo{pool: pool}
}

func (r *PhotographerRepo) Create(ctx context.Context, email, name, passwordHash string) (models.Photographer, error) {
	p := models.Photographer{PasswordHash: passwordHash}
	err := r.pool.QueryRow(ctx, `
INSERT INTO photographers (email, name, password)
VALUES ($1, $2, $3)
RETURNING id, email, name, created_at
`, email, name, passwordHash).Scan(&p.ID, &p.Email, &p.Name, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.Photographer{}, models.ErrDuplicateEmail
		}
		return models.Photographer{}, fmt.Errorf("insert photographer: %w", err)
	}

	return p, nil
}

func (r *PhotographerRepo) FindByEmail(ctx context.Context, email string) (models.Photographer, error) {
	return r.findOne(ctx, `
SELECT id, email, name, password, created_at
FROM photographers
WHERE email = $1
`, email)
}

func (r *PhotographerRepo) FindByID(ctx context.Context, id int) (models.Photographer, error) {
	return r.findOne(ctx, `
SELECT id, email, name, password, created_at
FROM photographers
WHERE id = $1
`, id)
}

func (r *PhotographerRepo) findOne(ctx context.Context, query string, arg any) (models.Photographer, error) {
	var p models.Photographer
	err := r.pool.QueryRow(ctx, query, arg).Scan(&p.ID, &p.Email, &p.Name, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Photographer{}, models.ErrNotFound
		}
		return models.Photographer{}, fmt.Errorf("find photographer: %w", err)
	}

	return p, nil
}
