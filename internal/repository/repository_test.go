package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-backend/internal/db"
	"studio-backend/internal/models"
	"studio-backend/internal/repository"
)

// newTestPool migrates the database named by DATABASE_URL and empties every
// table. Tests using it are skipped when DATABASE_URL is unset.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	log := zerolog.Nop()
	require.NoError(t, db.Migrate(dsn, log))

	pool, err := db.InitDB(context.Background(), dsn, db.PoolOptions{MaxConns: 4}, log)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), `TRUNCATE reviews, images, videos, photographers RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return pool
}

func intPtr(v int) *int { return &v }

func TestPhotographerRepo(t *testing.T) {
	pool := newTestPool(t)
	repo := repository.NewPhotographerRepo(pool)
	ctx := context.Background()

	p, err := repo.Create(ctx, "a@x.com", "A", "hash")
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	_, err = repo.Create(ctx, "a@x.com", "Other", "hash2")
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)

	byEmail, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", byID.Name)

	_, err = repo.FindByEmail(ctx, "ghost@x.com")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.FindByID(ctx, p.ID+100)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMediaRepo(t *testing.T) {
	pool := newTestPool(t)
	photographers := repository.NewPhotographerRepo(pool)
	repo := repository.NewMediaRepo(pool)
	ctx := context.Background()

	items, err := repo.List(ctx, models.KindImage)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	owner, err := photographers.Create(ctx, "a@x.com", "A", "hash")
	require.NoError(t, err)

	first, err := repo.Create(ctx, models.KindImage, "https://media.test/1.jpg", owner.ID)
	require.NoError(t, err)
	second, err := repo.Create(ctx, models.KindImage, "https://media.test/2.jpg", owner.ID)
	require.NoError(t, err)
	_, err = repo.Create(ctx, models.KindVideo, "https://media.test/1.mp4", owner.ID)
	require.NoError(t, err)

	items, err = repo.List(ctx, models.KindImage)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
	require.NotNil(t, items[0].Photographer)
	assert.Equal(t, "A", items[0].Photographer.Name)
	assert.Equal(t, "a@x.com", items[0].Photographer.Email)

	videos, err := repo.List(ctx, models.KindVideo)
	require.NoError(t, err)
	assert.Len(t, videos, 1)

	exists, err := repo.Exists(ctx, models.KindImage, first.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, models.KindVideo, second.ID+100)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.Create(ctx, models.KindImage, "https://media.test/x.jpg", owner.ID+100)
	assert.Error(t, err)
}

func TestReviewRepo(t *testing.T) {
	pool := newTestPool(t)
	photographers := repository.NewPhotographerRepo(pool)
	media := repository.NewMediaRepo(pool)
	repo := repository.NewReviewRepo(pool)
	ctx := context.Background()

	reviews, err := repo.List(ctx, models.ReviewFilter{})
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)

	owner, err := photographers.Create(ctx, "a@x.com", "A", "hash")
	require.NoError(t, err)
	image, err := media.Create(ctx, models.KindImage, "https://media.test/1.jpg", owner.ID)
	require.NoError(t, err)
	video, err := media.Create(ctx, models.KindVideo, "https://media.test/1.mp4", owner.ID)
	require.NoError(t, err)

	for _, r := range []models.Review{
		{Content: "testimonial", Name: "Anonymous", Rating: 5},
		{Content: "older", Name: "Bo", Rating: 4, ImageID: intPtr(image.ID)},
		{Content: "newer", Name: "Cy", Rating: 1, ImageID: intPtr(image.ID)},
		{Content: "clip", Name: "Di", Rating: 3, VideoID: intPtr(video.ID)},
	} {
		_, err := repo.Create(ctx, r)
		require.NoError(t, err)
	}

	reviews, err = repo.List(ctx, models.ReviewFilter{ImageID: intPtr(image.ID)})
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "newer", reviews[0].Content)
	assert.Equal(t, "older", reviews[1].Content)
	require.NotNil(t, reviews[0].ImageID)
	assert.Equal(t, image.ID, *reviews[0].ImageID)
	assert.Nil(t, reviews[0].VideoID)

	reviews, err = repo.List(ctx, models.ReviewFilter{VideoID: intPtr(video.ID)})
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "clip", reviews[0].Content)

	reviews, err = repo.List(ctx, models.ReviewFilter{ImageID: intPtr(image.ID + 100)})
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)

	reviews, err = repo.List(ctx, models.ReviewFilter{})
	require.NoError(t, err)
	require.Len(t, reviews, 4)
	assert.Equal(t, "clip", reviews[0].Content)
	assert.Equal(t, "testimonial", reviews[3].Content)

	// Schema constraints back up the service rules.
	_, err = repo.Create(ctx, models.Review{Content: "x", Name: "x", Rating: 9})
	assert.Error(t, err)
	_, err = repo.Create(ctx, models.Review{Content: "x", Name: "x", Rating: 5, ImageID: intPtr(image.ID), VideoID: intPtr(video.ID)})
	assert.Error(t, err)
}
