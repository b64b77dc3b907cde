package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-backend/internal/fakes"
	"studio-backend/internal/models"
	"studio-backend/internal/services"
)

func newUserService(store services.PhotographerStore) *services.UserService {
	return services.NewUserService(store, services.NewTokenIssuer("test-secret", time.Hour), zerolog.Nop())
}

func validRegistration() models.RegisterRequest {
	return models.RegisterRequest{
		Email:           "a@x.com",
		Name:            "A",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.RegisterRequest)
		want   error
	}{
		{"missing email", func(r *models.RegisterRequest) { r.Email = "" }, services.ErrMissingFields},
		{"blank name", func(r *models.RegisterRequest) { r.Name = "   " }, services.ErrMissingFields},
		{"missing confirmation", func(r *models.RegisterRequest) { r.ConfirmPassword = "" }, services.ErrMissingFields},
		{"mismatch", func(r *models.RegisterRequest) { r.ConfirmPassword = "secret2" }, services.ErrPasswordMismatch},
		{"too short", func(r *models.RegisterRequest) { r.Password, r.ConfirmPassword = "abc", "abc" }, services.ErrPasswordTooShort},
		{"short and mismatched reports mismatch first", func(r *models.RegisterRequest) { r.Password, r.ConfirmPassword = "abc", "abd" }, services.ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := fakes.NewPhotographerStore()
			svc := newUserService(store)

			req := validRegistration()
			tt.mutate(&req)

			_, err := svc.Register(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, store.Creates, "no write may happen on a rejected registration")
		})
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	store := fakes.NewPhotographerStore()
	svc := newUserService(store)

	p, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", p.Email)
	assert.Equal(t, "A", p.Name)

	stored, err := store.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := fakes.NewPhotographerStore()
	svc := newUserService(store)

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, services.ErrEmailExists)
	assert.Equal(t, 1, store.Count())
}

// racingStore hides existing accounts from the pre-check, as a concurrent
// registration would, so the duplicate is only caught on insert.
type racingStore struct {
	*fakes.PhotographerStore
}

func (racingStore) FindByEmail(context.Context, string) (models.Photographer, error) {
	return models.Photographer{}, models.ErrNotFound
}

func TestRegisterDuplicateCaughtOnInsert(t *testing.T) {
	inner := fakes.NewPhotographerStore()
	svc := newUserService(racingStore{inner})

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, services.ErrEmailExists)
	assert.Equal(t, 1, inner.Count())
}

func TestRegisterStoreFailure(t *testing.T) {
	store := fakes.NewPhotographerStore()
	store.Err = fakes.ErrStore
	svc := newUserService(store)

	_, err := svc.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, fakes.ErrStore)
}

func TestLogin(t *testing.T) {
	store := fakes.NewPhotographerStore()
	svc := newUserService(store)

	created, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", res.Message)
	assert.Equal(t, created.ID, res.Photographer.ID)
	assert.NotEmpty(t, res.Token)

	p, err := svc.PhotographerFromToken(context.Background(), res.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, p.ID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	store := fakes.NewPhotographerStore()
	svc := newUserService(store)

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, wrongPassword := svc.Login(context.Background(), models.LoginRequest{Email: "a@x.com", Password: "wrong"})
	_, unknownEmail := svc.Login(context.Background(), models.LoginRequest{Email: "b@x.com", Password: "secret1"})

	assert.ErrorIs(t, wrongPassword, services.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, services.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginMissingFields(t *testing.T) {
	svc := newUserService(fakes.NewPhotographerStore())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "a@x.com"})
	assert.ErrorIs(t, err, services.ErrMissingFields)
}

func TestGetPhotographer(t *testing.T) {
	store := fakes.NewPhotographerStore()
	svc := newUserService(store)

	created, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	p, err := svc.GetPhotographer(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", p.Email)

	_, err = svc.GetPhotographer(context.Background(), 999)
	assert.ErrorIs(t, err, services.ErrPhotographerNotFound)
}

func TestSeedIsIdempotent(t *testing.T) {
	store := fakes.NewPhotographerStore()
	svc := newUserService(store)

	first, created, err := svc.Seed(context.Background(), "studio@x.com", "Studio", "Studio123")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.Seed(context.Background(), "studio@x.com", "Studio", "other-password")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.Count())
}
