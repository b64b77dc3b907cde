package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"studio-backend/internal/metrics"
	"studio-backend/internal/models"
)

const MinPasswordLength = 6

var (
	ErrMissingFields        = errors.New("all fields are required")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrEmailExists          = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPhotographerNotFound = errors.New("photographer not found")
)

// PhotographerStore is the account store.
type PhotographerStore interface {
	Create(ctx context.Context, email, name, passwordHash string) (models.Photographer, error)
	FindByEmail(ctx context.Context, email string) (models.Photographer, error)
	FindByID(ctx context.Context, id int) (models.Photographer, error)
}

type UserService struct {
	store    PhotographerStore
	tokens   *TokenIssuer
	validate *validator.Validate
	log      zerolog.Logger
}

func NewUserService(store PhotographerStore, tokens *TokenIssuer, log zerolog.Logger) *UserService {
	return &UserService{
		store:    store,
		tokens:   tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With().Str("component", "user-service").Logger(),
	}
}

// Register validates the request in a fixed order and creates the account.
// Nothing is written unless the request passes every check.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.Photographer, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if err := s.validate.Struct(req); err != nil {
		return nil, ErrMissingFields
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	_, err := s.store.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, ErrEmailExists
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("lookup photographer: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	p, err := s.store.Create(ctx, req.Email, req.Name, string(hash))
	if err != nil {
		// Lost a race with a concurrent registration for the same email
		if errors.Is(err, models.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create photographer: %w", err)
	}

	metrics.RegistrationsTotal.Inc()
	s.log.Info().Int("photographer_id", p.ID).Msg("photographer registered")
	return &p, nil
}

// Login checks the password and issues a session token. Unknown email and
// wrong password both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, ErrMissingFields
	}

	p, err := s.store.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup photographer: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(p)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return &models.AuthResponse{
		Message:      "Login successful",
		Photographer: &p,
		Token:        token,
	}, nil
}

// GetPhotographer confirms an asserted identity still exists.
func (s *UserService) GetPhotographer(ctx context.Context, id int) (*models.Photographer, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrPhotographerNotFound
		}
		return nil, fmt.Errorf("lookup photographer %d: %w", id, err)
	}
	return &p, nil
}

// PhotographerFromToken resolves a login token to its photographer.
func (s *UserService) PhotographerFromToken(ctx context.Context, token string) (*models.Photographer, error) {
	id, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	return s.GetPhotographer(ctx, id)
}

// Seed creates the account unless the email is already registered.
// The bool reports whether a new account was created.
func (s *UserService) Seed(ctx context.Context, email, name, password string) (*models.Photographer, bool, error) {
	existing, err := s.store.FindByEmail(ctx, strings.TrimSpace(email))
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, fmt.Errorf("lookup photographer: %w", err)
	}

	p, err := s.Register(ctx, models.RegisterRequest{
		Email:           email,
		Name:            name,
		Password:        password,
		ConfirmPassword: password,
	})
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}
