package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"studio-backend/internal/models"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenIssuer signs and verifies the session token handed out at login.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(p models.Photographer) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"photographer_id": p.ID,
		"email":           p.Email,
		"iat":             now.Unix(),
		"exp":             now.Add(t.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Validate returns the photographer id carried by a valid token.
func (t *TokenIssuer) Validate(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	// claims["photographer_id"] comes as float64 from JSON
	id, ok := claims["photographer_id"].(float64)
	if !ok || id <= 0 {
		return 0, ErrInvalidToken
	}

	return int(id), nil
}
