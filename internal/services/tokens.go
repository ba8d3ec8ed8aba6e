package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"accountd/internal/caching"
	"accountd/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const revokedKeyPrefix = "accountd:revoked_token:"

// TokenService issues and validates the session tokens the protected
// endpoints require. Revocation is tracked in the cache so deleting an
// account terminates its session immediately.
type TokenService interface {
	Issue(ctx context.Context, userID uuid.UUID) (*models.TokenResponse, error)
	Validate(ctx context.Context, token string) (uuid.UUID, error)
	Revoke(ctx context.Context, token string) error
}

type tokenService struct {
	cache  caching.CacheService
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(cache caching.CacheService, secret string, ttl time.Duration) TokenService {
	return &tokenService{
		cache:  cache,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *tokenService) Issue(ctx context.Context, userID uuid.UUID) (*models.TokenResponse, error) {
	now := s.now()
	tokenID := uuid.NewString()

	claims := jwt.RegisteredClaims{
		Issuer:    "accountd",
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        tokenID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.ttl.Seconds()),
		UserID:      userID.String(),
		TokenID:     tokenID,
		IssuedAt:    now,
	}, nil
}

func (s *tokenService) Validate(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := s.parse(token)
	if err != nil {
		return uuid.Nil, err
	}

	revoked, err := s.cache.GetString(ctx, revokedKeyPrefix+claims.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked != "" {
		return uuid.Nil, ErrSessionRevoked
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errors.New("invalid subject in session token")
	}
	return userID, nil
}

// Revoke denylists the token until its natural expiry.
func (s *tokenService) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}

	ttl := s.ttl
	if claims.ExpiresAt != nil {
		if remaining := claims.ExpiresAt.Sub(s.now()); remaining > 0 {
			ttl = remaining
		}
	}
	return s.cache.SetString(ctx, revokedKeyPrefix+claims.ID, "1", ttl)
}

func (s *tokenService) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("session token not valid")
	}
	return claims, nil
}
