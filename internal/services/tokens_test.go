package services

import (
	"context"
	"testing"
	"time"

	"accountd/internal/caching"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestTokenService() TokenService {
	return NewTokenService(caching.NewMemoryCacheService(), "test-secret", time.Hour)
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	ctx := context.Background()
	svc := newTestTokenService()
	userID := uuid.New()

	resp, err := svc.Issue(ctx, userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, userID.String(), resp.UserID)

	validated, err := svc.Validate(ctx, resp.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, userID, validated)
}

func TestTokenService_ValidateGarbage(t *testing.T) {
	ctx := context.Background()
	svc := newTestTokenService()

	_, err := svc.Validate(ctx, "not-a-token")
	assert.Error(t, err)
}

func TestTokenService_ValidateWrongSecret(t *testing.T) {
	ctx := context.Background()
	cache := caching.NewMemoryCacheService()
	issuer := NewTokenService(cache, "secret-one", time.Hour)
	verifier := NewTokenService(cache, "secret-two", time.Hour)

	resp, err := issuer.Issue(ctx, uuid.New())
	assert.NoError(t, err)

	_, err = verifier.Validate(ctx, resp.AccessToken)
	assert.Error(t, err)
}

func TestTokenService_RevokedTokenRejected(t *testing.T) {
	ctx := context.Background()
	svc := newTestTokenService()
	userID := uuid.New()

	resp, err := svc.Issue(ctx, userID)
	assert.NoError(t, err)

	// Valid before revocation.
	_, err = svc.Validate(ctx, resp.AccessToken)
	assert.NoError(t, err)

	assert.NoError(t, svc.Revoke(ctx, resp.AccessToken))

	_, err = svc.Validate(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, ErrSessionRevoked)
}

func TestTokenService_RevokeDoesNotAffectOtherSessions(t *testing.T) {
	ctx := context.Background()
	svc := newTestTokenService()
	userID := uuid.New()

	first, err := svc.Issue(ctx, userID)
	assert.NoError(t, err)
	second, err := svc.Issue(ctx, userID)
	assert.NoError(t, err)

	assert.NoError(t, svc.Revoke(ctx, first.AccessToken))

	_, err = svc.Validate(ctx, first.AccessToken)
	assert.ErrorIs(t, err, ErrSessionRevoked)

	validated, err := svc.Validate(ctx, second.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, userID, validated)
}
