package common

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey       contextKey = "user_id"
	SessionTokenKey contextKey = "session_token"
)

// GetUserIDFromContext extracts the authenticated user ID from the
// request context.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetSessionTokenFromContext extracts the raw bearer token the request
// authenticated with. Used to revoke the session on account deletion.
func GetSessionTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(SessionTokenKey).(string)
	return token, ok
}
