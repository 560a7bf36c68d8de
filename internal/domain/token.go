package domain

import (
	"context"
	"errors"
	"time"
)

// ErrTokenNotFound is returned when no stored token matches the lookup.
var ErrTokenNotFound = errors.New("token not found")

// AuthToken is the stored bearer credential, exactly one per user. A row existing
// means the token is live; logout deletes it.
type AuthToken struct {
	UserID    string
	Token     string
	CreatedAt time.Time
}

// TokenRepository defines storage for per-user bearer tokens.
type TokenRepository interface {
	// Save stores the token for the user, replacing any existing one.
	Save(ctx context.Context, token *AuthToken) error
	// GetByUserID returns the user's stored token, or ErrTokenNotFound.
	GetByUserID(ctx context.Context, userID string) (*AuthToken, error)
	// GetUserID returns the user a live token belongs to, or ErrTokenNotFound.
	GetUserID(ctx context.Context, token string) (string, error)
	// DeleteByUserID revokes the user's token. Deleting an absent token is not an error.
	DeleteByUserID(ctx context.Context, userID string) error
}
