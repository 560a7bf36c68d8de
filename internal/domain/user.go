package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user and credential operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents a registered user. Password material is never serialized.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(username, email, passwordHash, salt string, createdAt, updatedAt time.Time) *User {
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues bearer tokens for an authenticated user.
type TokenIssuer interface {
	Issue(userID, username string, expiry time.Duration) (string, error)
}

// TokenVerifier checks a token's signature and expiry and returns the user ID it was
// issued to. It does not consult the token store; revocation is handled by AuthService.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// TokenAuthenticator authenticates a bearer token against both its signature and the
// token store, so revoked tokens fail even when their signature is still valid.
type TokenAuthenticator interface {
	VerifyToken(ctx context.Context, token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// AuthService defines registration, login, and logout over the credential store.
// Register and Login both return a bearer token; Login reuses a still-valid stored
// token instead of minting a new one.
type AuthService interface {
	TokenAuthenticator
	Register(ctx context.Context, username, email, password string) (user *User, token string, err error)
	Login(ctx context.Context, username, password string) (token string, user *User, err error)
	Logout(ctx context.Context, userID string) error
}
