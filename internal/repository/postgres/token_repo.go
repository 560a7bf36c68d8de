package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventlistings/internal/domain"
)

type tokenRepository struct {
	DB *sql.DB
}

// NewTokenRepository returns a domain.TokenRepository implemented with Postgres.
// auth_tokens keys on user_id, so each user holds at most one live token.
func NewTokenRepository(db *sql.DB) domain.TokenRepository {
	return &tokenRepository{DB: db}
}

func (r *tokenRepository) Save(ctx context.Context, t *domain.AuthToken) error {
	query := `
		INSERT INTO auth_tokens (user_id, token, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, created_at = EXCLUDED.created_at
	`
	_, err := r.DB.ExecContext(ctx, query, t.UserID, t.Token, t.CreatedAt)
	return err
}

func (r *tokenRepository) GetByUserID(ctx context.Context, userID string) (*domain.AuthToken, error) {
	query := `
		SELECT user_id, token, created_at
		FROM auth_tokens
		WHERE user_id = $1
	`
	t := &domain.AuthToken{}
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&t.UserID, &t.Token, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *tokenRepository) GetUserID(ctx context.Context, token string) (string, error) {
	var userID string
	err := r.DB.QueryRowContext(ctx, `SELECT user_id FROM auth_tokens WHERE token = $1`, token).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrTokenNotFound
		}
		return "", err
	}
	return userID, nil
}

func (r *tokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM auth_tokens WHERE user_id = $1`, userID)
	return err
}
