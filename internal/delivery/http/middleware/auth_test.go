package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventlistings/internal/delivery/http/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	userID    string
	err       error
	lastToken string
}

func (f *fakeAuthenticator) VerifyToken(ctx context.Context, token string) (string, error) {
	f.lastToken = token
	if f.err != nil {
		return "", f.err
	}
	return f.userID, nil
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	tests := []struct {
		name       string
		authHeader string
		auth       *fakeAuthenticator
		wantStatus int
		wantNext   bool
		wantUserID string
		wantToken  string
	}{
		{
			name:       "valid token sets user in context",
			authHeader: "Bearer tok-1",
			auth:       &fakeAuthenticator{userID: "user-1"},
			wantStatus: http.StatusOK,
			wantNext:   true,
			wantUserID: "user-1",
			wantToken:  "tok-1",
		},
		{
			name:       "missing header",
			authHeader: "",
			auth:       &fakeAuthenticator{userID: "user-1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic abc123",
			auth:       &fakeAuthenticator{userID: "user-1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty token",
			authHeader: "Bearer ",
			auth:       &fakeAuthenticator{userID: "user-1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "revoked or invalid token",
			authHeader: "Bearer tok-revoked",
			auth:       &fakeAuthenticator{err: errors.New("token revoked")},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var gotUserID string
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUserID, _ = UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}

			handler := RequireAuth(tt.auth, logger)(next)
			req := httptest.NewRequest(http.MethodGet, "http://test/events", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			require.Equal(t, tt.wantNext, nextCalled)
			if tt.wantNext {
				assert.Equal(t, tt.wantUserID, gotUserID)
				assert.Equal(t, tt.wantToken, tt.auth.lastToken)
				return
			}
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.NotNil(t, envelope.Error)
			assert.Equal(t, helpers.ErrCodeUnauthorized, envelope.Error.Code)
		})
	}
}

func TestUserIDFromContext(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	require.False(t, ok)

	ctx := SetUserID(context.Background(), "user-1")
	id, ok := UserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "user-1", id)
}
