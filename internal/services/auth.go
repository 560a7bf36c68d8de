package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"eventlistings/internal/domain"
)

const (
	minPasswordLen = 8
	minUsernameLen = 3
	maxUsernameLen = 150
)

var (
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_.@+-]+$`)
)

type authService struct {
	userRepo     domain.UserRepository
	tokenRepo    domain.TokenRepository
	hasher       domain.PasswordHasher
	issuer       domain.TokenIssuer
	verifier     domain.TokenVerifier
	tokenExpiry  time.Duration
	emailService domain.EmailService
}

// NewAuthService creates an AuthService over the user and token stores. emailService
// may be nil, in which case no welcome email is sent on registration.
func NewAuthService(
	userRepo domain.UserRepository,
	tokenRepo domain.TokenRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	verifier domain.TokenVerifier,
	tokenExpiry time.Duration,
	emailService domain.EmailService,
) domain.AuthService {
	return &authService{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		hasher:       hasher,
		issuer:       issuer,
		verifier:     verifier,
		tokenExpiry:  tokenExpiry,
		emailService: emailService,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*domain.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if len(username) < minUsernameLen || len(username) > maxUsernameLen || !usernameRegexp.MatchString(username) {
		return nil, "", fmt.Errorf("invalid username")
	}
	if !emailRegexp.MatchString(email) {
		return nil, "", fmt.Errorf("invalid email format")
	}
	if len(password) < minPasswordLen {
		return nil, "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.NewUser(username, email, hash, salt, now, now)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) || errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueAndStore(ctx, user)
	if err != nil {
		return nil, "", err
	}

	if s.emailService != nil {
		data := &domain.WelcomeEmailData{Email: user.Email, Username: user.Username}
		if err := s.emailService.SendWelcomeMessage(ctx, data); err != nil {
			return nil, "", fmt.Errorf("failed to send welcome email: %w", err)
		}
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	// Reuse the stored token when it is still valid instead of minting a new one.
	stored, err := s.tokenRepo.GetByUserID(ctx, user.ID)
	if err == nil {
		if uid, verr := s.verifier.Verify(stored.Token); verr == nil && uid == user.ID {
			return stored.Token, user, nil
		}
	} else if !errors.Is(err, domain.ErrTokenNotFound) {
		return "", nil, fmt.Errorf("failed to load token: %w", err)
	}

	token, err := s.issueAndStore(ctx, user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) Logout(ctx context.Context, userID string) error {
	if err := s.tokenRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// VerifyToken requires a valid signature and a matching live row in the token store,
// so tokens revoked by logout fail even before their expiry.
func (s *authService) VerifyToken(ctx context.Context, token string) (string, error) {
	userID, err := s.verifier.Verify(token)
	if err != nil {
		return "", err
	}
	storedUserID, err := s.tokenRepo.GetUserID(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return "", fmt.Errorf("token revoked")
		}
		return "", fmt.Errorf("failed to check token: %w", err)
	}
	if storedUserID != userID {
		return "", fmt.Errorf("token mismatch")
	}
	return userID, nil
}

func (s *authService) issueAndStore(ctx context.Context, user *domain.User) (string, error) {
	token, err := s.issuer.Issue(user.ID, user.Username, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	record := &domain.AuthToken{UserID: user.ID, Token: token, CreatedAt: time.Now()}
	if err := s.tokenRepo.Save(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}
