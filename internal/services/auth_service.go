package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/haiminh-dev/projecthub/internal/mailer"
	"github.com/haiminh-dev/projecthub/internal/models"
	"github.com/haiminh-dev/projecthub/internal/repository"
	"github.com/haiminh-dev/projecthub/internal/token"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      int
}

// AuthService implements the credential flow: register, login, refresh,
// logout and the password-reset lifecycle. At most one refresh token is live
// per user; a later login or a logout revokes the previous one.
type AuthService struct {
	users    repository.UserRepository
	tokens   *token.Issuer
	mail     mailer.Mailer
	baseURL  string
	hashCost int
	resetTTL time.Duration
	log      *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *token.Issuer,
	mail mailer.Mailer,
	baseURL string,
	hashCost int,
	resetTTL time.Duration,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		mail:     mail,
		baseURL:  baseURL,
		hashCost: hashCost,
		resetTTL: resetTTL,
		log:      log,
	}
}

// Register creates a user, stores only the bcrypt hash of the password and
// starts a session by issuing a token pair.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *TokenPair, error) {
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil, fmt.Errorf("checking existing email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		Age:          in.Age,
		Role:         models.RoleUser,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("creating user: %w", err)
	}

	pair, err := s.startSession(ctx, user.ID.Hex())
	if err != nil {
		return nil, nil, err
	}
	pub := user.Public()
	return &pub, pair, nil
}

// Login verifies credentials and starts a new session. Unknown email and
// wrong password yield the identical error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	user, err := s.users.FindByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("looking up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	// Overwrites any previous refresh token: single active session per user,
	// last writer wins.
	pair, err := s.startSession(ctx, user.ID.Hex())
	if err != nil {
		return nil, nil, err
	}
	pub := user.Public()
	return &pub, pair, nil
}

// Refresh exchanges a valid, still-current refresh token for a new access
// token. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrMissingToken
	}

	claims, err := s.tokens.Verify(refreshToken, token.ClassRefresh)
	if err != nil {
		return "", ErrTokenInvalid
	}

	user, err := s.users.FindByIDWithRefreshToken(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrTokenInvalid
		}
		return "", fmt.Errorf("loading stored refresh token: %w", err)
	}

	// A cryptographically valid token presented after logout or a later login
	// no longer equals the stored one.
	if user.RefreshToken == "" ||
		subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		return "", ErrTokenMismatch
	}

	access, _, err := s.tokens.IssueAccess(claims.UserID)
	if err != nil {
		return "", fmt.Errorf("issuing access token: %w", err)
	}
	return access, nil
}

// Logout revokes the user's refresh token. Calling it again is a no-op.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	err := s.users.ClearRefreshToken(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("clearing refresh token: %w", err)
	}
	return nil
}

// ForgotPassword stores a hashed one-time reset token on the user and mails
// the raw token. A failed send clears the stored token so no valid reset
// token survives it.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("looking up user: %w", err)
	}

	raw, digest, err := newResetToken()
	if err != nil {
		return fmt.Errorf("generating reset token: %w", err)
	}

	expires := time.Now().Add(s.resetTTL)
	if err := s.users.SetResetToken(ctx, user.ID.Hex(), digest, expires); err != nil {
		return fmt.Errorf("storing reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.baseURL, raw)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>You requested a password reset. The link below is valid for %d minutes:</p><p><a href=%q>%s</a></p><p>If you did not request this, you can ignore this email.</p>`,
		user.Name, int(s.resetTTL.Minutes()), resetURL, resetURL,
	)
	if err := s.mail.Send(ctx, user.Email, "Password reset request", html); err != nil {
		s.log.Warn("reset mail delivery failed", zap.String("email", email), zap.Error(err))
		if clearErr := s.users.ClearResetToken(ctx, user.ID.Hex()); clearErr != nil {
			s.log.Error("clearing reset token after failed send", zap.Error(clearErr))
		}
		return ErrEmailDelivery
	}
	return nil
}

// ResetPassword consumes a reset token. Unknown and expired tokens are
// indistinguishable to the caller.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	digest := hashResetToken(rawToken)
	user, err := s.users.FindByResetTokenHash(ctx, digest, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("looking up reset token: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.hashCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID.Hex(), string(hash)); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}

func (s *AuthService) startSession(ctx context.Context, userID string) (*TokenPair, error) {
	access, _, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}
	refresh, _, err := s.tokens.IssueRefresh(userID)
	if err != nil {
		return nil, fmt.Errorf("issuing refresh token: %w", err)
	}
	if err := s.users.SetRefreshToken(ctx, userID, refresh); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// newResetToken returns a random token and the hex sha256 digest stored at
// rest in its place.
func newResetToken() (raw string, digest string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	return raw, hashResetToken(raw), nil
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
