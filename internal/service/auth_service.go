package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/fintrack/internal/auth"
	"github.com/mmynk/fintrack/internal/metrics"
	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/storage"
)

// AuthService handles registration, login and the current-user lookup.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service. m may be nil.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, m *metrics.Metrics, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		metrics:       m,
		logger:        logger,
	}
}

// Register creates a new user account.
// Invalid input is reported as a *ValidationError; a taken email as auth.ErrEmailExists.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	verr := NewValidationError(invalidInputMessage)
	if err := auth.ValidateEmail(auth.NormalizeEmail(email)); err != nil {
		verr.Add("email", err.Error())
	}
	if err := s.authenticator.ValidateCredential(password); err != nil {
		verr.Add("password", err.Error())
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	user, err := s.authenticator.Register(ctx, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			s.logger.Warn("Registration rejected", "reason", "email exists")
			return nil, err
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.metrics.Registered()
	s.logger.Info("User registered successfully", "user_id", user.ID)
	return user, nil
}

// Login authenticates a user and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.metrics.Login(false)
			s.logger.Warn("Login failed")
			return "", auth.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to authenticate: %w", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.metrics.Login(true)
	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return token, nil
}

// Verify validates a token and returns the user id it carries.
func (s *AuthService) Verify(token string) (int64, error) {
	if token == "" {
		return 0, auth.ErrMissingToken
	}
	claims, err := s.jwtManager.Validate(token)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// CurrentUser returns the account of the token holder.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
