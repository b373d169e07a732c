package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/petcommunity/petcommunity/internal/auth"
	"github.com/petcommunity/petcommunity/internal/metrics"
	"github.com/petcommunity/petcommunity/internal/model"
	"github.com/petcommunity/petcommunity/internal/repository"
)

// AuthService handles registration, login and identity resolution.
type AuthService struct {
	users   UserStore
	hasher  PasswordHasher
	tokens  TokenManager
	cache   UserCache
	metrics metrics.Recorder
	logger  *slog.Logger
}

// AuthServiceConfig groups AuthService dependencies. Cache, Metrics and
// Logger are optional.
type AuthServiceConfig struct {
	Users   UserStore
	Hasher  PasswordHasher
	Tokens  TokenManager
	Cache   UserCache
	Metrics metrics.Recorder
	Logger  *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &AuthService{
		users:   cfg.Users,
		hasher:  cfg.Hasher,
		tokens:  cfg.Tokens,
		cache:   cfg.Cache,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a user with a hashed password.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.UserSummary, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, NewValidationError("username, email and password are required")
	}
	if _, err := validateLabel("username", username); err != nil {
		return nil, err
	}
	if _, err := validateLabel("email", email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	summary := user.ToSummary()
	return &summary, nil
}

// Authenticate checks credentials and issues a bearer token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		s.metrics.IncLogin(metrics.LoginFailed)
		return "", ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLogin(metrics.LoginFailed)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Warn("password_hash_unreadable", "user_id", user.ID, "error", err)
		s.metrics.IncLogin(metrics.LoginFailed)
		return "", ErrInvalidCredentials
	}
	if !ok {
		s.metrics.IncLogin(metrics.LoginFailed)
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncLogin(metrics.LoginSuccess)
	return token, nil
}

// ResolveIdentity verifies a bearer token and returns the caller identity.
func (s *AuthService) ResolveIdentity(_ context.Context, token string) (*model.AuthContext, error) {
	userID, tokenID, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidSubject) {
			return nil, ErrIdentityType
		}
		return nil, ErrUnauthorized
	}

	return &model.AuthContext{UserID: userID, TokenID: tokenID}, nil
}

// GetUser returns the public profile of a user, consulting the cache first.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*model.UserSummary, error) {
	if s.cache != nil {
		cached, err := s.cache.GetUser(ctx, id)
		if err != nil {
			s.logger.Warn("user_cache_get_failed", "user_id", id, "error", err)
		} else if cached != nil {
			s.metrics.IncUserCacheHit()
			return cached, nil
		}
		s.metrics.IncUserCacheMiss()
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	summary := user.ToSummary()

	if s.cache != nil {
		if err := s.cache.SetUser(ctx, &summary); err != nil {
			s.logger.Warn("user_cache_set_failed", "user_id", id, "error", err)
		}
	}

	return &summary, nil
}
