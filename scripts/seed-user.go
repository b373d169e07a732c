package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/petcommunity/petcommunity/internal/auth"
	"github.com/petcommunity/petcommunity/internal/model"
	"github.com/petcommunity/petcommunity/internal/repository"
)

type output struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Created     bool   `json:"created"`
	AccessToken string `json:"access_token"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		jwtSecret   = flag.String("jwt-secret", os.Getenv("JWT_SECRET"), "Secret used to sign the token")
		jwtIssuer   = flag.String("jwt-issuer", envOr("JWT_ISSUER", "petcommunity"), "Token issuer")
		ttl         = flag.Duration("ttl", 24*time.Hour, "Token lifetime; 0 issues a token without expiry")
		username    = flag.String("username", "demo", "Username to create or reuse")
		email       = flag.String("email", "demo@petcommunity.local", "User email")
		password    = flag.String("password", "", "Password for a newly created user")
		migrate     = flag.Bool("migrate", false, "Apply schema migrations first")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fail("DATABASE_URL is required")
	}
	if *jwtSecret == "" {
		fail("JWT_SECRET is required")
	}
	if *ttl < 0 {
		fail("ttl must not be negative")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fail("connect database:", err)
	}
	defer repo.Close()

	if *migrate {
		if err := repo.Migrate(ctx); err != nil {
			fail("migrate:", err)
		}
	}

	user, created, err := ensureUser(ctx, repo, *username, *email, *password)
	if err != nil {
		fail(err.Error())
	}

	token, err := auth.NewTokenManager(*jwtSecret, *jwtIssuer, *ttl).Issue(user.ID)
	if err != nil {
		fail("issue token:", err)
	}

	out := output{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Created:     created,
		AccessToken: token,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.AccessToken)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fail("invalid format; use plain or json")
	}
}

func ensureUser(ctx context.Context, repo *repository.Repository, username, email, password string) (*model.User, bool, error) {
	existing, err := repo.GetUserByUsername(ctx, username)
	if err == nil {
		if existing.Email != email {
			return nil, false, fmt.Errorf("user %s exists with different email: %s", username, existing.Email)
		}
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, fmt.Errorf("lookup user: %w", err)
	}

	if password == "" {
		return nil, false, fmt.Errorf("user %s does not exist; -password is required to create it", username)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return user, true, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func fail(args ...any) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}
