package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/petcommunity/petcommunity/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username or email already exists")
)

// CreateUser inserts a new user and sets its generated ID.
// The uniqueness check and the insert share one transaction; a unique
// violation raised by a concurrent insert is reported as ErrUserExists too.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM users WHERE username = $1 OR email = $2
			)
		`, user.Username, user.Email).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check existing user: %w", err)
		}
		if exists {
			return ErrUserExists
		}

		query := `
			INSERT INTO users (username, email, password)
			VALUES ($1, $2, $3)
			RETURNING id
		`

		err = tx.QueryRow(ctx, query,
			user.Username,
			user.Email,
			user.PasswordHash,
		).Scan(&user.ID)

		if err != nil {
			if isUniqueViolation(err) {
				return ErrUserExists
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		return nil
	})
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, username, email, password
		FROM users
		WHERE id = $1
	`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetUserByUsername retrieves a user by their username.
// Used by login to fetch the stored password hash.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT id, username, email, password
		FROM users
		WHERE username = $1
	`

	user, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
