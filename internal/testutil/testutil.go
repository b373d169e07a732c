package testutil

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/petcommunity/petcommunity/internal/model"
	"github.com/petcommunity/petcommunity/migrations"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 424242

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops every table in reverse migration order and recreates them.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	all, err := migrations.All()
	if err != nil {
		return err
	}

	for i := len(all) - 1; i >= 0; i-- {
		if _, err := pool.Exec(ctx, all[i].Down); err != nil {
			return fmt.Errorf("apply %s down migration: %w", all[i].Name, err)
		}
	}

	for _, m := range all {
		if _, err := pool.Exec(ctx, m.Up); err != nil {
			return fmt.Errorf("apply %s up migration: %w", m.Name, err)
		}
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ============================================================================
// Test Data Factories
// ============================================================================

var seq atomic.Int64

// UniqueName generates a unique name for tests.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), seq.Add(1))
}

// NewTestUser creates a test user with a unique username and email.
// The hash is a placeholder; tests that log in should hash a real password.
func NewTestUser(t testing.TB) *model.User {
	t.Helper()
	name := UniqueName("user")
	return &model.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "hash-" + name,
	}
}

// NewTestPet creates a test pet owned by ownerID.
func NewTestPet(t testing.TB, ownerID int64) *model.Pet {
	t.Helper()
	desc := "test pet"
	owner := ownerID
	return &model.Pet{
		Name:        UniqueName("pet"),
		Species:     "dog",
		Age:         3,
		Description: &desc,
		OwnerID:     &owner,
	}
}
