package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/petcommunity/petcommunity/internal/model"
)

// userCachePrefix is the Redis key prefix for cached user profiles.
const userCachePrefix = "user:profile:"

func userKey(id int64) string {
	return userCachePrefix + strconv.FormatInt(id, 10)
}

// GetUser returns a cached profile, or nil on a miss.
// Corrupted entries are treated as misses.
func (c *Cache) GetUser(ctx context.Context, id int64) (*model.UserSummary, error) {
	data, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached user: %w", err)
	}

	var summary model.UserSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, nil //nolint:nilerr
	}
	return &summary, nil
}

// SetUser caches a profile for the configured TTL.
func (c *Cache) SetUser(ctx context.Context, user *model.UserSummary) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return c.client.Set(ctx, userKey(user.ID), data, c.userTTL).Err()
}
