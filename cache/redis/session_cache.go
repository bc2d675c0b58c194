package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/thriftwear/storefront/domain"
)

// SessionCache implements domain.SessionCache backed by Redis, for
// deployments where the session mirror must survive process restarts.
type SessionCache struct {
	client *redis.Client
	prefix string // Optional prefix for keys
}

// NewSessionCache creates a new [SessionCache] instance.
func NewSessionCache(client *redis.Client, prefix string) *SessionCache {
	return &SessionCache{
		client: client,
		prefix: prefix,
	}
}

func (c *SessionCache) redisKey() string {
	return fmt.Sprintf("%s:session", c.prefix)
}

// Write stores the serialized merged user with the given TTL.
func (c *SessionCache) Write(ctx context.Context, user *domain.User, ttl time.Duration) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return &domain.CacheError{Op: "write", Err: fmt.Errorf("marshal session: %w", err)}
	}
	if err := c.client.Set(ctx, c.redisKey(), payload, ttl).Err(); err != nil {
		return &domain.CacheError{Op: "write", Err: err}
	}
	return nil
}

// Read returns the cached user. Missing keys and corrupt payloads both
// read as absent; only transport failures surface as errors.
func (c *SessionCache) Read(ctx context.Context) (*domain.User, error) {
	payload, err := c.client.Get(ctx, c.redisKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, &domain.CacheError{Op: "read", Err: err}
	}

	var user domain.User
	if err := json.Unmarshal(payload, &user); err != nil {
		log.Warn().Err(err).Msg("corrupt session cache entry, treating as absent")
		return nil, nil
	}
	return &user, nil
}

// Clear removes the session entry. Clearing an absent entry is not an error.
func (c *SessionCache) Clear(ctx context.Context) error {
	if err := c.client.Del(ctx, c.redisKey()).Err(); err != nil {
		return &domain.CacheError{Op: "clear", Err: err}
	}
	return nil
}

var _ domain.SessionCache = (*SessionCache)(nil)
