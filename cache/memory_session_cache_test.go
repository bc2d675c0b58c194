package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thriftwear/storefront/domain"
)

func TestMemorySessionCacheRoundTrip(t *testing.T) {
	c := NewMemorySessionCache()
	defer c.Close()
	ctx := context.Background()

	user, err := c.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	require.NoError(t, c.Write(ctx, &domain.User{UID: "uid-1", Username: "janed"}, time.Hour))

	user, err = c.Read(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "uid-1", user.UID)
	assert.Equal(t, "janed", user.Username)
}

func TestMemorySessionCacheExpiry(t *testing.T) {
	c := NewMemorySessionCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Write(ctx, &domain.User{UID: "uid-1"}, 20*time.Millisecond))

	assert.Eventually(t, func() bool {
		user, err := c.Read(ctx)
		return err == nil && user == nil
	}, time.Second, 10*time.Millisecond)
}

func TestMemorySessionCacheClearIsIdempotent(t *testing.T) {
	c := NewMemorySessionCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Write(ctx, &domain.User{UID: "uid-1"}, time.Hour))
	require.NoError(t, c.Clear(ctx))
	require.NoError(t, c.Clear(ctx))

	user, err := c.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}
