package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductOffersKey(t *testing.T) {
	assert.Equal(t, "product:42:offers", ProductOffersKey(42))
}

func TestRedisCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(mr.Addr(), "", 0)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	key := ProductOffersKey(1)

	_, err = c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Set(ctx, key, []byte(`{"total_offers":3}`), time.Minute))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"total_offers":3}`), got)

	require.NoError(t, c.Delete(ctx, key))
	_, err = c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisCacheExpiry(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(mr.Addr(), "", 0)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisCacheUnreachable(t *testing.T) {
	_, err := NewRedisCache("127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

func TestInMemoryCacheRoundTrip(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryCacheExpiry(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), -time.Second))

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}
