package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

type item struct {
	Name string `json:"name"`
}

func TestGetOrLoadJSONCachesUntilInvalidated(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	calls := 0
	load := func(context.Context) ([]item, error) {
		calls++
		return []item{{Name: "Drama"}}, nil
	}

	got, err := GetOrLoadJSON(c, ctx, "categories", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, []item{{Name: "Drama"}}, got)
	assert.True(t, mr.Exists("streamblog:categories"))

	_, err = GetOrLoadJSON(c, ctx, "categories", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	require.NoError(t, c.Invalidate(ctx, "categories"))
	_, err = GetOrLoadJSON(c, ctx, "categories", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGetOrLoadPropagatesLoadError(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("boom")
	_, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, func(context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("streamblog:k"))
}

func TestRevoke(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	revoked, err := c.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, c.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = c.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = c.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	// 已过期的 token 不需要记录
	require.NoError(t, c.Revoke(ctx, "jti-2", 0))
	assert.False(t, mr.Exists("streamblog:revoked:jti-2"))
}

func TestGetOrLoadJSONReloadsCorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("streamblog:categories", "{not json"))

	got, err := GetOrLoadJSON(c, ctx, "categories", time.Minute, func(context.Context) ([]item, error) {
		return []item{{Name: "Anime"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []item{{Name: "Anime"}}, got)

	raw, err := mr.Get("streamblog:categories")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Anime"}]`, raw)
}
