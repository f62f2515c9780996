package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisCache(client), mr
}

func TestCacheSetGetDelete(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "user:menus:1")
	require.NoError(t, err)
	require.False(t, ok, "missing key should be a miss, not an error")

	require.NoError(t, c.Set(ctx, "user:menus:1", []byte(`[{"id":1}]`), time.Hour))

	val, ok, err := c.Get(ctx, "user:menus:1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte(`[{"id":1}]`), val)

	require.NoError(t, c.Delete(ctx, "user:menus:1"))

	_, ok, err = c.Get(ctx, "user:menus:1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCacheEntryExpires(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "user:routes:1", []byte(`[]`), time.Hour))

	mr.FastForward(time.Hour + time.Second)

	_, ok, err := c.Get(ctx, "user:routes:1")
	require.NoError(t, err)
	require.False(t, ok, "entry should have expired")
}

func TestCacheDeleteSeveralKeys(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	for _, key := range UserKeys(7) {
		require.NoError(t, c.Set(ctx, key, []byte(`x`), time.Hour))
	}

	require.NoError(t, c.Delete(ctx, UserKeys(7)...))

	for _, key := range UserKeys(7) {
		_, ok, err := c.Get(ctx, key)
		require.NoError(t, err)
		require.False(t, ok)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	type snapshot struct {
		Actions []string `json:"actions"`
	}

	var out snapshot
	hit, err := GetJSON(ctx, c, "user:permissions:1", &out)
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, SetJSON(ctx, c, "user:permissions:1", snapshot{Actions: []string{"user:view"}}, time.Hour))

	hit, err = GetJSON(ctx, c, "user:permissions:1", &out)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, []string{"user:view"}, out.Actions)
}

func TestSnapshotTreatsCorruptValueAsMiss(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "user:permissions:1", []byte(`{not json`), time.Hour))

	var out []string
	hit, err := GetJSON(ctx, c, "user:permissions:1", &out)
	require.NoError(t, err)
	require.False(t, hit)
}

func TestUserKeyNamespace(t *testing.T) {
	require.Equal(t, "user:menus:42", UserMenusKey(42))
	require.Equal(t, "user:routes:42", UserRoutesKey(42))
	require.Equal(t, "user:permissions:42", UserPermissionsKey(42))
	require.Len(t, UserKeys(42), 3)
}
