package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrmenu-backend/models"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *RedisMenuCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisMenuCache(client, time.Minute)
}

func TestRedisMenuCache_RoundTrip(t *testing.T) {
	mr, cache := setupRedis(t)
	ctx := context.Background()

	miss, err := cache.GetMenu(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Nil(t, miss)

	menu := &Menu{
		Categories: []models.MenuCategory{{ID: "c1", TenantID: "tenant-1", Name: "Drinks", SortOrder: 2}},
		Items:      []models.MenuItem{{ID: "i1", TenantID: "tenant-1", CategoryID: "c1", Name: "Tea", Price: 2.5, Available: true}},
	}
	require.NoError(t, cache.SetMenu(ctx, "tenant-1", menu))
	assert.True(t, mr.Exists("menu:tenant-1"))
	assert.Equal(t, time.Minute, mr.TTL("menu:tenant-1"))

	got, err := cache.GetMenu(ctx, "tenant-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Drinks", got.Categories[0].Name)
	assert.Equal(t, 2, got.Categories[0].SortOrder)
	assert.Equal(t, 2.5, got.Items[0].Price)

	require.NoError(t, cache.InvalidateMenu(ctx, "tenant-1"))
	assert.False(t, mr.Exists("menu:tenant-1"))
}

func TestRedisMenuCache_Expires(t *testing.T) {
	mr, cache := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.SetMenu(ctx, "tenant-1", &Menu{}))
	mr.FastForward(2 * time.Minute)

	got, err := cache.GetMenu(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisMenuCache_ServerDown(t *testing.T) {
	mr, cache := setupRedis(t)
	mr.Close()

	_, err := cache.GetMenu(context.Background(), "tenant-1")
	assert.Error(t, err)
}
