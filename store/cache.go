package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"qrmenu-backend/models"
)

// Menu is the cached public view of a tenant's catalog.
type Menu struct {
	Categories []models.MenuCategory `json:"categories"`
	Items      []models.MenuItem     `json:"items"`
}

type RedisMenuCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisMenuCache(client *redis.Client, ttl time.Duration) *RedisMenuCache {
	return &RedisMenuCache{Client: client, TTL: ttl}
}

func (c *RedisMenuCache) MenuKey(tenantID string) string {
	return "menu:" + tenantID
}

// GetMenu returns nil without error on a cache miss.
func (c *RedisMenuCache) GetMenu(ctx context.Context, tenantID string) (*Menu, error) {
	raw, err := c.Client.Get(ctx, c.MenuKey(tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var menu Menu
	if err := json.Unmarshal(raw, &menu); err != nil {
		return nil, err
	}
	return &menu, nil
}

func (c *RedisMenuCache) SetMenu(ctx context.Context, tenantID string, menu *Menu) error {
	payload, err := json.Marshal(menu)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.MenuKey(tenantID), payload, c.TTL).Err()
}

func (c *RedisMenuCache) InvalidateMenu(ctx context.Context, tenantID string) error {
	return c.Client.Del(ctx, c.MenuKey(tenantID)).Err()
}
