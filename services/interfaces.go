package services

import (
	"context"

	"qrmenu-backend/models"
	"qrmenu-backend/store"
)

// MenuCache holds the public menu per tenant. Implemented by store.RedisMenuCache.
type MenuCache interface {
	GetMenu(ctx context.Context, tenantID string) (*store.Menu, error)
	SetMenu(ctx context.Context, tenantID string, menu *store.Menu) error
	InvalidateMenu(ctx context.Context, tenantID string) error
}

// EventPublisher emits domain events. Implemented by store.KafkaPublisher.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

var (
	_ MenuCache      = (*store.RedisMenuCache)(nil)
	_ EventPublisher = (*store.KafkaPublisher)(nil)
)
