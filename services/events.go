package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"qrmenu-backend/models"
)

// notifier publishes events and drops cached menus. Failures are logged, never returned.
type notifier struct {
	publisher EventPublisher
	cache     MenuCache
	logger    *zap.Logger
}

func (n notifier) emit(ctx context.Context, eventType, tenantID, entityID string, payload interface{}, at time.Time) {
	if n.publisher == nil {
		return
	}
	err := n.publisher.Publish(ctx, models.Event{
		Type:       eventType,
		TenantID:   tenantID,
		EntityID:   entityID,
		Payload:    payload,
		OccurredAt: at,
	})
	if err != nil {
		n.logger.Warn("event publish failed",
			zap.String("type", eventType),
			zap.String("restaurant_id", tenantID),
			zap.Error(err))
	}
}

func (n notifier) invalidateMenu(ctx context.Context, tenantID string) {
	if n.cache == nil {
		return
	}
	if err := n.cache.InvalidateMenu(ctx, tenantID); err != nil {
		n.logger.Warn("menu cache invalidation failed",
			zap.String("restaurant_id", tenantID),
			zap.Error(err))
	}
}
