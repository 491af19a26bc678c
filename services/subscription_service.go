// services/subscription_service.go
package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SubscriptionService periodically flags restaurants whose subscription ran out.
// Expiry is informational; it does not block ordering.
type SubscriptionService struct {
	tenants  *TenantService
	schedule string
	timeout  time.Duration
	logger   *zap.Logger
	cron     *cron.Cron
}

func NewSubscriptionService(tenants *TenantService, schedule string, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		tenants:  tenants,
		schedule: schedule,
		timeout:  time.Minute,
		logger:   logger,
		cron:     cron.New(),
	}
}

// StartScheduler runs one sweep immediately, then on the configured schedule.
func (s *SubscriptionService) StartScheduler() error {
	if _, err := s.cron.AddFunc(s.schedule, s.Sweep); err != nil {
		return err
	}
	s.Sweep()
	s.cron.Start()
	s.logger.Info("subscription scheduler started", zap.String("schedule", s.schedule))
	return nil
}

// Stop waits for a running sweep to finish.
func (s *SubscriptionService) Stop() {
	<-s.cron.Stop().Done()
}

func (s *SubscriptionService) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	expired, err := s.tenants.ExpireSubscriptions(ctx)
	if err != nil {
		s.logger.Error("subscription sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		s.logger.Info("subscriptions expired", zap.Int64("restaurants", expired))
	}
}
