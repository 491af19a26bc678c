package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"qrmenu-backend/models"
	"qrmenu-backend/store"
)

// SignalService handles anonymous reviews and waiter calls.
type SignalService struct {
	signals store.SignalStore
	tables  store.TableStore
	orders  store.OrderStore
	notify  notifier
	logger  *zap.Logger
	now     func() time.Time
}

func NewSignalService(st store.Store, publisher EventPublisher, logger *zap.Logger) *SignalService {
	return &SignalService{
		signals: st,
		tables:  st,
		orders:  st,
		notify:  notifier{publisher: publisher, logger: logger},
		logger:  logger,
		now:     time.Now,
	}
}

type ReviewInput struct {
	// TenantID is optional. When present it must match the tenant derived
	// from the table or order.
	TenantID string
	TableID  string
	OrderID  string
	Rating   int
	Comment  string
}

// CreateReview derives the tenant from the table (and the order, which must
// sit at that table), so an anonymous caller cannot file a review against
// a restaurant it has no table handle for.
func (s *SignalService) CreateReview(ctx context.Context, in ReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, Validation("rating must be between 1 and 5")
	}
	if in.TableID == "" {
		return nil, Validation("table_id is required")
	}
	table, err := s.tables.GetTable(ctx, in.TableID)
	if err != nil {
		return nil, tableErr(err)
	}
	tenantID := table.TenantID
	if in.TenantID != "" && in.TenantID != tenantID {
		return nil, Validation("restaurant_id does not match the table")
	}
	if in.OrderID != "" {
		order, err := s.orders.GetOrder(ctx, tenantID, in.OrderID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		if err != nil {
			return nil, err
		}
		if order.TableID != table.ID {
			return nil, Validation("order was not placed at this table")
		}
	}

	review := &models.Review{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		OrderID:   in.OrderID,
		TableID:   table.ID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: s.now().UTC(),
	}
	if err := s.signals.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviews returns a tenant's reviews, or every review when tenantID is empty.
func (s *SignalService) ListReviews(ctx context.Context, tenantID string) ([]models.Review, error) {
	return s.signals.ListReviews(ctx, tenantID)
}

// CallWaiter raises a call for the table. A call already pending for the
// table is returned as is.
func (s *SignalService) CallWaiter(ctx context.Context, tableID string) (*models.WaiterCall, error) {
	table, err := s.tables.GetTable(ctx, tableID)
	if err != nil {
		return nil, tableErr(err)
	}
	existing, err := s.signals.FindPendingWaiterCall(ctx, table.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	call := &models.WaiterCall{
		ID:          uuid.NewString(),
		TenantID:    table.TenantID,
		TableID:     table.ID,
		TableNumber: table.Number,
		Status:      models.WaiterCallPending,
		CreatedAt:   now,
	}
	if err := s.signals.CreateWaiterCall(ctx, call); err != nil {
		return nil, err
	}
	waiterCallsCreated.Inc()
	s.notify.emit(ctx, models.EventWaiterCallCreated, call.TenantID, call.ID, call, now)
	return call, nil
}

func (s *SignalService) ListWaiterCalls(ctx context.Context, tenantID string, status models.WaiterCallStatus) ([]models.WaiterCall, error) {
	if status != "" && status != models.WaiterCallPending && status != models.WaiterCallResolved {
		return nil, Validation("status must be pending or resolved")
	}
	return s.signals.ListWaiterCalls(ctx, tenantID, status)
}

func (s *SignalService) ResolveWaiterCall(ctx context.Context, tenantID, id string) (*models.WaiterCall, error) {
	now := s.now().UTC()
	call, resolved, err := s.signals.ResolveWaiterCall(ctx, tenantID, id, now)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrWaiterCallNotFound
	}
	if err != nil {
		return nil, err
	}
	if resolved {
		s.notify.emit(ctx, models.EventWaiterCallResolved, tenantID, id, nil, now)
	}
	return call, nil
}
