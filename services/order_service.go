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
	"qrmenu-backend/utils"
)

type OrderConfig struct {
	// VerifyCatalog re-prices order lines from the live menu and rejects
	// unknown or unavailable items. Off by default: the client's lines are trusted.
	VerifyCatalog bool
}

// OrderService drives an order from placement to completion.
//
//	pending -> preparing -> ready -> completed   (kitchen, forward only)
//	pending|preparing|ready -> completed         (cashier records "paid" on a cash order)
type OrderService struct {
	orders  store.OrderStore
	tables  store.TableStore
	catalog store.CatalogStore
	cfg     OrderConfig
	notify  notifier
	logger  *zap.Logger
	now     func() time.Time
}

func NewOrderService(st store.Store, cfg OrderConfig, publisher EventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:  st,
		tables:  st,
		catalog: st,
		cfg:     cfg,
		notify:  notifier{publisher: publisher, logger: logger},
		logger:  logger,
		now:     time.Now,
	}
}

type OrderLineInput struct {
	MenuItemID string
	Name       string
	Price      float64
	Quantity   int
	PrepTime   *int
}

type CreateOrderInput struct {
	TableID       string
	Items         []OrderLineInput
	PaymentMethod models.PaymentMethod
}

// ListFilter narrows an order listing beyond what the caller's role already implies.
type ListFilter struct {
	Status models.OrderStatus
	Limit  int
}

// OrderTotal is the sum of price times quantity, rounded to cents.
func OrderTotal(items []models.OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return utils.RoundCents(total)
}

// EstimatedMinutes is the longest prep time among the lines, or DefaultPrepTime for an empty order.
func EstimatedMinutes(items []models.OrderItem) int {
	if len(items) == 0 {
		return DefaultPrepTime
	}
	longest := 0
	for _, it := range items {
		if it.PrepTime > longest {
			longest = it.PrepTime
		}
	}
	return longest
}

func (s *OrderService) buildLines(ctx context.Context, tenantID string, in []OrderLineInput) ([]models.OrderItem, error) {
	lines := make([]models.OrderItem, 0, len(in))
	for i, l := range in {
		if l.Quantity < 1 {
			return nil, Validation("items[%d]: quantity must be at least 1", i)
		}
		line := models.OrderItem{
			ID:         uuid.NewString(),
			MenuItemID: l.MenuItemID,
			Name:       strings.TrimSpace(l.Name),
			Price:      l.Price,
			Quantity:   l.Quantity,
			PrepTime:   prepTimeOrDefault(l.PrepTime),
		}

		if s.cfg.VerifyCatalog {
			item, err := s.catalog.GetItem(ctx, tenantID, l.MenuItemID)
			if errors.Is(err, store.ErrNotFound) {
				return nil, Validation("items[%d]: unknown menu item %q", i, l.MenuItemID)
			}
			if err != nil {
				return nil, err
			}
			if !item.Available {
				return nil, Validation("items[%d]: %s is not available", i, item.Name)
			}
			line.Name = item.Name
			line.Price = item.Price
			line.PrepTime = item.PrepTime
		}

		if line.Name == "" {
			return nil, Validation("items[%d]: name is required", i)
		}
		if line.Price < 0 {
			return nil, Validation("items[%d]: price must not be negative", i)
		}
		if line.PrepTime < 0 {
			return nil, Validation("items[%d]: prep_time must not be negative", i)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Create places an order for the table. The tenant comes from the table, never the caller.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if !in.PaymentMethod.Valid() {
		return nil, Validation("payment_method must be cash or card")
	}
	table, err := s.tables.GetTable(ctx, in.TableID)
	if err != nil {
		return nil, tableErr(err)
	}
	lines, err := s.buildLines(ctx, table.TenantID, in.Items)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	order := &models.Order{
		ID:               uuid.NewString(),
		TenantID:         table.TenantID,
		TableID:          table.ID,
		TableNumber:      table.Number,
		Items:            lines,
		TotalAmount:      OrderTotal(lines),
		PaymentMethod:    in.PaymentMethod,
		PaymentStatus:    models.PaymentPending,
		Status:           models.OrderPending,
		EstimatedMinutes: EstimatedMinutes(lines),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	ordersCreated.WithLabelValues(string(order.PaymentMethod)).Inc()
	s.notify.emit(ctx, models.EventOrderCreated, order.TenantID, order.ID, order, now)
	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("restaurant_id", order.TenantID),
		zap.String("table_id", order.TableID),
		zap.Float64("total", order.TotalAmount))
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, tenantID, id string) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, tenantID, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

// ListForRole returns the slice of orders the actor's role works from.
// Admins see every tenant; everyone else only their own.
func (s *OrderService) ListForRole(ctx context.Context, actor *models.Account, filter ListFilter) ([]models.Order, error) {
	q := store.OrderFilter{TenantID: actor.TenantID, Limit: filter.Limit}
	switch actor.Role {
	case models.RoleKitchen:
		q.Statuses = []models.OrderStatus{models.OrderPending, models.OrderPreparing}
		q.OldestFirst = true
	case models.RoleCashier:
		q.PaymentMethod = models.PaymentCash
		q.ExcludeStatuses = []models.OrderStatus{models.OrderCompleted}
		q.OldestFirst = true
	case models.RoleOwner:
	case models.RoleAdmin:
		q.TenantID = ""
	default:
		return nil, ErrForbiddenRole
	}
	if filter.Status != "" && (actor.Role == models.RoleOwner || actor.Role == models.RoleAdmin) {
		if !filter.Status.Valid() {
			return nil, Validation("unknown order status %q", filter.Status)
		}
		q.Statuses = []models.OrderStatus{filter.Status}
	}
	return s.orders.ListOrders(ctx, q)
}

// SetStatus moves an order forward. Same-status and backward moves are rejected,
// and the write only lands while the order is still behind the target status.
func (s *OrderService) SetStatus(ctx context.Context, tenantID, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, Validation("unknown order status %q", status)
	}
	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if status.Rank() <= current.Status.Rank() {
		orderTransitions.WithLabelValues(string(status), "rejected").Inc()
		return nil, ErrInvalidTransition
	}

	now := s.now().UTC()
	order, err := s.orders.TransitionOrder(ctx, tenantID, id, status.Before(), store.OrderUpdate{
		Status:    status,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, s.transitionErr(status, err)
	}

	orderTransitions.WithLabelValues(string(status), "applied").Inc()
	s.notify.emit(ctx, models.EventOrderStatusChanged, tenantID, id, map[string]interface{}{
		"from": current.Status,
		"to":   status,
	}, now)
	return order, nil
}

// SetPayment records a cash payment status. "paid" also completes the order.
// Repeating the current payment status changes nothing and publishes nothing.
func (s *OrderService) SetPayment(ctx context.Context, tenantID, id string, payment models.PaymentStatus) (*models.Order, error) {
	if !payment.Valid() {
		return nil, Validation("payment_status must be pending or paid")
	}
	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if current.PaymentMethod != models.PaymentCash {
		return nil, ErrNotCashOrder
	}

	if current.PaymentStatus == payment {
		return current, nil
	}

	now := s.now().UTC()
	update := store.OrderUpdate{PaymentStatus: payment, WhilePayment: current.PaymentStatus, UpdatedAt: now}
	if payment == models.PaymentPaid {
		update.Status = models.OrderCompleted
	}
	order, err := s.orders.TransitionOrder(ctx, tenantID, id, nil, update)
	if err != nil {
		return nil, s.transitionErr(update.Status, err)
	}

	if payment == models.PaymentPaid {
		orderTransitions.WithLabelValues(string(models.OrderCompleted), "applied").Inc()
		s.notify.emit(ctx, models.EventOrderPaid, tenantID, id, map[string]interface{}{
			"total_amount": order.TotalAmount,
		}, now)
	}
	return order, nil
}

func (s *OrderService) transitionErr(status models.OrderStatus, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrOrderNotFound
	case errors.Is(err, store.ErrConflict):
		orderTransitions.WithLabelValues(string(status), "conflict").Inc()
		return ErrOrderChanged
	}
	return err
}
