package store

import (
	"context"
	"errors"
	"time"

	"qrmenu-backend/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrConflict is returned when a conditional update lost to a concurrent writer.
	ErrConflict = errors.New("record changed concurrently")
)

type AccountFilter struct {
	TenantID string
	Roles    []models.Role
}

type ItemFilter struct {
	TenantID      string
	CategoryID    string
	AvailableOnly bool
}

// OrderFilter selects orders. Zero fields do not constrain the query.
type OrderFilter struct {
	TenantID        string
	Statuses        []models.OrderStatus
	ExcludeStatuses []models.OrderStatus
	PaymentMethod   models.PaymentMethod
	Since           time.Time
	Until           time.Time
	OldestFirst     bool
	Limit           int
}

// OrderUpdate carries the fields a transition writes. Empty values are left untouched.
type OrderUpdate struct {
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
	UpdatedAt     time.Time
	// WhilePayment, when set, also requires the stored payment status to equal it.
	WhilePayment models.PaymentStatus
}

type OrderSummary struct {
	TenantID string
	Status   models.OrderStatus
	Count    int64
	Revenue  float64
}

type ReviewSummary struct {
	Count   int64
	Average float64
}

type AccountStore interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	ListAccounts(ctx context.Context, filter AccountFilter) ([]models.Account, error)
	CountAccounts(ctx context.Context, filter AccountFilter) (int64, error)
	UpdatePassword(ctx context.Context, id, hash string) error
}

type TenantStore interface {
	// CreateTenant writes the tenant and its accounts atomically.
	CreateTenant(ctx context.Context, tenant *models.Tenant, accounts []*models.Account) error
	GetTenant(ctx context.Context, id string) (*models.Tenant, error)
	ListTenants(ctx context.Context) ([]models.Tenant, error)
	CountTenants(ctx context.Context, status models.SubscriptionStatus) (int64, error)
	// UpdateTenantProfile writes the name, address and phone of an existing tenant.
	UpdateTenantProfile(ctx context.Context, tenant *models.Tenant) error
	// DeleteTenant removes the tenant and every record scoped to it.
	DeleteTenant(ctx context.Context, id string) error
	ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error)
}

type TableStore interface {
	CreateTable(ctx context.Context, table *models.Table) error
	GetTable(ctx context.Context, id string) (*models.Table, error)
	ListTables(ctx context.Context, tenantID string) ([]models.Table, error)
	DeleteTable(ctx context.Context, tenantID, id string) error
}

type CatalogStore interface {
	CreateCategory(ctx context.Context, category *models.MenuCategory) error
	GetCategory(ctx context.Context, tenantID, id string) (*models.MenuCategory, error)
	ListCategories(ctx context.Context, tenantID string) ([]models.MenuCategory, error)
	UpdateCategory(ctx context.Context, category *models.MenuCategory) error
	// DeleteCategory removes the category and its items.
	DeleteCategory(ctx context.Context, tenantID, id string) error

	CreateItem(ctx context.Context, item *models.MenuItem) error
	GetItem(ctx context.Context, tenantID, id string) (*models.MenuItem, error)
	ListItems(ctx context.Context, filter ItemFilter) ([]models.MenuItem, error)
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	DeleteItem(ctx context.Context, tenantID, id string) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, tenantID, id string) (*models.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// TransitionOrder applies update only while the order's status is one of from.
	// A nil from places no condition on status. ErrConflict means the order
	// exists but its status or payment status no longer matched.
	TransitionOrder(ctx context.Context, tenantID, id string, from []models.OrderStatus, update OrderUpdate) (*models.Order, error)
	SummarizeOrders(ctx context.Context, filter OrderFilter) ([]OrderSummary, error)
}

type SignalStore interface {
	CreateReview(ctx context.Context, review *models.Review) error
	ListReviews(ctx context.Context, tenantID string) ([]models.Review, error)
	SummarizeReviews(ctx context.Context, tenantID string) (ReviewSummary, error)

	CreateWaiterCall(ctx context.Context, call *models.WaiterCall) error
	FindPendingWaiterCall(ctx context.Context, tableID string) (*models.WaiterCall, error)
	ListWaiterCalls(ctx context.Context, tenantID string, status models.WaiterCallStatus) ([]models.WaiterCall, error)
	// ResolveWaiterCall marks a pending call resolved. The bool reports whether
	// this call did the resolving; an already resolved call is returned as is.
	ResolveWaiterCall(ctx context.Context, tenantID, id string, at time.Time) (*models.WaiterCall, bool, error)
}

// Store is the data-access handle built once at startup and passed to every service.
type Store interface {
	AccountStore
	TenantStore
	TableStore
	CatalogStore
	OrderStore
	SignalStore

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
