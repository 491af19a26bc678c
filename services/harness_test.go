package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"qrmenu-backend/models"
	"qrmenu-backend/store"
)

const (
	testSecret        = "test-secret"
	testStaffPassword = "staff123"
)

var t0 = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time {
	return c.t
}

func (c *testClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, event models.Event) error {
	return m.Called(ctx, event).Error(0)
}

type harness struct {
	store   *store.GormStore
	clock   *testClock
	auth    *AuthService
	tenants *TenantService
	menu    *MenuService
	tables  *TableService
	orders  *OrderService
	signals *SignalService
	stats   *StatsService
}

type harnessOptions struct {
	cache     MenuCache
	publisher EventPublisher
	orders    OrderConfig
}

func newStore(t *testing.T) *store.GormStore {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	s := store.NewGormStore(db)
	require.NoError(t, s.Migrate())
	return s
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()
	st := newStore(t)
	clock := &testClock{t: t0}
	log := zap.NewNop()

	auth := NewAuthService(st, st, AuthConfig{
		JWTSecret:  testSecret,
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, log)
	auth.now = clock.now

	tenants := NewTenantService(st, auth, ProvisioningConfig{
		StaffPassword:    testStaffPassword,
		SubscriptionDays: 30,
	}, opts.cache, log)
	tenants.now = clock.now

	menu := NewMenuService(st, opts.cache, log)
	menu.now = clock.now

	tables := NewTableService(st, DefaultQRGenerator{BaseURL: "https://menu.test"})
	tables.now = clock.now

	orders := NewOrderService(st, opts.orders, opts.publisher, log)
	orders.now = clock.now

	signals := NewSignalService(st, opts.publisher, log)
	signals.now = clock.now

	stats := NewStatsService(st)
	stats.now = clock.now

	return &harness{
		store:   st,
		clock:   clock,
		auth:    auth,
		tenants: tenants,
		menu:    menu,
		tables:  tables,
		orders:  orders,
		signals: signals,
		stats:   stats,
	}
}

// restaurant provisions a tenant with both staff modules and one table.
func (h *harness) restaurant(t *testing.T, name string) (*models.Tenant, *models.Table) {
	t.Helper()
	ctx := context.Background()
	tenant, err := h.tenants.Create(ctx, CreateTenantInput{
		Name:           name,
		OwnerEmail:     name + "-owner@test.com",
		OwnerPassword:  "owner123",
		OwnerFullName:  name + " Owner",
		CashierEnabled: true,
		KitchenEnabled: true,
	})
	require.NoError(t, err)
	table, err := h.tables.Create(ctx, tenant.ID, "1")
	require.NoError(t, err)
	return tenant, table
}

func (h *harness) actor(t *testing.T, tenantID string, role models.Role) *models.Account {
	t.Helper()
	accounts, err := h.store.ListAccounts(context.Background(), store.AccountFilter{TenantID: tenantID, Roles: []models.Role{role}})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	return &accounts[0]
}

func (h *harness) placeOrder(t *testing.T, tableID string, method models.PaymentMethod) *models.Order {
	t.Helper()
	order, err := h.orders.Create(context.Background(), CreateOrderInput{
		TableID:       tableID,
		PaymentMethod: method,
		Items:         []OrderLineInput{{MenuItemID: "m1", Name: "Burger", Price: 12.5, Quantity: 2}},
	})
	require.NoError(t, err)
	return order
}

func intPtr(v int) *int { return &v }
