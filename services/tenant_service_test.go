package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrmenu-backend/models"
)

func TestTenantService_CreateProvisionsStaff(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()

	tenant, err := h.tenants.Create(ctx, CreateTenantInput{
		Name:           "Test Restaurant",
		Address:        "1 Main St",
		Phone:          "+1 555-123-4567",
		OwnerEmail:     "owner@test.com",
		OwnerPassword:  "owner123",
		OwnerFullName:  "Owner",
		CashierEnabled: true,
		KitchenEnabled: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionActive, tenant.SubscriptionStatus)
	assert.Equal(t, t0.AddDate(0, 0, 30), tenant.SubscriptionEnd)

	staff, err := h.tenants.Staff(ctx, tenant.ID)
	require.NoError(t, err)
	require.Len(t, staff, 3)

	byRole := map[models.Role]models.Account{}
	for _, a := range staff {
		byRole[a.Role] = a
		assert.Equal(t, tenant.ID, a.TenantID)
	}
	assert.Equal(t, tenant.OwnerID, byRole[models.RoleOwner].ID)
	assert.Equal(t, StaffEmail(models.RoleKitchen, tenant.ID), byRole[models.RoleKitchen].Email)
	assert.Equal(t, "Test Restaurant Cashier", byRole[models.RoleCashier].FullName)

	session, err := h.auth.Authenticate(ctx, StaffEmail(models.RoleKitchen, tenant.ID), testStaffPassword)
	require.NoError(t, err)
	assert.Equal(t, models.RoleKitchen, session.Account.Role)
}

func TestTenantService_CreateWithoutModules(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()

	tenant, err := h.tenants.Create(ctx, CreateTenantInput{
		Name:          "Cafe",
		OwnerEmail:    "cafe@test.com",
		OwnerPassword: "owner123",
		OwnerFullName: "Owner",
	})
	require.NoError(t, err)

	staff, err := h.tenants.Staff(ctx, tenant.ID)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, models.RoleOwner, staff[0].Role)
}

func TestTenantService_DuplicateOwnerLeavesNothingBehind(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()
	h.restaurant(t, "first")

	_, err := h.tenants.Create(ctx, CreateTenantInput{
		Name:           "second",
		OwnerEmail:     "first-owner@test.com",
		OwnerPassword:  "owner123",
		OwnerFullName:  "Owner",
		KitchenEnabled: true,
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	tenants, err := h.tenants.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tenants, 1)
	accounts, err := h.tenants.Accounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 3)
}

func TestTenantService_CreateValidation(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()

	_, err := h.tenants.Create(ctx, CreateTenantInput{Name: " ", OwnerEmail: "o@test.com", OwnerPassword: "owner123", OwnerFullName: "O"})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = h.tenants.Create(ctx, CreateTenantInput{Name: "X", Phone: "call me", OwnerEmail: "o@test.com", OwnerPassword: "owner123", OwnerFullName: "O"})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = h.tenants.Create(ctx, CreateTenantInput{Name: "X", OwnerEmail: "o@test.com", OwnerPassword: "123", OwnerFullName: "O"})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestTenantService_Delete(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()
	tenant, table := h.restaurant(t, "doomed")
	h.placeOrder(t, table.ID, models.PaymentCash)

	require.NoError(t, h.tenants.Delete(ctx, tenant.ID))

	_, err := h.tenants.Get(ctx, tenant.ID)
	assert.ErrorIs(t, err, ErrTenantNotFound)
	_, err = h.tables.Get(ctx, tenant.ID, table.ID)
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.ErrorIs(t, h.tenants.Delete(ctx, tenant.ID), ErrTenantNotFound)
	_, err = h.tenants.Staff(ctx, tenant.ID)
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestTenantService_ExpireSubscriptions(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()
	tenant, _ := h.restaurant(t, "bistro")

	n, err := h.tenants.ExpireSubscriptions(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	h.clock.advance(31 * 24 * time.Hour)
	n, err = h.tenants.ExpireSubscriptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := h.tenants.Get(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionExpired, got.SubscriptionStatus)
}

func TestSubscriptionService_Sweep(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	tenant, _ := h.restaurant(t, "bistro")
	h.clock.advance(31 * 24 * time.Hour)

	sweeper := NewSubscriptionService(h.tenants, "@every 1h", h.auth.logger)
	require.NoError(t, sweeper.StartScheduler())
	sweeper.Stop()

	got, err := h.tenants.Get(context.Background(), tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionExpired, got.SubscriptionStatus)
}

func TestSubscriptionService_BadSchedule(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	sweeper := NewSubscriptionService(h.tenants, "not a schedule", h.auth.logger)
	assert.Error(t, sweeper.StartScheduler())
}

func TestTenantService_UpdateProfile(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()
	tenant, table := h.restaurant(t, "bistro")

	updated, err := h.tenants.UpdateProfile(ctx, tenant.ID, ProfileInput{Name: " Bistro Deluxe ", Address: "2 High St", Phone: "+441234567890"})
	require.NoError(t, err)
	assert.Equal(t, "Bistro Deluxe", updated.Name)
	assert.Equal(t, tenant.OwnerID, updated.OwnerID)

	menu, err := h.menu.PublicMenu(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bistro Deluxe", menu.Restaurant.Name)
	assert.Equal(t, "2 High St", menu.Restaurant.Address)

	_, err = h.tenants.UpdateProfile(ctx, tenant.ID, ProfileInput{Name: ""})
	assert.Equal(t, KindValidation, KindOf(err))
	_, err = h.tenants.UpdateProfile(ctx, tenant.ID, ProfileInput{Name: "X", Phone: "nope"})
	assert.Equal(t, KindValidation, KindOf(err))
	_, err = h.tenants.UpdateProfile(ctx, "missing", ProfileInput{Name: "X"})
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestTenantService_DaysLeft(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	tenant, _ := h.restaurant(t, "bistro")

	assert.Equal(t, 30, h.tenants.DaysLeft(tenant))
	h.clock.advance(10*24*time.Hour + time.Hour)
	assert.Equal(t, 20, h.tenants.DaysLeft(tenant))
	h.clock.advance(25 * 24 * time.Hour)
	assert.Zero(t, h.tenants.DaysLeft(tenant))
}
