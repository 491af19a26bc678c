package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrmenu-backend/models"
)

// statsFixture leaves bistro with three 25.00 orders (one paid), two reviews
// and a pending waiter call, and other with one open order.
func statsFixture(t *testing.T) (*harness, *models.Tenant, *models.Tenant) {
	t.Helper()
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()
	tenant, table := h.restaurant(t, "bistro")
	other, otherTable := h.restaurant(t, "other")

	paid := h.placeOrder(t, table.ID, models.PaymentCash)
	h.placeOrder(t, table.ID, models.PaymentCash)
	h.placeOrder(t, table.ID, models.PaymentCard)
	h.placeOrder(t, otherTable.ID, models.PaymentCard)
	_, err := h.orders.SetPayment(ctx, tenant.ID, paid.ID, models.PaymentPaid)
	require.NoError(t, err)

	mains, err := h.menu.CreateCategory(ctx, tenant.ID, CategoryInput{Name: "Mains"})
	require.NoError(t, err)
	_, err = h.menu.CreateItem(ctx, tenant.ID, ItemInput{CategoryID: mains.ID, Name: "Soup", Price: 5, Available: true})
	require.NoError(t, err)
	_, err = h.menu.CreateItem(ctx, tenant.ID, ItemInput{CategoryID: mains.ID, Name: "Stew", Price: 9})
	require.NoError(t, err)

	for _, rating := range []int{4, 5} {
		_, err = h.signals.CreateReview(ctx, ReviewInput{TableID: table.ID, Rating: rating})
		require.NoError(t, err)
	}
	_, err = h.signals.CallWaiter(ctx, table.ID)
	require.NoError(t, err)
	return h, tenant, other
}

func TestStatsService_Owner(t *testing.T) {
	h, tenant, _ := statsFixture(t)

	stats, err := h.stats.Owner(context.Background(), tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, &OwnerStats{
		TotalOrders:        3,
		TodayOrders:        3,
		ActiveOrders:       2,
		TotalRevenue:       25,
		TodayRevenue:       25,
		Tables:             1,
		MenuItems:          2,
		Categories:         1,
		PendingWaiterCalls: 1,
		ReviewCount:        2,
		AverageRating:      4.5,
	}, stats)

	h.clock.advance(24 * time.Hour)
	tomorrow, err := h.stats.Owner(context.Background(), tenant.ID)
	require.NoError(t, err)
	assert.Zero(t, tomorrow.TodayOrders)
	assert.Equal(t, int64(3), tomorrow.TotalOrders)
}

func TestStatsService_Admin(t *testing.T) {
	h, _, _ := statsFixture(t)

	stats, err := h.stats.Admin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &AdminStats{
		TotalRestaurants:  2,
		ActiveRestaurants: 2,
		TotalUsers:        6,
		TotalOrders:       4,
		TotalRevenue:      25,
		TotalReviews:      2,
		AverageRating:     4.5,
	}, stats)
}

func TestStatsService_Analytics(t *testing.T) {
	h, tenant, other := statsFixture(t)

	analytics, err := h.stats.Analytics(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), analytics.OrdersByStatus[models.OrderPending])
	assert.Equal(t, int64(1), analytics.OrdersByStatus[models.OrderCompleted])

	byID := map[string]RestaurantFigures{}
	for _, r := range analytics.Restaurants {
		byID[r.RestaurantID] = r
	}
	assert.Equal(t, RestaurantFigures{RestaurantID: tenant.ID, Name: "bistro", Orders: 3, Revenue: 25}, byID[tenant.ID])
	assert.Equal(t, RestaurantFigures{RestaurantID: other.ID, Name: "other", Orders: 1}, byID[other.ID])

	require.Len(t, analytics.Daily, 7)
	assert.Equal(t, "2026-03-08", analytics.Daily[0].Date)
	assert.Zero(t, analytics.Daily[0].Orders)
	assert.Equal(t, DailyFigures{Date: "2026-03-14", Orders: 4, Revenue: 25}, analytics.Daily[6])
}

func TestStatsService_AnalyticsWindowIsBounded(t *testing.T) {
	h, _, _ := statsFixture(t)
	ctx := context.Background()

	longest, err := h.stats.Analytics(ctx, MaxAnalyticsDays)
	require.NoError(t, err)
	require.Len(t, longest.Daily, MaxAnalyticsDays)
	assert.Equal(t, "2026-03-14", longest.Daily[MaxAnalyticsDays-1].Date)

	for _, days := range []int{-1, MaxAnalyticsDays + 1, 200000} {
		_, err := h.stats.Analytics(ctx, days)
		assert.Equal(t, KindValidation, KindOf(err), "days=%d", days)
	}
}
