package services

import (
	"context"
	"time"

	"qrmenu-backend/models"
	"qrmenu-backend/store"
	"qrmenu-backend/utils"
)

// StatsService aggregates dashboard figures. Revenue counts completed orders only.
type StatsService struct {
	store store.Store
	now   func() time.Time
}

func NewStatsService(st store.Store) *StatsService {
	return &StatsService{store: st, now: time.Now}
}

type AdminStats struct {
	TotalRestaurants  int64   `json:"total_restaurants"`
	ActiveRestaurants int64   `json:"active_restaurants"`
	TotalUsers        int64   `json:"total_users"`
	TotalOrders       int64   `json:"total_orders"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalReviews      int64   `json:"total_reviews"`
	AverageRating     float64 `json:"average_rating"`
}

type RestaurantFigures struct {
	RestaurantID string  `json:"restaurant_id"`
	Name         string  `json:"name"`
	Orders       int64   `json:"orders"`
	Revenue      float64 `json:"revenue"`
}

type DailyFigures struct {
	Date    string  `json:"date"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type Analytics struct {
	OrdersByStatus map[models.OrderStatus]int64 `json:"orders_by_status"`
	Restaurants    []RestaurantFigures          `json:"restaurants"`
	Daily          []DailyFigures               `json:"daily"`
}

type OwnerStats struct {
	TotalOrders        int64   `json:"total_orders"`
	TodayOrders        int64   `json:"today_orders"`
	ActiveOrders       int64   `json:"active_orders"`
	TotalRevenue       float64 `json:"total_revenue"`
	TodayRevenue       float64 `json:"today_revenue"`
	Tables             int     `json:"tables"`
	MenuItems          int     `json:"menu_items"`
	Categories         int     `json:"categories"`
	PendingWaiterCalls int     `json:"pending_waiter_calls"`
	ReviewCount        int64   `json:"review_count"`
	AverageRating      float64 `json:"average_rating"`
}

// totals folds summary rows into an order count and completed revenue.
func totals(rows []store.OrderSummary) (count int64, revenue float64) {
	for _, r := range rows {
		count += r.Count
		if r.Status == models.OrderCompleted {
			revenue += r.Revenue
		}
	}
	return count, utils.RoundCents(revenue)
}

func (s *StatsService) Admin(ctx context.Context) (*AdminStats, error) {
	restaurants, err := s.store.CountTenants(ctx, "")
	if err != nil {
		return nil, err
	}
	active, err := s.store.CountTenants(ctx, models.SubscriptionActive)
	if err != nil {
		return nil, err
	}
	users, err := s.store.CountAccounts(ctx, store.AccountFilter{})
	if err != nil {
		return nil, err
	}
	rows, err := s.store.SummarizeOrders(ctx, store.OrderFilter{})
	if err != nil {
		return nil, err
	}
	reviews, err := s.store.SummarizeReviews(ctx, "")
	if err != nil {
		return nil, err
	}
	orders, revenue := totals(rows)
	return &AdminStats{
		TotalRestaurants:  restaurants,
		ActiveRestaurants: active,
		TotalUsers:        users,
		TotalOrders:       orders,
		TotalRevenue:      revenue,
		TotalReviews:      reviews.Count,
		AverageRating:     utils.RoundCents(reviews.Average),
	}, nil
}

// MaxAnalyticsDays bounds the daily series; each day is one summary query.
const MaxAnalyticsDays = 90

// Analytics breaks orders down by status, by restaurant and over the last days.
// Zero days means a week.
func (s *StatsService) Analytics(ctx context.Context, days int) (*Analytics, error) {
	if days == 0 {
		days = 7
	}
	if days < 0 || days > MaxAnalyticsDays {
		return nil, Validation("days must be between 1 and %d", MaxAnalyticsDays)
	}
	rows, err := s.store.SummarizeOrders(ctx, store.OrderFilter{})
	if err != nil {
		return nil, err
	}
	tenants, err := s.store.ListTenants(ctx)
	if err != nil {
		return nil, err
	}

	out := &Analytics{OrdersByStatus: map[models.OrderStatus]int64{}}
	perTenant := map[string][]store.OrderSummary{}
	for _, r := range rows {
		out.OrdersByStatus[r.Status] += r.Count
		perTenant[r.TenantID] = append(perTenant[r.TenantID], r)
	}
	for _, t := range tenants {
		count, revenue := totals(perTenant[t.ID])
		out.Restaurants = append(out.Restaurants, RestaurantFigures{
			RestaurantID: t.ID,
			Name:         t.Name,
			Orders:       count,
			Revenue:      revenue,
		})
	}

	for _, day := range utils.DayWindows(s.now().UTC(), days) {
		rows, err := s.store.SummarizeOrders(ctx, store.OrderFilter{Since: day, Until: day.AddDate(0, 0, 1)})
		if err != nil {
			return nil, err
		}
		count, revenue := totals(rows)
		out.Daily = append(out.Daily, DailyFigures{
			Date:    day.Format("2006-01-02"),
			Orders:  count,
			Revenue: revenue,
		})
	}
	return out, nil
}

func (s *StatsService) Owner(ctx context.Context, tenantID string) (*OwnerStats, error) {
	all, err := s.store.SummarizeOrders(ctx, store.OrderFilter{TenantID: tenantID})
	if err != nil {
		return nil, err
	}
	today, err := s.store.SummarizeOrders(ctx, store.OrderFilter{
		TenantID: tenantID,
		Since:    utils.BeginningOfDay(s.now().UTC()),
	})
	if err != nil {
		return nil, err
	}
	tables, err := s.store.ListTables(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ListItems(ctx, store.ItemFilter{TenantID: tenantID})
	if err != nil {
		return nil, err
	}
	categories, err := s.store.ListCategories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	calls, err := s.store.ListWaiterCalls(ctx, tenantID, models.WaiterCallPending)
	if err != nil {
		return nil, err
	}
	reviews, err := s.store.SummarizeReviews(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	stats := &OwnerStats{
		Tables:             len(tables),
		MenuItems:          len(items),
		Categories:         len(categories),
		PendingWaiterCalls: len(calls),
		ReviewCount:        reviews.Count,
		AverageRating:      utils.RoundCents(reviews.Average),
	}
	stats.TotalOrders, stats.TotalRevenue = totals(all)
	stats.TodayOrders, stats.TodayRevenue = totals(today)
	for _, r := range all {
		if r.Status != models.OrderCompleted {
			stats.ActiveOrders += r.Count
		}
	}
	return stats, nil
}
