package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"qrmenu-backend/models"
)

// GormStore implements Store on a relational database.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates every table the store uses.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(
		&models.Account{},
		&models.Tenant{},
		&models.Table{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.WaiterCall{},
	)
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

func emailTaken(tx *gorm.DB, email string) (bool, error) {
	var count int64
	if err := tx.Model(&models.Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ---------- accounts ----------

func (s *GormStore) CreateAccount(ctx context.Context, account *models.Account) error {
	db := s.db.WithContext(ctx)
	taken, err := emailTaken(db, account.Email)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicate
	}
	return translate(db.Create(account).Error)
}

func (s *GormStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (s *GormStore) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func accountQuery(db *gorm.DB, filter AccountFilter) *gorm.DB {
	q := db.Model(&models.Account{})
	if filter.TenantID != "" {
		q = q.Where("tenant_id = ?", filter.TenantID)
	}
	if len(filter.Roles) > 0 {
		q = q.Where("role IN ?", filter.Roles)
	}
	return q
}

func (s *GormStore) ListAccounts(ctx context.Context, filter AccountFilter) ([]models.Account, error) {
	var accounts []models.Account
	err := accountQuery(s.db.WithContext(ctx), filter).Order("created_at DESC").Find(&accounts).Error
	return accounts, err
}

func (s *GormStore) CountAccounts(ctx context.Context, filter AccountFilter) (int64, error) {
	var count int64
	err := accountQuery(s.db.WithContext(ctx), filter).Count(&count).Error
	return count, err
}

func (s *GormStore) UpdatePassword(ctx context.Context, id, hash string) error {
	res := s.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------- tenants ----------

func (s *GormStore) CreateTenant(ctx context.Context, tenant *models.Tenant, accounts []*models.Account) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, account := range accounts {
			taken, err := emailTaken(tx, account.Email)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicate
			}
			if err := tx.Create(account).Error; err != nil {
				return translate(err)
			}
		}
		return translate(tx.Create(tenant).Error)
	})
}

func (s *GormStore) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error; err != nil {
		return nil, translate(err)
	}
	return &tenant, nil
}

func (s *GormStore) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&tenants).Error
	return tenants, err
}

func (s *GormStore) CountTenants(ctx context.Context, status models.SubscriptionStatus) (int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Tenant{})
	if status != "" {
		q = q.Where("subscription_status = ?", status)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (s *GormStore) UpdateTenantProfile(ctx context.Context, tenant *models.Tenant) error {
	res := s.db.WithContext(ctx).Model(&models.Tenant{}).
		Where("id = ?", tenant.ID).
		Updates(map[string]interface{}{
			"name":    tenant.Name,
			"address": tenant.Address,
			"phone":   tenant.Phone,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTenant runs the whole cascade in one transaction.
func (s *GormStore) DeleteTenant(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tenant models.Tenant
		if err := tx.Where("id = ?", id).First(&tenant).Error; err != nil {
			return translate(err)
		}

		orderIDs := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.Order{}).Select("id").Where("tenant_id = ?", id)
		if err := tx.Where("order_id IN (?)", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}

		for _, model := range []interface{}{
			&models.Order{},
			&models.MenuItem{},
			&models.MenuCategory{},
			&models.Table{},
			&models.Review{},
			&models.WaiterCall{},
			&models.Account{},
		} {
			if err := tx.Where("tenant_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&tenant).Error
	})
}

func (s *GormStore) ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Tenant{}).
		Where("subscription_status = ? AND subscription_end < ?", models.SubscriptionActive, now).
		Update("subscription_status", models.SubscriptionExpired)
	return res.RowsAffected, res.Error
}

// ---------- tables ----------

func (s *GormStore) CreateTable(ctx context.Context, table *models.Table) error {
	return translate(s.db.WithContext(ctx).Create(table).Error)
}

func (s *GormStore) GetTable(ctx context.Context, id string) (*models.Table, error) {
	var table models.Table
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&table).Error; err != nil {
		return nil, translate(err)
	}
	return &table, nil
}

func (s *GormStore) ListTables(ctx context.Context, tenantID string) ([]models.Table, error) {
	var tables []models.Table
	err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("created_at ASC").Find(&tables).Error
	return tables, err
}

func (s *GormStore) DeleteTable(ctx context.Context, tenantID, id string) error {
	res := s.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.Table{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------- catalog ----------

func (s *GormStore) CreateCategory(ctx context.Context, category *models.MenuCategory) error {
	return translate(s.db.WithContext(ctx).Create(category).Error)
}

func (s *GormStore) GetCategory(ctx context.Context, tenantID, id string) (*models.MenuCategory, error) {
	var category models.MenuCategory
	if err := s.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (s *GormStore) ListCategories(ctx context.Context, tenantID string) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).
		Order("sort_order ASC").Order("created_at ASC").Find(&categories).Error
	return categories, err
}

func (s *GormStore) UpdateCategory(ctx context.Context, category *models.MenuCategory) error {
	res := s.db.WithContext(ctx).Model(&models.MenuCategory{}).
		Where("tenant_id = ? AND id = ?", category.TenantID, category.ID).
		Updates(map[string]interface{}{
			"name":       category.Name,
			"sort_order": category.SortOrder,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteCategory(ctx context.Context, tenantID, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.MenuCategory{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("tenant_id = ? AND category_id = ?", tenantID, id).Delete(&models.MenuItem{}).Error
	})
}

func (s *GormStore) CreateItem(ctx context.Context, item *models.MenuItem) error {
	return translate(s.db.WithContext(ctx).Create(item).Error)
}

func (s *GormStore) GetItem(ctx context.Context, tenantID, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *GormStore) ListItems(ctx context.Context, filter ItemFilter) ([]models.MenuItem, error) {
	q := s.db.WithContext(ctx).Where("tenant_id = ?", filter.TenantID)
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.AvailableOnly {
		q = q.Where("available = ?", true)
	}
	var items []models.MenuItem
	err := q.Order("created_at ASC").Find(&items).Error
	return items, err
}

func (s *GormStore) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	res := s.db.WithContext(ctx).Model(&models.MenuItem{}).
		Where("tenant_id = ? AND id = ?", item.TenantID, item.ID).
		Updates(map[string]interface{}{
			"category_id": item.CategoryID,
			"name":        item.Name,
			"description": item.Description,
			"price":       item.Price,
			"image_url":   item.ImageURL,
			"available":   item.Available,
			"prep_time":   item.PrepTime,
			"updated_at":  item.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteItem(ctx context.Context, tenantID, id string) error {
	res := s.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.MenuItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------- orders ----------

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("line ASC")
	})
}

func orderQuery(db *gorm.DB, filter OrderFilter) *gorm.DB {
	q := db.Model(&models.Order{})
	if filter.TenantID != "" {
		q = q.Where("tenant_id = ?", filter.TenantID)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if len(filter.ExcludeStatuses) > 0 {
		q = q.Where("status NOT IN ?", filter.ExcludeStatuses)
	}
	if filter.PaymentMethod != "" {
		q = q.Where("payment_method = ?", filter.PaymentMethod)
	}
	if !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		q = q.Where("created_at < ?", filter.Until)
	}
	return q
}

func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	for i := range order.Items {
		order.Items[i].Line = i
	}
	return translate(s.db.WithContext(ctx).Create(order).Error)
}

func (s *GormStore) GetOrder(ctx context.Context, tenantID, id string) (*models.Order, error) {
	var order models.Order
	err := preloadLines(s.db.WithContext(ctx)).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *GormStore) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := preloadLines(orderQuery(s.db.WithContext(ctx), filter))
	if filter.OldestFirst {
		q = q.Order("created_at ASC")
	} else {
		q = q.Order("created_at DESC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var orders []models.Order
	err := q.Find(&orders).Error
	return orders, err
}

func (s *GormStore) TransitionOrder(ctx context.Context, tenantID, id string, from []models.OrderStatus, update OrderUpdate) (*models.Order, error) {
	updates := map[string]interface{}{"updated_at": update.UpdatedAt}
	if update.Status != "" {
		updates["status"] = update.Status
	}
	if update.PaymentStatus != "" {
		updates["payment_status"] = update.PaymentStatus
	}

	q := s.db.WithContext(ctx).Model(&models.Order{}).Where("tenant_id = ? AND id = ?", tenantID, id)
	if from != nil {
		q = q.Where("status IN ?", from)
	}
	if update.WhilePayment != "" {
		q = q.Where("payment_status = ?", update.WhilePayment)
	}
	res := q.Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetOrder(ctx, tenantID, id); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}
	return s.GetOrder(ctx, tenantID, id)
}

func (s *GormStore) SummarizeOrders(ctx context.Context, filter OrderFilter) ([]OrderSummary, error) {
	var out []OrderSummary
	err := orderQuery(s.db.WithContext(ctx), filter).
		Select("tenant_id, status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS revenue").
		Group("tenant_id, status").
		Scan(&out).Error
	return out, err
}

// ---------- reviews & waiter calls ----------

func (s *GormStore) CreateReview(ctx context.Context, review *models.Review) error {
	return translate(s.db.WithContext(ctx).Create(review).Error)
}

func (s *GormStore) ListReviews(ctx context.Context, tenantID string) ([]models.Review, error) {
	q := s.db.WithContext(ctx).Model(&models.Review{})
	if tenantID != "" {
		q = q.Where("tenant_id = ?", tenantID)
	}
	var reviews []models.Review
	err := q.Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (s *GormStore) SummarizeReviews(ctx context.Context, tenantID string) (ReviewSummary, error) {
	q := s.db.WithContext(ctx).Model(&models.Review{})
	if tenantID != "" {
		q = q.Where("tenant_id = ?", tenantID)
	}
	var summary ReviewSummary
	err := q.Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").Scan(&summary).Error
	return summary, err
}

func (s *GormStore) CreateWaiterCall(ctx context.Context, call *models.WaiterCall) error {
	return translate(s.db.WithContext(ctx).Create(call).Error)
}

func (s *GormStore) FindPendingWaiterCall(ctx context.Context, tableID string) (*models.WaiterCall, error) {
	var call models.WaiterCall
	err := s.db.WithContext(ctx).
		Where("table_id = ? AND status = ?", tableID, models.WaiterCallPending).
		Order("created_at ASC").
		First(&call).Error
	if err != nil {
		return nil, translate(err)
	}
	return &call, nil
}

func (s *GormStore) ListWaiterCalls(ctx context.Context, tenantID string, status models.WaiterCallStatus) ([]models.WaiterCall, error) {
	q := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var calls []models.WaiterCall
	err := q.Order("created_at DESC").Find(&calls).Error
	return calls, err
}

func (s *GormStore) ResolveWaiterCall(ctx context.Context, tenantID, id string, at time.Time) (*models.WaiterCall, bool, error) {
	db := s.db.WithContext(ctx)
	res := db.Model(&models.WaiterCall{}).
		Where("tenant_id = ? AND id = ? AND status = ?", tenantID, id, models.WaiterCallPending).
		Updates(map[string]interface{}{
			"status":      models.WaiterCallResolved,
			"resolved_at": at,
		})
	if res.Error != nil {
		return nil, false, res.Error
	}

	var call models.WaiterCall
	if err := db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&call).Error; err != nil {
		return nil, false, translate(err)
	}
	return &call, res.RowsAffected > 0, nil
}
