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

// DefaultPrepTime is used for items and order lines that carry no estimate.
const DefaultPrepTime = 15

// MenuService manages a tenant's categories and items and serves the public menu.
type MenuService struct {
	catalog store.CatalogStore
	tables  store.TableStore
	tenants store.TenantStore
	cache   MenuCache
	notify  notifier
	logger  *zap.Logger
	now     func() time.Time
}

func NewMenuService(st store.Store, cache MenuCache, logger *zap.Logger) *MenuService {
	return &MenuService{
		catalog: st,
		tables:  st,
		tenants: st,
		cache:   cache,
		notify:  notifier{cache: cache, logger: logger},
		logger:  logger,
		now:     time.Now,
	}
}

type CategoryInput struct {
	Name      string
	SortOrder int
}

type ItemInput struct {
	CategoryID  string
	Name        string
	Description string
	Price       float64
	ImageURL    string
	Available   bool
	PrepTime    *int
}

// PublicRestaurant is the part of a tenant a diner may see.
type PublicRestaurant struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type PublicMenu struct {
	Restaurant PublicRestaurant      `json:"restaurant"`
	Table      *models.Table         `json:"table"`
	Categories []models.MenuCategory `json:"categories"`
	Items      []models.MenuItem     `json:"items"`
}

func (s *MenuService) CreateCategory(ctx context.Context, tenantID string, in CategoryInput) (*models.MenuCategory, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, Validation("category name is required")
	}
	category := &models.MenuCategory{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      name,
		SortOrder: in.SortOrder,
		CreatedAt: s.now().UTC(),
	}
	if err := s.catalog.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	s.notify.invalidateMenu(ctx, tenantID)
	return category, nil
}

func (s *MenuService) ListCategories(ctx context.Context, tenantID string) ([]models.MenuCategory, error) {
	return s.catalog.ListCategories(ctx, tenantID)
}

func (s *MenuService) UpdateCategory(ctx context.Context, tenantID, id string, in CategoryInput) (*models.MenuCategory, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, Validation("category name is required")
	}
	category, err := s.catalog.GetCategory(ctx, tenantID, id)
	if err != nil {
		return nil, categoryErr(err)
	}
	category.Name = name
	category.SortOrder = in.SortOrder
	if err := s.catalog.UpdateCategory(ctx, category); err != nil {
		return nil, categoryErr(err)
	}
	s.notify.invalidateMenu(ctx, tenantID)
	return category, nil
}

// DeleteCategory also deletes every item in the category.
func (s *MenuService) DeleteCategory(ctx context.Context, tenantID, id string) error {
	if err := s.catalog.DeleteCategory(ctx, tenantID, id); err != nil {
		return categoryErr(err)
	}
	s.notify.invalidateMenu(ctx, tenantID)
	return nil
}

func (s *MenuService) validateItem(ctx context.Context, tenantID string, in ItemInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return Validation("item name is required")
	}
	if in.Price < 0 {
		return Validation("price must not be negative")
	}
	if in.PrepTime != nil && *in.PrepTime < 0 {
		return Validation("prep_time must not be negative")
	}
	if in.CategoryID == "" {
		return Validation("category_id is required")
	}
	if _, err := s.catalog.GetCategory(ctx, tenantID, in.CategoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Validation("category_id does not belong to this restaurant")
		}
		return err
	}
	return nil
}

func prepTimeOrDefault(p *int) int {
	if p == nil {
		return DefaultPrepTime
	}
	return *p
}

func (s *MenuService) CreateItem(ctx context.Context, tenantID string, in ItemInput) (*models.MenuItem, error) {
	if err := s.validateItem(ctx, tenantID, in); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	item := &models.MenuItem{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Available:   in.Available,
		PrepTime:    prepTimeOrDefault(in.PrepTime),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.catalog.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	s.notify.invalidateMenu(ctx, tenantID)
	return item, nil
}

func (s *MenuService) ListItems(ctx context.Context, tenantID, categoryID string) ([]models.MenuItem, error) {
	return s.catalog.ListItems(ctx, store.ItemFilter{TenantID: tenantID, CategoryID: categoryID})
}

// UpdateItem replaces every editable field of the item.
func (s *MenuService) UpdateItem(ctx context.Context, tenantID, id string, in ItemInput) (*models.MenuItem, error) {
	item, err := s.catalog.GetItem(ctx, tenantID, id)
	if err != nil {
		return nil, itemErr(err)
	}
	if err := s.validateItem(ctx, tenantID, in); err != nil {
		return nil, err
	}
	item.CategoryID = in.CategoryID
	item.Name = strings.TrimSpace(in.Name)
	item.Description = in.Description
	item.Price = in.Price
	item.ImageURL = in.ImageURL
	item.Available = in.Available
	item.PrepTime = prepTimeOrDefault(in.PrepTime)
	item.UpdatedAt = s.now().UTC()
	if err := s.catalog.UpdateItem(ctx, item); err != nil {
		return nil, itemErr(err)
	}
	s.notify.invalidateMenu(ctx, tenantID)
	return item, nil
}

func (s *MenuService) DeleteItem(ctx context.Context, tenantID, id string) error {
	if err := s.catalog.DeleteItem(ctx, tenantID, id); err != nil {
		return itemErr(err)
	}
	s.notify.invalidateMenu(ctx, tenantID)
	return nil
}

// PublicMenu resolves the tenant from the table id and returns its available items.
func (s *MenuService) PublicMenu(ctx context.Context, tableID string) (*PublicMenu, error) {
	table, err := s.tables.GetTable(ctx, tableID)
	if err != nil {
		return nil, tableErr(err)
	}
	tenant, err := s.tenants.GetTenant(ctx, table.TenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}

	menu, err := s.catalogView(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}
	return &PublicMenu{
		Restaurant: PublicRestaurant{
			ID:      tenant.ID,
			Name:    tenant.Name,
			Address: tenant.Address,
			Phone:   tenant.Phone,
		},
		Table:      table,
		Categories: menu.Categories,
		Items:      menu.Items,
	}, nil
}

func (s *MenuService) catalogView(ctx context.Context, tenantID string) (*store.Menu, error) {
	if s.cache != nil {
		menu, err := s.cache.GetMenu(ctx, tenantID)
		switch {
		case err != nil:
			menuCacheLookups.WithLabelValues("error").Inc()
			s.logger.Warn("menu cache read failed", zap.String("restaurant_id", tenantID), zap.Error(err))
		case menu != nil:
			menuCacheLookups.WithLabelValues("hit").Inc()
			return menu, nil
		default:
			menuCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	categories, err := s.catalog.ListCategories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	items, err := s.catalog.ListItems(ctx, store.ItemFilter{TenantID: tenantID, AvailableOnly: true})
	if err != nil {
		return nil, err
	}
	menu := &store.Menu{Categories: categories, Items: items}

	if s.cache != nil {
		if err := s.cache.SetMenu(ctx, tenantID, menu); err != nil {
			s.logger.Warn("menu cache write failed", zap.String("restaurant_id", tenantID), zap.Error(err))
		}
	}
	return menu, nil
}

func categoryErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrCategoryNotFound
	}
	return err
}

func itemErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrItemNotFound
	}
	return err
}

func tableErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrTableNotFound
	}
	return err
}
