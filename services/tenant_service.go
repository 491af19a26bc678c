package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"qrmenu-backend/models"
	"qrmenu-backend/store"
	"qrmenu-backend/utils"
)

type ProvisioningConfig struct {
	StaffPassword    string
	SubscriptionDays int
}

// TenantService provisions restaurants and their staff accounts.
type TenantService struct {
	store  store.Store
	auth   *AuthService
	cfg    ProvisioningConfig
	notify notifier
	logger *zap.Logger
	now    func() time.Time
}

func NewTenantService(st store.Store, auth *AuthService, cfg ProvisioningConfig, cache MenuCache, logger *zap.Logger) *TenantService {
	return &TenantService{
		store:  st,
		auth:   auth,
		cfg:    cfg,
		notify: notifier{cache: cache, logger: logger},
		logger: logger,
		now:    time.Now,
	}
}

type CreateTenantInput struct {
	Name           string
	Address        string
	Phone          string
	OwnerEmail     string
	OwnerPassword  string
	OwnerFullName  string
	CashierEnabled bool
	KitchenEnabled bool
}

// StaffEmail is the login created for a cashier or kitchen module.
func StaffEmail(role models.Role, tenantID string) string {
	return fmt.Sprintf("%s@%s.local", role, tenantID)
}

// Create writes the tenant, its owner and any enabled staff accounts in one step.
func (s *TenantService) Create(ctx context.Context, in CreateTenantInput) (*models.Tenant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, Validation("restaurant name is required")
	}
	if in.Phone != "" && !utils.ValidatePhone(in.Phone) {
		return nil, Validation("invalid phone number: %q", in.Phone)
	}

	now := s.now().UTC()
	tenant := &models.Tenant{
		ID:                 uuid.NewString(),
		Name:               name,
		Address:            strings.TrimSpace(in.Address),
		Phone:              strings.TrimSpace(in.Phone),
		SubscriptionStatus: models.SubscriptionActive,
		SubscriptionEnd:    now.AddDate(0, 0, s.cfg.SubscriptionDays),
		CashierEnabled:     in.CashierEnabled,
		KitchenEnabled:     in.KitchenEnabled,
		CreatedAt:          now,
	}

	owner, err := s.auth.NewAccount(RegisterInput{
		Email:    in.OwnerEmail,
		Password: in.OwnerPassword,
		FullName: in.OwnerFullName,
		Role:     models.RoleOwner,
		TenantID: tenant.ID,
	})
	if err != nil {
		return nil, err
	}
	tenant.OwnerID = owner.ID
	accounts := []*models.Account{owner}

	staff := []struct {
		enabled bool
		role    models.Role
		name    string
	}{
		{in.CashierEnabled, models.RoleCashier, "Cashier"},
		{in.KitchenEnabled, models.RoleKitchen, "Kitchen"},
	}
	for _, st := range staff {
		if !st.enabled {
			continue
		}
		account, err := s.auth.NewAccount(RegisterInput{
			Email:    StaffEmail(st.role, tenant.ID),
			Password: s.cfg.StaffPassword,
			FullName: name + " " + st.name,
			Role:     st.role,
			TenantID: tenant.ID,
		})
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	if err := s.store.CreateTenant(ctx, tenant, accounts); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	s.logger.Info("restaurant provisioned",
		zap.String("restaurant_id", tenant.ID),
		zap.String("owner_id", owner.ID),
		zap.Int("accounts", len(accounts)))
	return tenant, nil
}

func (s *TenantService) Get(ctx context.Context, id string) (*models.Tenant, error) {
	tenant, err := s.store.GetTenant(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTenantNotFound
	}
	return tenant, err
}

func (s *TenantService) List(ctx context.Context) ([]models.Tenant, error) {
	return s.store.ListTenants(ctx)
}

// Delete removes the tenant and everything scoped to it. There is no undo.
func (s *TenantService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTenant(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTenantNotFound
		}
		return err
	}
	s.notify.invalidateMenu(ctx, id)
	s.logger.Info("restaurant deleted", zap.String("restaurant_id", id))
	return nil
}

type ProfileInput struct {
	Name    string
	Address string
	Phone   string
}

// UpdateProfile rewrites the restaurant details a diner sees on the menu.
func (s *TenantService) UpdateProfile(ctx context.Context, id string, in ProfileInput) (*models.Tenant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, Validation("restaurant name is required")
	}
	if in.Phone != "" && !utils.ValidatePhone(in.Phone) {
		return nil, Validation("invalid phone number: %q", in.Phone)
	}
	tenant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tenant.Name = name
	tenant.Address = strings.TrimSpace(in.Address)
	tenant.Phone = strings.TrimSpace(in.Phone)
	if err := s.store.UpdateTenantProfile(ctx, tenant); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return tenant, nil
}

// Staff lists every account bound to the tenant, owner included.
func (s *TenantService) Staff(ctx context.Context, id string) ([]models.Account, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListAccounts(ctx, store.AccountFilter{TenantID: id})
}

func (s *TenantService) Accounts(ctx context.Context) ([]models.Account, error) {
	return s.store.ListAccounts(ctx, store.AccountFilter{})
}

// DaysLeft counts the whole days until the subscription ends, zero once it has passed.
func (s *TenantService) DaysLeft(tenant *models.Tenant) int {
	days := utils.DaysBetween(s.now().UTC(), tenant.SubscriptionEnd.UTC())
	if days < 0 {
		return 0
	}
	return days
}

// ExpireSubscriptions flags tenants whose subscription window has passed.
func (s *TenantService) ExpireSubscriptions(ctx context.Context) (int64, error) {
	return s.store.ExpireSubscriptions(ctx, s.now().UTC())
}
