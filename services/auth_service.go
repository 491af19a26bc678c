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

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// AuthService owns accounts, password checks and session tokens.
type AuthService struct {
	accounts store.AccountStore
	tenants  store.TenantStore
	cfg      AuthConfig
	logger   *zap.Logger
	now      func() time.Time

	// compared against when the email is unknown so both failure paths cost one bcrypt run
	dummyHash string
}

func NewAuthService(accounts store.AccountStore, tenants store.TenantStore, cfg AuthConfig, logger *zap.Logger) *AuthService {
	s := &AuthService{
		accounts: accounts,
		tenants:  tenants,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
	if hash, err := utils.HashPassword(uuid.NewString(), cfg.BcryptCost); err == nil {
		s.dummyHash = hash
	}
	return s
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     models.Role
	TenantID string
}

// Session is what a successful login returns.
type Session struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	Account     *models.Account `json:"user"`
}

// NewAccount validates the input and builds an account with a hashed password.
// Nothing is persisted.
func (s *AuthService) NewAccount(in RegisterInput) (*models.Account, error) {
	email := utils.NormalizeEmail(in.Email)
	if !utils.ValidateEmail(email) {
		return nil, Validation("invalid email address: %q", in.Email)
	}
	if len(in.Password) < 6 {
		return nil, Validation("password must be at least 6 characters")
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, Validation("full name is required")
	}
	if !in.Role.Valid() {
		return nil, Validation("unknown role %q", in.Role)
	}
	tenantID := in.TenantID
	if in.Role.NeedsTenant() && tenantID == "" {
		return nil, Validation("restaurant_id is required for role %s", in.Role)
	}
	if !in.Role.NeedsTenant() {
		tenantID = ""
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         in.Role,
		TenantID:     tenantID,
		CreatedAt:    s.now().UTC(),
	}, nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	account, err := s.NewAccount(in)
	if err != nil {
		return nil, err
	}
	if account.TenantID != "" {
		if _, err := s.tenants.GetTenant(ctx, account.TenantID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrTenantNotFound
			}
			return nil, err
		}
	}

	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	s.logger.Info("account registered",
		zap.String("account_id", account.ID),
		zap.String("role", string(account.Role)))
	return account, nil
}

// Authenticate returns the same error for an unknown email and a wrong password.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, utils.NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		utils.CheckPasswordHash(password, s.dummyHash)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.cfg.JWTSecret, account.ID, s.now(), s.cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: token, TokenType: "bearer", Account: account}, nil
}

func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.Account, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	accountID, err := utils.ParseToken(s.cfg.JWTSecret, token, s.now())
	if err != nil {
		return nil, ErrInvalidSession
	}
	account, err := s.accounts.GetAccount(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// ChangePassword replaces the account's password after checking the current one.
// Tokens already issued stay valid until they expire.
func (s *AuthService) ChangePassword(ctx context.Context, account *models.Account, current, next string) error {
	if !utils.CheckPasswordHash(current, account.PasswordHash) {
		return ErrInvalidCredentials
	}
	if len(next) < 6 {
		return Validation("password must be at least 6 characters")
	}
	hash, err := utils.HashPassword(next, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePassword(ctx, account.ID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidSession
		}
		return err
	}
	account.PasswordHash = hash
	s.logger.Info("password changed", zap.String("account_id", account.ID))
	return nil
}

// EnsureAdmin creates the platform admin unless an account with that email exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, fullName string) (*models.Account, bool, error) {
	existing, err := s.accounts.GetAccountByEmail(ctx, utils.NormalizeEmail(email))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}
	account, err := s.Register(ctx, RegisterInput{
		Email:    email,
		Password: password,
		FullName: fullName,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return nil, false, err
	}
	return account, true, nil
}
