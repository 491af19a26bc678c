package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"qrmenu-backend/models"
	"qrmenu-backend/store"
)

// TableService registers tables. The QR payload is rendered once, at creation.
type TableService struct {
	tables store.TableStore
	qr     QRGenerator
	now    func() time.Time
}

func NewTableService(tables store.TableStore, qr QRGenerator) *TableService {
	return &TableService{tables: tables, qr: qr, now: time.Now}
}

func (s *TableService) Create(ctx context.Context, tenantID, number string) (*models.Table, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, Validation("table_number is required")
	}
	id := uuid.NewString()
	url := s.qr.MenuURL(id)
	payload, err := s.qr.Generate(url)
	if err != nil {
		return nil, err
	}
	table := &models.Table{
		ID:        id,
		TenantID:  tenantID,
		Number:    number,
		MenuURL:   url,
		QRCode:    payload,
		CreatedAt: s.now().UTC(),
	}
	if err := s.tables.CreateTable(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

// Get returns the table only if it belongs to tenantID.
func (s *TableService) Get(ctx context.Context, tenantID, id string) (*models.Table, error) {
	table, err := s.tables.GetTable(ctx, id)
	if err != nil {
		return nil, tableErr(err)
	}
	if table.TenantID != tenantID {
		return nil, ErrTableNotFound
	}
	return table, nil
}

func (s *TableService) List(ctx context.Context, tenantID string) ([]models.Table, error) {
	return s.tables.ListTables(ctx, tenantID)
}

func (s *TableService) Delete(ctx context.Context, tenantID, id string) error {
	return tableErr(s.tables.DeleteTable(ctx, tenantID, id))
}
