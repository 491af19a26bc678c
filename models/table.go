package models

import "time"

// Table is a physical table. Its ID is the only handle a diner ever sees,
// and QRCode is rendered once at creation.
type Table struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"id"`
	TenantID  string    `gorm:"type:varchar(36);index;not null" bson:"restaurant_id" json:"restaurant_id"`
	Number    string    `gorm:"not null" bson:"table_number" json:"table_number"`
	MenuURL   string    `gorm:"not null" bson:"menu_url" json:"menu_url"`
	QRCode    string    `gorm:"type:text;not null" bson:"qr_code" json:"qr_code"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func (Table) TableName() string {
	return "tables"
}
