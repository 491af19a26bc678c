package models

import "time"

type Review struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"id"`
	TenantID  string    `gorm:"type:varchar(36);index;not null" bson:"restaurant_id" json:"restaurant_id"`
	OrderID   string    `gorm:"type:varchar(36)" bson:"order_id,omitempty" json:"order_id,omitempty"`
	TableID   string    `gorm:"type:varchar(36)" bson:"table_id,omitempty" json:"table_id,omitempty"`
	Rating    int       `gorm:"not null" bson:"rating" json:"rating"`
	Comment   string    `bson:"comment" json:"comment"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}

type WaiterCallStatus string

const (
	WaiterCallPending  WaiterCallStatus = "pending"
	WaiterCallResolved WaiterCallStatus = "resolved"
)

type WaiterCall struct {
	ID          string           `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"id"`
	TenantID    string           `gorm:"type:varchar(36);index;not null" bson:"restaurant_id" json:"restaurant_id"`
	TableID     string           `gorm:"type:varchar(36);index;not null" bson:"table_id" json:"table_id"`
	TableNumber string           `bson:"table_number" json:"table_number"`
	Status      WaiterCallStatus `gorm:"type:varchar(20);not null" bson:"status" json:"status"`
	CreatedAt   time.Time        `bson:"created_at" json:"created_at"`
	ResolvedAt  *time.Time       `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}

func (WaiterCall) TableName() string {
	return "waiter_calls"
}
