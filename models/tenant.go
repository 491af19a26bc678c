package models

import (
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionExpired SubscriptionStatus = "expired"
)

// Tenant is one onboarded restaurant. Everything else is partitioned by its ID.
type Tenant struct {
	ID                 string             `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"id"`
	Name               string             `gorm:"not null" bson:"name" json:"name"`
	Address            string             `bson:"address" json:"address"`
	Phone              string             `bson:"phone" json:"phone"`
	OwnerID            string             `gorm:"type:varchar(36);index;not null" bson:"owner_id" json:"owner_id"`
	SubscriptionStatus SubscriptionStatus `gorm:"type:varchar(20);not null" bson:"subscription_status" json:"subscription_status"`
	SubscriptionEnd    time.Time          `bson:"subscription_end" json:"subscription_end"`
	CashierEnabled     bool               `bson:"cashier_enabled" json:"cashier_enabled"`
	KitchenEnabled     bool               `bson:"kitchen_enabled" json:"kitchen_enabled"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
}

func (Tenant) TableName() string {
	return "restaurants"
}
