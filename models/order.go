package models

import (
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
)

var orderStatusRank = map[OrderStatus]int{
	OrderPending:   0,
	OrderPreparing: 1,
	OrderReady:     2,
	OrderCompleted: 3,
}

// Rank is the position of s in the lifecycle, or -1 for an unknown status.
func (s OrderStatus) Rank() int {
	if r, ok := orderStatusRank[s]; ok {
		return r
	}
	return -1
}

func (s OrderStatus) Valid() bool {
	return s.Rank() >= 0
}

// Before returns every status that precedes s.
func (s OrderStatus) Before() []OrderStatus {
	var out []OrderStatus
	for _, st := range []OrderStatus{OrderPending, OrderPreparing, OrderReady, OrderCompleted} {
		if st.Rank() < s.Rank() {
			out = append(out, st)
		}
	}
	return out
}

type PaymentMethod string

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

type PaymentStatus string

func (p PaymentStatus) Valid() bool {
	return p == PaymentPending || p == PaymentPaid
}

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type Order struct {
	ID               string        `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"id"`
	TenantID         string        `gorm:"type:varchar(36);index;not null" bson:"restaurant_id" json:"restaurant_id"`
	TableID          string        `gorm:"type:varchar(36);index;not null" bson:"table_id" json:"table_id"`
	TableNumber      string        `bson:"table_number" json:"table_number"`
	Items            []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" bson:"items" json:"items"`
	TotalAmount      float64       `gorm:"type:decimal(10,2);not null" bson:"total_amount" json:"total_amount"`
	PaymentMethod    PaymentMethod `gorm:"type:varchar(20);not null" bson:"payment_method" json:"payment_method"`
	PaymentStatus    PaymentStatus `gorm:"type:varchar(20);not null" bson:"payment_status" json:"payment_status"`
	Status           OrderStatus   `gorm:"type:varchar(20);index;not null" bson:"status" json:"status"`
	EstimatedMinutes int           `bson:"estimated_completion_minutes" json:"estimated_completion_minutes"`
	CreatedAt        time.Time     `gorm:"index" bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `bson:"updated_at" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is a line snapshotted from the menu when the order was placed.
type OrderItem struct {
	ID         string  `gorm:"type:varchar(36);primaryKey" bson:"id" json:"-"`
	OrderID    string  `gorm:"type:varchar(36);index;not null" bson:"-" json:"-"`
	Line       int     `gorm:"not null" bson:"-" json:"-"`
	MenuItemID string  `gorm:"type:varchar(36)" bson:"menu_item_id" json:"menu_item_id"`
	Name       string  `gorm:"not null" bson:"name" json:"name"`
	Price      float64 `gorm:"type:decimal(10,2);not null" bson:"price" json:"price"`
	Quantity   int     `gorm:"not null" bson:"quantity" json:"quantity"`
	PrepTime   int     `bson:"preparation_time_minutes" json:"preparation_time_minutes"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
