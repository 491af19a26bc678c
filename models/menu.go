package models

import (
	"time"
)

type MenuCategory struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"id"`
	TenantID  string    `gorm:"type:varchar(36);index;not null" bson:"restaurant_id" json:"restaurant_id"`
	Name      string    `gorm:"not null" bson:"name" json:"name"`
	SortOrder int       `gorm:"column:sort_order" bson:"order" json:"order"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func (MenuCategory) TableName() string {
	return "menu_categories"
}

type MenuItem struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"id"`
	TenantID    string    `gorm:"type:varchar(36);index;not null" bson:"restaurant_id" json:"restaurant_id"`
	CategoryID  string    `gorm:"type:varchar(36);index;not null" bson:"category_id" json:"category_id"`
	Name        string    `gorm:"not null" bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Price       float64   `gorm:"type:decimal(10,2);not null" bson:"price" json:"price"`
	ImageURL    string    `bson:"image_url" json:"image_url"`
	Available   bool      `bson:"available" json:"available"`
	PrepTime    int       `bson:"preparation_time_minutes" json:"preparation_time_minutes"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}
