package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access level carried by an account.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleOwner   Role = "owner"
	RoleCashier Role = "cashier"
	RoleKitchen Role = "kitchen"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleCashier, RoleKitchen:
		return true
	}
	return false
}

// NeedsTenant reports whether accounts with this role must belong to a restaurant.
func (r Role) NeedsTenant() bool {
	return r != RoleAdmin
}

type Account struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" bson:"email" json:"email"`
	PasswordHash string    `gorm:"not null" bson:"password_hash" json:"-"`
	FullName     string    `gorm:"not null" bson:"full_name" json:"full_name"`
	Role         Role      `gorm:"type:varchar(20);not null" bson:"role" json:"role"`
	TenantID     string    `gorm:"type:varchar(36);index" bson:"restaurant_id,omitempty" json:"restaurant_id,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// Initialize UUID before creating
func (a *Account) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return
}
