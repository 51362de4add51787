package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleMerchant UserRole = "merchant" // creates and manages hotel listings
	RoleAdmin    UserRole = "admin"    // audits and publishes listings
	RoleUser     UserRole = "user"     // can log in, has no dashboard
)

// Valid reports whether r is a known role
func (r UserRole) Valid() bool {
	switch r {
	case RoleMerchant, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// HasDashboard reports whether the role may use the admin console
func (r UserRole) HasDashboard() bool {
	return r == RoleMerchant || r == RoleAdmin
}

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         UserRole       `gorm:"type:varchar(20);default:'merchant';index" json:"role"`
	Email        string         `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone        string         `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Avatar       string         `json:"avatar,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Hotels []Hotel `gorm:"foreignKey:MerchantID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
