package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin    = "admin"
	RoleEditor   = "editor"
	RoleReviewer = "reviewer"
	RoleGuest    = "guest"
)

type UserProfile struct {
	ID         string     `gorm:"primaryKey;column:id" json:"id"`
	Email      string     `gorm:"column:email;unique" json:"email"`
	FullName   string     `gorm:"column:full_name" json:"full_name"`
	Role       string     `gorm:"column:role" json:"role"`
	Password   string     `gorm:"column:password" json:"-"`
	Department *string    `gorm:"column:department" json:"department,omitempty"`
	IsActive   bool       `gorm:"column:is_active" json:"is_active"`
	LastLogin  *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profiles" }

func (u *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *UserProfile) IsAdmin() bool { return u.Role == RoleAdmin }
