package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assignment role values
const (
	AssignmentRoleEditor       = "editor"
	AssignmentRoleAuthor       = "author"
	AssignmentRoleCollaborator = "collaborator"
	AssignmentRoleReviewer     = "reviewer"
)

// UserManuscript assigns a user to a manuscript in a given role.
// Soft-deleted via is_active and reactivated rather than re-inserted.
type UserManuscript struct {
	ID           string    `gorm:"primaryKey;column:id" json:"id"`
	UserID       string    `gorm:"column:user_id" json:"user_id"`
	ManuscriptID string    `gorm:"column:manuscript_id" json:"manuscript_id"`
	Role         string    `gorm:"column:role" json:"role"`
	AssignedDate time.Time `gorm:"column:assigned_date" json:"assigned_date"`
	IsActive     bool      `gorm:"column:is_active" json:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (UserManuscript) TableName() string { return "user_manuscripts" }

func (a *UserManuscript) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AssignmentWithDetails is an assignment row stitched with user and
// manuscript display fields for the admin overview.
type AssignmentWithDetails struct {
	UserManuscript
	UserEmail        string  `json:"user_email"`
	UserFullName     string  `json:"user_full_name"`
	ManuscriptTitle  string  `json:"manuscript_title"`
	ManuscriptCustom *string `json:"manuscript_custom_id,omitempty"`
	Journal          string  `json:"journal"`
	ManuscriptStatus string  `json:"manuscript_status"`
}
