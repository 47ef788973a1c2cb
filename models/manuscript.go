package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Manuscript status values
const (
	ManuscriptStatusSubmitted        = "submitted"
	ManuscriptStatusUnderReview      = "under_review"
	ManuscriptStatusRevisionRequired = "revision_required"
	ManuscriptStatusAccepted         = "accepted"
	ManuscriptStatusRejected         = "rejected"
)

type Manuscript struct {
	ID             string                      `gorm:"primaryKey;column:id" json:"id"`
	Title          string                      `gorm:"column:title" json:"title"`
	Abstract       string                      `gorm:"column:abstract" json:"abstract"`
	Authors        datatypes.JSONSlice[string] `gorm:"column:authors" json:"authors"`
	Keywords       datatypes.JSONSlice[string] `gorm:"column:keywords" json:"keywords"`
	Journal        string                      `gorm:"column:journal" json:"journal"`
	SubjectArea    string                      `gorm:"column:subject_area" json:"subject_area"`
	ArticleType    *string                     `gorm:"column:article_type" json:"article_type,omitempty"`
	DOI            *string                     `gorm:"column:doi" json:"doi,omitempty"`
	CustomID       *string                     `gorm:"column:custom_id" json:"custom_id,omitempty"`
	SystemID       *string                     `gorm:"column:system_id" json:"system_id,omitempty"`
	SubmissionDate time.Time                   `gorm:"column:submission_date" json:"submission_date"`
	Status         string                      `gorm:"column:status" json:"status"`
	Version        int                         `gorm:"column:version" json:"version"`
	CreatedAt      time.Time                   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time                   `gorm:"column:updated_at" json:"updated_at"`

	// Read-time enrichment, never persisted
	AssignedEditors   []UserProfile `gorm:"-" json:"assigned_editors,omitempty"`
	AssignedEditorIDs []string      `gorm:"-" json:"assigned_editor_ids,omitempty"`
}

func (Manuscript) TableName() string { return "manuscripts" }

func (m *Manuscript) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ManuscriptWithRole is a manuscript annotated with the requesting user's
// role for it (explicit assignment or the admin's implicit access).
type ManuscriptWithRole struct {
	Manuscript
	UserRole     string    `json:"user_role"`
	AssignedDate time.Time `json:"assigned_date"`
	IsActive     bool      `json:"is_active"`
}
