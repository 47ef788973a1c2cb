package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewerManuscriptMatch links a reviewer to a manuscript with a
// normalized relevance score. One row per pair; the match service checks
// for duplicates before insert.
type ReviewerManuscriptMatch struct {
	ID                  string    `gorm:"primaryKey;column:id" json:"id"`
	ManuscriptID        string    `gorm:"column:manuscript_id" json:"manuscript_id"`
	ReviewerID          string    `gorm:"column:reviewer_id" json:"reviewer_id"`
	MatchScore          float64   `gorm:"column:match_score" json:"match_score"`
	ConflictsOfInterest *string   `gorm:"column:conflicts_of_interest" json:"conflicts_of_interest,omitempty"`
	IsInitialSuggestion bool      `gorm:"column:is_initial_suggestion" json:"is_initial_suggestion"`
	CalculatedAt        time.Time `gorm:"column:calculated_at" json:"calculated_at"`
	CreatedAt           time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ReviewerManuscriptMatch) TableName() string { return "reviewer_manuscript_matches" }

func (m *ReviewerManuscriptMatch) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
