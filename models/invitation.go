package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review invitation status values
const (
	InvitationStatusPending         = "pending"
	InvitationStatusAccepted        = "accepted"
	InvitationStatusDeclined        = "declined"
	InvitationStatusExpired         = "expired"
	InvitationStatusCompleted       = "completed"
	InvitationStatusReportSubmitted = "report_submitted"
	InvitationStatusInvalidated     = "invalidated"
	InvitationStatusRevoked         = "revoked"
	InvitationStatusOverdue         = "overdue"
)

// invitationTransitions lists the allowed status moves. revoked and expired
// are terminal; a revoked reviewer re-enters the workflow via the queue.
var invitationTransitions = map[string][]string{
	InvitationStatusPending:         {InvitationStatusAccepted, InvitationStatusDeclined, InvitationStatusExpired, InvitationStatusRevoked},
	InvitationStatusAccepted:        {InvitationStatusCompleted, InvitationStatusReportSubmitted},
	InvitationStatusCompleted:       {InvitationStatusReportSubmitted},
	InvitationStatusReportSubmitted: {InvitationStatusInvalidated},
	InvitationStatusInvalidated:     {InvitationStatusReportSubmitted},
}

// CanTransitionInvitation reports whether an invitation may move from one
// status to another.
func CanTransitionInvitation(from, to string) bool {
	for _, next := range invitationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type ReviewInvitation struct {
	ID           string `gorm:"primaryKey;column:id" json:"id"`
	ManuscriptID string `gorm:"column:manuscript_id" json:"manuscript_id"`
	ReviewerID   string `gorm:"column:reviewer_id" json:"reviewer_id"`
	Status       string `gorm:"column:status" json:"status"`

	InvitedDate              time.Time  `gorm:"column:invited_date" json:"invited_date"`
	DueDate                  *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	ResponseDate             *time.Time `gorm:"column:response_date" json:"response_date,omitempty"`
	InvitationExpirationDate *time.Time `gorm:"column:invitation_expiration_date" json:"invitation_expiration_date,omitempty"`
	ReportInvalidatedDate    *time.Time `gorm:"column:report_invalidated_date" json:"report_invalidated_date,omitempty"`
	EstimatedCompletionDate  *time.Time `gorm:"column:estimated_completion_date" json:"estimated_completion_date,omitempty"`

	InvitationRound int    `gorm:"column:invitation_round" json:"invitation_round"`
	ReminderCount   int    `gorm:"column:reminder_count" json:"reminder_count"`
	Notes           string `gorm:"column:notes" json:"notes"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Read-time enrichment
	ReviewerName        string `gorm:"-" json:"reviewer_name,omitempty"`
	ReviewerAffiliation string `gorm:"-" json:"reviewer_affiliation,omitempty"`
}

func (ReviewInvitation) TableName() string { return "review_invitations" }

func (i *ReviewInvitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
