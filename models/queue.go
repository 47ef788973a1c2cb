package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Queue priority values
const (
	PriorityHigh   = "high"
	PriorityNormal = "normal"
	PriorityLow    = "low"
)

// InvitationQueueItem is one reviewer waiting to be invited for a
// manuscript. Positions within a manuscript's queue are 1-based and
// contiguous; the queue service renumbers on removal and swaps on reorder.
type InvitationQueueItem struct {
	ID                string    `gorm:"primaryKey;column:id" json:"id"`
	ManuscriptID      string    `gorm:"column:manuscript_id" json:"manuscript_id"`
	ReviewerID        string    `gorm:"column:reviewer_id" json:"reviewer_id"`
	QueuePosition     int       `gorm:"column:queue_position" json:"queue_position"`
	ScheduledSendDate time.Time `gorm:"column:scheduled_send_date" json:"scheduled_send_date"`
	Priority          string    `gorm:"column:priority" json:"priority"`
	Sent              bool      `gorm:"column:sent" json:"sent"`
	Notes             string    `gorm:"column:notes" json:"notes"`
	CreatedDate       time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	UpdatedAt         time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Read-time enrichment
	ReviewerName        string `gorm:"-" json:"reviewer_name,omitempty"`
	ReviewerAffiliation string `gorm:"-" json:"reviewer_affiliation,omitempty"`
}

func (InvitationQueueItem) TableName() string { return "invitation_queue" }

func (q *InvitationQueueItem) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// QueuePositionUpdate is one row of a bulk reorder.
type QueuePositionUpdate struct {
	ID            string `json:"id"`
	QueuePosition int    `json:"queue_position"`
}

// QueueControlState reports whether automated sending is active for a
// manuscript's queue. There is no persisted active flag yet; the state is
// derived from the earliest unsent scheduled date.
type QueueControlState struct {
	ManuscriptID      string     `json:"manuscript_id"`
	QueueActive       bool       `json:"queue_active"`
	NextScheduledSend *time.Time `json:"next_scheduled_send,omitempty"`
}
