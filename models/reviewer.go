package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reviewer availability values
const (
	AvailabilityAvailable   = "available"
	AvailabilityBusy        = "busy"
	AvailabilityUnavailable = "unavailable"
	AvailabilitySabbatical  = "sabbatical"
)

type PotentialReviewer struct {
	ID          string  `gorm:"primaryKey;column:id" json:"id"`
	Name        string  `gorm:"column:name" json:"name"`
	GivenNames  *string `gorm:"column:given_names" json:"given_names,omitempty"`
	Surname     *string `gorm:"column:surname" json:"surname,omitempty"`
	Email       string  `gorm:"column:email" json:"email"`
	Affiliation string  `gorm:"column:affiliation" json:"affiliation"`
	Department  *string `gorm:"column:department" json:"department,omitempty"`
	ORCIDID     *string `gorm:"column:orcid_id" json:"orcid_id,omitempty"`
	ProfileURL  *string `gorm:"column:profile_url" json:"profile_url,omitempty"`
	ExternalID  *string `gorm:"column:external_id" json:"external_id,omitempty"`

	ExpertiseAreas     datatypes.JSONSlice[string] `gorm:"column:expertise_areas" json:"expertise_areas"`
	AvailabilityStatus string                      `gorm:"column:availability_status" json:"availability_status"`

	CurrentReviewLoad int `gorm:"column:current_review_load" json:"current_review_load"`
	MaxReviewCapacity int `gorm:"column:max_review_capacity" json:"max_review_capacity"`
	TotalInvitations  int `gorm:"column:total_invitations" json:"total_invitations"`
	TotalAcceptances  int `gorm:"column:total_acceptances" json:"total_acceptances"`
	CompletedReviews  int `gorm:"column:completed_reviews" json:"completed_reviews"`

	HIndex              *int       `gorm:"column:h_index" json:"h_index,omitempty"`
	CitationCount       *int       `gorm:"column:citation_count" json:"citation_count,omitempty"`
	TotalPublications   *int       `gorm:"column:total_publications" json:"total_publications,omitempty"`
	PublicationYearFrom *int       `gorm:"column:publication_year_from" json:"publication_year_from,omitempty"`
	PublicationYearTo   *int       `gorm:"column:publication_year_to" json:"publication_year_to,omitempty"`
	LastPublicationDate *time.Time `gorm:"column:last_publication_date" json:"last_publication_date,omitempty"`

	LastReviewCompleted *time.Time `gorm:"column:last_review_completed" json:"last_review_completed,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (PotentialReviewer) TableName() string { return "potential_reviewers" }

func (r *PotentialReviewer) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type ReviewerPublication struct {
	ID              string                      `gorm:"primaryKey;column:id" json:"id"`
	ReviewerID      string                      `gorm:"column:reviewer_id" json:"reviewer_id"`
	Title           string                      `gorm:"column:title" json:"title"`
	DOI             *string                     `gorm:"column:doi" json:"doi,omitempty"`
	JournalName     *string                     `gorm:"column:journal_name" json:"journal_name,omitempty"`
	Authors         datatypes.JSONSlice[string] `gorm:"column:authors" json:"authors"`
	PublicationDate *time.Time                  `gorm:"column:publication_date" json:"publication_date,omitempty"`
	CreatedAt       time.Time                   `gorm:"column:created_at" json:"created_at"`
}

func (ReviewerPublication) TableName() string { return "reviewer_publications" }

func (p *ReviewerPublication) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ReviewerWithMatch is a reviewer enriched with its match row and the
// computed display metrics the dashboard shows.
type ReviewerWithMatch struct {
	PotentialReviewer
	MatchScore          float64 `json:"match_score"`
	ConflictsOfInterest string  `json:"conflicts_of_interest"`

	EmailIsInstitutional   bool `json:"email_is_institutional"`
	AcceptanceRate         int  `json:"acceptance_rate"`
	SoloAuthoredCount      int  `json:"solo_authored_count"`
	PublicationsLast5Years int  `json:"publications_last_5_years"`
	DaysSinceLastReview    *int `json:"days_since_last_review"`
	PublishedInJournal     bool `json:"published_in_journal"`
}

// ReviewerWithStatus is a reviewer annotated with its current place in the
// invitation workflow for one manuscript: queued, one of the invitation
// statuses, or nothing.
type ReviewerWithStatus struct {
	PotentialReviewer
	MatchScore       float64 `json:"match_score"`
	InvitationStatus string  `json:"invitation_status,omitempty"`

	// Populated when queued
	QueueID           string     `json:"queue_id,omitempty"`
	QueuePosition     int        `json:"queue_position,omitempty"`
	Priority          string     `json:"priority,omitempty"`
	ScheduledSendDate *time.Time `json:"scheduled_send_date,omitempty"`

	// Populated when invited
	InvitationID string     `json:"invitation_id,omitempty"`
	InvitedDate  *time.Time `json:"invited_date,omitempty"`
	ResponseDate *time.Time `json:"response_date,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
}
