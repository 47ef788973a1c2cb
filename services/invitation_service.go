package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"manuscript-review-api/config"
	"manuscript-review-api/models"

	"gorm.io/gorm"
)

// Days a reviewer has to respond, and to complete the review once accepted.
const invitationWindowDays = 14

type InvitationService struct {
	db    *gorm.DB
	queue *QueueService
}

func NewInvitationService(db *gorm.DB) *InvitationService {
	if db == nil {
		db = config.DB
	}
	return &InvitationService{db: db, queue: NewQueueService(db)}
}

// GetManuscriptInvitations returns the manuscript's invitations newest
// first, with reviewer display fields stitched on.
func (s *InvitationService) GetManuscriptInvitations(manuscriptID string) ([]models.ReviewInvitation, error) {
	var invitations []models.ReviewInvitation
	if err := s.db.
		Where("manuscript_id = ?", manuscriptID).
		Order("invited_date DESC").
		Find(&invitations).Error; err != nil {
		return nil, translateStoreError("fetch manuscript invitations", err)
	}

	if len(invitations) == 0 {
		return invitations, nil
	}

	reviewerIDs := make([]string, len(invitations))
	for i, inv := range invitations {
		reviewerIDs[i] = inv.ReviewerID
	}

	refs, err := reviewerRefsByID(s.db, reviewerIDs)
	if err != nil {
		return nil, err
	}

	for i := range invitations {
		if ref, ok := refs[invitations[i].ReviewerID]; ok {
			invitations[i].ReviewerName = ref.Name
			invitations[i].ReviewerAffiliation = ref.Affiliation
		} else {
			invitations[i].ReviewerName = "Unknown Reviewer"
		}
	}
	return invitations, nil
}

// SendInvitation creates a pending invitation for the reviewer. A reviewer
// who is queued, or who already has an invitation of any status for this
// manuscript, is rejected before anything is written.
func (s *InvitationService) SendInvitation(manuscriptID, reviewerID string) (*models.ReviewInvitation, error) {
	var queued models.InvitationQueueItem
	err := s.db.Select("id").
		Where("manuscript_id = ? AND reviewer_id = ?", manuscriptID, reviewerID).
		First(&queued).Error
	if err == nil {
		return nil, errors.New("cannot send invitation: reviewer is already in the queue for this manuscript")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translateStoreError("check queue membership", err)
	}

	var existing models.ReviewInvitation
	err = s.db.Select("id").
		Where("manuscript_id = ? AND reviewer_id = ?", manuscriptID, reviewerID).
		First(&existing).Error
	if err == nil {
		return nil, errors.New("reviewer already has an invitation for this manuscript")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translateStoreError("check existing invitation", err)
	}

	now := time.Now()
	due := now.AddDate(0, 0, invitationWindowDays)
	expiration := now.AddDate(0, 0, invitationWindowDays)

	invitation := models.ReviewInvitation{
		ManuscriptID:             manuscriptID,
		ReviewerID:               reviewerID,
		Status:                   models.InvitationStatusPending,
		InvitedDate:              now,
		DueDate:                  &due,
		InvitationExpirationDate: &expiration,
		InvitationRound:          1,
		ReminderCount:            0,
	}

	if err := s.db.Create(&invitation).Error; err != nil {
		return nil, translateStoreError("send invitation", err)
	}

	s.notifyReviewer(&invitation)

	return &invitation, nil
}

// notifyReviewer emails the invited reviewer. Best effort: failures are
// logged and never fail the workflow call.
func (s *InvitationService) notifyReviewer(invitation *models.ReviewInvitation) {
	if !config.MailerConfigured() {
		return
	}

	var reviewer reviewerRef
	if err := s.db.Where("id = ?", invitation.ReviewerID).First(&reviewer).Error; err != nil {
		log.Printf("invitation email skipped: reviewer %s not found", invitation.ReviewerID)
		return
	}
	var manuscript manuscriptRef
	if err := s.db.Where("id = ?", invitation.ManuscriptID).First(&manuscript).Error; err != nil {
		log.Printf("invitation email skipped: manuscript %s not found", invitation.ManuscriptID)
		return
	}

	subject := fmt.Sprintf("Invitation to review: %s", manuscript.Title)
	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>You are invited to review the manuscript <b>%s</b> (%s).</p><p>Please respond by %s.</p>",
		reviewer.Name, manuscript.Title, manuscript.Journal,
		invitation.DueDate.Format("2 January 2006"),
	)

	if err := config.SendMail([]string{reviewer.Email}, subject, body); err != nil {
		log.Printf("failed to send invitation email to %s: %v", reviewer.Email, err)
	}
}

// UpdateInvitationStatus moves an invitation to a new status, validating
// the transition. The response date is stamped when the reviewer answers.
func (s *InvitationService) UpdateInvitationStatus(invitationID, status string) error {
	var invitation models.ReviewInvitation
	if err := s.db.Where("id = ?", invitationID).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("invitation not found")
		}
		return translateStoreError("fetch invitation", err)
	}

	if !models.CanTransitionInvitation(invitation.Status, status) {
		return fmt.Errorf("invalid invitation status transition: %s -> %s", invitation.Status, status)
	}

	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if status == models.InvitationStatusAccepted || status == models.InvitationStatusDeclined {
		updates["response_date"] = time.Now()
	}

	if err := s.db.Model(&models.ReviewInvitation{}).
		Where("id = ?", invitationID).
		Updates(updates).Error; err != nil {
		return translateStoreError("update invitation status", err)
	}
	return nil
}

// RevokeInvitation marks an invitation revoked with an audit note and
// optionally re-queues the reviewer at the back of the manuscript's queue.
func (s *InvitationService) RevokeInvitation(invitationID string, addBackToQueue bool) error {
	var invitation models.ReviewInvitation
	if err := s.db.Where("id = ?", invitationID).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("invitation not found")
		}
		return translateStoreError("fetch invitation", err)
	}

	if err := s.db.Model(&models.ReviewInvitation{}).
		Where("id = ?", invitationID).
		Updates(map[string]interface{}{
			"status":     models.InvitationStatusRevoked,
			"notes":      appendNote(invitation.Notes, "[Revoked by editor]"),
			"updated_at": time.Now(),
		}).Error; err != nil {
		return translateStoreError("revoke invitation", err)
	}

	if addBackToQueue {
		// Re-queueing requires the invitation row to be gone first, or the
		// queue's exclusivity check would reject the reviewer.
		if err := s.RemoveInvitation(invitationID); err != nil {
			return err
		}
		if _, err := s.queue.AddToQueue(invitation.ManuscriptID, invitation.ReviewerID, models.PriorityNormal); err != nil {
			return err
		}
	}
	return nil
}

// SubmitReport marks an accepted review as having its report submitted.
func (s *InvitationService) SubmitReport(invitationID string) error {
	return s.UpdateInvitationStatus(invitationID, models.InvitationStatusReportSubmitted)
}

// InvalidateReport marks a submitted report invalid, stamping the
// invalidation date and appending an audit fragment to the notes.
func (s *InvitationService) InvalidateReport(invitationID, reason string) error {
	var invitation models.ReviewInvitation
	if err := s.db.Select("id", "notes", "status").
		Where("id = ?", invitationID).
		First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("invitation not found")
		}
		return translateStoreError("fetch invitation", err)
	}

	fragment := "[Invalidated by editor]"
	if reason != "" {
		fragment = fmt.Sprintf("[Invalidated: %s]", reason)
	}

	now := time.Now()
	if err := s.db.Model(&models.ReviewInvitation{}).
		Where("id = ?", invitationID).
		Updates(map[string]interface{}{
			"status":                  models.InvitationStatusInvalidated,
			"report_invalidated_date": now,
			"notes":                   appendNote(invitation.Notes, fragment),
			"updated_at":              now,
		}).Error; err != nil {
		return translateStoreError("invalidate report", err)
	}
	return nil
}

// UninvalidateReport reinstates an invalidated report, clearing the
// invalidation date. The audit trail in notes is preserved.
func (s *InvitationService) UninvalidateReport(invitationID string) error {
	var invitation models.ReviewInvitation
	if err := s.db.Select("id", "notes").
		Where("id = ?", invitationID).
		First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("invitation not found")
		}
		return translateStoreError("fetch invitation", err)
	}

	if err := s.db.Model(&models.ReviewInvitation{}).
		Where("id = ?", invitationID).
		Updates(map[string]interface{}{
			"status":                  models.InvitationStatusReportSubmitted,
			"report_invalidated_date": nil,
			"notes":                   appendNote(invitation.Notes, "[Report reinstated]"),
			"updated_at":              time.Now(),
		}).Error; err != nil {
		return translateStoreError("reinstate report", err)
	}
	return nil
}

// RemoveInvitation hard-deletes the invitation row, returning the reviewer
// to the potential reviewer pool.
func (s *InvitationService) RemoveInvitation(invitationID string) error {
	if err := s.db.Delete(&models.ReviewInvitation{}, "id = ?", invitationID).Error; err != nil {
		return translateStoreError("remove invitation", err)
	}
	return nil
}

// CancelReview hard-deletes an invitation; used to clean up revoked or
// invalidated records.
func (s *InvitationService) CancelReview(invitationID string) error {
	return s.RemoveInvitation(invitationID)
}

// SetInvitationExpiration sets or refreshes the expiration date. A zero
// time means the default window from now.
func (s *InvitationService) SetInvitationExpiration(invitationID string, expiration time.Time) error {
	if expiration.IsZero() {
		expiration = time.Now().AddDate(0, 0, invitationWindowDays)
	}

	if err := s.db.Model(&models.ReviewInvitation{}).
		Where("id = ?", invitationID).
		Updates(map[string]interface{}{
			"invitation_expiration_date": expiration,
			"updated_at":                 time.Now(),
		}).Error; err != nil {
		return translateStoreError("set invitation expiration", err)
	}
	return nil
}

// appendNote appends an audit fragment to free-text notes. Notes are
// append-only; fragments are never rewritten or removed.
func appendNote(notes, fragment string) string {
	if notes == "" {
		return fragment
	}
	return notes + " " + fragment
}
