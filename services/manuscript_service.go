package services

import (
	"errors"
	"fmt"
	"time"

	"manuscript-review-api/config"
	"manuscript-review-api/models"
	"manuscript-review-api/utils"

	"gorm.io/gorm"
)

type ManuscriptService struct {
	db *gorm.DB
}

func NewManuscriptService(db *gorm.DB) *ManuscriptService {
	if db == nil {
		db = config.DB
	}
	return &ManuscriptService{db: db}
}

// ClearReviewersResult reports how many workflow rows were removed when a
// manuscript's reviewer state was reset.
type ClearReviewersResult struct {
	InvitationsRemoved int64 `json:"invitations_removed"`
	QueueItemsRemoved  int64 `json:"queue_items_removed"`
	MatchesRemoved     int64 `json:"matches_removed"`
}

// GetAllManuscripts returns every manuscript, newest submissions first,
// with active editors attached.
func (s *ManuscriptService) GetAllManuscripts() ([]models.Manuscript, error) {
	var manuscripts []models.Manuscript
	if err := s.db.Order("submission_date DESC").Find(&manuscripts).Error; err != nil {
		return nil, translateStoreError("fetch manuscripts", err)
	}
	return enrichManuscriptsWithEditors(s.db, manuscripts)
}

// GetManuscriptByID returns a single manuscript with its active editors.
func (s *ManuscriptService) GetManuscriptByID(id string) (*models.Manuscript, error) {
	var manuscript models.Manuscript
	if err := s.db.Where("id = ?", id).First(&manuscript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("manuscript not found")
		}
		return nil, translateStoreError("fetch manuscript", err)
	}

	enriched, err := enrichManuscriptsWithEditors(s.db, []models.Manuscript{manuscript})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// CreateManuscript inserts the manuscript and assigns its editors.
func (s *ManuscriptService) CreateManuscript(manuscript *models.Manuscript) error {
	if manuscript.Title == "" {
		return errors.New("manuscript title is required")
	}
	if manuscript.Status == "" {
		manuscript.Status = models.ManuscriptStatusSubmitted
	}
	if manuscript.SubmissionDate.IsZero() {
		manuscript.SubmissionDate = time.Now()
	}
	if manuscript.Version == 0 {
		manuscript.Version = 1
	}

	if err := s.db.Create(manuscript).Error; err != nil {
		return translateStoreError("create manuscript", err)
	}

	if len(manuscript.AssignedEditorIDs) > 0 {
		if err := s.SyncManuscriptEditors(manuscript.ID, manuscript.AssignedEditorIDs); err != nil {
			return err
		}
	}
	return nil
}

// UpdateManuscript applies field updates and, when an editor list is given,
// reconciles assignments against it.
func (s *ManuscriptService) UpdateManuscript(id string, updates map[string]interface{}, editorIDs []string) error {
	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		result := s.db.Model(&models.Manuscript{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return translateStoreError("update manuscript", result.Error)
		}
		if result.RowsAffected == 0 {
			return errors.New("manuscript not found")
		}
	}

	if editorIDs != nil {
		return s.SyncManuscriptEditors(id, editorIDs)
	}
	return nil
}

// SyncManuscriptEditors reconciles the manuscript's editor assignments
// against the desired set: editors no longer listed are deactivated, new
// ones are added, and previously deactivated ones are reactivated. Editors
// in both sets are left untouched, preserving their assignment dates.
func (s *ManuscriptService) SyncManuscriptEditors(manuscriptID string, editorIDs []string) error {
	desired := make(map[string]bool, len(editorIDs))
	for _, id := range uniqueStrings(editorIDs) {
		desired[id] = true
	}

	var current []models.UserManuscript
	if err := s.db.
		Where("manuscript_id = ? AND role = ?", manuscriptID, models.AssignmentRoleEditor).
		Find(&current).Error; err != nil {
		return translateStoreError("fetch editor assignments", err)
	}

	existing := make(map[string]models.UserManuscript, len(current))
	for _, assignment := range current {
		existing[assignment.UserID] = assignment
	}

	now := time.Now()
	for _, assignment := range current {
		if assignment.IsActive && !desired[assignment.UserID] {
			if err := s.db.Model(&models.UserManuscript{}).
				Where("id = ?", assignment.ID).
				Updates(map[string]interface{}{"is_active": false, "updated_at": now}).Error; err != nil {
				return translateStoreError("deactivate editor assignment", err)
			}
		}
	}

	for userID := range desired {
		assignment, ok := existing[userID]
		if !ok {
			record := models.UserManuscript{
				UserID:       userID,
				ManuscriptID: manuscriptID,
				Role:         models.AssignmentRoleEditor,
				AssignedDate: now,
				IsActive:     true,
			}
			if err := s.db.Create(&record).Error; err != nil {
				return translateStoreError("add editor assignment", err)
			}
			continue
		}
		if !assignment.IsActive {
			if err := s.db.Model(&models.UserManuscript{}).
				Where("id = ?", assignment.ID).
				Updates(map[string]interface{}{"is_active": true, "updated_at": now}).Error; err != nil {
				return translateStoreError("reactivate editor assignment", err)
			}
		}
	}
	return nil
}

// GetManuscriptInvitationStats computes the invitation dashboard counters
// for a manuscript. Expired and overdue are derived from dates at read
// time, never stored.
func (s *ManuscriptService) GetManuscriptInvitationStats(manuscriptID string) (*utils.InvitationStats, error) {
	var invitations []models.ReviewInvitation
	if err := s.db.
		Where("manuscript_id = ?", manuscriptID).
		Find(&invitations).Error; err != nil {
		return nil, translateStoreError("fetch invitations for stats", err)
	}

	stats := utils.CalculateInvitationStats(invitations)

	var queued int64
	if err := s.db.Model(&models.InvitationQueueItem{}).
		Where("manuscript_id = ? AND sent = ?", manuscriptID, false).
		Count(&queued).Error; err != nil {
		return nil, translateStoreError("count queued reviewers", err)
	}
	stats.Queued = int(queued)

	return &stats, nil
}

// ClearManuscriptReviewers wipes the manuscript's reviewer workflow state:
// all invitations, queue entries, and match scores. Editor assignments and
// the manuscript itself are untouched.
func (s *ManuscriptService) ClearManuscriptReviewers(manuscriptID string) (*ClearReviewersResult, error) {
	result := &ClearReviewersResult{}

	res := s.db.Where("manuscript_id = ?", manuscriptID).Delete(&models.ReviewInvitation{})
	if res.Error != nil {
		return nil, translateStoreError("clear manuscript invitations", res.Error)
	}
	result.InvitationsRemoved = res.RowsAffected

	res = s.db.Where("manuscript_id = ?", manuscriptID).Delete(&models.InvitationQueueItem{})
	if res.Error != nil {
		return nil, translateStoreError("clear manuscript queue", res.Error)
	}
	result.QueueItemsRemoved = res.RowsAffected

	res = s.db.Where("manuscript_id = ?", manuscriptID).Delete(&models.ReviewerManuscriptMatch{})
	if res.Error != nil {
		return nil, translateStoreError("clear manuscript matches", res.Error)
	}
	result.MatchesRemoved = res.RowsAffected

	return result, nil
}

// DeleteManuscript removes a manuscript. Foreign key violations come back
// as a friendly message telling the editor to clear reviewers first.
func (s *ManuscriptService) DeleteManuscript(id string) error {
	result := s.db.Delete(&models.Manuscript{}, "id = ?", id)
	if result.Error != nil {
		if IsForeignKeyViolation(result.Error) {
			return fmt.Errorf("cannot delete manuscript: reviewer invitations or assignments still reference it; clear reviewers first")
		}
		return translateStoreError("delete manuscript", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("manuscript not found")
	}
	return nil
}
