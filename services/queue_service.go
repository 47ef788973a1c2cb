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

// Days between consecutive scheduled sends in a manuscript's queue.
const queueSendIntervalDays = 7

type QueueService struct {
	db *gorm.DB
}

func NewQueueService(db *gorm.DB) *QueueService {
	if db == nil {
		db = config.DB
	}
	return &QueueService{db: db}
}

// GetManuscriptQueue returns the manuscript's queue ordered by position,
// with reviewer display fields stitched on via a batched second lookup.
func (s *QueueService) GetManuscriptQueue(manuscriptID string) ([]models.InvitationQueueItem, error) {
	var items []models.InvitationQueueItem
	if err := s.db.
		Where("manuscript_id = ?", manuscriptID).
		Order("queue_position ASC").
		Find(&items).Error; err != nil {
		return nil, translateStoreError("fetch manuscript queue", err)
	}

	if len(items) == 0 {
		return items, nil
	}

	reviewerIDs := make([]string, len(items))
	for i, item := range items {
		reviewerIDs[i] = item.ReviewerID
	}

	refs, err := reviewerRefsByID(s.db, reviewerIDs)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if ref, ok := refs[items[i].ReviewerID]; ok {
			items[i].ReviewerName = ref.Name
			items[i].ReviewerAffiliation = ref.Affiliation
		} else {
			items[i].ReviewerName = "Unknown Reviewer"
		}
	}
	return items, nil
}

// AddToQueue appends a reviewer to the back of a manuscript's queue. A
// reviewer who already has an invitation, or is already queued, for this
// manuscript is rejected before anything is written.
func (s *QueueService) AddToQueue(manuscriptID, reviewerID, priority string) (*models.InvitationQueueItem, error) {
	if priority == "" {
		priority = models.PriorityNormal
	}

	var existingInvitation models.ReviewInvitation
	err := s.db.Select("id").
		Where("manuscript_id = ? AND reviewer_id = ?", manuscriptID, reviewerID).
		First(&existingInvitation).Error
	if err == nil {
		return nil, errors.New("cannot add to queue: reviewer already has an invitation for this manuscript")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translateStoreError("check existing invitation", err)
	}

	var existingItem models.InvitationQueueItem
	err = s.db.Select("id").
		Where("manuscript_id = ? AND reviewer_id = ?", manuscriptID, reviewerID).
		First(&existingItem).Error
	if err == nil {
		return nil, errors.New("reviewer is already in the queue for this manuscript")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translateStoreError("check existing queue item", err)
	}

	// Next position = current max for this manuscript + 1.
	// NOTE: concurrent adds can compute the same position; the queue has no
	// transaction or lock around this read-then-insert sequence.
	var lastItems []models.InvitationQueueItem
	if err := s.db.Select("queue_position").
		Where("manuscript_id = ?", manuscriptID).
		Order("queue_position DESC").
		Limit(1).
		Find(&lastItems).Error; err != nil {
		return nil, translateStoreError("fetch queue tail", err)
	}

	nextPosition := 1
	if len(lastItems) > 0 {
		nextPosition = lastItems[0].QueuePosition + 1
	}

	item := models.InvitationQueueItem{
		ManuscriptID:      manuscriptID,
		ReviewerID:        reviewerID,
		QueuePosition:     nextPosition,
		ScheduledSendDate: time.Now().AddDate(0, 0, nextPosition*queueSendIntervalDays),
		Priority:          priority,
	}

	if err := s.db.Create(&item).Error; err != nil {
		return nil, translateStoreError("add to queue", err)
	}

	// Denormalize reviewer display fields for the caller.
	var ref reviewerRef
	if err := s.db.Where("id = ?", reviewerID).First(&ref).Error; err == nil {
		item.ReviewerName = ref.Name
		item.ReviewerAffiliation = ref.Affiliation
	} else {
		item.ReviewerName = "Unknown Reviewer"
	}

	return &item, nil
}

// RemoveFromQueue deletes a queue item and closes the position gap by
// decrementing every later item in the same manuscript's queue.
//
// The delete and the renumbering are separate store calls: if renumbering
// fails after the delete succeeded, the queue is left with a gap. There is
// no compensating rollback.
func (s *QueueService) RemoveFromQueue(queueItemID string) error {
	var item models.InvitationQueueItem
	if err := s.db.Select("id", "queue_position", "manuscript_id").
		Where("id = ?", queueItemID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("queue item not found")
		}
		return translateStoreError("fetch queue item", err)
	}

	if err := s.db.Delete(&models.InvitationQueueItem{}, "id = ?", queueItemID).Error; err != nil {
		return translateStoreError("remove from queue", err)
	}

	var toRenumber []models.InvitationQueueItem
	if err := s.db.Select("id", "queue_position").
		Where("manuscript_id = ? AND queue_position > ?", item.ManuscriptID, item.QueuePosition).
		Order("queue_position ASC").
		Find(&toRenumber).Error; err != nil {
		return translateStoreError("fetch items to renumber", err)
	}

	if len(toRenumber) == 0 {
		return nil
	}

	updates := make([]models.QueuePositionUpdate, len(toRenumber))
	for i, row := range toRenumber {
		updates[i] = models.QueuePositionUpdate{ID: row.ID, QueuePosition: row.QueuePosition - 1}
	}
	return s.UpdateQueuePositions(updates)
}

// UpdateQueuePositions overwrites positions row by row. Each update is an
// independent store call; a failure partway leaves earlier updates applied.
func (s *QueueService) UpdateQueuePositions(updates []models.QueuePositionUpdate) error {
	var failed int
	for _, u := range updates {
		if err := s.db.Model(&models.InvitationQueueItem{}).
			Where("id = ?", u.ID).
			Update("queue_position", u.QueuePosition).Error; err != nil {
			log.Printf("Failed to update queue position for item %s: %v", u.ID, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to update queue positions (%d of %d updates failed)", failed, len(updates))
	}
	return nil
}

// MoveInQueue moves a queue item one slot up or down by swapping positions
// with its neighbor.
func (s *QueueService) MoveInQueue(queueItemID, direction string) error {
	if direction != "up" && direction != "down" {
		return fmt.Errorf("invalid move direction %q", direction)
	}

	var current models.InvitationQueueItem
	if err := s.db.Where("id = ?", queueItemID).First(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("queue item not found")
		}
		return translateStoreError("fetch queue item", err)
	}

	newPosition := current.QueuePosition + 1
	if direction == "up" {
		newPosition = current.QueuePosition - 1
	}

	if newPosition < 1 {
		return errors.New("cannot move higher - already at top of queue")
	}

	var target models.InvitationQueueItem
	err := s.db.
		Where("manuscript_id = ? AND queue_position = ?", current.ManuscriptID, newPosition).
		First(&target).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cannot move %s - no item at position %d", direction, newPosition)
		}
		return translateStoreError("fetch target queue item", err)
	}

	return s.UpdateQueuePositions([]models.QueuePositionUpdate{
		{ID: current.ID, QueuePosition: newPosition},
		{ID: target.ID, QueuePosition: current.QueuePosition},
	})
}

// GetQueueControlState derives the manuscript's queue control state. There
// is no persisted active flag yet, so queue_active is always false and only
// the next scheduled send is reported.
func (s *QueueService) GetQueueControlState(manuscriptID string) (*models.QueueControlState, error) {
	var items []models.InvitationQueueItem
	if err := s.db.Select("scheduled_send_date").
		Where("manuscript_id = ? AND sent = ?", manuscriptID, false).
		Order("scheduled_send_date ASC").
		Limit(1).
		Find(&items).Error; err != nil {
		return nil, translateStoreError("fetch queue control state", err)
	}

	state := &models.QueueControlState{ManuscriptID: manuscriptID}
	if len(items) > 0 {
		next := items[0].ScheduledSendDate
		state.NextScheduledSend = &next
	}
	return state, nil
}

// ToggleQueueActive would start or pause automated queue processing. The
// active flag is not persisted yet, so this only records the request.
func (s *QueueService) ToggleQueueActive(manuscriptID string, active bool) error {
	state := "paused"
	if active {
		state = "active"
	}
	log.Printf("queue for manuscript %s set to %s (not persisted)", manuscriptID, state)
	return nil
}
