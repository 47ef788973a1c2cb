package services

import (
	"errors"
	"fmt"
	"time"

	"manuscript-review-api/config"
	"manuscript-review-api/models"

	"gorm.io/gorm"
)

// Bulk match scores arrive on a 0-100 scale and are stored normalized.
// Descending ranks never drop below this floor.
const bulkMatchFloor = 0.50

type MatchService struct {
	db *gorm.DB
}

func NewMatchService(db *gorm.DB) *MatchService {
	if db == nil {
		db = config.DB
	}
	return &MatchService{db: db}
}

func validateMatchScore(score float64) error {
	if score < 0 || score > 1 {
		return fmt.Errorf("match score must be between 0 and 1, got %v", score)
	}
	return nil
}

// AddReviewerMatch records a match score for a reviewer/manuscript pair.
// The score is validated before anything is written, and an existing pair
// is rejected rather than silently overwritten. initialSuggestion and
// conflicts are optional and default to false/empty when nil.
func (s *MatchService) AddReviewerMatch(manuscriptID, reviewerID string, score float64, initialSuggestion *bool, conflicts *string) (*models.ReviewerManuscriptMatch, error) {
	if err := validateMatchScore(score); err != nil {
		return nil, err
	}

	var existing models.ReviewerManuscriptMatch
	err := s.db.Select("id").
		Where("manuscript_id = ? AND reviewer_id = ?", manuscriptID, reviewerID).
		First(&existing).Error
	if err == nil {
		return nil, errors.New("match already exists for this reviewer and manuscript, use update instead")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translateStoreError("check existing match", err)
	}

	match := models.ReviewerManuscriptMatch{
		ManuscriptID:        manuscriptID,
		ReviewerID:          reviewerID,
		MatchScore:          score,
		ConflictsOfInterest: conflicts,
		CalculatedAt:        time.Now(),
	}
	if initialSuggestion != nil {
		match.IsInitialSuggestion = *initialSuggestion
	}
	if err := s.db.Create(&match).Error; err != nil {
		return nil, translateStoreError("add reviewer match", err)
	}
	return &match, nil
}

// UpdateReviewerMatch replaces the score (and the suggestion flag and
// conflicts, when given) of an existing match. The calculation timestamp
// is always refreshed.
func (s *MatchService) UpdateReviewerMatch(manuscriptID, reviewerID string, score float64, initialSuggestion *bool, conflicts *string) error {
	if err := validateMatchScore(score); err != nil {
		return err
	}

	updates := map[string]interface{}{
		"match_score":   score,
		"calculated_at": time.Now(),
	}
	if initialSuggestion != nil {
		updates["is_initial_suggestion"] = *initialSuggestion
	}
	if conflicts != nil {
		updates["conflicts_of_interest"] = *conflicts
	}

	result := s.db.Model(&models.ReviewerManuscriptMatch{}).
		Where("manuscript_id = ? AND reviewer_id = ?", manuscriptID, reviewerID).
		Updates(updates)
	if result.Error != nil {
		return translateStoreError("update reviewer match", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("match not found for this reviewer and manuscript")
	}
	return nil
}

// UpsertReviewerMatch adds the match if the pair is new, otherwise updates
// it in place.
func (s *MatchService) UpsertReviewerMatch(manuscriptID, reviewerID string, score float64, initialSuggestion *bool, conflicts *string) error {
	if err := validateMatchScore(score); err != nil {
		return err
	}

	var existing models.ReviewerManuscriptMatch
	err := s.db.Select("id").
		Where("manuscript_id = ? AND reviewer_id = ?", manuscriptID, reviewerID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_, err := s.AddReviewerMatch(manuscriptID, reviewerID, score, initialSuggestion, conflicts)
		return err
	}
	if err != nil {
		return translateStoreError("check existing match", err)
	}
	return s.UpdateReviewerMatch(manuscriptID, reviewerID, score, initialSuggestion, conflicts)
}

// RemoveReviewerMatch deletes the match row for the pair.
func (s *MatchService) RemoveReviewerMatch(manuscriptID, reviewerID string) error {
	result := s.db.
		Where("manuscript_id = ? AND reviewer_id = ?", manuscriptID, reviewerID).
		Delete(&models.ReviewerManuscriptMatch{})
	if result.Error != nil {
		return translateStoreError("remove reviewer match", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("match not found for this reviewer and manuscript")
	}
	return nil
}

// GetMatchesForManuscript returns the manuscript's matches best first.
func (s *MatchService) GetMatchesForManuscript(manuscriptID string) ([]models.ReviewerManuscriptMatch, error) {
	var matches []models.ReviewerManuscriptMatch
	if err := s.db.
		Where("manuscript_id = ?", manuscriptID).
		Order("match_score DESC").
		Find(&matches).Error; err != nil {
		return nil, translateStoreError("fetch manuscript matches", err)
	}
	return matches, nil
}

// GetAllReviewerMatches returns every stored match, best first.
func (s *MatchService) GetAllReviewerMatches() ([]models.ReviewerManuscriptMatch, error) {
	var matches []models.ReviewerManuscriptMatch
	if err := s.db.Order("match_score DESC").Find(&matches).Error; err != nil {
		return nil, translateStoreError("fetch reviewer matches", err)
	}
	return matches, nil
}

// BulkAddReviewerMatches records initial suggestions for a ranked list of
// reviewers. baseScore is on a 0-100 scale; each successive rank scores one
// point lower, floored so late ranks stay meaningful. Pairs that already
// have a match are skipped. Returns the number of matches written.
func (s *MatchService) BulkAddReviewerMatches(manuscriptID string, reviewerIDs []string, baseScore float64) (int, error) {
	if len(reviewerIDs) == 0 {
		return 0, nil
	}

	var existing []models.ReviewerManuscriptMatch
	if err := s.db.Select("reviewer_id").
		Where("manuscript_id = ? AND reviewer_id IN ?", manuscriptID, reviewerIDs).
		Find(&existing).Error; err != nil {
		return 0, translateStoreError("check existing matches", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, m := range existing {
		seen[m.ReviewerID] = true
	}

	now := time.Now()
	created := 0
	for i, reviewerID := range reviewerIDs {
		if seen[reviewerID] {
			continue
		}

		score := (baseScore - float64(i)) / 100
		if score < bulkMatchFloor {
			score = bulkMatchFloor
		}
		if err := validateMatchScore(score); err != nil {
			return created, err
		}

		match := models.ReviewerManuscriptMatch{
			ManuscriptID:        manuscriptID,
			ReviewerID:          reviewerID,
			MatchScore:          score,
			IsInitialSuggestion: true,
			CalculatedAt:        now,
		}
		if err := s.db.Create(&match).Error; err != nil {
			return created, translateStoreError("bulk add reviewer matches", err)
		}
		created++
	}
	return created, nil
}
