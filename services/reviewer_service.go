package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"manuscript-review-api/config"
	"manuscript-review-api/models"
	"manuscript-review-api/utils"

	"gorm.io/gorm"
)

const recentPublicationYears = 5

type ReviewerService struct {
	db *gorm.DB
}

func NewReviewerService(db *gorm.DB) *ReviewerService {
	if db == nil {
		db = config.DB
	}
	return &ReviewerService{db: db}
}

// GetAllReviewers returns the reviewer pool sorted by name.
func (s *ReviewerService) GetAllReviewers() ([]models.PotentialReviewer, error) {
	var reviewers []models.PotentialReviewer
	if err := s.db.Order("name ASC").Find(&reviewers).Error; err != nil {
		return nil, translateStoreError("fetch reviewers", err)
	}
	return reviewers, nil
}

// GetReviewerByID returns one reviewer from the pool.
func (s *ReviewerService) GetReviewerByID(id string) (*models.PotentialReviewer, error) {
	var reviewer models.PotentialReviewer
	if err := s.db.Where("id = ?", id).First(&reviewer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("reviewer not found")
		}
		return nil, translateStoreError("fetch reviewer", err)
	}
	return &reviewer, nil
}

// AddReviewer inserts a reviewer. Emails identify reviewers, so a duplicate
// email is rejected before the insert.
func (s *ReviewerService) AddReviewer(reviewer *models.PotentialReviewer) error {
	if reviewer.Name == "" {
		return errors.New("reviewer name is required")
	}
	reviewer.Email = strings.ToLower(strings.TrimSpace(reviewer.Email))
	if !utils.ValidateEmail(reviewer.Email) {
		return errors.New("a valid reviewer email is required")
	}
	if reviewer.Affiliation == "" {
		reviewer.Affiliation = "Not specified"
	}
	if reviewer.AvailabilityStatus == "" {
		reviewer.AvailabilityStatus = models.AvailabilityAvailable
	}

	var existing models.PotentialReviewer
	err := s.db.Select("id").Where("email = ?", reviewer.Email).First(&existing).Error
	if err == nil {
		return fmt.Errorf("a reviewer with email %s already exists", reviewer.Email)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return translateStoreError("check reviewer email", err)
	}

	if err := s.db.Create(reviewer).Error; err != nil {
		return translateStoreError("add reviewer", err)
	}
	return nil
}

// UpdateReviewer applies field updates. When the email changes, it must not
// collide with another reviewer's.
func (s *ReviewerService) UpdateReviewer(id string, updates map[string]interface{}) error {
	if email, ok := updates["email"].(string); ok {
		email = strings.ToLower(strings.TrimSpace(email))
		if !utils.ValidateEmail(email) {
			return errors.New("a valid reviewer email is required")
		}
		updates["email"] = email

		var existing models.PotentialReviewer
		err := s.db.Select("id").
			Where("email = ? AND id <> ?", email, id).
			First(&existing).Error
		if err == nil {
			return fmt.Errorf("a reviewer with email %s already exists", email)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return translateStoreError("check reviewer email", err)
		}
	}
	if affiliation, ok := updates["affiliation"].(string); ok && affiliation == "" {
		updates["affiliation"] = "Not specified"
	}

	updates["updated_at"] = time.Now()
	result := s.db.Model(&models.PotentialReviewer{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return translateStoreError("update reviewer", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("reviewer not found")
	}
	return nil
}

// DeleteReviewer removes a reviewer from the pool. Invitations, queue
// entries, and matches reference reviewers, so foreign key violations come
// back as a friendly message.
func (s *ReviewerService) DeleteReviewer(id string) error {
	result := s.db.Delete(&models.PotentialReviewer{}, "id = ?", id)
	if result.Error != nil {
		if IsForeignKeyViolation(result.Error) {
			return errors.New("cannot delete reviewer: invitations or queue entries still reference them")
		}
		return translateStoreError("delete reviewer", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("reviewer not found")
	}
	return nil
}

// UpsertReviewer inserts the reviewer, or refreshes the existing record
// matched by email. Returns the stored reviewer's ID and whether a new row
// was created.
func (s *ReviewerService) UpsertReviewer(reviewer *models.PotentialReviewer) (string, bool, error) {
	email := strings.ToLower(strings.TrimSpace(reviewer.Email))
	reviewer.Email = email

	var existing models.PotentialReviewer
	err := s.db.Where("email = ?", email).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.AddReviewer(reviewer); err != nil {
			return "", false, err
		}
		return reviewer.ID, true, nil
	}
	if err != nil {
		return "", false, translateStoreError("check reviewer email", err)
	}

	updates := map[string]interface{}{
		"name":        reviewer.Name,
		"affiliation": reviewer.Affiliation,
		"updated_at":  time.Now(),
	}
	if reviewer.Affiliation == "" {
		updates["affiliation"] = "Not specified"
	}
	if reviewer.GivenNames != nil {
		updates["given_names"] = *reviewer.GivenNames
	}
	if reviewer.Surname != nil {
		updates["surname"] = *reviewer.Surname
	}
	if reviewer.Department != nil {
		updates["department"] = *reviewer.Department
	}
	if reviewer.ORCIDID != nil {
		updates["orcid_id"] = *reviewer.ORCIDID
	}
	if reviewer.ProfileURL != nil {
		updates["profile_url"] = *reviewer.ProfileURL
	}
	if reviewer.ExternalID != nil {
		updates["external_id"] = *reviewer.ExternalID
	}
	if len(reviewer.ExpertiseAreas) > 0 {
		updates["expertise_areas"] = reviewer.ExpertiseAreas
	}
	if reviewer.HIndex != nil {
		updates["h_index"] = *reviewer.HIndex
	}
	if reviewer.CitationCount != nil {
		updates["citation_count"] = *reviewer.CitationCount
	}
	if reviewer.TotalPublications != nil {
		updates["total_publications"] = *reviewer.TotalPublications
	}
	if reviewer.PublicationYearFrom != nil {
		updates["publication_year_from"] = *reviewer.PublicationYearFrom
	}
	if reviewer.PublicationYearTo != nil {
		updates["publication_year_to"] = *reviewer.PublicationYearTo
	}
	if reviewer.LastPublicationDate != nil {
		updates["last_publication_date"] = *reviewer.LastPublicationDate
	}

	if err := s.db.Model(&models.PotentialReviewer{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error; err != nil {
		return "", false, translateStoreError("update reviewer", err)
	}
	return existing.ID, false, nil
}

// InsertPublications stores a reviewer's publication history, skipping
// titles already on record for them.
func (s *ReviewerService) InsertPublications(reviewerID string, pubs []models.ReviewerPublication) (int, error) {
	var existing []models.ReviewerPublication
	if err := s.db.Select("title").
		Where("reviewer_id = ?", reviewerID).
		Find(&existing).Error; err != nil {
		return 0, translateStoreError("fetch reviewer publications", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[strings.ToLower(p.Title)] = true
	}

	inserted := 0
	for i := range pubs {
		key := strings.ToLower(pubs[i].Title)
		if pubs[i].Title == "" || seen[key] {
			continue
		}
		pubs[i].ReviewerID = reviewerID
		if err := s.db.Create(&pubs[i]).Error; err != nil {
			return inserted, translateStoreError("insert reviewer publication", err)
		}
		seen[key] = true
		inserted++
	}
	return inserted, nil
}

// GetManuscriptReviewers returns the reviewers matched to a manuscript,
// best match first, enriched with the display metrics computed from their
// records and publication history.
func (s *ReviewerService) GetManuscriptReviewers(manuscriptID string) ([]models.ReviewerWithMatch, error) {
	var manuscript manuscriptRef
	if err := s.db.Where("id = ?", manuscriptID).First(&manuscript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("manuscript not found")
		}
		return nil, translateStoreError("fetch manuscript", err)
	}

	var matches []models.ReviewerManuscriptMatch
	if err := s.db.
		Where("manuscript_id = ?", manuscriptID).
		Order("match_score DESC").
		Find(&matches).Error; err != nil {
		return nil, translateStoreError("fetch manuscript matches", err)
	}
	if len(matches) == 0 {
		return []models.ReviewerWithMatch{}, nil
	}

	reviewerIDs := make([]string, len(matches))
	for i, m := range matches {
		reviewerIDs[i] = m.ReviewerID
	}

	var reviewers []models.PotentialReviewer
	if err := s.db.Where("id IN ?", reviewerIDs).Find(&reviewers).Error; err != nil {
		return nil, translateStoreError("fetch matched reviewers", err)
	}
	reviewersByID := make(map[string]models.PotentialReviewer, len(reviewers))
	for _, r := range reviewers {
		reviewersByID[r.ID] = r
	}

	var publications []models.ReviewerPublication
	if err := s.db.Where("reviewer_id IN ?", reviewerIDs).Find(&publications).Error; err != nil {
		return nil, translateStoreError("fetch reviewer publications", err)
	}
	pubsByReviewer := make(map[string][]utils.PublicationFacts)
	for _, p := range publications {
		journal := ""
		if p.JournalName != nil {
			journal = *p.JournalName
		}
		pubsByReviewer[p.ReviewerID] = append(pubsByReviewer[p.ReviewerID], utils.PublicationFacts{
			Authors:         p.Authors,
			PublicationDate: p.PublicationDate,
			JournalName:     journal,
		})
	}

	result := make([]models.ReviewerWithMatch, 0, len(matches))
	for _, m := range matches {
		reviewer, ok := reviewersByID[m.ReviewerID]
		if !ok {
			continue
		}
		pubs := pubsByReviewer[m.ReviewerID]

		enriched := models.ReviewerWithMatch{
			PotentialReviewer:      reviewer,
			MatchScore:             m.MatchScore,
			EmailIsInstitutional:   utils.IsInstitutionalEmail(reviewer.Email),
			AcceptanceRate:         utils.AcceptanceRate(reviewer.TotalAcceptances, reviewer.TotalInvitations),
			SoloAuthoredCount:      utils.CountSoloAuthored(pubs),
			PublicationsLast5Years: utils.CountRecentPublications(pubs, recentPublicationYears),
			DaysSinceLastReview:    utils.DaysSince(reviewer.LastReviewCompleted),
			PublishedInJournal:     utils.PublishedInJournal(pubs, manuscript.Journal),
		}
		if m.ConflictsOfInterest != nil {
			enriched.ConflictsOfInterest = *m.ConflictsOfInterest
		}
		result = append(result, enriched)
	}
	return result, nil
}

// GetReviewersWithStatus returns the manuscript's matched reviewers each
// annotated with where they sit in the workflow: queued, under one of the
// invitation statuses, or still untouched.
func (s *ReviewerService) GetReviewersWithStatus(manuscriptID string) ([]models.ReviewerWithStatus, error) {
	var matches []models.ReviewerManuscriptMatch
	if err := s.db.
		Where("manuscript_id = ?", manuscriptID).
		Order("match_score DESC").
		Find(&matches).Error; err != nil {
		return nil, translateStoreError("fetch manuscript matches", err)
	}
	if len(matches) == 0 {
		return []models.ReviewerWithStatus{}, nil
	}

	reviewerIDs := make([]string, len(matches))
	for i, m := range matches {
		reviewerIDs[i] = m.ReviewerID
	}

	var reviewers []models.PotentialReviewer
	if err := s.db.Where("id IN ?", reviewerIDs).Find(&reviewers).Error; err != nil {
		return nil, translateStoreError("fetch matched reviewers", err)
	}
	reviewersByID := make(map[string]models.PotentialReviewer, len(reviewers))
	for _, r := range reviewers {
		reviewersByID[r.ID] = r
	}

	var queueItems []models.InvitationQueueItem
	if err := s.db.Where("manuscript_id = ?", manuscriptID).Find(&queueItems).Error; err != nil {
		return nil, translateStoreError("fetch manuscript queue", err)
	}
	queuedByReviewer := make(map[string]models.InvitationQueueItem, len(queueItems))
	for _, q := range queueItems {
		queuedByReviewer[q.ReviewerID] = q
	}

	var invitations []models.ReviewInvitation
	if err := s.db.Where("manuscript_id = ?", manuscriptID).Find(&invitations).Error; err != nil {
		return nil, translateStoreError("fetch manuscript invitations", err)
	}
	invitedByReviewer := make(map[string]models.ReviewInvitation, len(invitations))
	for _, inv := range invitations {
		invitedByReviewer[inv.ReviewerID] = inv
	}

	result := make([]models.ReviewerWithStatus, 0, len(matches))
	for _, m := range matches {
		reviewer, ok := reviewersByID[m.ReviewerID]
		if !ok {
			continue
		}
		entry := models.ReviewerWithStatus{
			PotentialReviewer: reviewer,
			MatchScore:        m.MatchScore,
		}
		if inv, ok := invitedByReviewer[m.ReviewerID]; ok {
			invited := inv.InvitedDate
			entry.InvitationStatus = inv.Status
			entry.InvitationID = inv.ID
			entry.InvitedDate = &invited
			entry.ResponseDate = inv.ResponseDate
			entry.DueDate = inv.DueDate
		} else if q, ok := queuedByReviewer[m.ReviewerID]; ok {
			scheduled := q.ScheduledSendDate
			entry.InvitationStatus = "queued"
			entry.QueueID = q.ID
			entry.QueuePosition = q.QueuePosition
			entry.Priority = q.Priority
			entry.ScheduledSendDate = &scheduled
		}
		result = append(result, entry)
	}
	return result, nil
}
