package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"manuscript-review-api/config"
	"manuscript-review-api/models"
	"manuscript-review-api/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// IngestionData is the payload of a reviewer ingestion run: one manuscript
// and the ranked candidate reviewers found for it, with their publication
// histories.
type IngestionData struct {
	Manuscript ManuscriptData `json:"manuscript"`
	Reviewers  []ReviewerData `json:"reviewers"`
}

type ManuscriptData struct {
	ID       string   `json:"id,omitempty"`
	CustomID string   `json:"custom_id,omitempty"`
	Title    string   `json:"title"`
	Abstract string   `json:"abstract,omitempty"`
	Journal  string   `json:"journal,omitempty"`
	Authors  []string `json:"authors,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

type ReviewerData struct {
	Name                string            `json:"name"`
	GivenNames          string            `json:"given_names,omitempty"`
	Surname             string            `json:"surname,omitempty"`
	Email               string            `json:"email"`
	Affiliation         string            `json:"affiliation,omitempty"`
	Department          string            `json:"department,omitempty"`
	ORCIDID             string            `json:"orcid_id,omitempty"`
	ProfileURL          string            `json:"profile_url,omitempty"`
	ExternalID          string            `json:"external_id,omitempty"`
	ExpertiseAreas      []string          `json:"expertise_areas,omitempty"`
	HIndex              *int              `json:"h_index,omitempty"`
	CitationCount       *int              `json:"citation_count,omitempty"`
	TotalPublications   *int              `json:"total_publications,omitempty"`
	PublicationYearFrom *int              `json:"publication_year_from,omitempty"`
	PublicationYearTo   *int              `json:"publication_year_to,omitempty"`
	MatchScore          *float64          `json:"match_score,omitempty"`
	Publications        []PublicationData `json:"publications,omitempty"`
}

type PublicationData struct {
	Title           string   `json:"title"`
	DOI             string   `json:"doi,omitempty"`
	JournalName     string   `json:"journal_name,omitempty"`
	Authors         []string `json:"authors,omitempty"`
	PublicationDate string   `json:"publication_date,omitempty"`
}

// IngestionStats summarizes an ingestion run.
type IngestionStats struct {
	ManuscriptID         string   `json:"manuscript_id"`
	ManuscriptCreated    bool     `json:"manuscript_created"`
	ReviewersCreated     int      `json:"reviewers_created"`
	ReviewersUpdated     int      `json:"reviewers_updated"`
	PublicationsInserted int      `json:"publications_inserted"`
	MatchesCreated       int      `json:"matches_created"`
	Failures             []string `json:"failures,omitempty"`
}

// ReviewerIngestService loads external reviewer-finder output into the
// reviewer pool: it upserts the manuscript, upserts every candidate
// reviewer by email, stores their publications, and records match scores
// as initial suggestions.
type ReviewerIngestService struct {
	db        *gorm.DB
	reviewers *ReviewerService
	matches   *MatchService
}

func NewReviewerIngestService(db *gorm.DB) *ReviewerIngestService {
	if db == nil {
		db = config.DB
	}
	return &ReviewerIngestService{
		db:        db,
		reviewers: NewReviewerService(db),
		matches:   NewMatchService(db),
	}
}

// Validate rejects payloads that cannot be ingested at all. Per-reviewer
// problems are reported during Run instead, so one bad candidate does not
// block the rest.
func (s *ReviewerIngestService) Validate(data *IngestionData) error {
	if data == nil {
		return fmt.Errorf("ingestion payload is empty")
	}
	if data.Manuscript.ID == "" && data.Manuscript.Title == "" {
		return fmt.Errorf("ingestion payload needs a manuscript id or title")
	}
	if len(data.Reviewers) == 0 {
		return fmt.Errorf("ingestion payload has no reviewers")
	}
	return nil
}

// Run ingests the payload. It keeps going past individual reviewer
// failures and reports them in the stats.
func (s *ReviewerIngestService) Run(data *IngestionData) (*IngestionStats, error) {
	if err := s.Validate(data); err != nil {
		return nil, err
	}

	stats := &IngestionStats{}

	manuscriptID, created, err := s.upsertManuscript(&data.Manuscript)
	if err != nil {
		return nil, err
	}
	stats.ManuscriptID = manuscriptID
	stats.ManuscriptCreated = created

	for i, candidate := range data.Reviewers {
		if err := s.ingestReviewer(manuscriptID, i, &candidate, stats); err != nil {
			label := candidate.Email
			if label == "" {
				label = candidate.Name
			}
			stats.Failures = append(stats.Failures, fmt.Sprintf("%s: %v", label, err))
			log.Printf("ingestion: reviewer %s failed: %v", label, err)
		}
	}
	return stats, nil
}

func (s *ReviewerIngestService) upsertManuscript(data *ManuscriptData) (string, bool, error) {
	if data.ID != "" {
		var existing models.Manuscript
		if err := s.db.Select("id").Where("id = ?", data.ID).First(&existing).Error; err == nil {
			return existing.ID, false, nil
		}
	}
	if data.CustomID != "" {
		var existing models.Manuscript
		if err := s.db.Select("id").Where("custom_id = ?", data.CustomID).First(&existing).Error; err == nil {
			return existing.ID, false, nil
		}
	}

	manuscript := models.Manuscript{
		ID:             data.ID,
		Title:          data.Title,
		Abstract:       data.Abstract,
		Journal:        data.Journal,
		Authors:        datatypes.NewJSONSlice(data.Authors),
		Keywords:       datatypes.NewJSONSlice(data.Keywords),
		Status:         models.ManuscriptStatusSubmitted,
		SubmissionDate: time.Now(),
		Version:        1,
	}
	if data.CustomID != "" {
		manuscript.CustomID = &data.CustomID
	}
	if err := s.db.Create(&manuscript).Error; err != nil {
		return "", false, translateStoreError("create manuscript", err)
	}
	return manuscript.ID, true, nil
}

func (s *ReviewerIngestService) ingestReviewer(manuscriptID string, rank int, data *ReviewerData, stats *IngestionStats) error {
	if data.Email == "" || !utils.ValidateEmail(data.Email) {
		return fmt.Errorf("missing or invalid email")
	}

	reviewer := models.PotentialReviewer{
		Name:           data.Name,
		Email:          data.Email,
		Affiliation:    data.Affiliation,
		ExpertiseAreas: datatypes.NewJSONSlice(data.ExpertiseAreas),
	}
	setIfNotEmpty(&reviewer.GivenNames, data.GivenNames)
	setIfNotEmpty(&reviewer.Surname, data.Surname)
	setIfNotEmpty(&reviewer.Department, data.Department)
	setIfNotEmpty(&reviewer.ORCIDID, data.ORCIDID)
	setIfNotEmpty(&reviewer.ProfileURL, data.ProfileURL)
	setIfNotEmpty(&reviewer.ExternalID, data.ExternalID)
	reviewer.HIndex = data.HIndex
	reviewer.CitationCount = data.CitationCount
	reviewer.TotalPublications = data.TotalPublications
	reviewer.PublicationYearFrom = data.PublicationYearFrom
	reviewer.PublicationYearTo = data.PublicationYearTo

	reviewerID, created, err := s.reviewers.UpsertReviewer(&reviewer)
	if err != nil {
		return err
	}
	if created {
		stats.ReviewersCreated++
	} else {
		stats.ReviewersUpdated++
	}

	if len(data.Publications) > 0 {
		pubs := make([]models.ReviewerPublication, 0, len(data.Publications))
		for _, p := range data.Publications {
			pub := models.ReviewerPublication{
				Title:   p.Title,
				Authors: datatypes.NewJSONSlice(p.Authors),
			}
			setIfNotEmpty(&pub.DOI, p.DOI)
			setIfNotEmpty(&pub.JournalName, p.JournalName)
			if p.PublicationDate != "" {
				if parsed, err := parsePublicationDate(p.PublicationDate); err == nil {
					pub.PublicationDate = &parsed
				}
			}
			pubs = append(pubs, pub)
		}
		inserted, err := s.reviewers.InsertPublications(reviewerID, pubs)
		if err != nil {
			return err
		}
		stats.PublicationsInserted += inserted
	}

	score := 0.95 - float64(rank)/100
	if data.MatchScore != nil {
		score = *data.MatchScore
	}
	if score < bulkMatchFloor {
		score = bulkMatchFloor
	}
	if score > 1 {
		score = 1
	}
	suggested := true
	if err := s.matches.UpsertReviewerMatch(manuscriptID, reviewerID, score, &suggested, nil); err != nil {
		return err
	}
	stats.MatchesCreated++
	return nil
}

func setIfNotEmpty(dst **string, value string) {
	value = strings.TrimSpace(value)
	if value != "" {
		*dst = &value
	}
}

// parsePublicationDate accepts the date shapes reviewer finders emit:
// full dates, year-month, or a bare year.
func parsePublicationDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
