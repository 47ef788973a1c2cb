package services

import (
	"math"
	"testing"

	"manuscript-review-api/models"
)

func ingestPayload(manuscriptTitle string) *IngestionData {
	return &IngestionData{
		Manuscript: ManuscriptData{
			Title:    manuscriptTitle,
			Journal:  "Journal of Testing",
			Keywords: []string{"testing", "ingestion"},
		},
		Reviewers: []ReviewerData{
			{
				Name:        "Dr. Alpha",
				Email:       "alpha@uni.edu",
				Affiliation: "Alpha Institute",
				Publications: []PublicationData{
					{Title: "Alpha's First Paper", PublicationDate: "2023-04-01"},
					{Title: "Alpha's Second Paper", PublicationDate: "2021"},
				},
			},
			{
				Name:  "Dr. Beta",
				Email: "beta@uni.edu",
			},
			{
				Name: "No Email", // rejected, but must not block the others
			},
		},
	}
}

func TestIngestRun_CreatesEverything(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewerIngestService(db)

	stats, err := svc.Run(ingestPayload("Ingested Manuscript"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !stats.ManuscriptCreated {
		t.Error("expected manuscript created")
	}
	if stats.ReviewersCreated != 2 {
		t.Errorf("expected 2 reviewers created, got %d", stats.ReviewersCreated)
	}
	if stats.PublicationsInserted != 2 {
		t.Errorf("expected 2 publications inserted, got %d", stats.PublicationsInserted)
	}
	if stats.MatchesCreated != 2 {
		t.Errorf("expected 2 matches recorded, got %d", stats.MatchesCreated)
	}
	if len(stats.Failures) != 1 {
		t.Errorf("expected 1 failure for the email-less candidate, got %v", stats.Failures)
	}

	// Rank 0 scores 0.95, rank 1 scores 0.94.
	var alpha models.PotentialReviewer
	if err := db.Where("email = ?", "alpha@uni.edu").First(&alpha).Error; err != nil {
		t.Fatalf("alpha not stored: %v", err)
	}
	var match models.ReviewerManuscriptMatch
	if err := db.Where("manuscript_id = ? AND reviewer_id = ?", stats.ManuscriptID, alpha.ID).
		First(&match).Error; err != nil {
		t.Fatalf("alpha's match not stored: %v", err)
	}
	if math.Abs(match.MatchScore-0.95) > 1e-9 {
		t.Errorf("expected rank-0 score 0.95, got %v", match.MatchScore)
	}
	if !match.IsInitialSuggestion {
		t.Error("expected ingested matches flagged as initial suggestions")
	}
}

func TestIngestRun_IsRepeatable(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewerIngestService(db)

	payload := ingestPayload("Repeatable Manuscript")
	payload.Manuscript.CustomID = "JOT-2026-001"

	first, err := svc.Run(payload)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := svc.Run(payload)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if second.ManuscriptCreated {
		t.Error("expected the manuscript matched by custom id on rerun")
	}
	if second.ManuscriptID != first.ManuscriptID {
		t.Errorf("expected same manuscript, got %s and %s", first.ManuscriptID, second.ManuscriptID)
	}
	if second.ReviewersCreated != 0 || second.ReviewersUpdated != 2 {
		t.Errorf("expected 2 updates and no creates on rerun, got created=%d updated=%d",
			second.ReviewersCreated, second.ReviewersUpdated)
	}
	if second.PublicationsInserted != 0 {
		t.Errorf("expected no duplicate publications, got %d", second.PublicationsInserted)
	}

	var reviewerCount int64
	db.Model(&models.PotentialReviewer{}).Count(&reviewerCount)
	if reviewerCount != 2 {
		t.Errorf("expected 2 reviewers total, got %d", reviewerCount)
	}
}

func TestIngestValidate(t *testing.T) {
	svc := NewReviewerIngestService(newTestDB(t))

	if err := svc.Validate(nil); err == nil {
		t.Error("expected nil payload to be rejected")
	}
	if err := svc.Validate(&IngestionData{Reviewers: []ReviewerData{{Name: "X"}}}); err == nil {
		t.Error("expected payload without a manuscript to be rejected")
	}
	if err := svc.Validate(&IngestionData{Manuscript: ManuscriptData{Title: "T"}}); err == nil {
		t.Error("expected payload without reviewers to be rejected")
	}
}
