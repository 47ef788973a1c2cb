package services

import (
	"testing"
	"time"

	"manuscript-review-api/models"

	"gorm.io/datatypes"
)

func TestAddReviewer_RejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewerService(db)

	r := &models.PotentialReviewer{Name: "First In", Email: "taken@uni.edu"}
	if err := svc.AddReviewer(r); err != nil {
		t.Fatalf("AddReviewer failed: %v", err)
	}

	dup := &models.PotentialReviewer{Name: "Second In", Email: "Taken@uni.edu"}
	if err := svc.AddReviewer(dup); err == nil {
		t.Fatal("expected duplicate email (case-insensitive) to be rejected")
	}
}

func TestAddReviewer_DefaultsAffiliation(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewerService(db)

	r := &models.PotentialReviewer{Name: "No Affiliation", Email: "noaff@uni.edu"}
	if err := svc.AddReviewer(r); err != nil {
		t.Fatalf("AddReviewer failed: %v", err)
	}
	if r.Affiliation != "Not specified" {
		t.Errorf("expected affiliation backfilled, got %q", r.Affiliation)
	}
	if r.AvailabilityStatus != models.AvailabilityAvailable {
		t.Errorf("expected available status, got %q", r.AvailabilityStatus)
	}
}

func TestUpdateReviewer_EmailCollision(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewerService(db)

	a := seedReviewer(t, db, "Holder", "holder@uni.edu")
	b := seedReviewer(t, db, "Mover", "mover@uni.edu")

	err := svc.UpdateReviewer(b.ID, map[string]interface{}{"email": a.Email})
	if err == nil {
		t.Fatal("expected email collision to be rejected")
	}

	// Updating to the same reviewer's own email is fine.
	if err := svc.UpdateReviewer(b.ID, map[string]interface{}{"email": b.Email, "name": "Renamed"}); err != nil {
		t.Fatalf("UpdateReviewer failed: %v", err)
	}
}

func TestUpsertReviewer_MatchesByEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewerService(db)

	hIndex := 12
	first := &models.PotentialReviewer{
		Name:   "Dr. Original",
		Email:  "upserted@uni.edu",
		HIndex: &hIndex,
	}
	id1, created, err := svc.UpsertReviewer(first)
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if !created {
		t.Error("expected first upsert to create")
	}

	newHIndex := 15
	second := &models.PotentialReviewer{
		Name:        "Dr. Refreshed",
		Email:       "UPSERTED@uni.edu",
		Affiliation: "New Institute",
		HIndex:      &newHIndex,
	}
	id2, created, err := svc.UpsertReviewer(second)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if created {
		t.Error("expected second upsert to update in place")
	}
	if id1 != id2 {
		t.Errorf("expected same reviewer id, got %s and %s", id1, id2)
	}

	var stored models.PotentialReviewer
	db.Where("id = ?", id1).First(&stored)
	if stored.Name != "Dr. Refreshed" {
		t.Errorf("expected refreshed name, got %q", stored.Name)
	}
	if stored.HIndex == nil || *stored.HIndex != 15 {
		t.Errorf("expected h-index 15, got %v", stored.HIndex)
	}
}

func TestInsertPublications_SkipsDuplicateTitles(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewerService(db)
	r := seedReviewer(t, db, "Author", "author@uni.edu")

	pubs := []models.ReviewerPublication{
		{Title: "A Study of Things"},
		{Title: "a study of things"}, // same title, different case
		{Title: "A Different Study"},
		{Title: ""}, // untitled rows are skipped
	}
	inserted, err := svc.InsertPublications(r.ID, pubs)
	if err != nil {
		t.Fatalf("InsertPublications failed: %v", err)
	}
	if inserted != 2 {
		t.Errorf("expected 2 publications inserted, got %d", inserted)
	}

	// A second run inserts nothing.
	again, err := svc.InsertPublications(r.ID, pubs)
	if err != nil {
		t.Fatalf("second InsertPublications failed: %v", err)
	}
	if again != 0 {
		t.Errorf("expected 0 publications on rerun, got %d", again)
	}
}

func TestGetManuscriptReviewers_ComputesMetrics(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewerService(db)
	m := seedManuscript(t, db, "Metrics Manuscript") // Journal of Computational Biology

	lastReview := time.Now().AddDate(0, 0, -30)
	r := &models.PotentialReviewer{
		Name:                "Dr. Metrics",
		Email:               "metrics@university.edu",
		Affiliation:         "Metrics Lab",
		TotalInvitations:    10,
		TotalAcceptances:    7,
		LastReviewCompleted: &lastReview,
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("seed reviewer failed: %v", err)
	}

	recent := time.Now().AddDate(-1, 0, 0)
	old := time.Now().AddDate(-8, 0, 0)
	journal := m.Journal
	pubs := []models.ReviewerPublication{
		{ReviewerID: r.ID, Title: "Solo Recent", Authors: datatypes.NewJSONSlice([]string{"Dr. Metrics"}),
			PublicationDate: &recent, JournalName: &journal},
		{ReviewerID: r.ID, Title: "Team Old", Authors: datatypes.NewJSONSlice([]string{"Dr. Metrics", "A. Colleague"}),
			PublicationDate: &old},
	}
	for i := range pubs {
		if err := db.Create(&pubs[i]).Error; err != nil {
			t.Fatalf("seed publication failed: %v", err)
		}
	}

	if _, err := NewMatchService(db).AddReviewerMatch(m.ID, r.ID, 0.88, nil, nil); err != nil {
		t.Fatalf("AddReviewerMatch failed: %v", err)
	}

	reviewers, err := svc.GetManuscriptReviewers(m.ID)
	if err != nil {
		t.Fatalf("GetManuscriptReviewers failed: %v", err)
	}
	if len(reviewers) != 1 {
		t.Fatalf("expected 1 reviewer, got %d", len(reviewers))
	}

	got := reviewers[0]
	if got.MatchScore != 0.88 {
		t.Errorf("expected match score 0.88, got %v", got.MatchScore)
	}
	if !got.EmailIsInstitutional {
		t.Error("university.edu should count as institutional")
	}
	if got.AcceptanceRate != 70 {
		t.Errorf("expected acceptance rate 70, got %d", got.AcceptanceRate)
	}
	if got.SoloAuthoredCount != 1 {
		t.Errorf("expected 1 solo-authored publication, got %d", got.SoloAuthoredCount)
	}
	if got.PublicationsLast5Years != 1 {
		t.Errorf("expected 1 recent publication, got %d", got.PublicationsLast5Years)
	}
	if !got.PublishedInJournal {
		t.Error("expected published-in-journal flag")
	}
	if got.DaysSinceLastReview == nil || *got.DaysSinceLastReview != 30 {
		t.Errorf("expected 30 days since last review, got %v", got.DaysSinceLastReview)
	}
}

func TestGetReviewersWithStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewerService(db)
	m := seedManuscript(t, db, "Status Manuscript")

	queued := seedReviewer(t, db, "Queued One", "q1@uni.edu")
	invited := seedReviewer(t, db, "Invited One", "i1@uni.edu")
	untouched := seedReviewer(t, db, "Untouched One", "u1@uni.edu")

	matchSvc := NewMatchService(db)
	for i, r := range []*models.PotentialReviewer{queued, invited, untouched} {
		if _, err := matchSvc.AddReviewerMatch(m.ID, r.ID, 0.9-float64(i)*0.1, nil, nil); err != nil {
			t.Fatalf("AddReviewerMatch failed: %v", err)
		}
	}

	if _, err := NewQueueService(db).AddToQueue(m.ID, queued.ID, models.PriorityHigh); err != nil {
		t.Fatalf("AddToQueue failed: %v", err)
	}
	if _, err := NewInvitationService(db).SendInvitation(m.ID, invited.ID); err != nil {
		t.Fatalf("SendInvitation failed: %v", err)
	}

	reviewers, err := svc.GetReviewersWithStatus(m.ID)
	if err != nil {
		t.Fatalf("GetReviewersWithStatus failed: %v", err)
	}
	if len(reviewers) != 3 {
		t.Fatalf("expected 3 reviewers, got %d", len(reviewers))
	}

	byID := map[string]models.ReviewerWithStatus{}
	for _, r := range reviewers {
		byID[r.PotentialReviewer.ID] = r
	}

	if got := byID[queued.ID]; got.InvitationStatus != "queued" || got.QueuePosition != 1 {
		t.Errorf("queued reviewer: got status %q position %d", got.InvitationStatus, got.QueuePosition)
	}
	if got := byID[invited.ID]; got.InvitationStatus != models.InvitationStatusPending || got.InvitationID == "" {
		t.Errorf("invited reviewer: got status %q id %q", got.InvitationStatus, got.InvitationID)
	}
	if got := byID[untouched.ID]; got.InvitationStatus != "" {
		t.Errorf("untouched reviewer: expected empty status, got %q", got.InvitationStatus)
	}
}
