package services

import (
	"strings"
	"testing"
	"time"

	"manuscript-review-api/models"
)

func TestSendInvitation_SetsWorkflowDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvitationService(db)
	m := seedManuscript(t, db, "Causal Inference in Observational Studies")
	r := seedReviewer(t, db, "Dr. Pending", "pending@uni.edu")

	inv, err := svc.SendInvitation(m.ID, r.ID)
	if err != nil {
		t.Fatalf("SendInvitation failed: %v", err)
	}

	if inv.Status != models.InvitationStatusPending {
		t.Errorf("expected pending status, got %q", inv.Status)
	}
	if inv.InvitationRound != 1 {
		t.Errorf("expected round 1, got %d", inv.InvitationRound)
	}
	if inv.ReminderCount != 0 {
		t.Errorf("expected 0 reminders, got %d", inv.ReminderCount)
	}

	wantDue := time.Now().AddDate(0, 0, 14)
	if inv.DueDate == nil {
		t.Fatal("expected due date to be set")
	}
	if diff := inv.DueDate.Sub(wantDue); diff < -time.Minute || diff > time.Minute {
		t.Errorf("expected due date ~14 days out, got %v", inv.DueDate)
	}
	if inv.InvitationExpirationDate == nil {
		t.Fatal("expected expiration date to be set")
	}
}

func TestSendInvitation_RejectsQueuedReviewer(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvitationService(db)
	m := seedManuscript(t, db, "Adaptive Mesh Refinement")
	r := seedReviewer(t, db, "Queued", "queued@uni.edu")

	if _, err := NewQueueService(db).AddToQueue(m.ID, r.ID, models.PriorityNormal); err != nil {
		t.Fatalf("AddToQueue failed: %v", err)
	}

	_, err := svc.SendInvitation(m.ID, r.ID)
	if err == nil {
		t.Fatal("expected invitation to fail for a queued reviewer")
	}
	if !strings.Contains(err.Error(), "queue") {
		t.Errorf("unexpected error: %v", err)
	}

	var count int64
	db.Model(&models.ReviewInvitation{}).Where("manuscript_id = ?", m.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected no invitation rows written, got %d", count)
	}
}

func TestSendInvitation_RejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvitationService(db)
	m := seedManuscript(t, db, "Consensus Under Partial Synchrony")
	r := seedReviewer(t, db, "Twice", "twice@uni.edu")

	if _, err := svc.SendInvitation(m.ID, r.ID); err != nil {
		t.Fatalf("first SendInvitation failed: %v", err)
	}
	if _, err := svc.SendInvitation(m.ID, r.ID); err == nil {
		t.Fatal("expected duplicate invitation to fail")
	}
}

func TestUpdateInvitationStatus_ValidatesTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvitationService(db)
	m := seedManuscript(t, db, "Memory Safety in Systems Languages")
	r := seedReviewer(t, db, "Responder", "responder@uni.edu")

	inv, err := svc.SendInvitation(m.ID, r.ID)
	if err != nil {
		t.Fatalf("SendInvitation failed: %v", err)
	}

	// pending -> completed is not a legal move
	if err := svc.UpdateInvitationStatus(inv.ID, models.InvitationStatusCompleted); err == nil {
		t.Fatal("expected pending -> completed to be rejected")
	}

	if err := svc.UpdateInvitationStatus(inv.ID, models.InvitationStatusAccepted); err != nil {
		t.Fatalf("pending -> accepted failed: %v", err)
	}

	var stored models.ReviewInvitation
	if err := db.Where("id = ?", inv.ID).First(&stored).Error; err != nil {
		t.Fatalf("failed to reload invitation: %v", err)
	}
	if stored.Status != models.InvitationStatusAccepted {
		t.Errorf("expected accepted, got %q", stored.Status)
	}
	if stored.ResponseDate == nil {
		t.Error("expected response date stamped on acceptance")
	}
}

func TestInvalidateAndUninvalidateReport(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvitationService(db)
	m := seedManuscript(t, db, "Low-Rank Adaptation Methods")
	r := seedReviewer(t, db, "Reporter", "reporter@uni.edu")

	inv, err := svc.SendInvitation(m.ID, r.ID)
	if err != nil {
		t.Fatalf("SendInvitation failed: %v", err)
	}
	if err := svc.UpdateInvitationStatus(inv.ID, models.InvitationStatusAccepted); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if err := svc.SubmitReport(inv.ID); err != nil {
		t.Fatalf("SubmitReport failed: %v", err)
	}

	if err := svc.InvalidateReport(inv.ID, "duplicate submission"); err != nil {
		t.Fatalf("InvalidateReport failed: %v", err)
	}

	var stored models.ReviewInvitation
	db.Where("id = ?", inv.ID).First(&stored)
	if stored.Status != models.InvitationStatusInvalidated {
		t.Errorf("expected invalidated status, got %q", stored.Status)
	}
	if stored.ReportInvalidatedDate == nil {
		t.Error("expected invalidation date stamped")
	}
	if !strings.Contains(stored.Notes, "[Invalidated: duplicate submission]") {
		t.Errorf("expected invalidation fragment in notes, got %q", stored.Notes)
	}

	if err := svc.UninvalidateReport(inv.ID); err != nil {
		t.Fatalf("UninvalidateReport failed: %v", err)
	}

	stored = models.ReviewInvitation{}
	db.Where("id = ?", inv.ID).First(&stored)
	if stored.Status != models.InvitationStatusReportSubmitted {
		t.Errorf("expected report_submitted after reinstating, got %q", stored.Status)
	}
	if stored.ReportInvalidatedDate != nil {
		t.Error("expected invalidation date cleared")
	}
	// The notes keep the full audit trail.
	if !strings.Contains(stored.Notes, "[Invalidated: duplicate submission]") ||
		!strings.Contains(stored.Notes, "[Report reinstated]") {
		t.Errorf("expected both audit fragments preserved, got %q", stored.Notes)
	}
}

func TestRevokeInvitation_AddBackToQueue(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvitationService(db)
	m := seedManuscript(t, db, "Byzantine Fault Detection")
	r := seedReviewer(t, db, "Revoked", "revoked@uni.edu")

	inv, err := svc.SendInvitation(m.ID, r.ID)
	if err != nil {
		t.Fatalf("SendInvitation failed: %v", err)
	}

	if err := svc.RevokeInvitation(inv.ID, true); err != nil {
		t.Fatalf("RevokeInvitation failed: %v", err)
	}

	// The invitation row is gone and the reviewer is back in the queue.
	var invCount int64
	db.Model(&models.ReviewInvitation{}).Where("id = ?", inv.ID).Count(&invCount)
	if invCount != 0 {
		t.Error("expected invitation removed when re-queueing")
	}

	var item models.InvitationQueueItem
	if err := db.Where("manuscript_id = ? AND reviewer_id = ?", m.ID, r.ID).First(&item).Error; err != nil {
		t.Fatalf("expected reviewer back in queue: %v", err)
	}
	if item.QueuePosition != 1 {
		t.Errorf("expected queue position 1, got %d", item.QueuePosition)
	}
	if item.Priority != models.PriorityNormal {
		t.Errorf("expected normal priority, got %q", item.Priority)
	}
}

func TestRevokeInvitation_WithoutRequeueKeepsRecord(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvitationService(db)
	m := seedManuscript(t, db, "Anytime Planning Algorithms")
	r := seedReviewer(t, db, "Kept", "kept@uni.edu")

	inv, err := svc.SendInvitation(m.ID, r.ID)
	if err != nil {
		t.Fatalf("SendInvitation failed: %v", err)
	}

	if err := svc.RevokeInvitation(inv.ID, false); err != nil {
		t.Fatalf("RevokeInvitation failed: %v", err)
	}

	var stored models.ReviewInvitation
	if err := db.Where("id = ?", inv.ID).First(&stored).Error; err != nil {
		t.Fatalf("expected invitation kept: %v", err)
	}
	if stored.Status != models.InvitationStatusRevoked {
		t.Errorf("expected revoked status, got %q", stored.Status)
	}
	if !strings.Contains(stored.Notes, "[Revoked by editor]") {
		t.Errorf("expected revocation fragment in notes, got %q", stored.Notes)
	}
}

func TestGetManuscriptInvitations_NewestFirstWithNames(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvitationService(db)
	m := seedManuscript(t, db, "Differentiable Rendering")

	r1 := seedReviewer(t, db, "Early Bird", "early@uni.edu")
	r2 := seedReviewer(t, db, "Late Comer", "late@uni.edu")

	early := models.ReviewInvitation{
		ManuscriptID: m.ID,
		ReviewerID:   r1.ID,
		Status:       models.InvitationStatusPending,
		InvitedDate:  time.Now().Add(-48 * time.Hour),
	}
	late := models.ReviewInvitation{
		ManuscriptID: m.ID,
		ReviewerID:   r2.ID,
		Status:       models.InvitationStatusPending,
		InvitedDate:  time.Now(),
	}
	if err := db.Create(&early).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := db.Create(&late).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	invitations, err := svc.GetManuscriptInvitations(m.ID)
	if err != nil {
		t.Fatalf("GetManuscriptInvitations failed: %v", err)
	}
	if len(invitations) != 2 {
		t.Fatalf("expected 2 invitations, got %d", len(invitations))
	}
	if invitations[0].ReviewerID != r2.ID {
		t.Error("expected newest invitation first")
	}
	if invitations[0].ReviewerName != "Late Comer" {
		t.Errorf("expected reviewer name stitched on, got %q", invitations[0].ReviewerName)
	}
}

func TestSetInvitationExpiration_DefaultsToWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvitationService(db)
	m := seedManuscript(t, db, "Program Synthesis From Examples")
	r := seedReviewer(t, db, "Expiring", "expiring@uni.edu")

	inv, err := svc.SendInvitation(m.ID, r.ID)
	if err != nil {
		t.Fatalf("SendInvitation failed: %v", err)
	}

	if err := svc.SetInvitationExpiration(inv.ID, time.Time{}); err != nil {
		t.Fatalf("SetInvitationExpiration failed: %v", err)
	}

	var stored models.ReviewInvitation
	db.Where("id = ?", inv.ID).First(&stored)
	if stored.InvitationExpirationDate == nil {
		t.Fatal("expected expiration date set")
	}
	want := time.Now().AddDate(0, 0, 14)
	if diff := stored.InvitationExpirationDate.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("expected expiration ~14 days out, got %v", stored.InvitationExpirationDate)
	}
}
