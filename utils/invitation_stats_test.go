package utils

import (
	"testing"
	"time"

	"manuscript-review-api/models"
)

func TestCalculateInvitationStats(t *testing.T) {
	now := time.Now()
	future := now.AddDate(0, 0, 7)
	past := now.AddDate(0, 0, -7)

	invitations := []models.ReviewInvitation{
		{Status: models.InvitationStatusPending, InvitationExpirationDate: &future},
		{Status: models.InvitationStatusPending, InvitationExpirationDate: &past}, // also derived expired
		{Status: models.InvitationStatusPending},                                 // no expiration set
		{Status: models.InvitationStatusAccepted, DueDate: &future},
		{Status: models.InvitationStatusAccepted, DueDate: &past}, // derived overdue
		{Status: models.InvitationStatusDeclined},
		{Status: models.InvitationStatusReportSubmitted},
		{Status: models.InvitationStatusInvalidated},
		{Status: models.InvitationStatusRevoked},
	}

	stats := CalculateInvitationStats(invitations)

	if stats.Invited != 9 {
		t.Errorf("invited = %d, want 9", stats.Invited)
	}
	// Expired overlays pending the way overdue overlays agreed: a pending
	// invitation past its expiration still counts in both.
	if stats.Pending != 3 {
		t.Errorf("pending = %d, want 3", stats.Pending)
	}
	if stats.Expired != 1 {
		t.Errorf("expired = %d, want 1", stats.Expired)
	}
	if stats.Agreed != 2 {
		t.Errorf("agreed = %d, want 2", stats.Agreed)
	}
	if stats.Overdue != 1 {
		t.Errorf("overdue = %d, want 1", stats.Overdue)
	}
	if stats.Declined != 1 {
		t.Errorf("declined = %d, want 1", stats.Declined)
	}
	if stats.Submitted != 1 {
		t.Errorf("submitted = %d, want 1", stats.Submitted)
	}
	if stats.Invalidated != 1 {
		t.Errorf("invalidated = %d, want 1", stats.Invalidated)
	}
	if stats.Revoked != 1 {
		t.Errorf("revoked = %d, want 1", stats.Revoked)
	}
}

func TestCalculateInvitationStats_Empty(t *testing.T) {
	stats := CalculateInvitationStats(nil)
	if stats.Invited != 0 || stats.Pending != 0 || stats.Expired != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
}
