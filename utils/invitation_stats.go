// utils/invitation_stats.go - Per-manuscript invitation aggregates
package utils

import (
	"time"

	"manuscript-review-api/models"
)

// InvitationStats counts invitations per workflow state for one manuscript.
// expired and overdue are derived from timestamps, not stored statuses.
type InvitationStats struct {
	Invited     int `json:"invited"`
	Agreed      int `json:"agreed"`
	Declined    int `json:"declined"`
	Submitted   int `json:"submitted"`
	Pending     int `json:"pending"`
	Expired     int `json:"expired"`
	Overdue     int `json:"overdue"`
	Invalidated int `json:"invalidated"`
	Revoked     int `json:"revoked"`
	Queued      int `json:"queued"`
}

// CalculateInvitationStats aggregates invitation rows client-side.
func CalculateInvitationStats(invitations []models.ReviewInvitation) InvitationStats {
	now := time.Now()
	stats := InvitationStats{Invited: len(invitations)}

	for _, inv := range invitations {
		switch inv.Status {
		case models.InvitationStatusAccepted:
			stats.Agreed++
			// overdue: accepted and past due date
			if inv.DueDate != nil && inv.DueDate.Before(now) {
				stats.Overdue++
			}
		case models.InvitationStatusDeclined:
			stats.Declined++
		case models.InvitationStatusReportSubmitted:
			stats.Submitted++
		case models.InvitationStatusPending:
			stats.Pending++
			// expired: pending and past expiration date
			if inv.InvitationExpirationDate != nil && inv.InvitationExpirationDate.Before(now) {
				stats.Expired++
			}
		case models.InvitationStatusInvalidated:
			stats.Invalidated++
		case models.InvitationStatusRevoked:
			stats.Revoked++
		}
	}

	return stats
}
