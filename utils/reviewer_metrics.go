// utils/reviewer_metrics.go - Computed reviewer display metrics
package utils

import (
	"math"
	"strings"
	"time"
)

// Public email domains to check against
var publicEmailDomains = map[string]bool{
	"gmail.com":      true,
	"yahoo.com":      true,
	"hotmail.com":    true,
	"outlook.com":    true,
	"aol.com":        true,
	"icloud.com":     true,
	"mail.com":       true,
	"protonmail.com": true,
	"zoho.com":       true,
	"yandex.com":     true,
	"gmx.com":        true,
}

// IsInstitutionalEmail reports whether email belongs to an institutional
// domain rather than a public provider.
func IsInstitutionalEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	return !publicEmailDomains[domain]
}

// AcceptanceRate returns the acceptance percentage (0-100), or 0 when no
// invitations have been sent.
func AcceptanceRate(totalAcceptances, totalInvitations int) int {
	if totalInvitations == 0 {
		return 0
	}
	return int(math.Round(float64(totalAcceptances) / float64(totalInvitations) * 100))
}

// DaysSince returns whole days elapsed since t, or nil when t is unset.
func DaysSince(t *time.Time) *int {
	if t == nil {
		return nil
	}
	days := int(time.Since(*t).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return &days
}

// PublicationFacts is the slice of a publication row the metric helpers need.
type PublicationFacts struct {
	Authors         []string
	PublicationDate *time.Time
	JournalName     string
}

// CountSoloAuthored counts publications with exactly one author.
func CountSoloAuthored(pubs []PublicationFacts) int {
	count := 0
	for _, pub := range pubs {
		if len(pub.Authors) == 1 {
			count++
		}
	}
	return count
}

// CountRecentPublications counts publications dated within the last N years.
func CountRecentPublications(pubs []PublicationFacts, years int) int {
	cutoff := time.Now().AddDate(-years, 0, 0)
	count := 0
	for _, pub := range pubs {
		if pub.PublicationDate != nil && !pub.PublicationDate.Before(cutoff) {
			count++
		}
	}
	return count
}

// PublishedInJournal reports whether any publication appeared in the named
// journal (case-insensitive).
func PublishedInJournal(pubs []PublicationFacts, journal string) bool {
	if journal == "" {
		return false
	}
	for _, pub := range pubs {
		if pub.JournalName != "" && strings.EqualFold(pub.JournalName, journal) {
			return true
		}
	}
	return false
}
