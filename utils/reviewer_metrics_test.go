package utils

import (
	"testing"
	"time"
)

func TestIsInstitutionalEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"prof@university.edu", true},
		{"researcher@inria.fr", true},
		{"someone@gmail.com", false},
		{"someone@GMAIL.COM", false},
		{"someone@yahoo.com", false},
		{"someone@hotmail.com", false},
		{"broken-address", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsInstitutionalEmail(tt.email); got != tt.want {
			t.Errorf("IsInstitutionalEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestAcceptanceRate(t *testing.T) {
	tests := []struct {
		accepted, invited, want int
	}{
		{0, 0, 0}, // no invitations yet
		{7, 10, 70},
		{1, 3, 33},
		{2, 3, 67},
		{5, 5, 100},
	}

	for _, tt := range tests {
		if got := AcceptanceRate(tt.accepted, tt.invited); got != tt.want {
			t.Errorf("AcceptanceRate(%d, %d) = %d, want %d", tt.accepted, tt.invited, got, tt.want)
		}
	}
}

func TestDaysSince(t *testing.T) {
	if got := DaysSince(nil); got != nil {
		t.Errorf("DaysSince(nil) = %v, want nil", got)
	}

	tenDaysAgo := time.Now().AddDate(0, 0, -10)
	got := DaysSince(&tenDaysAgo)
	if got == nil || *got != 10 {
		t.Errorf("DaysSince(ten days ago) = %v, want 10", got)
	}
}

func TestPublicationCounters(t *testing.T) {
	recent := time.Now().AddDate(-2, 0, 0)
	old := time.Now().AddDate(-9, 0, 0)

	pubs := []PublicationFacts{
		{Authors: []string{"Solo Author"}, PublicationDate: &recent, JournalName: "Nature Methods"},
		{Authors: []string{"A", "B"}, PublicationDate: &old, JournalName: "nature methods"},
		{Authors: []string{"Solo Author"}, PublicationDate: nil, JournalName: "Cell"},
	}

	if got := CountSoloAuthored(pubs); got != 2 {
		t.Errorf("CountSoloAuthored = %d, want 2", got)
	}
	if got := CountRecentPublications(pubs, 5); got != 1 {
		t.Errorf("CountRecentPublications = %d, want 1", got)
	}
	if !PublishedInJournal(pubs, "NATURE METHODS") {
		t.Error("PublishedInJournal should match case-insensitively")
	}
	if PublishedInJournal(pubs, "Science") {
		t.Error("PublishedInJournal should not match an absent journal")
	}
	if PublishedInJournal(pubs, "") {
		t.Error("PublishedInJournal should be false for an empty journal name")
	}
}
