package services

import (
	"testing"

	"manuscript-review-api/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the full schema. A
// single connection keeps the in-memory database alive for the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.UserProfile{},
		&models.Manuscript{},
		&models.PotentialReviewer{},
		&models.ReviewerPublication{},
		&models.ReviewerManuscriptMatch{},
		&models.InvitationQueueItem{},
		&models.ReviewInvitation{},
		&models.UserManuscript{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	return db
}

func seedManuscript(t *testing.T, db *gorm.DB, title string) *models.Manuscript {
	t.Helper()
	m := &models.Manuscript{
		Title:   title,
		Journal: "Journal of Computational Biology",
		Status:  models.ManuscriptStatusUnderReview,
		Version: 1,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("failed to seed manuscript: %v", err)
	}
	return m
}

func seedReviewer(t *testing.T, db *gorm.DB, name, email string) *models.PotentialReviewer {
	t.Helper()
	r := &models.PotentialReviewer{
		Name:        name,
		Email:       email,
		Affiliation: "University of Testing",
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("failed to seed reviewer: %v", err)
	}
	return r
}

func seedUser(t *testing.T, db *gorm.DB, name, email, role string) *models.UserProfile {
	t.Helper()
	u := &models.UserProfile{
		Email:    email,
		FullName: name,
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

func queuePositions(t *testing.T, db *gorm.DB, manuscriptID string) []int {
	t.Helper()
	var items []models.InvitationQueueItem
	if err := db.
		Where("manuscript_id = ?", manuscriptID).
		Order("queue_position ASC").
		Find(&items).Error; err != nil {
		t.Fatalf("failed to fetch queue: %v", err)
	}
	positions := make([]int, len(items))
	for i, item := range items {
		positions[i] = item.QueuePosition
	}
	return positions
}
