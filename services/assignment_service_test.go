package services

import (
	"testing"

	"manuscript-review-api/models"
)

func TestMergeImplicitAccess(t *testing.T) {
	m1 := models.Manuscript{ID: "m1", Title: "Explicit"}
	m2 := models.Manuscript{ID: "m2", Title: "Implicit"}

	explicit := []models.ManuscriptWithRole{
		{Manuscript: m1, UserRole: models.AssignmentRoleEditor, IsActive: true},
	}

	merged := MergeImplicitAccess(explicit, []models.Manuscript{m1, m2})

	if len(merged) != 2 {
		t.Fatalf("expected 2 manuscripts, got %d", len(merged))
	}

	byID := map[string]models.ManuscriptWithRole{}
	for _, m := range merged {
		byID[m.Manuscript.ID] = m
	}

	// The explicit assignment keeps its recorded role.
	if byID["m1"].UserRole != models.AssignmentRoleEditor {
		t.Errorf("expected explicit editor role preserved, got %q", byID["m1"].UserRole)
	}
	// The rest is overlaid as implicit admin access.
	if byID["m2"].UserRole != models.RoleAdmin {
		t.Errorf("expected implicit admin role, got %q", byID["m2"].UserRole)
	}
}

func TestGetUserManuscripts_AdminSeesEverything(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)

	admin := seedUser(t, db, "The Admin", "admin@journal.org", models.RoleAdmin)
	m1 := seedManuscript(t, db, "Assigned To Admin")
	seedManuscript(t, db, "Unassigned")

	if _, err := svc.AddUserToManuscript(admin.ID, m1.ID, models.AssignmentRoleEditor); err != nil {
		t.Fatalf("AddUserToManuscript failed: %v", err)
	}

	manuscripts, err := svc.GetUserManuscripts(admin.ID)
	if err != nil {
		t.Fatalf("GetUserManuscripts failed: %v", err)
	}
	if len(manuscripts) != 2 {
		t.Fatalf("expected admin to see both manuscripts, got %d", len(manuscripts))
	}
}

func TestGetUserManuscripts_EditorSeesOnlyAssigned(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)

	editor := seedUser(t, db, "The Editor", "editor@journal.org", models.RoleEditor)
	m1 := seedManuscript(t, db, "Editor's Manuscript")
	seedManuscript(t, db, "Someone Else's")

	if _, err := svc.AddUserToManuscript(editor.ID, m1.ID, models.AssignmentRoleEditor); err != nil {
		t.Fatalf("AddUserToManuscript failed: %v", err)
	}

	manuscripts, err := svc.GetUserManuscripts(editor.ID)
	if err != nil {
		t.Fatalf("GetUserManuscripts failed: %v", err)
	}
	if len(manuscripts) != 1 {
		t.Fatalf("expected 1 manuscript, got %d", len(manuscripts))
	}
	if manuscripts[0].Manuscript.ID != m1.ID {
		t.Errorf("expected the assigned manuscript, got %s", manuscripts[0].Manuscript.ID)
	}
	if manuscripts[0].UserRole != models.AssignmentRoleEditor {
		t.Errorf("expected editor role, got %q", manuscripts[0].UserRole)
	}
}

func TestAddUserToManuscript_ReactivatesSoftDeleted(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)

	u := seedUser(t, db, "Returning", "returning@journal.org", models.RoleEditor)
	m := seedManuscript(t, db, "Reactivation Target")

	first, err := svc.AddUserToManuscript(u.ID, m.ID, models.AssignmentRoleEditor)
	if err != nil {
		t.Fatalf("AddUserToManuscript failed: %v", err)
	}

	// Duplicate active assignment is rejected.
	if _, err := svc.AddUserToManuscript(u.ID, m.ID, models.AssignmentRoleEditor); err == nil {
		t.Fatal("expected duplicate active assignment to fail")
	}

	if err := svc.RemoveUserFromManuscript(u.ID, m.ID); err != nil {
		t.Fatalf("RemoveUserFromManuscript failed: %v", err)
	}

	second, err := svc.AddUserToManuscript(u.ID, m.ID, models.AssignmentRoleEditor)
	if err != nil {
		t.Fatalf("re-adding after removal failed: %v", err)
	}
	if second.ID != first.ID {
		t.Error("expected the soft-deleted row to be reactivated, not a new insert")
	}

	var count int64
	db.Model(&models.UserManuscript{}).
		Where("user_id = ? AND manuscript_id = ?", u.ID, m.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("expected a single assignment row, got %d", count)
	}
}

func TestUpdateUserManuscriptRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)

	u := seedUser(t, db, "Promoted", "promoted@journal.org", models.RoleEditor)
	m := seedManuscript(t, db, "Role Change Target")

	if _, err := svc.AddUserToManuscript(u.ID, m.ID, models.AssignmentRoleCollaborator); err != nil {
		t.Fatalf("AddUserToManuscript failed: %v", err)
	}
	if err := svc.UpdateUserManuscriptRole(u.ID, m.ID, models.AssignmentRoleEditor); err != nil {
		t.Fatalf("UpdateUserManuscriptRole failed: %v", err)
	}

	var stored models.UserManuscript
	db.Where("user_id = ? AND manuscript_id = ?", u.ID, m.ID).First(&stored)
	if stored.Role != models.AssignmentRoleEditor {
		t.Errorf("expected editor role, got %q", stored.Role)
	}

	// No active assignment means the update fails.
	other := seedManuscript(t, db, "No Assignment Here")
	if err := svc.UpdateUserManuscriptRole(u.ID, other.ID, models.AssignmentRoleEditor); err == nil {
		t.Fatal("expected update without an assignment to fail")
	}
}

func TestGetAllUserManuscriptAssignments_StitchesDetails(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)

	u := seedUser(t, db, "Detailed User", "detailed@journal.org", models.RoleEditor)
	m := seedManuscript(t, db, "Detailed Manuscript")

	if _, err := svc.AddUserToManuscript(u.ID, m.ID, models.AssignmentRoleEditor); err != nil {
		t.Fatalf("AddUserToManuscript failed: %v", err)
	}

	assignments, err := svc.GetAllUserManuscriptAssignments()
	if err != nil {
		t.Fatalf("GetAllUserManuscriptAssignments failed: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(assignments))
	}
	if assignments[0].UserFullName != "Detailed User" {
		t.Errorf("expected user name stitched, got %q", assignments[0].UserFullName)
	}
	if assignments[0].ManuscriptTitle != "Detailed Manuscript" {
		t.Errorf("expected manuscript title stitched, got %q", assignments[0].ManuscriptTitle)
	}
}
