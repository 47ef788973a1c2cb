package services

import (
	"manuscript-review-api/models"

	"gorm.io/gorm"
)

/* ==========================
   Lightweight models (query-only)
   ========================== */

type reviewerRef struct {
	ID          string `gorm:"column:id"`
	Name        string `gorm:"column:name"`
	Affiliation string `gorm:"column:affiliation"`
	Email       string `gorm:"column:email"`
}

func (reviewerRef) TableName() string { return "potential_reviewers" }

type userRef struct {
	ID       string `gorm:"column:id"`
	Email    string `gorm:"column:email"`
	FullName string `gorm:"column:full_name"`
	Role     string `gorm:"column:role"`
}

func (userRef) TableName() string { return "user_profiles" }

type manuscriptRef struct {
	ID       string  `gorm:"column:id"`
	Title    string  `gorm:"column:title"`
	CustomID *string `gorm:"column:custom_id"`
	Journal  string  `gorm:"column:journal"`
	Status   string  `gorm:"column:status"`
}

func (manuscriptRef) TableName() string { return "manuscripts" }

/* ==========================
   Read-side composition helpers
   ========================== */

// reviewerRefsByID fetches display fields for a set of reviewers in one
// batched query. Used to stitch names onto queue and invitation rows
// instead of relying on a store-side join.
func reviewerRefsByID(db *gorm.DB, ids []string) (map[string]reviewerRef, error) {
	refs := make(map[string]reviewerRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	var rows []reviewerRef
	if err := db.Where("id IN ?", uniqueStrings(ids)).Find(&rows).Error; err != nil {
		return nil, translateStoreError("fetch reviewer details", err)
	}
	for _, row := range rows {
		refs[row.ID] = row
	}
	return refs, nil
}

// editorsForManuscripts fetches active editor assignments for a set of
// manuscripts, keyed by manuscript id.
func editorsForManuscripts(db *gorm.DB, manuscriptIDs []string) (map[string][]models.UserProfile, error) {
	editorMap := make(map[string][]models.UserProfile)
	if len(manuscriptIDs) == 0 {
		return editorMap, nil
	}

	var assignments []models.UserManuscript
	if err := db.
		Where("manuscript_id IN ? AND role = ? AND is_active = ?",
			uniqueStrings(manuscriptIDs), models.AssignmentRoleEditor, true).
		Find(&assignments).Error; err != nil {
		return nil, translateStoreError("fetch manuscript editors", err)
	}

	if len(assignments) == 0 {
		return editorMap, nil
	}

	userIDs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		userIDs = append(userIDs, a.UserID)
	}

	var users []models.UserProfile
	if err := db.Where("id IN ?", uniqueStrings(userIDs)).Find(&users).Error; err != nil {
		return nil, translateStoreError("fetch editor profiles", err)
	}
	usersByID := make(map[string]models.UserProfile, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	for _, a := range assignments {
		if u, ok := usersByID[a.UserID]; ok {
			editorMap[a.ManuscriptID] = append(editorMap[a.ManuscriptID], u)
		}
	}
	return editorMap, nil
}

// enrichManuscriptsWithEditors attaches assigned editors to manuscripts.
func enrichManuscriptsWithEditors(db *gorm.DB, manuscripts []models.Manuscript) ([]models.Manuscript, error) {
	ids := make([]string, len(manuscripts))
	for i, m := range manuscripts {
		ids[i] = m.ID
	}

	editorMap, err := editorsForManuscripts(db, ids)
	if err != nil {
		return nil, err
	}

	for i := range manuscripts {
		editors := editorMap[manuscripts[i].ID]
		manuscripts[i].AssignedEditors = editors
		editorIDs := make([]string, len(editors))
		for j, e := range editors {
			editorIDs[j] = e.ID
		}
		manuscripts[i].AssignedEditorIDs = editorIDs
	}
	return manuscripts, nil
}

// isUserAdmin checks the user's profile role.
func isUserAdmin(db *gorm.DB, userID string) bool {
	var user userRef
	if err := db.Select("id", "role").Where("id = ?", userID).First(&user).Error; err != nil {
		return false
	}
	return user.Role == models.RoleAdmin
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
