package services

import (
	"errors"
	"time"

	"manuscript-review-api/config"
	"manuscript-review-api/models"

	"gorm.io/gorm"
)

type AssignmentService struct {
	db *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	if db == nil {
		db = config.DB
	}
	return &AssignmentService{db: db}
}

// GetUserManuscripts returns the manuscripts a user works on, with the
// user's role on each. Admins see every manuscript: explicit assignments
// keep their recorded role, the rest are overlaid as implicit admin access.
func (s *AssignmentService) GetUserManuscripts(userID string) ([]models.ManuscriptWithRole, error) {
	var assignments []models.UserManuscript
	if err := s.db.
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&assignments).Error; err != nil {
		return nil, translateStoreError("fetch user assignments", err)
	}

	explicit := make([]models.ManuscriptWithRole, 0, len(assignments))
	if len(assignments) > 0 {
		ids := make([]string, len(assignments))
		byManuscript := make(map[string]models.UserManuscript, len(assignments))
		for i, a := range assignments {
			ids[i] = a.ManuscriptID
			byManuscript[a.ManuscriptID] = a
		}

		var manuscripts []models.Manuscript
		if err := s.db.Where("id IN ?", ids).Find(&manuscripts).Error; err != nil {
			return nil, translateStoreError("fetch assigned manuscripts", err)
		}
		for _, m := range manuscripts {
			a := byManuscript[m.ID]
			explicit = append(explicit, models.ManuscriptWithRole{
				Manuscript:   m,
				UserRole:     a.Role,
				AssignedDate: a.AssignedDate,
				IsActive:     a.IsActive,
			})
		}
	}

	if !isUserAdmin(s.db, userID) {
		return explicit, nil
	}

	var all []models.Manuscript
	if err := s.db.Order("submission_date DESC").Find(&all).Error; err != nil {
		return nil, translateStoreError("fetch manuscripts", err)
	}
	return MergeImplicitAccess(explicit, all), nil
}

// MergeImplicitAccess overlays implicit admin access onto a user's explicit
// assignments. Explicitly assigned manuscripts keep their recorded role,
// everything else appears with the admin role.
func MergeImplicitAccess(explicit []models.ManuscriptWithRole, all []models.Manuscript) []models.ManuscriptWithRole {
	assigned := make(map[string]bool, len(explicit))
	for _, e := range explicit {
		assigned[e.Manuscript.ID] = true
	}

	merged := make([]models.ManuscriptWithRole, 0, len(all))
	merged = append(merged, explicit...)
	for _, m := range all {
		if assigned[m.ID] {
			continue
		}
		merged = append(merged, models.ManuscriptWithRole{
			Manuscript: m,
			UserRole:   models.RoleAdmin,
			IsActive:   true,
		})
	}
	return merged
}

// AddUserToManuscript assigns a user to a manuscript in the given role.
// A deactivated assignment for the same triple is reactivated instead of
// duplicated.
func (s *AssignmentService) AddUserToManuscript(userID, manuscriptID, role string) (*models.UserManuscript, error) {
	var existing models.UserManuscript
	err := s.db.
		Where("user_id = ? AND manuscript_id = ? AND role = ?", userID, manuscriptID, role).
		First(&existing).Error
	if err == nil {
		if existing.IsActive {
			return nil, errors.New("user is already assigned to this manuscript in this role")
		}
		if err := s.db.Model(&models.UserManuscript{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"is_active":     true,
				"assigned_date": time.Now(),
				"updated_at":    time.Now(),
			}).Error; err != nil {
			return nil, translateStoreError("reactivate assignment", err)
		}
		existing.IsActive = true
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translateStoreError("check existing assignment", err)
	}

	assignment := models.UserManuscript{
		UserID:       userID,
		ManuscriptID: manuscriptID,
		Role:         role,
		AssignedDate: time.Now(),
		IsActive:     true,
	}
	if err := s.db.Create(&assignment).Error; err != nil {
		return nil, translateStoreError("add user to manuscript", err)
	}
	return &assignment, nil
}

// RemoveUserFromManuscript deactivates the user's assignments on the
// manuscript. The rows stay for the audit trail.
func (s *AssignmentService) RemoveUserFromManuscript(userID, manuscriptID string) error {
	result := s.db.Model(&models.UserManuscript{}).
		Where("user_id = ? AND manuscript_id = ? AND is_active = ?", userID, manuscriptID, true).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return translateStoreError("remove user from manuscript", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("no active assignment found for this user and manuscript")
	}
	return nil
}

// UpdateUserManuscriptRole changes the role on the user's active
// assignment.
func (s *AssignmentService) UpdateUserManuscriptRole(userID, manuscriptID, role string) error {
	result := s.db.Model(&models.UserManuscript{}).
		Where("user_id = ? AND manuscript_id = ? AND is_active = ?", userID, manuscriptID, true).
		Updates(map[string]interface{}{"role": role, "updated_at": time.Now()})
	if result.Error != nil {
		return translateStoreError("update assignment role", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("no active assignment found for this user and manuscript")
	}
	return nil
}

// GetAllUsers returns every user profile, for the assignment picker.
func (s *AssignmentService) GetAllUsers() ([]models.UserProfile, error) {
	var users []models.UserProfile
	if err := s.db.Order("full_name ASC").Find(&users).Error; err != nil {
		return nil, translateStoreError("fetch users", err)
	}
	return users, nil
}

// GetAllUserManuscriptAssignments returns every active assignment with
// user and manuscript display fields stitched on.
func (s *AssignmentService) GetAllUserManuscriptAssignments() ([]models.AssignmentWithDetails, error) {
	var assignments []models.UserManuscript
	if err := s.db.
		Where("is_active = ?", true).
		Order("assigned_date DESC").
		Find(&assignments).Error; err != nil {
		return nil, translateStoreError("fetch assignments", err)
	}
	if len(assignments) == 0 {
		return []models.AssignmentWithDetails{}, nil
	}

	userIDs := make([]string, 0, len(assignments))
	manuscriptIDs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		userIDs = append(userIDs, a.UserID)
		manuscriptIDs = append(manuscriptIDs, a.ManuscriptID)
	}

	var users []userRef
	if err := s.db.Where("id IN ?", uniqueStrings(userIDs)).Find(&users).Error; err != nil {
		return nil, translateStoreError("fetch assignment users", err)
	}
	usersByID := make(map[string]userRef, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	var manuscripts []manuscriptRef
	if err := s.db.Where("id IN ?", uniqueStrings(manuscriptIDs)).Find(&manuscripts).Error; err != nil {
		return nil, translateStoreError("fetch assignment manuscripts", err)
	}
	manuscriptsByID := make(map[string]manuscriptRef, len(manuscripts))
	for _, m := range manuscripts {
		manuscriptsByID[m.ID] = m
	}

	details := make([]models.AssignmentWithDetails, 0, len(assignments))
	for _, a := range assignments {
		d := models.AssignmentWithDetails{UserManuscript: a}
		if u, ok := usersByID[a.UserID]; ok {
			d.UserFullName = u.FullName
			d.UserEmail = u.Email
		}
		if m, ok := manuscriptsByID[a.ManuscriptID]; ok {
			d.ManuscriptTitle = m.Title
			d.ManuscriptCustom = m.CustomID
			d.Journal = m.Journal
			d.ManuscriptStatus = m.Status
		}
		details = append(details, d)
	}
	return details, nil
}
