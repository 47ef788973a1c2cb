package controllers

import (
	"net/http"

	"manuscript-review-api/models"
	"manuscript-review-api/services"

	"github.com/gin-gonic/gin"
)

// GetMyManuscripts returns the manuscripts the caller works on
func GetMyManuscripts(c *gin.Context) {
	userID, _ := c.Get("userID")

	manuscripts, err := services.NewAssignmentService(nil).GetUserManuscripts(userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"manuscripts": manuscripts})
}

// GetUsers returns every user profile for the assignment picker
func GetUsers(c *gin.Context) {
	users, err := services.NewAssignmentService(nil).GetAllUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetAssignments returns every active assignment with display fields
func GetAssignments(c *gin.Context) {
	assignments, err := services.NewAssignmentService(nil).GetAllUserManuscriptAssignments()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}

// AddAssignment assigns a user to a manuscript
func AddAssignment(c *gin.Context) {
	type AssignmentRequest struct {
		UserID       string `json:"user_id" binding:"required"`
		ManuscriptID string `json:"manuscript_id" binding:"required"`
		Role         string `json:"role"`
	}

	var req AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Role == "" {
		req.Role = models.AssignmentRoleEditor
	}

	assignment, err := services.NewAssignmentService(nil).AddUserToManuscript(req.UserID, req.ManuscriptID, req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assignment": assignment})
}

// RemoveAssignment deactivates a user's assignment on a manuscript
func RemoveAssignment(c *gin.Context) {
	type RemovalRequest struct {
		UserID       string `json:"user_id" binding:"required"`
		ManuscriptID string `json:"manuscript_id" binding:"required"`
	}

	var req RemovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.NewAssignmentService(nil).RemoveUserFromManuscript(req.UserID, req.ManuscriptID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment removed"})
}

// UpdateAssignmentRole changes the role on an active assignment
func UpdateAssignmentRole(c *gin.Context) {
	type RoleRequest struct {
		UserID       string `json:"user_id" binding:"required"`
		ManuscriptID string `json:"manuscript_id" binding:"required"`
		Role         string `json:"role" binding:"required"`
	}

	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.NewAssignmentService(nil).UpdateUserManuscriptRole(req.UserID, req.ManuscriptID, req.Role); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment role updated"})
}
