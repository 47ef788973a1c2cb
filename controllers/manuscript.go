package controllers

import (
	"net/http"

	"manuscript-review-api/models"
	"manuscript-review-api/services"
	"manuscript-review-api/utils"

	"github.com/gin-gonic/gin"
)

// GetManuscripts returns all manuscripts with their active editors
func GetManuscripts(c *gin.Context) {
	manuscripts, err := services.NewManuscriptService(nil).GetAllManuscripts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"manuscripts": manuscripts})
}

// GetManuscript returns a single manuscript
func GetManuscript(c *gin.Context) {
	manuscript, err := services.NewManuscriptService(nil).GetManuscriptByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"manuscript": manuscript})
}

// CreateManuscript creates a manuscript and assigns its editors
func CreateManuscript(c *gin.Context) {
	var manuscript models.Manuscript
	if err := c.ShouldBindJSON(&manuscript); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	manuscript.Title = utils.SanitizeInput(manuscript.Title)
	manuscript.Abstract = utils.StripHTML(manuscript.Abstract)

	if err := services.NewManuscriptService(nil).CreateManuscript(&manuscript); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"manuscript": manuscript})
}

// UpdateManuscript applies field updates and optionally reconciles editors
func UpdateManuscript(c *gin.Context) {
	type UpdateManuscriptRequest struct {
		Title             *string  `json:"title"`
		Abstract          *string  `json:"abstract"`
		Journal           *string  `json:"journal"`
		SubjectArea       *string  `json:"subject_area"`
		Status            *string  `json:"status"`
		Version           *int     `json:"version"`
		AssignedEditorIDs []string `json:"assigned_editor_ids"`
	}

	var req UpdateManuscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = utils.SanitizeInput(*req.Title)
	}
	if req.Abstract != nil {
		updates["abstract"] = utils.StripHTML(*req.Abstract)
	}
	if req.Journal != nil {
		updates["journal"] = *req.Journal
	}
	if req.SubjectArea != nil {
		updates["subject_area"] = *req.SubjectArea
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Version != nil {
		updates["version"] = *req.Version
	}

	if err := services.NewManuscriptService(nil).UpdateManuscript(c.Param("id"), updates, req.AssignedEditorIDs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Manuscript updated successfully"})
}

// DeleteManuscript removes a manuscript
func DeleteManuscript(c *gin.Context) {
	if err := services.NewManuscriptService(nil).DeleteManuscript(c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Manuscript deleted successfully"})
}

// GetManuscriptStats returns the invitation dashboard counters
func GetManuscriptStats(c *gin.Context) {
	stats, err := services.NewManuscriptService(nil).GetManuscriptInvitationStats(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// ClearManuscriptReviewers wipes the manuscript's reviewer workflow state
func ClearManuscriptReviewers(c *gin.Context) {
	result, err := services.NewManuscriptService(nil).ClearManuscriptReviewers(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Manuscript reviewers cleared",
		"removed": result,
	})
}
