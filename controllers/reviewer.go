package controllers

import (
	"net/http"

	"manuscript-review-api/models"
	"manuscript-review-api/services"
	"manuscript-review-api/utils"

	"github.com/gin-gonic/gin"
)

// GetReviewers returns the reviewer pool
func GetReviewers(c *gin.Context) {
	reviewers, err := services.NewReviewerService(nil).GetAllReviewers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviewers": reviewers})
}

// GetReviewer returns a single reviewer
func GetReviewer(c *gin.Context) {
	reviewer, err := services.NewReviewerService(nil).GetReviewerByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviewer": reviewer})
}

// AddReviewer adds a reviewer to the pool
func AddReviewer(c *gin.Context) {
	var reviewer models.PotentialReviewer
	if err := c.ShouldBindJSON(&reviewer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reviewer.Name = utils.SanitizeInput(reviewer.Name)
	reviewer.Affiliation = utils.SanitizeInput(reviewer.Affiliation)

	if err := services.NewReviewerService(nil).AddReviewer(&reviewer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reviewer": reviewer})
}

// UpdateReviewer applies field updates to a reviewer
func UpdateReviewer(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Only whitelisted columns may be patched
	allowed := map[string]bool{
		"name": true, "given_names": true, "surname": true, "email": true,
		"affiliation": true, "department": true, "orcid_id": true,
		"profile_url": true, "expertise_areas": true, "availability_status": true,
		"max_review_capacity": true,
	}
	for key := range updates {
		if !allowed[key] {
			delete(updates, key)
		}
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No updatable fields provided"})
		return
	}

	if err := services.NewReviewerService(nil).UpdateReviewer(c.Param("id"), updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reviewer updated successfully"})
}

// DeleteReviewer removes a reviewer from the pool
func DeleteReviewer(c *gin.Context) {
	if err := services.NewReviewerService(nil).DeleteReviewer(c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reviewer deleted successfully"})
}

// GetManuscriptReviewers returns the matched reviewers for a manuscript
// with their display metrics
func GetManuscriptReviewers(c *gin.Context) {
	reviewers, err := services.NewReviewerService(nil).GetManuscriptReviewers(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviewers": reviewers})
}

// GetReviewersWithStatus returns matched reviewers annotated with their
// workflow state for the manuscript
func GetReviewersWithStatus(c *gin.Context) {
	reviewers, err := services.NewReviewerService(nil).GetReviewersWithStatus(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviewers": reviewers})
}

// IngestReviewers loads reviewer-finder output into the pool
func IngestReviewers(c *gin.Context) {
	var payload services.IngestionData
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats, err := services.NewReviewerIngestService(nil).Run(&payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
