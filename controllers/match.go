package controllers

import (
	"net/http"

	"manuscript-review-api/services"

	"github.com/gin-gonic/gin"
)

// GetManuscriptMatches returns the manuscript's match scores, best first
func GetManuscriptMatches(c *gin.Context) {
	matches, err := services.NewMatchService(nil).GetMatchesForManuscript(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// GetAllMatches returns every stored match
func GetAllMatches(c *gin.Context) {
	matches, err := services.NewMatchService(nil).GetAllReviewerMatches()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// AddMatch records a match score for a reviewer/manuscript pair
func AddMatch(c *gin.Context) {
	type MatchRequest struct {
		ReviewerID          string  `json:"reviewer_id" binding:"required"`
		MatchScore          float64 `json:"match_score"`
		IsInitialSuggestion *bool   `json:"is_initial_suggestion"`
		ConflictsOfInterest *string `json:"conflicts_of_interest"`
	}

	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	match, err := services.NewMatchService(nil).AddReviewerMatch(
		c.Param("id"), req.ReviewerID, req.MatchScore, req.IsInitialSuggestion, req.ConflictsOfInterest)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"match": match})
}

// UpdateMatch replaces the score of an existing match
func UpdateMatch(c *gin.Context) {
	type MatchRequest struct {
		ReviewerID          string  `json:"reviewer_id" binding:"required"`
		MatchScore          float64 `json:"match_score"`
		IsInitialSuggestion *bool   `json:"is_initial_suggestion"`
		ConflictsOfInterest *string `json:"conflicts_of_interest"`
	}

	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.NewMatchService(nil).UpdateReviewerMatch(
		c.Param("id"), req.ReviewerID, req.MatchScore, req.IsInitialSuggestion, req.ConflictsOfInterest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Match updated"})
}

// RemoveMatch deletes the match for a reviewer/manuscript pair
func RemoveMatch(c *gin.Context) {
	if err := services.NewMatchService(nil).RemoveReviewerMatch(c.Param("id"), c.Param("reviewer_id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Match removed"})
}

// BulkAddMatches records initial suggestions for a ranked reviewer list
func BulkAddMatches(c *gin.Context) {
	type BulkRequest struct {
		ReviewerIDs []string `json:"reviewer_ids" binding:"required"`
		BaseScore   float64  `json:"base_score"`
	}

	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.BaseScore == 0 {
		req.BaseScore = 95
	}

	created, err := services.NewMatchService(nil).BulkAddReviewerMatches(c.Param("id"), req.ReviewerIDs, req.BaseScore)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": created})
}
