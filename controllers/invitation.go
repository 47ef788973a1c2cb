package controllers

import (
	"net/http"
	"time"

	"manuscript-review-api/services"
	"manuscript-review-api/utils"

	"github.com/gin-gonic/gin"
)

// GetManuscriptInvitations returns the manuscript's invitations newest first
func GetManuscriptInvitations(c *gin.Context) {
	invitations, err := services.NewInvitationService(nil).GetManuscriptInvitations(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invitations": invitations})
}

// SendInvitation invites a reviewer directly, bypassing the queue
func SendInvitation(c *gin.Context) {
	type SendRequest struct {
		ReviewerID string `json:"reviewer_id" binding:"required"`
	}

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invitation, err := services.NewInvitationService(nil).SendInvitation(c.Param("id"), req.ReviewerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invitation": invitation})
}

// UpdateInvitationStatus records the reviewer's response or a workflow move
func UpdateInvitationStatus(c *gin.Context) {
	type StatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.NewInvitationService(nil).UpdateInvitationStatus(c.Param("invitation_id"), req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation status updated"})
}

// RevokeInvitation withdraws a pending invitation
func RevokeInvitation(c *gin.Context) {
	type RevokeRequest struct {
		AddBackToQueue bool `json:"add_back_to_queue"`
	}

	var req RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.NewInvitationService(nil).RevokeInvitation(c.Param("invitation_id"), req.AddBackToQueue); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation revoked"})
}

// SubmitReport marks the review report as submitted
func SubmitReport(c *gin.Context) {
	if err := services.NewInvitationService(nil).SubmitReport(c.Param("invitation_id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report submitted"})
}

// InvalidateReport marks a submitted report invalid
func InvalidateReport(c *gin.Context) {
	type InvalidateRequest struct {
		Reason string `json:"reason"`
	}

	var req InvalidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reason := utils.SanitizeInput(req.Reason)
	if err := services.NewInvitationService(nil).InvalidateReport(c.Param("invitation_id"), reason); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report invalidated"})
}

// UninvalidateReport reinstates an invalidated report
func UninvalidateReport(c *gin.Context) {
	if err := services.NewInvitationService(nil).UninvalidateReport(c.Param("invitation_id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report reinstated"})
}

// RemoveInvitation hard-deletes an invitation
func RemoveInvitation(c *gin.Context) {
	if err := services.NewInvitationService(nil).RemoveInvitation(c.Param("invitation_id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation removed"})
}

// SetInvitationExpiration sets or refreshes the expiration date
func SetInvitationExpiration(c *gin.Context) {
	type ExpirationRequest struct {
		ExpirationDate *time.Time `json:"expiration_date"`
	}

	var req ExpirationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var expiration time.Time
	if req.ExpirationDate != nil {
		expiration = *req.ExpirationDate
	}

	if err := services.NewInvitationService(nil).SetInvitationExpiration(c.Param("invitation_id"), expiration); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation expiration updated"})
}
