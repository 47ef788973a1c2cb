package controllers

import (
	"net/http"

	"manuscript-review-api/models"
	"manuscript-review-api/services"

	"github.com/gin-gonic/gin"
)

// GetManuscriptQueue returns the manuscript's invitation queue in order
func GetManuscriptQueue(c *gin.Context) {
	queue, err := services.NewQueueService(nil).GetManuscriptQueue(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": queue})
}

// AddToQueue appends a reviewer to the manuscript's queue
func AddToQueue(c *gin.Context) {
	type AddToQueueRequest struct {
		ReviewerID string `json:"reviewer_id" binding:"required"`
		Priority   string `json:"priority"`
	}

	var req AddToQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Priority == "" {
		req.Priority = models.PriorityNormal
	}

	item, err := services.NewQueueService(nil).AddToQueue(c.Param("id"), req.ReviewerID, req.Priority)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"queue_item": item})
}

// RemoveFromQueue removes a queue entry and closes the position gap
func RemoveFromQueue(c *gin.Context) {
	if err := services.NewQueueService(nil).RemoveFromQueue(c.Param("queue_id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reviewer removed from queue"})
}

// MoveInQueue moves a queue entry one position up or down
func MoveInQueue(c *gin.Context) {
	type MoveRequest struct {
		Direction string `json:"direction" binding:"required,oneof=up down"`
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.NewQueueService(nil).MoveInQueue(c.Param("queue_id"), req.Direction); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Queue updated"})
}

// UpdateQueuePositions applies a bulk reorder
func UpdateQueuePositions(c *gin.Context) {
	type ReorderRequest struct {
		Updates []models.QueuePositionUpdate `json:"updates" binding:"required"`
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.NewQueueService(nil).UpdateQueuePositions(req.Updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Queue positions updated"})
}

// GetQueueControlState reports the automated-send state of the queue
func GetQueueControlState(c *gin.Context) {
	state, err := services.NewQueueService(nil).GetQueueControlState(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

// ToggleQueueActive starts or stops automated queue sending
func ToggleQueueActive(c *gin.Context) {
	type ToggleRequest struct {
		Active bool `json:"active"`
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.NewQueueService(nil).ToggleQueueActive(c.Param("id"), req.Active); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Queue state updated"})
}
