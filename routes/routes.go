package routes

import (
	"manuscript-review-api/controllers"
	"manuscript-review-api/middleware"
	"manuscript-review-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Manuscript Review API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// The caller's manuscripts (admins see everything)
			protected.GET("/my-manuscripts", controllers.GetMyManuscripts)

			// Manuscripts
			manuscripts := protected.Group("/manuscripts")
			{
				manuscripts.GET("", controllers.GetManuscripts)
				manuscripts.GET("/:id", controllers.GetManuscript)
				manuscripts.POST("", middleware.RequireRole(models.RoleEditor), controllers.CreateManuscript)
				manuscripts.PUT("/:id", middleware.RequireRole(models.RoleEditor), controllers.UpdateManuscript)
				manuscripts.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteManuscript)

				// Invitation dashboard
				manuscripts.GET("/:id/stats", controllers.GetManuscriptStats)
				manuscripts.DELETE("/:id/reviewers", middleware.RequireRole(models.RoleAdmin), controllers.ClearManuscriptReviewers)

				// Matched reviewers
				manuscripts.GET("/:id/reviewers", controllers.GetManuscriptReviewers)
				manuscripts.GET("/:id/reviewers/status", controllers.GetReviewersWithStatus)

				// Match scores
				manuscripts.GET("/:id/matches", controllers.GetManuscriptMatches)
				manuscripts.POST("/:id/matches", middleware.RequireRole(models.RoleEditor), controllers.AddMatch)
				manuscripts.PUT("/:id/matches", middleware.RequireRole(models.RoleEditor), controllers.UpdateMatch)
				manuscripts.DELETE("/:id/matches/:reviewer_id", middleware.RequireRole(models.RoleEditor), controllers.RemoveMatch)
				manuscripts.POST("/:id/matches/bulk", middleware.RequireRole(models.RoleEditor), controllers.BulkAddMatches)

				// Invitation queue
				manuscripts.GET("/:id/queue", controllers.GetManuscriptQueue)
				manuscripts.POST("/:id/queue", middleware.RequireRole(models.RoleEditor), controllers.AddToQueue)
				manuscripts.GET("/:id/queue/state", controllers.GetQueueControlState)
				manuscripts.POST("/:id/queue/toggle", middleware.RequireRole(models.RoleEditor), controllers.ToggleQueueActive)

				// Invitations
				manuscripts.GET("/:id/invitations", controllers.GetManuscriptInvitations)
				manuscripts.POST("/:id/invitations", middleware.RequireRole(models.RoleEditor), controllers.SendInvitation)
			}

			// Every stored match across manuscripts
			protected.GET("/matches", middleware.RequireRole(models.RoleEditor), controllers.GetAllMatches)

			// Queue entries addressed directly
			queue := protected.Group("/queue")
			queue.Use(middleware.RequireRole(models.RoleEditor))
			{
				queue.DELETE("/:queue_id", controllers.RemoveFromQueue)
				queue.POST("/:queue_id/move", controllers.MoveInQueue)
				queue.PUT("/positions", controllers.UpdateQueuePositions)
			}

			// Invitations addressed directly
			invitations := protected.Group("/invitations")
			invitations.Use(middleware.RequireRole(models.RoleEditor))
			{
				invitations.PUT("/:invitation_id/status", controllers.UpdateInvitationStatus)
				invitations.POST("/:invitation_id/revoke", controllers.RevokeInvitation)
				invitations.POST("/:invitation_id/report", controllers.SubmitReport)
				invitations.POST("/:invitation_id/report/invalidate", controllers.InvalidateReport)
				invitations.POST("/:invitation_id/report/uninvalidate", controllers.UninvalidateReport)
				invitations.PUT("/:invitation_id/expiration", controllers.SetInvitationExpiration)
				invitations.DELETE("/:invitation_id", controllers.RemoveInvitation)
			}

			// Reviewer pool
			reviewers := protected.Group("/reviewers")
			{
				reviewers.GET("", controllers.GetReviewers)
				reviewers.GET("/:id", controllers.GetReviewer)
				reviewers.POST("", middleware.RequireRole(models.RoleEditor), controllers.AddReviewer)
				reviewers.PUT("/:id", middleware.RequireRole(models.RoleEditor), controllers.UpdateReviewer)
				reviewers.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteReviewer)
				reviewers.POST("/ingest", middleware.RequireRole(models.RoleAdmin), controllers.IngestReviewers)
			}

			// Assignments (admin only)
			assignments := protected.Group("/assignments")
			assignments.Use(middleware.RequireRole(models.RoleAdmin))
			{
				assignments.GET("", controllers.GetAssignments)
				assignments.GET("/users", controllers.GetUsers)
				assignments.POST("", controllers.AddAssignment)
				assignments.PUT("/role", controllers.UpdateAssignmentRole)
				assignments.DELETE("", controllers.RemoveAssignment)
			}
		}
	}
}
