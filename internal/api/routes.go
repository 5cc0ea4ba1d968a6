package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler, metrics http.Handler) {
	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	router.GET("/metrics", gin.WrapH(metrics))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Standalone pipeline endpoints
		tri := v1.Group("/triage")
		{
			tri.POST("", handler.Triage)            // POST /api/v1/triage
			tri.POST("/batch", handler.TriageBatch) // POST /api/v1/triage/batch
		}
		v1.POST("/duplicates", handler.Duplicates) // POST /api/v1/duplicates
		v1.POST("/route", handler.Route)           // POST /api/v1/route

		// Complaint intake and lifecycle
		complaints := v1.Group("/complaints")
		{
			complaints.POST("", handler.CreateComplaint)                 // POST /api/v1/complaints
			complaints.GET("/:id", handler.GetComplaint)                 // GET /api/v1/complaints/:id
			complaints.PUT("/:id/status", handler.UpdateComplaintStatus) // PUT /api/v1/complaints/:id/status
		}

		// Department metadata
		v1.GET("/departments", handler.ListDepartments) // GET /api/v1/departments
	}
}
