package task

import (
	"worktide/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers task, application and invitation routes
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	owner := middleware.TaskOwnership(h.service)
	clientOnly := middleware.RequireRole("client")
	freelancerOnly := middleware.RequireRole("freelancer")

	tasks := protected.Group("/tasks")
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", clientOnly, h.CreateTask)
		tasks.GET("/:id", h.GetTask)
		tasks.PUT("/:id", owner, h.UpdateTask)
		tasks.DELETE("/:id", owner, h.DeleteTask)
		tasks.POST("/:id/complete", owner, h.CompleteTask)

		tasks.POST("/:id/applications", freelancerOnly, h.Apply)
		tasks.GET("/:id/applications", owner, h.ListApplications)
		tasks.POST("/:id/applications/:appId/accept", owner, h.AcceptApplication)
		tasks.POST("/:id/applications/:appId/reject", owner, h.RejectApplication)

		tasks.POST("/:id/requests", owner, h.Invite)
		tasks.GET("/:id/requests", owner, h.ListTaskRequests)

		tasks.GET("/:id/recommendations", owner, h.GetRecommendations)
	}

	me := protected.Group("/me", freelancerOnly)
	{
		me.GET("/applications", h.ListMyApplications)
		me.GET("/task-requests", h.ListMyRequests)
	}

	protected.POST("/task-requests/:requestId/respond", freelancerOnly, h.RespondToRequest)
}
