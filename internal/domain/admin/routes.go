package admin

import "github.com/gin-gonic/gin"

// RegisterRoutes expects a group already guarded by AdminOnly.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	// statistics
	admin.GET("/stats", h.GetStats)

	// users moderation
	admin.GET("/users", h.GetUsers)
	admin.POST("/users/:id/ban", h.BanUser)
	admin.POST("/users/:id/unban", h.UnbanUser)

	// tasks moderation
	admin.DELETE("/tasks/:id", h.DeleteTask)
}
