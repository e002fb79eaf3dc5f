package rating

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/tasks/:id/ratings", h.RateTask)
	protected.GET("/users/:id/ratings", h.ListUserRatings)
}
