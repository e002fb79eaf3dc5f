package chat

import "github.com/gin-gonic/gin"

// RegisterRoutes registers all chat routes under the protected group
func RegisterRoutes(r *gin.RouterGroup, h *Handler, ws *WSHandler) {
	chat := r.Group("/chat")
	{
		chat.GET("/ws", ws.HandleWebSocket)

		chat.POST("/messages", h.SendMessage)
		chat.GET("/messages/:userId", h.GetHistory)
		chat.GET("/conversations", h.GetConversations)
		chat.GET("/online", h.GetOnline)
	}
}
