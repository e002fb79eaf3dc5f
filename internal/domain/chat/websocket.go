package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"worktide/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSHandler upgrades authenticated requests and relays socket frames.
type WSHandler struct {
	hub      *realtime.Hub
	service  *Service
	upgrader websocket.Upgrader
}

// NewWSHandler builds the socket handler. An empty allowedOrigins accepts
// any origin.
func NewWSHandler(hub *realtime.Hub, service *Service, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return &WSHandler{
		hub:     hub,
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(allowed) == 0 || origin == "" {
					return true
				}
				return allowed[strings.TrimRight(origin, "/")]
			},
		},
	}
}

// HandleWebSocket godoc
// @Summary Open the live chat socket
// @Description Authenticate with ?token=JWT. Frames: send_message, typing, ping.
// @Tags Chat
// @Param token query string true "JWT"
// @Router /chat/ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required. Use ?token=YOUR_JWT_TOKEN"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws_upgrade_failed user_id=%d error=%q", userID, err)
		return
	}

	h.hub.Serve(realtime.NewClient(userID, conn), h.handleFrame)
}

func (h *WSHandler) handleFrame(client *realtime.Client, raw []byte) {
	var frame clientFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		sendError(client, "INVALID_FRAME", "Malformed message")
		return
	}

	switch frame.Type {
	case "send_message":
		_, err := h.service.Send(context.Background(), client.UserID(), SendMessageRequest{
			ReceiverID:  frame.ReceiverID,
			Content:     frame.Content,
			Attachments: frame.Attachments,
		})
		if err != nil {
			code, msg := errorCode(err)
			sendError(client, code, msg)
		}
	case "typing":
		if frame.ReceiverID <= 0 || frame.ReceiverID == client.UserID() {
			return
		}
		h.hub.Push(frame.ReceiverID, realtime.Event{
			Type:    realtime.EventTyping,
			Payload: typingPayload{SenderID: client.UserID()},
		})
	case "ping":
		client.Send(realtime.Event{Type: realtime.EventPong})
	default:
		sendError(client, "UNKNOWN_TYPE", "Unknown message type")
	}
}

func sendError(client *realtime.Client, code, message string) {
	client.Send(realtime.Event{
		Type:    realtime.EventError,
		Payload: errorPayload{Code: code, Message: message},
	})
}

// errorCode maps relay errors to the codes shared by HTTP and socket clients.
func errorCode(err error) (string, string) {
	switch {
	case errors.Is(err, ErrReceiverNotFound):
		return "NOT_FOUND", "Receiver not found"
	case errors.Is(err, ErrBlocked):
		return "BLOCKED", err.Error()
	case errors.Is(err, ErrInvalidReceiver),
		errors.Is(err, ErrSelfMessage),
		errors.Is(err, ErrEmptyMessage),
		errors.Is(err, ErrContentTooLong),
		errors.Is(err, ErrTooManyAttachments),
		errors.Is(err, ErrInvalidAttachment):
		return "VALIDATION_ERROR", err.Error()
	default:
		log.Printf("chat_send_error error=%q", err)
		return "SEND_FAILED", "Failed to send message"
	}
}
