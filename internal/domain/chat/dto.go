package chat

type SendMessageRequest struct {
	ReceiverID  int64        `json:"receiver_id" validate:"required,gt=0"`
	Content     string       `json:"content" validate:"max=5000"`
	Attachments []Attachment `json:"attachments" validate:"max=10,dive"`
}

type OnlineResponse struct {
	Online []int64 `json:"online"`
}

// clientFrame is what browsers send over the socket.
type clientFrame struct {
	Type        string       `json:"type"`
	ReceiverID  int64        `json:"receiver_id"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments"`
}

type typingPayload struct {
	SenderID int64 `json:"sender_id"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
