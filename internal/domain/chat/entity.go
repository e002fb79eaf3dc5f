package chat

import (
	"time"

	"worktide/internal/domain/user"
)

// SystemSenderID marks messages generated by the platform.
const SystemSenderID int64 = 0

// Attachment describes a file already stored by the upload endpoint.
type Attachment struct {
	URL  string `json:"url"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// Message is immutable once stored. IDs are UUIDv7, so ordering by id is
// ordering by creation.
type Message struct {
	ID          string       `json:"id" gorm:"primaryKey;size:36"`
	SenderID    int64        `json:"sender_id" gorm:"not null;index:idx_messages_sender_receiver,priority:1"`
	ReceiverID  int64        `json:"receiver_id" gorm:"not null;index:idx_messages_sender_receiver,priority:2;index"`
	Content     string       `json:"content" gorm:"type:text"`
	Attachments []Attachment `json:"attachments" gorm:"serializer:json"`
	IsSystem    bool         `json:"is_system" gorm:"not null;default:false"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// Counterpart returns the other side of the message as seen by userID.
func (m *Message) Counterpart(userID int64) int64 {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// Conversation is one entry of the inbox: the partner and the newest message.
type Conversation struct {
	PartnerID   int64        `json:"partner_id"`
	Partner     *user.Public `json:"partner,omitempty"`
	LastMessage *Message     `json:"last_message"`
}
