package notification

import "time"

type Type string

const (
	TypeApplicationReceived Type = "application_received"
	TypeRequestReceived     Type = "request_received"
	TypeApplicationAccepted Type = "application_accepted"
	TypeApplicationRejected Type = "application_rejected"
	TypeRequestAccepted     Type = "request_accepted"
	TypeRequestDeclined     Type = "request_declined"
	TypeTaskCompleted       Type = "task_completed"
	TypeRatingReceived      Type = "rating_received"
	TypeSystem              Type = "system"
)

// Notification is a persisted in-app notification. RelatedID points at the
// task, application or request the event is about; 0 when none.
type Notification struct {
	ID        int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64      `json:"user_id" gorm:"not null;index:idx_notifications_user_read,priority:1"`
	Type      Type       `json:"type" gorm:"size:40;not null"`
	Title     string     `json:"title" gorm:"size:255;not null"`
	Message   string     `json:"message" gorm:"type:text"`
	RelatedID int64      `json:"related_id,omitempty"`
	IsRead    bool       `json:"is_read" gorm:"not null;default:false;index:idx_notifications_user_read,priority:2"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" gorm:"index"`
}

func (Notification) TableName() string {
	return "notifications"
}
