package task

import "time"

type Status string

const (
	StatusOpen       Status = "open"
	StatusPending    Status = "pending" // invitations outstanding, nobody assigned yet
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Hiring reports whether the task still accepts applications and invitations.
func (s Status) Hiring() bool {
	return s == StatusOpen || s == StatusPending
}

type Task struct {
	ID           int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	ClientID     int64      `json:"client_id" gorm:"not null;index"`
	FreelancerID *int64     `json:"freelancer_id,omitempty" gorm:"index"`
	Title        string     `json:"title" gorm:"size:200;not null"`
	Description  string     `json:"description" gorm:"type:text"`
	Budget       float64    `json:"budget"`
	Skills       []string   `json:"skills" gorm:"serializer:json"`
	Status       Status     `json:"status" gorm:"size:20;not null;default:open;index"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }

// IsParticipant reports whether userID is the client or the assigned freelancer.
func (t *Task) IsParticipant(userID int64) bool {
	return t.ClientID == userID || (t.FreelancerID != nil && *t.FreelancerID == userID)
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Application is a freelancer's bid on a task.
type Application struct {
	ID             int64             `json:"id" gorm:"primaryKey;autoIncrement"`
	TaskID         int64             `json:"task_id" gorm:"not null;uniqueIndex:idx_applications_task_freelancer,priority:1"`
	FreelancerID   int64             `json:"freelancer_id" gorm:"not null;uniqueIndex:idx_applications_task_freelancer,priority:2;index"`
	CoverLetter    string            `json:"cover_letter" gorm:"type:text"`
	ProposedBudget float64           `json:"proposed_budget"`
	Status         ApplicationStatus `json:"status" gorm:"size:20;not null;default:pending"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (Application) TableName() string { return "applications" }

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestDeclined RequestStatus = "declined"
)

// TaskRequest is a client's invitation to a specific freelancer.
type TaskRequest struct {
	ID           int64         `json:"id" gorm:"primaryKey;autoIncrement"`
	TaskID       int64         `json:"task_id" gorm:"not null;uniqueIndex:idx_task_requests_task_freelancer,priority:1"`
	ClientID     int64         `json:"client_id" gorm:"not null"`
	FreelancerID int64         `json:"freelancer_id" gorm:"not null;uniqueIndex:idx_task_requests_task_freelancer,priority:2;index"`
	Message      string        `json:"message" gorm:"type:text"`
	Status       RequestStatus `json:"status" gorm:"size:20;not null;default:pending"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (TaskRequest) TableName() string { return "task_requests" }
