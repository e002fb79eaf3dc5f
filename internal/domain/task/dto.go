package task

import (
	"time"

	"worktide/internal/domain/user"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Description string     `json:"description" validate:"max=10000"`
	Budget      float64    `json:"budget" validate:"gte=0"`
	Skills      []string   `json:"skills" validate:"max=20"`
	Deadline    *time.Time `json:"deadline"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=10000"`
	Budget      *float64   `json:"budget" validate:"omitempty,gte=0"`
	Skills      []string   `json:"skills" validate:"omitempty,max=20"`
	Deadline    *time.Time `json:"deadline"`
}

type ApplyRequest struct {
	CoverLetter    string  `json:"cover_letter" validate:"max=5000"`
	ProposedBudget float64 `json:"proposed_budget" validate:"gte=0"`
}

type InviteRequest struct {
	FreelancerID int64  `json:"freelancer_id" validate:"required,gt=0"`
	Message      string `json:"message" validate:"max=2000"`
}

type RespondRequest struct {
	Decision string `json:"decision" validate:"required,oneof=accept decline"`
}

type TaskListResponse struct {
	Tasks []*Task `json:"tasks"`
	Total int64   `json:"total"`
}

// Recommendation is one ranked freelancer for a task.
type Recommendation struct {
	Freelancer    user.Public `json:"freelancer"`
	Score         float64     `json:"score"`
	MatchedSkills int         `json:"matched_skills"`
}
