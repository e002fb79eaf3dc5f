package admin

import (
	"context"

	"worktide/internal/domain/chat"
	"worktide/internal/domain/task"
	"worktide/internal/domain/user"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	List(ctx context.Context, role user.Role, limit, offset int) ([]*user.User, int64, error)
	SetBanned(ctx context.Context, id int64, banned bool) error
	CountByRole(ctx context.Context) (map[user.Role]int64, error)
}

type TaskService interface {
	CountByStatus(ctx context.Context) (map[task.Status]int64, error)
	DeleteAny(ctx context.Context, taskID int64) error
}

// Messenger sends platform messages and reports message volume.
type Messenger interface {
	SendSystem(ctx context.Context, receiverID int64, content string) (*chat.Message, error)
	Count(ctx context.Context) (int64, error)
}

type NotificationCounter interface {
	Count(ctx context.Context) (int64, error)
}

type Presence interface {
	Count() int
	Kick(userID int64) bool
}
