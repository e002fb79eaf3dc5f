package server

import (
	"worktide/internal/domain/chat"
	"worktide/internal/domain/notification"
	"worktide/internal/domain/rating"
	"worktide/internal/domain/relationship"
	"worktide/internal/domain/task"
	"worktide/internal/domain/upload"
	"worktide/internal/domain/user"

	"gorm.io/gorm"
)

// Models lists every persisted entity in dependency order.
func Models() []any {
	return []any{
		&user.User{},
		&task.Task{},
		&task.Application{},
		&task.TaskRequest{},
		&rating.Rating{},
		&chat.Message{},
		&relationship.BlockRelation{},
		&notification.Notification{},
		&upload.Upload{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
