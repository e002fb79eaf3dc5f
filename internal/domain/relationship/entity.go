package relationship

import (
	"time"

	"worktide/internal/domain/user"
)

// BlockRelation means BlockerID no longer exchanges messages with BlockedID.
type BlockRelation struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	BlockerID int64     `gorm:"column:blocker_id;not null;uniqueIndex:idx_block_relations_pair,priority:1"`
	BlockedID int64     `gorm:"column:blocked_id;not null;uniqueIndex:idx_block_relations_pair,priority:2;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (BlockRelation) TableName() string { return "block_relations" }

type BlockedUser struct {
	User      user.Public `json:"user"`
	BlockedAt time.Time   `json:"blocked_at"`
}
