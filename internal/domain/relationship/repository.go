package relationship

import (
	"context"

	"worktide/internal/database"

	"gorm.io/gorm"
)

// Repository handles persistence for block relations
type Repository interface {
	Block(ctx context.Context, blockerID, blockedID int64) error
	Unblock(ctx context.Context, blockerID, blockedID int64) error
	IsBlocked(ctx context.Context, userA, userB int64) (bool, error)
	ListBlocked(ctx context.Context, blockerID int64) ([]*BlockRelation, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Block(ctx context.Context, blockerID, blockedID int64) error {
	rel := &BlockRelation{BlockerID: blockerID, BlockedID: blockedID}
	err := r.db.WithContext(ctx).Create(rel).Error
	if database.IsUniqueViolation(err) {
		return ErrAlreadyBlocked
	}
	return err
}

func (r *repository) Unblock(ctx context.Context, blockerID, blockedID int64) error {
	result := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&BlockRelation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotBlocked
	}
	return nil
}

// IsBlocked is symmetric: a block in either direction counts.
func (r *repository) IsBlocked(ctx context.Context, userA, userB int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&BlockRelation{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListBlocked(ctx context.Context, blockerID int64) ([]*BlockRelation, error) {
	var rels []*BlockRelation
	err := r.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		Order("id DESC").
		Find(&rels).Error
	return rels, err
}
