package chat

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	History(ctx context.Context, userID, otherID int64) ([]*Message, error)
	ListForUser(ctx context.Context, userID int64) ([]*Message, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// History returns both directions of a pair, oldest first.
func (r *repository) History(ctx context.Context, userID, otherID int64) ([]*Message, error) {
	var msgs []*Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("id ASC").
		Find(&msgs).Error
	return msgs, err
}

// ListForUser returns every message the user sent or received, newest first.
func (r *repository) ListForUser(ctx context.Context, userID int64) ([]*Message, error) {
	var msgs []*Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("id DESC").
		Find(&msgs).Error
	return msgs, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Message{}).Count(&count).Error
	return count, err
}
