package notification

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetForUser(ctx context.Context, userID, id int64) (*Notification, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*Notification, int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, userID, id int64, at time.Time) error
	MarkAllAsRead(ctx context.Context, userID int64, at time.Time) (int64, error)
	DeleteForUser(ctx context.Context, userID, id int64) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) GetForUser(ctx context.Context, userID, id int64) (*Notification, error) {
	var n Notification
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListByUser returns a page newest first together with the user's total.
func (r *repository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*Notification, int64, error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&Notification{}).Where("user_id = ?", userID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *repository) MarkAsRead(ctx context.Context, userID, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", id, userID, false).
		Updates(map[string]any{"is_read": true, "read_at": at}).Error
}

func (r *repository) MarkAllAsRead(ctx context.Context, userID int64, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteForUser(ctx context.Context, userID, id int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Notification{})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&Notification{})
	return res.RowsAffected, res.Error
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Notification{}).Count(&count).Error
	return count, err
}
