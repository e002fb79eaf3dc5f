package rating

import (
	"context"

	"worktide/internal/database"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, r *Rating) error
	ListByRatee(ctx context.Context, rateeID int64, limit, offset int) ([]*Rating, int64, error)
	Summary(ctx context.Context, rateeID int64) (avg float64, count int, err error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rt *Rating) error {
	err := r.db.WithContext(ctx).Create(rt).Error
	if database.IsUniqueViolation(err) {
		return ErrAlreadyRated
	}
	return err
}

func (r *repository) ListByRatee(ctx context.Context, rateeID int64, limit, offset int) ([]*Rating, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Rating{}).Where("ratee_id = ?", rateeID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*Rating
	err := r.db.WithContext(ctx).
		Where("ratee_id = ?", rateeID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, total, err
}

func (r *repository) Summary(ctx context.Context, rateeID int64) (float64, int, error) {
	var row struct {
		Avg   float64
		Count int
	}
	err := r.db.WithContext(ctx).Model(&Rating{}).
		Select("COALESCE(AVG(score), 0) AS avg, COUNT(*) AS count").
		Where("ratee_id = ?", rateeID).
		Scan(&row).Error
	return row.Avg, row.Count, err
}
