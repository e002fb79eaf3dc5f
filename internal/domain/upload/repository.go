package upload

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository persists upload records. Mutations and listings are scoped to
// the owning user.
type Repository interface {
	Save(ctx context.Context, u *Upload) error
	Find(ctx context.Context, id string) (*Upload, error)
	RemoveOwned(ctx context.Context, id string, ownerID int64) error
	ListOwned(ctx context.Context, ownerID int64) ([]*Upload, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Save(ctx context.Context, u *Upload) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *gormRepository) Find(ctx context.Context, id string) (*Upload, error) {
	var u Upload
	switch err := r.db.WithContext(ctx).Take(&u, "id = ?", id).Error; {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrUploadNotFound
	case err != nil:
		return nil, err
	}
	return &u, nil
}

// RemoveOwned deletes the record only if ownerID uploaded it. A record that
// is missing or owned by someone else reports ErrUploadNotFound.
func (r *gormRepository) RemoveOwned(ctx context.Context, id string, ownerID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&Upload{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUploadNotFound
	}
	return nil
}

// ListOwned returns newest first; id breaks ties within the same instant.
func (r *gormRepository) ListOwned(ctx context.Context, ownerID int64) ([]*Upload, error) {
	uploads := make([]*Upload, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&uploads).Error
	return uploads, err
}
