package user

import (
	"context"
	"errors"

	"worktide/internal/database"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context, role Role, limit, offset int) ([]*User, int64, error)
	ListFreelancers(ctx context.Context) ([]*User, error)
	SetBanned(ctx context.Context, id int64, banned bool) error
	IncrementCompletedJobs(ctx context.Context, id int64) error
	UpdateRating(ctx context.Context, id int64, avg float64, count int) error
	CountByRole(ctx context.Context) (map[Role]int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if database.IsUniqueViolation(err) {
		return ErrEmailAlreadyExists
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*User, error) {
	out := make(map[int64]*User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []*User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) List(ctx context.Context, role Role, limit, offset int) ([]*User, int64, error) {
	q := r.db.WithContext(ctx).Model(&User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*User
	err := q.Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

func (r *repository) ListFreelancers(ctx context.Context) ([]*User, error) {
	var users []*User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_banned = ?", RoleFreelancer, false).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) SetBanned(ctx context.Context, id int64, banned bool) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("is_banned", banned)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) IncrementCompletedJobs(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("completed_jobs", gorm.Expr("completed_jobs + 1")).Error
}

func (r *repository) UpdateRating(ctx context.Context, id int64, avg float64, count int) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Updates(map[string]any{"rating": avg, "rating_count": count}).Error
}

func (r *repository) CountByRole(ctx context.Context) (map[Role]int64, error) {
	var rows []struct {
		Role  Role
		Total int64
	}
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Select("role, COUNT(*) AS total").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[Role]int64, len(rows))
	for _, row := range rows {
		out[row.Role] = row.Total
	}
	return out, nil
}
