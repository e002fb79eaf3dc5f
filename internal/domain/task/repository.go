package task

import (
	"context"
	"errors"
	"strings"

	"worktide/internal/database"

	"gorm.io/gorm"
)

type ListFilter struct {
	Status   Status
	Skill    string
	ClientID int64
	Limit    int
	Offset   int
}

type Repository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id int64) (*Task, error)
	List(ctx context.Context, f ListFilter) ([]*Task, int64, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id int64) error
	OwnerOf(ctx context.Context, taskID int64) (int64, error)
	SetStatus(ctx context.Context, id int64, status Status) error
	CountByStatus(ctx context.Context) (map[Status]int64, error)

	CreateApplication(ctx context.Context, a *Application) error
	GetApplication(ctx context.Context, id int64) (*Application, error)
	ListApplications(ctx context.Context, taskID int64) ([]*Application, error)
	ListApplicationsByFreelancer(ctx context.Context, freelancerID int64) ([]*Application, error)
	AcceptApplication(ctx context.Context, app *Application) ([]int64, error)
	SetApplicationStatus(ctx context.Context, id int64, status ApplicationStatus) error

	CreateRequest(ctx context.Context, r *TaskRequest) error
	GetRequest(ctx context.Context, id int64) (*TaskRequest, error)
	ListRequestsByFreelancer(ctx context.Context, freelancerID int64) ([]*TaskRequest, error)
	ListRequestsByTask(ctx context.Context, taskID int64) ([]*TaskRequest, error)
	AcceptRequest(ctx context.Context, req *TaskRequest) error
	SetRequestStatus(ctx context.Context, id int64, status RequestStatus) error
	CountPendingRequests(ctx context.Context, taskID int64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Task, error) {
	var t Task
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]*Task, int64, error) {
	q := r.db.WithContext(ctx).Model(&Task{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ClientID > 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if skill := strings.ToLower(strings.TrimSpace(f.Skill)); skill != "" {
		// skills is a JSON array column; match the quoted element.
		q = q.Where("LOWER(skills) LIKE ?", `%"`+skill+`"%`)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []*Task
	err := q.Order("id DESC").Limit(f.Limit).Offset(f.Offset).Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *repository) Update(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Delete removes the task with its applications and invitations.
func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&TaskRequest{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Task{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}

func (r *repository) OwnerOf(ctx context.Context, taskID int64) (int64, error) {
	var t Task
	err := r.db.WithContext(ctx).Select("client_id").First(&t, taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrTaskNotFound
	}
	return t.ClientID, err
}

func (r *repository) SetStatus(ctx context.Context, id int64, status Status) error {
	return r.db.WithContext(ctx).Model(&Task{}).Where("id = ?", id).Update("status", status).Error
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	var rows []struct {
		Status Status
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&Task{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *repository) CreateApplication(ctx context.Context, a *Application) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if database.IsUniqueViolation(err) {
		return ErrAlreadyApplied
	}
	return err
}

func (r *repository) GetApplication(ctx context.Context, id int64) (*Application, error) {
	var a Application
	err := r.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) ListApplications(ctx context.Context, taskID int64) ([]*Application, error) {
	var apps []*Application
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("id ASC").Find(&apps).Error
	return apps, err
}

func (r *repository) ListApplicationsByFreelancer(ctx context.Context, freelancerID int64) ([]*Application, error) {
	var apps []*Application
	err := r.db.WithContext(ctx).Where("freelancer_id = ?", freelancerID).Order("id DESC").Find(&apps).Error
	return apps, err
}

// AcceptApplication assigns the freelancer, starts the task and rejects the
// other pending applications. It returns the freelancers that were rejected.
func (r *repository) AcceptApplication(ctx context.Context, app *Application) ([]int64, error) {
	var rejected []int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Task{}).
			Where("id = ? AND status IN ?", app.TaskID, []Status{StatusOpen, StatusPending}).
			Updates(map[string]any{"status": StatusInProgress, "freelancer_id": app.FreelancerID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTaskNotOpen
		}

		if err := tx.Model(&Application{}).Where("id = ?", app.ID).
			Update("status", ApplicationAccepted).Error; err != nil {
			return err
		}

		if err := tx.Model(&Application{}).
			Where("task_id = ? AND id <> ? AND status = ?", app.TaskID, app.ID, ApplicationPending).
			Pluck("freelancer_id", &rejected).Error; err != nil {
			return err
		}
		if err := tx.Model(&Application{}).
			Where("task_id = ? AND id <> ? AND status = ?", app.TaskID, app.ID, ApplicationPending).
			Update("status", ApplicationRejected).Error; err != nil {
			return err
		}
		return tx.Model(&TaskRequest{}).
			Where("task_id = ? AND status = ?", app.TaskID, RequestPending).
			Update("status", RequestDeclined).Error
	})
	return rejected, err
}

func (r *repository) SetApplicationStatus(ctx context.Context, id int64, status ApplicationStatus) error {
	return r.db.WithContext(ctx).Model(&Application{}).Where("id = ?", id).Update("status", status).Error
}

func (r *repository) CreateRequest(ctx context.Context, req *TaskRequest) error {
	err := r.db.WithContext(ctx).Create(req).Error
	if database.IsUniqueViolation(err) {
		return ErrAlreadyInvited
	}
	return err
}

func (r *repository) GetRequest(ctx context.Context, id int64) (*TaskRequest, error) {
	var req TaskRequest
	err := r.db.WithContext(ctx).First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) ListRequestsByFreelancer(ctx context.Context, freelancerID int64) ([]*TaskRequest, error) {
	var reqs []*TaskRequest
	err := r.db.WithContext(ctx).Where("freelancer_id = ?", freelancerID).Order("id DESC").Find(&reqs).Error
	return reqs, err
}

func (r *repository) ListRequestsByTask(ctx context.Context, taskID int64) ([]*TaskRequest, error) {
	var reqs []*TaskRequest
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("id ASC").Find(&reqs).Error
	return reqs, err
}

// AcceptRequest assigns the invited freelancer and closes hiring on the task.
func (r *repository) AcceptRequest(ctx context.Context, req *TaskRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Task{}).
			Where("id = ? AND status IN ?", req.TaskID, []Status{StatusOpen, StatusPending}).
			Updates(map[string]any{"status": StatusInProgress, "freelancer_id": req.FreelancerID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTaskNotOpen
		}

		if err := tx.Model(&TaskRequest{}).Where("id = ?", req.ID).
			Update("status", RequestAccepted).Error; err != nil {
			return err
		}
		if err := tx.Model(&TaskRequest{}).
			Where("task_id = ? AND id <> ? AND status = ?", req.TaskID, req.ID, RequestPending).
			Update("status", RequestDeclined).Error; err != nil {
			return err
		}
		return tx.Model(&Application{}).
			Where("task_id = ? AND status = ?", req.TaskID, ApplicationPending).
			Update("status", ApplicationRejected).Error
	})
}

func (r *repository) SetRequestStatus(ctx context.Context, id int64, status RequestStatus) error {
	return r.db.WithContext(ctx).Model(&TaskRequest{}).Where("id = ?", id).Update("status", status).Error
}

func (r *repository) CountPendingRequests(ctx context.Context, taskID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&TaskRequest{}).
		Where("task_id = ? AND status = ?", taskID, RequestPending).
		Count(&n).Error
	return n, err
}
