package rating

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"worktide/internal/domain/notification"
	"worktide/internal/domain/task"
)

type Tasks interface {
	GetByID(ctx context.Context, id int64) (*task.Task, error)
}

// RatingUpdater stores the denormalised average on the user row.
type RatingUpdater interface {
	UpdateRating(ctx context.Context, id int64, avg float64, count int) error
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, typ notification.Type, title, message string, relatedID int64) (*notification.Notification, error)
}

type Service struct {
	repo   Repository
	tasks  Tasks
	users  RatingUpdater
	notifs Notifier
}

func NewService(repo Repository, tasks Tasks, users RatingUpdater, notifs Notifier) *Service {
	return &Service{repo: repo, tasks: tasks, users: users, notifs: notifs}
}

// Rate records raterID's score for the other participant of a completed
// task and refreshes the ratee's average.
func (s *Service) Rate(ctx context.Context, raterID, taskID int64, req CreateRatingRequest) (*Rating, error) {
	if req.Score < 1 || req.Score > 5 {
		return nil, ErrInvalidScore
	}

	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.Status != task.StatusCompleted || t.FreelancerID == nil {
		return nil, ErrTaskNotCompleted
	}

	var rateeID int64
	switch raterID {
	case t.ClientID:
		rateeID = *t.FreelancerID
	case *t.FreelancerID:
		rateeID = t.ClientID
	default:
		return nil, ErrNotParticipant
	}

	r := &Rating{
		TaskID:  taskID,
		RaterID: raterID,
		RateeID: rateeID,
		Score:   req.Score,
		Comment: strings.TrimSpace(req.Comment),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	avg, count, err := s.repo.Summary(ctx, rateeID)
	if err != nil {
		return nil, fmt.Errorf("rating summary: %w", err)
	}
	if err := s.users.UpdateRating(ctx, rateeID, math.Round(avg*100)/100, count); err != nil {
		return nil, fmt.Errorf("update user rating: %w", err)
	}

	if s.notifs != nil {
		_, err := s.notifs.Notify(ctx, rateeID, notification.TypeRatingReceived,
			"New rating",
			fmt.Sprintf("You received %d/5 for \"%s\"", r.Score, t.Title),
			t.ID)
		if err != nil {
			log.Printf("rating_notify_error user_id=%d task_id=%d error=%q", rateeID, t.ID, err)
		}
	}
	return r, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64, limit, offset int) (*RatingListResponse, error) {
	items, total, err := s.repo.ListByRatee(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	avg, _, err := s.repo.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &RatingListResponse{Ratings: items, Total: total, Average: math.Round(avg*100) / 100}, nil
}
