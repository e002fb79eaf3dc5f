package task

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"worktide/internal/domain/notification"
	"worktide/internal/domain/recommend"
	"worktide/internal/domain/user"
)

// Users is the slice of the user service tasks depend on.
type Users interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	ListFreelancers(ctx context.Context, skill string) ([]*user.User, error)
	IncrementCompletedJobs(ctx context.Context, id int64) error
}

// Notifier turns a task event into a stored and pushed notification.
type Notifier interface {
	Notify(ctx context.Context, userID int64, typ notification.Type, title, message string, relatedID int64) (*notification.Notification, error)
}

type Service struct {
	repo   Repository
	users  Users
	notifs Notifier
	scorer recommend.Scorer
}

func NewService(repo Repository, users Users, notifs Notifier, scorer recommend.Scorer) *Service {
	if scorer == nil {
		scorer = recommend.DefaultScorer
	}
	return &Service{repo: repo, users: users, notifs: notifs, scorer: scorer}
}

func (s *Service) Create(ctx context.Context, clientID int64, req CreateTaskRequest) (*Task, error) {
	t := &Task{
		ClientID:    clientID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Budget:      req.Budget,
		Skills:      user.NormalizeSkills(req.Skills),
		Status:      StatusOpen,
		Deadline:    req.Deadline,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Task, error) {
	return s.repo.GetByID(ctx, id)
}

// OwnerOf satisfies middleware.TaskOwnerLookup.
func (s *Service) OwnerOf(ctx context.Context, taskID int64) (int64, error) {
	return s.repo.OwnerOf(ctx, taskID)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Task, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.List(ctx, f)
}

func (s *Service) ownedTask(ctx context.Context, ownerID, taskID int64) (*Task, error) {
	t, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.ClientID != ownerID {
		return nil, ErrForbidden
	}
	return t, nil
}

// Update changes an open task. Once anyone is invited or assigned the task is frozen.
func (s *Service) Update(ctx context.Context, ownerID, taskID int64, req UpdateTaskRequest) (*Task, error) {
	t, err := s.ownedTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusOpen {
		return nil, ErrTaskNotEditable
	}

	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Budget != nil {
		t.Budget = *req.Budget
	}
	if req.Skills != nil {
		t.Skills = user.NormalizeSkills(req.Skills)
	}
	if req.Deadline != nil {
		t.Deadline = req.Deadline
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, taskID int64) error {
	t, err := s.ownedTask(ctx, ownerID, taskID)
	if err != nil {
		return err
	}
	if !t.Status.Hiring() {
		return ErrTaskNotEditable
	}
	return s.repo.Delete(ctx, taskID)
}

// DeleteAny removes a task regardless of owner or status. Admin use only.
func (s *Service) DeleteAny(ctx context.Context, taskID int64) error {
	return s.repo.Delete(ctx, taskID)
}

func (s *Service) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	return s.repo.CountByStatus(ctx)
}

func (s *Service) Apply(ctx context.Context, freelancerID, taskID int64, req ApplyRequest) (*Application, error) {
	t, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.ClientID == freelancerID {
		return nil, ErrOwnTask
	}
	if !t.Status.Hiring() {
		return nil, ErrTaskNotOpen
	}

	f, err := s.users.GetByID(ctx, freelancerID)
	if err != nil {
		return nil, err
	}
	if f.Role != user.RoleFreelancer {
		return nil, ErrOnlyFreelancers
	}

	app := &Application{
		TaskID:         taskID,
		FreelancerID:   freelancerID,
		CoverLetter:    req.CoverLetter,
		ProposedBudget: req.ProposedBudget,
		Status:         ApplicationPending,
	}
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	s.notify(ctx, t.ClientID, notification.TypeApplicationReceived,
		"New application",
		fmt.Sprintf("%s applied to \"%s\"", f.Name, t.Title),
		t.ID)
	return app, nil
}

// ListApplications is reached only through the task ownership middleware.
func (s *Service) ListApplications(ctx context.Context, taskID int64) ([]*Application, error) {
	if _, err := s.repo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.repo.ListApplications(ctx, taskID)
}

func (s *Service) ListMyApplications(ctx context.Context, freelancerID int64) ([]*Application, error) {
	return s.repo.ListApplicationsByFreelancer(ctx, freelancerID)
}

func (s *Service) ownedApplication(ctx context.Context, ownerID, appID int64) (*Application, *Task, error) {
	app, err := s.repo.GetApplication(ctx, appID)
	if err != nil {
		return nil, nil, err
	}
	t, err := s.ownedTask(ctx, ownerID, app.TaskID)
	if err != nil {
		return nil, nil, err
	}
	if app.Status != ApplicationPending {
		return nil, nil, ErrInvalidStatusTransition
	}
	return app, t, nil
}

// AcceptApplication starts the task with the applicant and rejects every
// other pending application.
func (s *Service) AcceptApplication(ctx context.Context, ownerID, appID int64) (*Application, error) {
	app, t, err := s.ownedApplication(ctx, ownerID, appID)
	if err != nil {
		return nil, err
	}

	rejected, err := s.repo.AcceptApplication(ctx, app)
	if err != nil {
		return nil, err
	}
	app.Status = ApplicationAccepted

	s.notify(ctx, app.FreelancerID, notification.TypeApplicationAccepted,
		"Application accepted",
		fmt.Sprintf("You were hired for \"%s\"", t.Title),
		t.ID)
	for _, fid := range rejected {
		s.notify(ctx, fid, notification.TypeApplicationRejected,
			"Application rejected",
			fmt.Sprintf("\"%s\" went to another freelancer", t.Title),
			t.ID)
	}
	return app, nil
}

func (s *Service) RejectApplication(ctx context.Context, ownerID, appID int64) (*Application, error) {
	app, t, err := s.ownedApplication(ctx, ownerID, appID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetApplicationStatus(ctx, app.ID, ApplicationRejected); err != nil {
		return nil, err
	}
	app.Status = ApplicationRejected

	s.notify(ctx, app.FreelancerID, notification.TypeApplicationRejected,
		"Application rejected",
		fmt.Sprintf("Your application for \"%s\" was declined", t.Title),
		t.ID)
	return app, nil
}

// Invite sends a task request to a freelancer and moves an open task to pending.
func (s *Service) Invite(ctx context.Context, ownerID, taskID int64, req InviteRequest) (*TaskRequest, error) {
	t, err := s.ownedTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if !t.Status.Hiring() {
		return nil, ErrTaskNotOpen
	}

	f, err := s.users.GetByID(ctx, req.FreelancerID)
	if err != nil {
		return nil, err
	}
	if f.Role != user.RoleFreelancer {
		return nil, ErrNotFreelancer
	}

	tr := &TaskRequest{
		TaskID:       taskID,
		ClientID:     ownerID,
		FreelancerID: req.FreelancerID,
		Message:      req.Message,
		Status:       RequestPending,
	}
	if err := s.repo.CreateRequest(ctx, tr); err != nil {
		return nil, err
	}
	if t.Status == StatusOpen {
		if err := s.repo.SetStatus(ctx, taskID, StatusPending); err != nil {
			return nil, err
		}
	}

	s.notify(ctx, f.ID, notification.TypeRequestReceived,
		"New task invitation",
		fmt.Sprintf("You were invited to \"%s\"", t.Title),
		t.ID)
	return tr, nil
}

func (s *Service) ListTaskRequests(ctx context.Context, taskID int64) ([]*TaskRequest, error) {
	if _, err := s.repo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.repo.ListRequestsByTask(ctx, taskID)
}

func (s *Service) ListMyRequests(ctx context.Context, freelancerID int64) ([]*TaskRequest, error) {
	return s.repo.ListRequestsByFreelancer(ctx, freelancerID)
}

// RespondToRequest lets the invited freelancer accept or decline.
func (s *Service) RespondToRequest(ctx context.Context, freelancerID, requestID int64, decision string) (*TaskRequest, error) {
	tr, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if tr.FreelancerID != freelancerID {
		return nil, ErrForbidden
	}
	if tr.Status != RequestPending {
		return nil, ErrInvalidStatusTransition
	}
	t, err := s.repo.GetByID(ctx, tr.TaskID)
	if err != nil {
		return nil, err
	}

	switch decision {
	case "accept":
		if err := s.repo.AcceptRequest(ctx, tr); err != nil {
			return nil, err
		}
		tr.Status = RequestAccepted
		s.notify(ctx, tr.ClientID, notification.TypeRequestAccepted,
			"Invitation accepted",
			fmt.Sprintf("Your invitation for \"%s\" was accepted", t.Title),
			t.ID)
	case "decline":
		if err := s.repo.SetRequestStatus(ctx, tr.ID, RequestDeclined); err != nil {
			return nil, err
		}
		tr.Status = RequestDeclined
		if err := s.reopenIfIdle(ctx, t); err != nil {
			return nil, err
		}
		s.notify(ctx, tr.ClientID, notification.TypeRequestDeclined,
			"Invitation declined",
			fmt.Sprintf("Your invitation for \"%s\" was declined", t.Title),
			t.ID)
	default:
		return nil, ErrInvalidDecision
	}
	return tr, nil
}

func (s *Service) reopenIfIdle(ctx context.Context, t *Task) error {
	if t.Status != StatusPending {
		return nil
	}
	pending, err := s.repo.CountPendingRequests(ctx, t.ID)
	if err != nil {
		return err
	}
	if pending == 0 {
		return s.repo.SetStatus(ctx, t.ID, StatusOpen)
	}
	return nil
}

// Complete closes an in-progress task and credits the freelancer.
func (s *Service) Complete(ctx context.Context, ownerID, taskID int64) (*Task, error) {
	t, err := s.ownedTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusInProgress || t.FreelancerID == nil {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.repo.SetStatus(ctx, t.ID, StatusCompleted); err != nil {
		return nil, err
	}
	t.Status = StatusCompleted

	if err := s.users.IncrementCompletedJobs(ctx, *t.FreelancerID); err != nil {
		log.Printf("task_complete_jobs_error task_id=%d freelancer_id=%d error=%q", t.ID, *t.FreelancerID, err)
	}
	s.notify(ctx, *t.FreelancerID, notification.TypeTaskCompleted,
		"Task completed",
		fmt.Sprintf("\"%s\" was marked as completed", t.Title),
		t.ID)
	return t, nil
}

// Recommendations ranks freelancers against the task skills.
func (s *Service) Recommendations(ctx context.Context, taskID int64, limit, offset int) ([]Recommendation, error) {
	t, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	pool, err := s.users.ListFreelancers(ctx, "")
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*user.User, len(pool))
	candidates := make([]recommend.Candidate, 0, len(pool))
	for _, u := range pool {
		if u.ID == t.ClientID {
			continue
		}
		byID[u.ID] = u
		candidates = append(candidates, recommend.Candidate{
			ID:            u.ID,
			Skills:        u.Skills,
			Rating:        u.Rating,
			CompletedJobs: u.CompletedJobs,
		})
	}

	ranked := recommend.Page(recommend.Rank(recommend.Target{Skills: t.Skills}, candidates, s.scorer), limit, offset)
	out := make([]Recommendation, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, Recommendation{
			Freelancer:    byID[r.Candidate.ID].Public(),
			Score:         r.Score,
			MatchedSkills: r.Overlap,
		})
	}
	return out, nil
}

func (s *Service) notify(ctx context.Context, userID int64, typ notification.Type, title, message string, relatedID int64) {
	if s.notifs == nil {
		return
	}
	if _, err := s.notifs.Notify(ctx, userID, typ, title, message, relatedID); err != nil {
		log.Printf("task_notify_error user_id=%d type=%s related_id=%d error=%q", userID, typ, relatedID, err)
	}
}

// IsNotFound reports whether err is one of the lookup misses of this package.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrApplicationNotFound) ||
		errors.Is(err, ErrRequestNotFound) ||
		errors.Is(err, user.ErrUserNotFound)
}
