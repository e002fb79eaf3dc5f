package rating

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"worktide/internal/domain/notification"
	"worktide/internal/domain/task"
	"worktide/internal/domain/user"
	"worktide/internal/pkg/jwt"
	"worktide/internal/testutil"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID int64, typ notification.Type, title, message string, relatedID int64) (*notification.Notification, error) {
	args := m.Called(ctx, userID, typ, title, message, relatedID)
	return nil, args.Error(0)
}

type fixture struct {
	svc    *Service
	users  user.Repository
	tasks  task.Repository
	notifs *MockNotifier
	client *user.User
	free   *user.User
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t, &user.User{}, &task.Task{}, &task.Application{}, &task.TaskRequest{}, &Rating{})
	users := user.NewRepository(db)
	tasks := task.NewRepository(db)
	notifs := &MockNotifier{}
	userSvc := user.NewService(users, jwt.New("test-secret", time.Hour))

	f := &fixture{
		svc:    NewService(NewRepository(db), tasks, userSvc, notifs),
		users:  users,
		tasks:  tasks,
		notifs: notifs,
	}
	f.client = &user.User{Email: "c@example.com", PasswordHash: "x", Role: user.RoleClient, Name: "Client"}
	f.free = &user.User{Email: "f@example.com", PasswordHash: "x", Role: user.RoleFreelancer, Name: "Free"}
	require.NoError(t, users.Create(context.Background(), f.client))
	require.NoError(t, users.Create(context.Background(), f.free))
	return f
}

func (f *fixture) task(t *testing.T, status task.Status) *task.Task {
	t.Helper()
	freelancerID := f.free.ID
	tk := &task.Task{ClientID: f.client.ID, FreelancerID: &freelancerID, Title: "Logo", Status: status}
	require.NoError(t, f.tasks.Create(context.Background(), tk))
	return tk
}

func TestRate_UpdatesAverageAndNotifies(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	t1 := f.task(t, task.StatusCompleted)
	t2 := f.task(t, task.StatusCompleted)

	f.notifs.On("Notify", mock.Anything, f.free.ID, notification.TypeRatingReceived, mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	r, err := f.svc.Rate(ctx, f.client.ID, t1.ID, CreateRatingRequest{Score: 5, Comment: " great "})
	require.NoError(t, err)
	assert.Equal(t, f.free.ID, r.RateeID)
	assert.Equal(t, "great", r.Comment)

	_, err = f.svc.Rate(ctx, f.client.ID, t2.ID, CreateRatingRequest{Score: 4})
	require.NoError(t, err)
	f.notifs.AssertExpectations(t)

	u, err := f.users.GetByID(ctx, f.free.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, u.Rating, 1e-9)
	assert.Equal(t, 2, u.RatingCount)

	list, err := f.svc.ListForUser(ctx, f.free.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)
	assert.InDelta(t, 4.5, list.Average, 1e-9)
}

func TestRate_FreelancerRatesClient(t *testing.T) {
	f := setup(t)
	tk := f.task(t, task.StatusCompleted)
	f.notifs.On("Notify", mock.Anything, f.client.ID, notification.TypeRatingReceived, mock.Anything, mock.Anything, tk.ID).Return(nil).Once()

	r, err := f.svc.Rate(context.Background(), f.free.ID, tk.ID, CreateRatingRequest{Score: 3})
	require.NoError(t, err)
	assert.Equal(t, f.client.ID, r.RateeID)
}

func TestRate_Rules(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	open := f.task(t, task.StatusInProgress)
	done := f.task(t, task.StatusCompleted)
	f.notifs.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Rate(ctx, f.client.ID, done.ID, CreateRatingRequest{Score: 6})
	assert.ErrorIs(t, err, ErrInvalidScore)

	_, err = f.svc.Rate(ctx, f.client.ID, open.ID, CreateRatingRequest{Score: 5})
	assert.ErrorIs(t, err, ErrTaskNotCompleted)

	_, err = f.svc.Rate(ctx, 999, done.ID, CreateRatingRequest{Score: 5})
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = f.svc.Rate(ctx, f.client.ID, 12345, CreateRatingRequest{Score: 5})
	assert.ErrorIs(t, err, task.ErrTaskNotFound)

	_, err = f.svc.Rate(ctx, f.client.ID, done.ID, CreateRatingRequest{Score: 5})
	require.NoError(t, err)
	_, err = f.svc.Rate(ctx, f.client.ID, done.ID, CreateRatingRequest{Score: 1})
	assert.ErrorIs(t, err, ErrAlreadyRated)
}
