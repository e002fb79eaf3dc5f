package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktide/internal/domain/chat"
	"worktide/internal/domain/notification"
	"worktide/internal/domain/task"
	"worktide/internal/domain/user"
	"worktide/internal/middleware"
	"worktide/internal/pkg/jwt"
	"worktide/internal/realtime"
	"worktide/internal/testutil"
)

type env struct {
	router   http.Handler
	tokens   *jwt.Service
	users    user.Repository
	userSvc  *user.Service
	tasks    *task.Service
	messages *chat.Service
	hub      *realtime.Hub
}

func setupEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t, &user.User{}, &task.Task{}, &task.Application{}, &task.TaskRequest{},
		&chat.Message{}, &notification.Notification{})
	tokens := jwt.New("test-secret", time.Hour)
	users := user.NewRepository(db)
	userSvc := user.NewService(users, tokens)
	hub := realtime.NewHub()
	notifs := notification.NewService(notification.NewRepository(db), hub)
	tasks := task.NewService(task.NewRepository(db), userSvc, notifs, nil)
	messages := chat.NewService(chat.NewRepository(db), userSvc, hub)

	r := gin.New()
	group := r.Group("/api/v1/admin")
	group.Use(middleware.JWTAuth(tokens), middleware.AdminOnly())
	NewHandler(NewService(users, tasks, messages, notifs, hub)).RegisterRoutes(group)

	return &env{router: r, tokens: tokens, users: users, userSvc: userSvc, tasks: tasks, messages: messages, hub: hub}
}

func (e *env) account(t *testing.T, name string, role user.Role) (*user.User, string) {
	t.Helper()
	hash, err := user.HashPassword("secret123")
	require.NoError(t, err)
	u := &user.User{Email: name + "@example.com", PasswordHash: hash, Role: role, Name: name}
	require.NoError(t, e.users.Create(context.Background(), u))
	token, err := e.tokens.GenerateToken(u.ID, string(role))
	require.NoError(t, err)
	return u, token
}

func (e *env) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func data(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.NoError(t, json.Unmarshal(body.Data, out))
}

func TestHTTP_RequiresAdmin(t *testing.T) {
	e := setupEnv(t)
	_, clientTok := e.account(t, "client", user.RoleClient)

	rr := e.do(http.MethodGet, "/api/v1/admin/stats", clientTok, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestHTTP_Stats(t *testing.T) {
	e := setupEnv(t)
	_, adminTok := e.account(t, "admin", user.RoleAdmin)
	client, _ := e.account(t, "client", user.RoleClient)
	e.account(t, "free", user.RoleFreelancer)

	_, err := e.tasks.Create(context.Background(), client.ID, task.CreateTaskRequest{
		Title: "Landing page", Description: "Build a landing page", Budget: 300, Skills: []string{"html"},
	})
	require.NoError(t, err)

	rr := e.do(http.MethodGet, "/api/v1/admin/stats", adminTok, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var stats Stats
	data(t, rr, &stats)
	assert.Equal(t, int64(1), stats.UsersByRole["client"])
	assert.Equal(t, int64(1), stats.UsersByRole["freelancer"])
	assert.Equal(t, int64(1), stats.TasksByStatus["open"])
	assert.Equal(t, 0, stats.Online)
}

func TestHTTP_BanAndUnban(t *testing.T) {
	e := setupEnv(t)
	_, adminTok := e.account(t, "admin", user.RoleAdmin)
	free, _ := e.account(t, "free", user.RoleFreelancer)

	rr := e.do(http.MethodPost, "/api/v1/admin/users/"+itoa(free.ID)+"/ban", adminTok, BanRequest{Reason: "spam"})
	require.Equal(t, http.StatusOK, rr.Code)

	_, err := e.userSvc.Login(context.Background(), user.LoginRequest{Email: "free@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, user.ErrAccountBanned)

	history, err := e.messages.History(context.Background(), free.ID, chat.SystemSenderID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].IsSystem)
	assert.Contains(t, history[0].Content, "spam")

	rr = e.do(http.MethodPost, "/api/v1/admin/users/"+itoa(free.ID)+"/ban", adminTok, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = e.do(http.MethodPost, "/api/v1/admin/users/"+itoa(free.ID)+"/unban", adminTok, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	u, err := e.users.GetByID(context.Background(), free.ID)
	require.NoError(t, err)
	assert.False(t, u.IsBanned)
}

func TestHTTP_BanAdminForbidden(t *testing.T) {
	e := setupEnv(t)
	_, adminTok := e.account(t, "admin", user.RoleAdmin)
	other, _ := e.account(t, "admin2", user.RoleAdmin)

	rr := e.do(http.MethodPost, "/api/v1/admin/users/"+itoa(other.ID)+"/ban", adminTok, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = e.do(http.MethodPost, "/api/v1/admin/users/9999/ban", adminTok, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHTTP_ListUsers(t *testing.T) {
	e := setupEnv(t)
	_, adminTok := e.account(t, "admin", user.RoleAdmin)
	e.account(t, "f1", user.RoleFreelancer)
	e.account(t, "f2", user.RoleFreelancer)
	e.account(t, "c1", user.RoleClient)

	rr := e.do(http.MethodGet, "/api/v1/admin/users?role=freelancer&limit=1", adminTok, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var res UserListResponse
	data(t, rr, &res)
	assert.Len(t, res.Users, 1)
	assert.Equal(t, int64(2), res.Total)
	assert.Equal(t, "f1@example.com", res.Users[0].Email)

	rr = e.do(http.MethodGet, "/api/v1/admin/users?role=owner", adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHTTP_DeleteTask(t *testing.T) {
	e := setupEnv(t)
	_, adminTok := e.account(t, "admin", user.RoleAdmin)
	client, _ := e.account(t, "client", user.RoleClient)

	tk, err := e.tasks.Create(context.Background(), client.ID, task.CreateTaskRequest{
		Title: "Logo", Description: "Design a logo", Budget: 50,
	})
	require.NoError(t, err)

	rr := e.do(http.MethodDelete, "/api/v1/admin/tasks/"+itoa(tk.ID), adminTok, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	_, err = e.tasks.GetByID(context.Background(), tk.ID)
	assert.ErrorIs(t, err, task.ErrTaskNotFound)

	rr = e.do(http.MethodDelete, "/api/v1/admin/tasks/"+itoa(tk.ID), adminTok, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
