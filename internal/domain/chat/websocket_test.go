package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktide/internal/domain/user"
	"worktide/internal/middleware"
	"worktide/internal/pkg/jwt"
	"worktide/internal/realtime"
	"worktide/internal/testutil"
)

type wsEnv struct {
	server *httptest.Server
	tokens *jwt.Service
	hub    *realtime.Hub
	svc    *Service
	ids    map[string]int64
}

func newWSEnv(t *testing.T, names ...string) *wsEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t, &user.User{}, &Message{})
	users := user.NewRepository(db)
	tokens := jwt.New("test-secret", time.Hour)
	hub := realtime.NewHub()
	svc := NewService(NewRepository(db), user.NewService(users, tokens), hub)

	ids := make(map[string]int64)
	for _, name := range names {
		u := &user.User{Email: name + "@example.com", PasswordHash: "x", Role: user.RoleClient, Name: name}
		require.NoError(t, users.Create(context.Background(), u))
		ids[name] = u.ID
	}

	r := gin.New()
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(tokens))
	RegisterRoutes(protected, NewHandler(svc, hub), NewWSHandler(hub, svc, nil))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &wsEnv{server: srv, tokens: tokens, hub: hub, svc: svc, ids: ids}
}

func (e *wsEnv) dial(t *testing.T, userID int64) *websocket.Conn {
	t.Helper()
	token, err := e.tokens.GenerateToken(userID, "client")
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/api/v1/chat/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return e.hub.IsOnline(userID) }, time.Second, 5*time.Millisecond)
	return conn
}

type frame struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestWS_RejectsMissingToken(t *testing.T) {
	env := newWSEnv(t)
	url := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/api/v1/chat/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWS_SendMessageRelaysToReceiver(t *testing.T) {
	env := newWSEnv(t, "alice", "bob")
	alice := env.dial(t, env.ids["alice"])
	bob := env.dial(t, env.ids["bob"])

	require.NoError(t, alice.WriteJSON(map[string]any{
		"type":        "send_message",
		"receiver_id": env.ids["bob"],
		"content":     "hello bob",
	}))

	got := readFrame(t, bob)
	assert.Equal(t, realtime.EventNewMessage, got.Type)
	assert.Equal(t, "hello bob", got.Payload["content"])

	echo := readFrame(t, alice)
	assert.Equal(t, realtime.EventMessageSent, echo.Type)
	assert.Equal(t, got.Payload["id"], echo.Payload["id"])
}

func TestWS_PingTypingAndErrors(t *testing.T) {
	env := newWSEnv(t, "alice", "bob")
	alice := env.dial(t, env.ids["alice"])
	bob := env.dial(t, env.ids["bob"])

	require.NoError(t, alice.WriteJSON(map[string]any{"type": "ping"}))
	assert.Equal(t, realtime.EventPong, readFrame(t, alice).Type)

	require.NoError(t, alice.WriteJSON(map[string]any{"type": "typing", "receiver_id": env.ids["bob"]}))
	typing := readFrame(t, bob)
	assert.Equal(t, realtime.EventTyping, typing.Type)
	assert.EqualValues(t, env.ids["alice"], typing.Payload["sender_id"])

	require.NoError(t, alice.WriteJSON(map[string]any{"type": "send_message", "receiver_id": env.ids["alice"], "content": "me"}))
	errFrame := readFrame(t, alice)
	assert.Equal(t, realtime.EventError, errFrame.Type)
	assert.Equal(t, "VALIDATION_ERROR", errFrame.Payload["code"])

	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("not json")))
	assert.Equal(t, "INVALID_FRAME", readFrame(t, alice).Payload["code"])
}

func TestWS_DisconnectUnregisters(t *testing.T) {
	env := newWSEnv(t, "alice")
	id := env.ids["alice"]
	conn := env.dial(t, id)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return !env.hub.IsOnline(id) }, 2*time.Second, 10*time.Millisecond)
}

func TestWS_ReconnectReplacesOldConnection(t *testing.T) {
	env := newWSEnv(t, "alice", "bob")
	aliceID := env.ids["alice"]
	old := env.dial(t, aliceID)
	first, ok := env.hub.Lookup(aliceID)
	require.True(t, ok)

	fresh := env.dial(t, aliceID)
	require.Eventually(t, func() bool {
		c, ok := env.hub.Lookup(aliceID)
		return ok && c != first
	}, time.Second, 5*time.Millisecond)

	// Closing the stale socket must not take the new one offline.
	require.NoError(t, old.Close())
	time.Sleep(50 * time.Millisecond)
	assert.True(t, env.hub.IsOnline(aliceID))

	_, err := env.svc.Send(context.Background(), env.ids["bob"], SendMessageRequest{ReceiverID: aliceID, Content: "to new"})
	require.NoError(t, err)
	got := readFrame(t, fresh)
	assert.Equal(t, "to new", got.Payload["content"])
}

func TestHTTP_SendHistoryConversationsOnline(t *testing.T) {
	env := newWSEnv(t, "u1", "u2")
	u1, u2 := env.ids["u1"], env.ids["u2"]
	token, err := env.tokens.GenerateToken(u1, "client")
	require.NoError(t, err)

	send := func(body string) *http.Response {
		req, _ := http.NewRequest(http.MethodPost, env.server.URL+"/api/v1/chat/messages", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}
	get := func(path string) *http.Response {
		req, _ := http.NewRequest(http.MethodGet, env.server.URL+path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	assert.Equal(t, http.StatusCreated, send(`{"receiver_id":`+strconv.FormatInt(u2, 10)+`,"content":"hi"}`).StatusCode)
	assert.Equal(t, http.StatusNotFound, send(`{"receiver_id":9999,"content":"hi"}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, send(`{"content":"hi"}`).StatusCode)

	assert.Equal(t, http.StatusOK, get("/api/v1/chat/messages/"+strconv.FormatInt(u2, 10)).StatusCode)
	assert.Equal(t, http.StatusBadRequest, get("/api/v1/chat/messages/abc").StatusCode)
	assert.Equal(t, http.StatusOK, get("/api/v1/chat/conversations").StatusCode)
	assert.Equal(t, http.StatusOK, get("/api/v1/chat/online?ids=1,2").StatusCode)
	assert.Equal(t, http.StatusBadRequest, get("/api/v1/chat/online?ids=x").StatusCode)
}
