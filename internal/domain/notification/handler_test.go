package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktide/internal/testutil"
)

func setupRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t, &Notification{})
	svc := NewService(NewRepository(db), nil)

	r := gin.New()
	protected := r.Group("/api/v1")
	protected.Use(func(c *gin.Context) {
		if id, err := strconv.ParseInt(c.GetHeader("X-Test-User"), 10, 64); err == nil {
			c.Set("user_id", id)
		}
		c.Next()
	})
	RegisterRoutes(protected, NewHandler(svc))
	return r, svc
}

func do(r http.Handler, method, path string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if userID != 0 {
		req.Header.Set("X-Test-User", strconv.FormatInt(userID, 10))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandler_ListAndUnread(t *testing.T) {
	r, svc := setupRouter(t)
	_, err := svc.Notify(context.Background(), 1, TypeSystem, "hi", "", 0)
	require.NoError(t, err)

	rr := do(r, http.MethodGet, "/api/v1/notifications?limit=500", 1)
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Data NotificationListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body.Data.Notifications, 1)
	assert.Equal(t, int64(1), body.Data.UnreadCount)

	rr = do(r, http.MethodGet, "/api/v1/notifications/unread-count", 1)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"unread_count":1`)
}

func TestHandler_Unauthenticated(t *testing.T) {
	r, _ := setupRouter(t)
	rr := do(r, http.MethodGet, "/api/v1/notifications", 0)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_MarkReadAndDeleteScoped(t *testing.T) {
	r, svc := setupRouter(t)
	n, err := svc.Notify(context.Background(), 1, TypeSystem, "hi", "", 0)
	require.NoError(t, err)
	path := "/api/v1/notifications/" + strconv.FormatInt(n.ID, 10)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPatch, path+"/read", 2).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPatch, path+"/read", 1).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPatch, path+"/read", 1).Code)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodDelete, "/api/v1/notifications/abc", 1).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, path, 2).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, path, 1).Code)
}

func TestHandler_ReadAll(t *testing.T) {
	r, svc := setupRouter(t)
	for i := 0; i < 2; i++ {
		_, err := svc.Notify(context.Background(), 1, TypeSystem, "hi", "", 0)
		require.NoError(t, err)
	}

	rr := do(r, http.MethodPost, "/api/v1/notifications/read-all", 1)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"updated":2`)
}
