package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktide/internal/middleware"
	"worktide/internal/pkg/jwt"
	"worktide/internal/testutil"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t, &User{})
	jwtService := jwt.New("test-secret", time.Hour)
	h := NewHandler(NewService(NewRepository(db), jwtService))

	r := gin.New()
	v1 := r.Group("/api/v1")
	h.RegisterPublicRoutes(v1)
	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(jwtService))
	h.RegisterProtectedRoutes(protected)
	return r
}

func doJSON(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

type authEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	} `json:"data"`
}

func TestAuthFlow(t *testing.T) {
	r := setupTestRouter(t)

	rr := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email": "bad", "password": "short", "name": "", "role": "client",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "VALIDATION_ERROR")

	rr = doJSON(r, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email": "eve@example.com", "password": "password123", "name": "Eve", "role": "freelancer",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = doJSON(r, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email": "eve@example.com", "password": "password123", "name": "Eve", "role": "freelancer",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doJSON(r, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "eve@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var env authEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.NotEmpty(t, env.Data.Token)

	rr = doJSON(r, http.MethodPut, "/api/v1/users/me", env.Data.Token, map[string]any{
		"skills": []string{"Go", "Docker"},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "Docker")

	rr = doJSON(r, http.MethodGet, "/api/v1/users/"+strconv.FormatInt(env.Data.User.ID, 10), env.Data.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "eve@example.com")

	rr = doJSON(r, http.MethodGet, "/api/v1/users/424242", env.Data.Token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(r, http.MethodGet, "/api/v1/freelancers?skill=docker", env.Data.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Eve")

	rr = doJSON(r, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
