package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"worktide/internal/pkg/jwt"
	"worktide/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// JWTAuth resolves the caller from a Bearer header, or from ?token= on
// WebSocket upgrades where browsers cannot set headers.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""
		if h := c.GetHeader("Authorization"); h != "" {
			if !strings.HasPrefix(h, "Bearer ") {
				response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid Authorization header")
				c.Abort()
				return
			}
			tokenStr = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		} else {
			tokenStr = strings.TrimSpace(c.Query("token"))
		}

		if tokenStr == "" {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing token")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// TaskOwnerLookup returns the client that posted a task.
type TaskOwnerLookup interface {
	OwnerOf(ctx context.Context, taskID int64) (int64, error)
}

// TaskOwnership verifies the caller owns the task in URL param "id".
func TaskOwnership(tasks TaskOwnerLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || taskID <= 0 {
			response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid task ID")
			c.Abort()
			return
		}

		ownerID, err := tasks.OwnerOf(c.Request.Context(), taskID)
		if err != nil {
			response.CustomError(c, http.StatusNotFound, "NOT_FOUND", "Task not found")
			c.Abort()
			return
		}

		if ownerID != userID && c.GetString("role") != "admin" {
			response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "You don't own this task")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AccountStatus reports whether a token's account has been suspended.
type AccountStatus interface {
	IsBanned(ctx context.Context, userID int64) (bool, error)
}

// ActiveAccount rejects tokens of banned or deleted accounts. It runs after
// JWTAuth, so a ban takes effect before the token expires.
func ActiveAccount(accounts AccountStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		banned, err := accounts.IsBanned(c.Request.Context(), userID)
		if err != nil {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Account not available")
			c.Abort()
			return
		}
		if banned {
			response.CustomError(c, http.StatusForbidden, "ACCOUNT_BANNED", "Account is banned")
			c.Abort()
			return
		}

		c.Next()
	}
}
