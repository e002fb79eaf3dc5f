package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

// CustomError writes the error envelope used by every handler.
func CustomError(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// ValidationFailed answers 400 with per-field validator tags.
func ValidationFailed(c *gin.Context, fields map[string]string) {
	ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", fields)
}

func Unauthorized(c *gin.Context) {
	CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
}

func Internal(c *gin.Context, code, message string) {
	CustomError(c, http.StatusInternalServerError, code, message)
}
