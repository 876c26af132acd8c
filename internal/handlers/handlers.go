package handlers

import (
	"database/sql"
	"time"

	"github.com/fitfuel/fitfuel-golang/internal/ai"
	"github.com/gin-gonic/gin"
)

// timeNow is swapped out in tests that pin the clock.
var timeNow = time.Now

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB         *sql.DB       // Primary Read/Write connection
	DBReadOnly *sql.DB       // Read-Only connection for the AI assistant
	AIService  *ai.AIService // Nutrition assistant
}

// Every endpoint answers with the same envelope:
// {success, message, data} on the happy path, {success, error} otherwise.

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{"success": true, "message": message, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// currentUserID reads the user ID set by the auth middleware.
func currentUserID(c *gin.Context) int64 {
	userIDRaw, _ := c.Get("userID")
	return userIDRaw.(int64)
}
