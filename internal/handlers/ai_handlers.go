package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

//
// --- AI Assistant Handlers ---
//

// AIChatInput is the body for asking the nutrition assistant.
type AIChatInput struct {
	Message string `json:"message" binding:"required"`
	Model   string `json:"model"`
}

// AIChat is the handler for POST /v1/ai/chat
// Runs the question through the Gemini assistant (read-only SQL tool
// over the read-replica pool) and persists the exchange.
func (h *Handlers) AIChat(c *gin.Context) {
	userID := currentUserID(c)

	if h.AIService == nil {
		respondError(c, http.StatusServiceUnavailable, "AI assistant is not configured")
		return
	}

	var input AIChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c, 60*time.Second)
	defer cancel()

	answer, tokens, err := h.AIService.GenerateResponse(ctx, userID, input.Message, input.Model)
	if err != nil {
		respondError(c, http.StatusBadGateway, "Assistant error: "+err.Error())
		return
	}

	// History write is best-effort; the answer already exists.
	_, err = h.DB.Exec(`
		INSERT INTO ai_chat_history (user_id, user_message, ai_response, tokens_used, created_at)
		VALUES (?, ?, ?, ?, NOW())`,
		userID, input.Message, answer, tokens)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save chat history")
		return
	}

	respondOK(c, http.StatusOK, "Assistant reply", gin.H{
		"response":   answer,
		"tokensUsed": tokens,
	})
}

// GetAIChatHistory is the handler for GET /v1/ai/history
func (h *Handlers) GetAIChatHistory(c *gin.Context) {
	userID := currentUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_message, ai_response, tokens_used, created_at
		FROM ai_chat_history
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT 50`, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load chat history")
		return
	}
	defer rows.Close()

	history := []gin.H{}
	for rows.Next() {
		var id int64
		var userMessage, aiResponse string
		var tokensUsed int
		var createdAt time.Time
		if err := rows.Scan(&id, &userMessage, &aiResponse, &tokensUsed, &createdAt); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan history row")
			return
		}
		history = append(history, gin.H{
			"id":          id,
			"userMessage": userMessage,
			"aiResponse":  aiResponse,
			"tokensUsed":  tokensUsed,
			"createdAt":   createdAt,
		})
	}

	respondOK(c, http.StatusOK, "Chat history", history)
}
