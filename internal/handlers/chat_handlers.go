package handlers

import (
	"database/sql"
	"net/http"

	"github.com/fitfuel/fitfuel-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Chat Handlers (client <-> coach) ---
//

// GetMyThreads is the handler for GET /v1/chat/threads
// Lists threads the caller participates in, newest activity first, with
// the latest message and the caller's unread count.
func (h *Handlers) GetMyThreads(c *gin.Context) {
	userID := currentUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, client_id, coach_id, topic, is_support, created_at, updated_at
		FROM chat_threads
		WHERE client_id = ? OR coach_id = ?
		ORDER BY updated_at DESC`, userID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load threads")
		return
	}
	defer rows.Close()

	threads := []models.ChatThread{}
	for rows.Next() {
		var t models.ChatThread
		err := rows.Scan(&t.ID, &t.ClientID, &t.CoachID, &t.Topic, &t.IsSupport, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan thread")
			return
		}
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to read threads")
		return
	}

	for i := range threads {
		var m models.ChatMessage
		err := h.DB.QueryRow(`
			SELECT id, thread_id, sender_id, receiver_id, text, read_at, created_at
			FROM chat_messages
			WHERE thread_id = ?
			ORDER BY created_at DESC LIMIT 1`, threads[i].ID).Scan(
			&m.ID, &m.ThreadID, &m.SenderID, &m.ReceiverID, &m.Text, &m.ReadAt, &m.CreatedAt)
		if err == nil {
			threads[i].LastMessage = &m
		} else if err != sql.ErrNoRows {
			respondError(c, http.StatusInternalServerError, "Failed to load last message")
			return
		}

		err = h.DB.QueryRow(`
			SELECT COUNT(*) FROM chat_messages
			WHERE thread_id = ? AND receiver_id = ? AND read_at IS NULL`,
			threads[i].ID, userID).Scan(&threads[i].UnreadCount)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to count unread messages")
			return
		}
	}

	respondOK(c, http.StatusOK, "Your threads", threads)
}

// CreateThreadInput starts a conversation with a coach.
type CreateThreadInput struct {
	CoachID   int64  `json:"coachId" binding:"required"`
	Topic     string `json:"topic" binding:"required"`
	IsSupport bool   `json:"isSupport"`
}

// CreateThread is the handler for POST /v1/chat/threads
func (h *Handlers) CreateThread(c *gin.Context) {
	userID := currentUserID(c)

	var input CreateThreadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var coachID int64
	err := h.DB.QueryRow("SELECT id FROM users WHERE id = ? AND role = 'coach'", input.CoachID).Scan(&coachID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusBadRequest, "Coach not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	result, err := h.DB.Exec(`
		INSERT INTO chat_threads (client_id, coach_id, topic, is_support, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())`,
		userID, coachID, input.Topic, input.IsSupport)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create thread")
		return
	}
	threadID, _ := result.LastInsertId()

	respondOK(c, http.StatusCreated, "Thread created", gin.H{"threadId": threadID})
}

// threadParticipants loads a thread and verifies the caller belongs to it.
func (h *Handlers) threadParticipants(threadID string, userID int64) (clientID, coachID int64, err error) {
	err = h.DB.QueryRow("SELECT client_id, coach_id FROM chat_threads WHERE id = ?", threadID).Scan(&clientID, &coachID)
	return clientID, coachID, err
}

// GetThreadMessages is the handler for GET /v1/chat/messages?thread_id=
func (h *Handlers) GetThreadMessages(c *gin.Context) {
	userID := currentUserID(c)
	threadID := c.Query("thread_id")

	clientID, coachID, err := h.threadParticipants(threadID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Thread not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if userID != clientID && userID != coachID {
		respondError(c, http.StatusForbidden, "You are not part of this thread")
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, thread_id, sender_id, receiver_id, text, read_at, created_at
		FROM chat_messages
		WHERE thread_id = ?
		ORDER BY created_at ASC`, threadID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load messages")
		return
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.ReceiverID, &m.Text, &m.ReadAt, &m.CreatedAt)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan message")
			return
		}
		messages = append(messages, m)
	}

	respondOK(c, http.StatusOK, "Thread messages", messages)
}

// SendMessageInput is the body for posting a message.
type SendMessageInput struct {
	ThreadID int64  `json:"threadId" binding:"required"`
	Text     string `json:"text" binding:"required"`
}

// SendMessage is the handler for POST /v1/chat/messages
// The receiver is derived from the thread, never taken from the body.
func (h *Handlers) SendMessage(c *gin.Context) {
	userID := currentUserID(c)

	var input SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var clientID, coachID int64
	err := h.DB.QueryRow("SELECT client_id, coach_id FROM chat_threads WHERE id = ?", input.ThreadID).Scan(&clientID, &coachID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Thread not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var receiverID int64
	switch userID {
	case clientID:
		receiverID = coachID
	case coachID:
		receiverID = clientID
	default:
		respondError(c, http.StatusForbidden, "You are not part of this thread")
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to start transaction")
		return
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO chat_messages (thread_id, sender_id, receiver_id, text, created_at)
		VALUES (?, ?, ?, ?, NOW())`,
		input.ThreadID, userID, receiverID, input.Text)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to send message")
		return
	}
	messageID, _ := result.LastInsertId()

	if _, err := tx.Exec("UPDATE chat_threads SET updated_at = NOW() WHERE id = ?", input.ThreadID); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to bump thread")
		return
	}

	if err := tx.Commit(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	respondOK(c, http.StatusCreated, "Message sent", gin.H{"messageId": messageID})
}

// MarkMessageRead is the handler for PATCH /v1/chat/messages/:id/read
// Only the receiver can mark a message read.
func (h *Handlers) MarkMessageRead(c *gin.Context) {
	userID := currentUserID(c)
	messageID := c.Param("id")

	result, err := h.DB.Exec(`
		UPDATE chat_messages SET read_at = NOW()
		WHERE id = ? AND receiver_id = ? AND read_at IS NULL`, messageID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to mark message read")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(c, http.StatusNotFound, "Message not found or already read")
		return
	}

	respondOK(c, http.StatusOK, "Message marked read", nil)
}
