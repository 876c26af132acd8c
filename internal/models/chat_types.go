package models

import (
	"database/sql"
	"time"
)

// ChatThread is the model for the 'chat_threads' table: a two-party
// conversation between a client and their coach.
type ChatThread struct {
	ID        int64     `json:"id" db:"id"`
	ClientID  int64     `json:"clientId" db:"client_id"`
	CoachID   int64     `json:"coachId" db:"coach_id"`
	Topic     string    `json:"topic" db:"topic"`
	IsSupport bool      `json:"isSupport" db:"is_support"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Populated by the list handler, not DB columns.
	LastMessage *ChatMessage `json:"lastMessage,omitempty" db:"-"`
	UnreadCount int          `json:"unreadCount" db:"-"`
}

// ChatMessage is the model for the 'chat_messages' table.
type ChatMessage struct {
	ID         int64        `json:"id" db:"id"`
	ThreadID   int64        `json:"threadId" db:"thread_id"`
	SenderID   int64        `json:"senderId" db:"sender_id"`
	ReceiverID int64        `json:"receiverId" db:"receiver_id"`
	Text       string       `json:"text" db:"text"`
	ReadAt     sql.NullTime `json:"-" db:"read_at"`
	CreatedAt  time.Time    `json:"createdAt" db:"created_at"`
}
