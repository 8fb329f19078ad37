package chat

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxMessageLen is the maximum message body length in Unicode characters.
const MaxMessageLen = 2000

// Message is an immutable log entry in a conversation. The only mutation
// ever applied after creation is the one-way is_read transition, triggered
// when another participant opens the conversation. SenderName is hydrated
// from the user table by the repository; it is not persisted on the message
// row itself.
type Message struct {
	ID             string    `db:"id"`
	ConversationID string    `db:"conversation_id"`
	SenderID       string    `db:"sender_id"`
	SenderName     string    `db:"sender_name"`
	Body           string    `db:"message"`
	IsRead         bool      `db:"is_read"`
	CreatedAt      time.Time `db:"created_at"`
}

// NewMessage validates and shapes a message ready to persist. The body is
// trimmed, must be non-empty and at most MaxMessageLen characters. New
// messages always start unread.
func NewMessage(conversationID, senderID, body string) (*Message, error) {
	if conversationID == "" || senderID == "" {
		return nil, ErrInvalidConversation
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(body) > MaxMessageLen {
		return nil, ErrMessageTooLong
	}

	return &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		IsRead:         false,
	}, nil
}
