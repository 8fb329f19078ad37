package chat

import "errors"

// Domain-level errors for chat behaviors. Controllers map these onto HTTP
// statuses; anything not listed here is treated as an infrastructure error.
var (
	ErrInvalidConversation     = errors.New("chat: conversation/message identity is incomplete")
	ErrInvalidConversationType = errors.New("chat: type must be booking or store")
	ErrCounterpartMismatch     = errors.New("chat: exactly one of booking_id or store_id must match the type")
	ErrUserRequired            = errors.New("chat: user id is required")
	ErrEmptyMessage            = errors.New("chat: message body is empty")
	ErrMessageTooLong          = errors.New("chat: message body exceeds 2000 characters")
	ErrConversationNotFound    = errors.New("chat: conversation not found")
)
