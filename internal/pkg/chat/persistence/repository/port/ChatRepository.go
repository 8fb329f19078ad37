package repository

import (
	"context"

	chat "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence operations for the chat domain.
// Conversations and messages are append-mostly: conversations are never
// deleted and the only message mutation is the one-way unread -> read flip.
type ChatRepository interface {
	// GetOrCreateConversation returns the existing conversation matching
	// c's identity tuple or atomically creates one. Concurrent calls for
	// the same tuple must never produce duplicate rows.
	GetOrCreateConversation(ctx context.Context, c chat.Conversation) (chat.Conversation, error)

	// GetConversation fetches a conversation by id, returning
	// chat.ErrConversationNotFound when absent.
	GetConversation(ctx context.Context, id string) (chat.Conversation, error)

	// ListConversationsByUser returns the user's conversations ordered by
	// updated_at descending, each carrying its last message and the user's
	// unread tally, batch-computed in a single query.
	ListConversationsByUser(ctx context.Context, userID string) ([]chat.ConversationSummary, error)

	// SaveMessage persists m and bumps the conversation's updated_at in the
	// same transaction. The stored message is returned with its generated id
	// and timestamp; SenderName passes through as supplied by the caller.
	SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error)

	// ListMessages returns all messages of the conversation ascending by
	// creation time, each with sender identity attached.
	ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error)

	// MarkConversationRead flips every unread message in the conversation
	// not authored by readerID to read, returning how many were flipped.
	// Already-read messages are untouched, so the call is idempotent.
	MarkConversationRead(ctx context.Context, conversationID, readerID string) (int64, error)

	// CountUnreadForUser returns the total unread tally across all of the
	// user's conversations (the badge value).
	CountUnreadForUser(ctx context.Context, userID string) (int64, error)
}
