package usecase

import (
	"context"
	"errors"
	"fmt"

	cacheport "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/cache/port"
	chat "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/application/domain"
	"github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/application/task"
	repository "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/persistence/repository/port"
)

// OpenConversationInput identifies the conversation and the viewing user.
type OpenConversationInput struct {
	ConversationID string
	UserID         string
}

// OpenConversationUseCase lists a conversation's messages ascending. Opening
// is the read-receipt trigger: every unread message from other senders is
// flipped to read first, so the returned list reflects the post-open state.
// Repeated opens are no-ops for already-read messages.
type OpenConversationUseCase struct {
	Repo  repository.ChatRepository
	Cache cacheport.Cache // optional; badge invalidation is skipped when nil
}

func NewOpenConversationUseCase(repo repository.ChatRepository, cache cacheport.Cache) *OpenConversationUseCase {
	return &OpenConversationUseCase{Repo: repo, Cache: cache}
}

func (uc *OpenConversationUseCase) Execute(ctx context.Context, in OpenConversationInput) ([]chat.Message, error) {
	if in.ConversationID == "" || in.UserID == "" {
		return nil, chat.ErrInvalidConversation
	}

	if _, err := uc.Repo.GetConversation(ctx, in.ConversationID); err != nil {
		if errors.Is(err, chat.ErrConversationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	flipped, err := uc.Repo.MarkConversationRead(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if flipped > 0 && uc.Cache != nil {
		// Stale badge is tolerable; a failed invalidation is not worth
		// failing the open.
		_, _ = uc.Cache.Del(ctx, task.UnreadBadgeCacheKey(in.UserID))
	}

	msgs, err := uc.Repo.ListMessages(ctx, in.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
