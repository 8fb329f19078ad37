package usecase

import (
	"context"
	"fmt"

	chat "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/application/domain"
	repository "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/persistence/repository/port"
)

// GetOrCreateConversationInput carries the identity tuple for resolving a
// conversation. Exactly one of BookingID/StoreID must be set, matching Type.
type GetOrCreateConversationInput struct {
	UserID    string
	Type      chat.ConversationType
	BookingID *int64
	StoreID   *int64
}

// GetOrCreateConversationUseCase resolves the conversation for a
// (user, counterpart) pair, creating it on first contact. Identical tuples
// always resolve to the same conversation.
type GetOrCreateConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewGetOrCreateConversationUseCase(repo repository.ChatRepository) *GetOrCreateConversationUseCase {
	return &GetOrCreateConversationUseCase{Repo: repo}
}

func (uc *GetOrCreateConversationUseCase) Execute(ctx context.Context, in GetOrCreateConversationInput) (*chat.Conversation, error) {
	conv, err := chat.NewConversation(in.UserID, in.Type, in.BookingID, in.StoreID)
	if err != nil {
		return nil, err
	}

	out, err := uc.Repo.GetOrCreateConversation(ctx, *conv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &out, nil
}
