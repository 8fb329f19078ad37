package usecase

import (
	"context"
	"fmt"

	chat "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/application/domain"
	repository "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/persistence/repository/port"
)

// ListConversationsInput wraps the viewing user.
type ListConversationsInput struct {
	UserID string
}

// ListConversationsUseCase returns the user's conversations newest-activity
// first, each enriched with last message and unread tally. Enrichment is
// batch-computed by the repository, not per-row.
type ListConversationsUseCase struct {
	Repo repository.ChatRepository
}

func NewListConversationsUseCase(repo repository.ChatRepository) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]chat.ConversationSummary, error) {
	if in.UserID == "" {
		return nil, chat.ErrUserRequired
	}
	summaries, err := uc.Repo.ListConversationsByUser(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return summaries, nil
}
