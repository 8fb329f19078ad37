package usecase

import (
	"context"
	"fmt"
	"strconv"

	cacheport "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/cache/port"
	chat "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/application/domain"
	"github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/application/task"
	repository "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/persistence/repository/port"
)

// UnreadCountInput wraps the viewing user.
type UnreadCountInput struct {
	UserID string
}

// UnreadCountUseCase returns the user's total unread tally across all
// conversations (the badge). Read-through cached: the worker refreshes the
// value after sends, opens invalidate it, and a miss here recomputes it.
type UnreadCountUseCase struct {
	Repo  repository.ChatRepository
	Cache cacheport.Cache // optional; nil goes straight to the store
}

func NewUnreadCountUseCase(repo repository.ChatRepository, cache cacheport.Cache) *UnreadCountUseCase {
	return &UnreadCountUseCase{Repo: repo, Cache: cache}
}

func (uc *UnreadCountUseCase) Execute(ctx context.Context, in UnreadCountInput) (int64, error) {
	if in.UserID == "" {
		return 0, chat.ErrUserRequired
	}

	key := task.UnreadBadgeCacheKey(in.UserID)
	if uc.Cache != nil {
		if raw, err := uc.Cache.Get(ctx, key); err == nil {
			if n, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
				return n, nil
			}
		}
		// Miss, outage or a mangled value all fall through to the store.
	}

	n, err := uc.Repo.CountUnreadForUser(ctx, in.UserID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if uc.Cache != nil {
		_ = uc.Cache.Set(ctx, key, strconv.FormatInt(n, 10), task.UnreadBadgeTTL)
	}
	return n, nil
}
