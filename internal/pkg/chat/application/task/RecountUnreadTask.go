package task

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	cacheport "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/cache/port"
	qport "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/queue/port"
	repository "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/persistence/repository/port"
)

// RecountUnreadTaskType is the queue task name for refreshing a user's
// cached unread badge after conversation activity.
const RecountUnreadTaskType = "chat:recount_unread"

// UnreadBadgeTTL bounds staleness of a cached badge even if refresh tasks
// are lost.
const UnreadBadgeTTL = time.Hour

// UnreadBadgeCacheKey returns the cache key for a user's total unread tally.
func UnreadBadgeCacheKey(userID string) string {
	return "chat:unread:" + userID
}

// RecountUnreadTaskPayload is the JSON payload transported via the queue.
type RecountUnreadTaskPayload struct {
	UserID string `json:"userId"`
}

// EnqueueRecountUnread schedules a badge refresh for the user. UniqueTTL
// collapses bursts of sends into one recount.
func EnqueueRecountUnread(ctx context.Context, q qport.Client, userID string) error {
	b, err := json.Marshal(RecountUnreadTaskPayload{UserID: userID})
	if err != nil {
		return err
	}
	_, err = q.Enqueue(ctx, qport.Task{Type: RecountUnreadTaskType, Payload: b},
		qport.EnqueueOption{Queue: "chat", MaxRetry: 5, UniqueTTL: 10 * time.Second})
	return err
}

// RegisterRecountUnreadTask binds the task handler to the worker server.
// The handler recomputes the user's unread total from the store and writes
// it through to the cache.
func RegisterRecountUnreadTask(srv qport.Server, repo repository.ChatRepository, cache cacheport.Cache) {
	srv.Register(RecountUnreadTaskType, func(ctx context.Context, t qport.Task) error {
		var p RecountUnreadTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// Malformed payload will never become valid; don't retry.
			return nil
		}
		if p.UserID == "" {
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		n, err := repo.CountUnreadForUser(ctx, p.UserID)
		if err != nil {
			return err
		}
		return cache.Set(ctx, UnreadBadgeCacheKey(p.UserID), strconv.FormatInt(n, 10), UnreadBadgeTTL)
	})
}
