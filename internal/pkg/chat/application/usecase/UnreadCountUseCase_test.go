package usecase

import (
	"context"
	"testing"

	"github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/application/task"
)

func TestUnreadCount_ComputesAndCaches(t *testing.T) {
	repo := newFakeRepo()
	cache := newMapCache()
	conv := seedConversation(t, repo, "alice", "bob")
	sendAll(t, repo, conv.ID, "bob", "one", "two", "three")

	uc := NewUnreadCountUseCase(repo, cache)
	n, err := uc.Execute(context.Background(), UnreadCountInput{UserID: "alice"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if n != 3 {
		t.Errorf("unread = %d, want 3", n)
	}

	if raw, err := cache.Get(context.Background(), task.UnreadBadgeCacheKey("alice")); err != nil || raw != "3" {
		t.Errorf("cache entry = %q (%v), want \"3\"", raw, err)
	}
}

func TestUnreadCount_ServesFromCache(t *testing.T) {
	repo := newFakeRepo()
	cache := newMapCache()
	_ = cache.Set(context.Background(), task.UnreadBadgeCacheKey("alice"), "42", 0)

	uc := NewUnreadCountUseCase(repo, cache)
	n, err := uc.Execute(context.Background(), UnreadCountInput{UserID: "alice"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if n != 42 {
		t.Errorf("unread = %d, want cached 42", n)
	}
}

func TestUnreadCount_NilCacheGoesToStore(t *testing.T) {
	repo := newFakeRepo()
	conv := seedConversation(t, repo, "alice", "bob")
	sendAll(t, repo, conv.ID, "bob", "hi")

	uc := NewUnreadCountUseCase(repo, nil)
	n, err := uc.Execute(context.Background(), UnreadCountInput{UserID: "alice"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if n != 1 {
		t.Errorf("unread = %d, want 1", n)
	}
}
