package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	bport "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/broadcast/port"
	cacheport "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/cache/port"
	identityport "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/identity/port"
	qport "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/queue/port"
	chat "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/application/domain"
)

// fakeChatRepository is an in-memory stand-in for the Postgres adapter with
// the same observable semantics: tuple-unique get-or-create, touch on save,
// idempotent mark-read, batch summaries.
type fakeChatRepository struct {
	mu            sync.Mutex
	conversations map[string]chat.Conversation
	messages      map[string][]chat.Message
	names         map[string]string
	base          time.Time
	seq           int
}

func newFakeRepo() *fakeChatRepository {
	return &fakeChatRepository{
		conversations: make(map[string]chat.Conversation),
		messages:      make(map[string][]chat.Message),
		names:         make(map[string]string),
		base:          time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *fakeChatRepository) tick() time.Time {
	r.seq++
	return r.base.Add(time.Duration(r.seq) * time.Millisecond)
}

func tupleKey(c chat.Conversation) string {
	b, s := int64(-1), int64(-1)
	if c.BookingID != nil {
		b = *c.BookingID
	}
	if c.StoreID != nil {
		s = *c.StoreID
	}
	return fmt.Sprintf("%s|%s|%d|%d", c.UserID, c.Type, b, s)
}

func (r *fakeChatRepository) GetOrCreateConversation(_ context.Context, c chat.Conversation) (chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := tupleKey(c)
	for _, existing := range r.conversations {
		if tupleKey(existing) == key {
			return existing, nil
		}
	}
	now := r.tick()
	c.ID = fmt.Sprintf("conv-%d", len(r.conversations)+1)
	c.CreatedAt = now
	c.UpdatedAt = now
	r.conversations[c.ID] = c
	return c, nil
}

func (r *fakeChatRepository) GetConversation(_ context.Context, id string) (chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[id]
	if !ok {
		return chat.Conversation{}, chat.ErrConversationNotFound
	}
	return c, nil
}

func (r *fakeChatRepository) ListConversationsByUser(_ context.Context, userID string) ([]chat.ConversationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var summaries []chat.ConversationSummary
	for _, c := range r.conversations {
		if c.UserID != userID {
			continue
		}
		s := chat.ConversationSummary{Conversation: c}
		msgs := r.messages[c.ID]
		if len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			s.LastMessage = &last
		}
		for _, m := range msgs {
			if !m.IsRead && m.SenderID != userID {
				s.UnreadCount++
			}
		}
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

func (r *fakeChatRepository) SaveMessage(_ context.Context, m chat.Message) (chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[m.ConversationID]
	if !ok {
		return chat.Message{}, chat.ErrConversationNotFound
	}
	now := r.tick()
	m.ID = fmt.Sprintf("msg-%d", r.seq)
	m.CreatedAt = now
	r.messages[m.ConversationID] = append(r.messages[m.ConversationID], m)
	c.UpdatedAt = now
	r.conversations[m.ConversationID] = c
	return m, nil
}

func (r *fakeChatRepository) ListMessages(_ context.Context, conversationID string) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[conversationID]
	out := make([]chat.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (r *fakeChatRepository) MarkConversationRead(_ context.Context, conversationID, readerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var flipped int64
	msgs := r.messages[conversationID]
	for i := range msgs {
		if !msgs[i].IsRead && msgs[i].SenderID != readerID {
			msgs[i].IsRead = true
			flipped++
		}
	}
	return flipped, nil
}

func (r *fakeChatRepository) CountUnreadForUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.conversations {
		if c.UserID != userID {
			continue
		}
		for _, m := range r.messages[c.ID] {
			if !m.IsRead && m.SenderID != userID {
				n++
			}
		}
	}
	return n, nil
}

// fakeIdentityProvider resolves display names from the repo's name table.
type fakeIdentityProvider struct {
	repo *fakeChatRepository
}

func newFakeIdentity(repo *fakeChatRepository) *fakeIdentityProvider {
	return &fakeIdentityProvider{repo: repo}
}

func (p *fakeIdentityProvider) Authenticate(context.Context, string) (identityport.User, error) {
	return identityport.User{}, identityport.ErrUnauthenticated
}

func (p *fakeIdentityProvider) Lookup(_ context.Context, userID string) (identityport.User, error) {
	p.repo.mu.Lock()
	defer p.repo.mu.Unlock()
	name, ok := p.repo.names[userID]
	if !ok {
		return identityport.User{}, identityport.ErrUnknownUser
	}
	return identityport.User{ID: userID, Name: name}, nil
}

// recordingPublisher captures published events and their exclusion targets.
type recordingPublisher struct {
	mu       sync.Mutex
	events   []bport.Event
	excluded []string
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, event bport.Event, excludeUserID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	p.excluded = append(p.excluded, excludeUserID)
	return nil
}

// recordingQueue captures enqueued tasks.
type recordingQueue struct {
	mu    sync.Mutex
	tasks []qport.Task
}

func (q *recordingQueue) Enqueue(_ context.Context, t qport.Task, _ ...qport.EnqueueOption) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, t)
	return fmt.Sprintf("task-%d", len(q.tasks)), nil
}

func (q *recordingQueue) Close() error { return nil }

// mapCache is a TTL-less in-memory cache.
type mapCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string]string)} }

func (c *mapCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *mapCache) Del(_ context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := c.data[k]; ok {
			delete(c.data, k)
			n++
		}
	}
	return n, nil
}

func (c *mapCache) Ping(context.Context) error { return nil }
func (c *mapCache) Close() error               { return nil }

var errBroken = errors.New("transport down")
