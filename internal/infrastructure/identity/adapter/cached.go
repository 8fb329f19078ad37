package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	cacheport "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/cache/port"
	"github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/identity/port"
)

const lookupTTL = 5 * time.Minute

// CachedProvider wraps a Provider with a cache for Lookup calls. The sender's
// display name is looked up on every message send, so this is the hot path
// worth shielding. Authenticate is never cached: token revocation must take
// effect immediately.
type CachedProvider struct {
	inner port.Provider
	cache cacheport.Cache
}

func NewCachedProvider(inner port.Provider, cache cacheport.Cache) *CachedProvider {
	return &CachedProvider{inner: inner, cache: cache}
}

var _ port.Provider = (*CachedProvider)(nil)

func (p *CachedProvider) Authenticate(ctx context.Context, token string) (port.User, error) {
	return p.inner.Authenticate(ctx, token)
}

func (p *CachedProvider) Lookup(ctx context.Context, userID string) (port.User, error) {
	key := "identity:user:" + userID
	if raw, err := p.cache.Get(ctx, key); err == nil {
		var u port.User
		if json.Unmarshal([]byte(raw), &u) == nil {
			return u, nil
		}
	} else if !errors.Is(err, cacheport.ErrMiss) {
		// Cache outage: fall through to the source of truth.
		return p.inner.Lookup(ctx, userID)
	}

	u, err := p.inner.Lookup(ctx, userID)
	if err != nil {
		return port.User{}, err
	}
	if raw, err := json.Marshal(u); err == nil {
		_ = p.cache.Set(ctx, key, string(raw), lookupTTL)
	}
	return u, nil
}
