package oauth

import (
	"context"
	"sync"

	"github.com/desertthunder/spotkit/internal/shared"
	"golang.org/x/oauth2"
)

// TokenCache stores the single current token.
//
// Current never blocks on I/O and never fails; it returns nil when the cache is empty.
// Update must fully replace the stored token before returning nil, so that a later
// Current never observes a partial write.
type TokenCache interface {
	Current() *Token
	Update(ctx context.Context, token Token) error
}

// MemoryCache is an in-process [TokenCache]. The zero value is an empty cache.
type MemoryCache struct {
	mu    sync.RWMutex
	token *Token
}

// NewMemoryCache returns a cache primed with token, or an empty cache when token is nil.
func NewMemoryCache(token *Token) *MemoryCache {
	c := &MemoryCache{}
	if token != nil {
		t := *token
		c.token = &t
	}
	return c
}

// Current returns a copy of the cached token.
func (c *MemoryCache) Current() *Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == nil {
		return nil
	}
	t := *c.token
	return &t
}

// Update replaces the cached token.
func (c *MemoryCache) Update(_ context.Context, token Token) error {
	c.mu.Lock()
	c.token = &token
	c.mu.Unlock()
	return nil
}

type cacheTokenSource struct {
	cache TokenCache
}

// TokenSource exposes the cache's current token as an [oauth2.TokenSource].
//
// It never refreshes; an empty cache yields [shared.ErrMissingToken].
func TokenSource(cache TokenCache) oauth2.TokenSource {
	return cacheTokenSource{cache: cache}
}

func (s cacheTokenSource) Token() (*oauth2.Token, error) {
	tok := s.cache.Current()
	if tok == nil {
		return nil, shared.ErrMissingToken
	}
	return tok.OAuth2(), nil
}
