// package tokencache persists the single OAuth token behind [oauth.TokenCache].
//
// Every backend loads the stored token once when opened and writes through on Update.
// An absent or unreadable stored value starts the cache empty.
package tokencache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotkit/internal/oauth"
	"github.com/desertthunder/spotkit/internal/shared"
)

// Error is a persistence failure from a cache backend.
type Error struct {
	Backend string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("token cache (%s) %s: %v", e.Backend, e.Op, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{shared.ErrCache, e.Err}
}

// Store reads and writes the persisted token.
//
// Load returns (nil, nil) when nothing is stored. Undecodable data is reported
// with an error wrapping [shared.ErrDecode].
type Store interface {
	Name() string
	Load(ctx context.Context) (*oauth.Token, error)
	Save(ctx context.Context, token oauth.Token) error
}

// Cache is an [oauth.TokenCache] that writes through to a [Store].
type Cache struct {
	store  Store
	logger *log.Logger

	writeMu sync.Mutex // serializes Update
	mu      sync.RWMutex
	token   *oauth.Token
}

// New loads the current token from store and returns a cache around it.
func New(ctx context.Context, store Store, logger *log.Logger) (*Cache, error) {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	c := &Cache{store: store, logger: logger}

	token, err := store.Load(ctx)
	switch {
	case errors.Is(err, shared.ErrDecode):
		logger.Warn("ignoring unreadable stored token", "backend", store.Name(), "error", err)
	case err != nil:
		return nil, &Error{Backend: store.Name(), Op: "load", Err: err}
	default:
		c.token = token
	}

	return c, nil
}

// Current returns a copy of the cached token, or nil when empty.
func (c *Cache) Current() *oauth.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == nil {
		return nil
	}
	t := *c.token
	return &t
}

// Update persists token and then replaces the cached value. On a persistence
// failure the previous token stays current.
func (c *Cache) Update(ctx context.Context, token oauth.Token) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.store.Save(ctx, token); err != nil {
		return &Error{Backend: c.store.Name(), Op: "save", Err: err}
	}

	c.mu.Lock()
	c.token = &token
	c.mu.Unlock()
	c.logger.Debug("token stored", "backend", c.store.Name(), "expires_at", token.ExpiresAt)
	return nil
}

// Backend names the store behind the cache.
func (c *Cache) Backend() string {
	return c.store.Name()
}

// Close releases the store's resources when it holds any.
func (c *Cache) Close() error {
	if closer, ok := c.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Open builds the cache selected by cfg.Backend.
func Open(ctx context.Context, cfg shared.CacheConfig, logger *log.Logger) (*Cache, error) {
	var (
		store Store
		err   error
	)

	switch strings.ToLower(cfg.Backend) {
	case "", "file":
		store, err = NewFileStore(cfg.File.Path)
	case "sqlite":
		store, err = OpenSQLiteStore(ctx, cfg.SQLite)
	case "redis":
		store, err = NewRedisStore(ctx, cfg.Redis)
	case "s3":
		store, err = NewS3Store(cfg.S3)
	case "memory":
		store = &MemoryStore{}
	default:
		return nil, fmt.Errorf("%w: unknown cache backend %q", shared.ErrInvalidConfig, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	c, err := New(ctx, store, logger)
	if err != nil {
		if closer, ok := store.(io.Closer); ok {
			closer.Close()
		}
		return nil, err
	}
	return c, nil
}

// MemoryStore keeps the token in process. It backs the "memory" backend and tests.
type MemoryStore struct {
	mu    sync.Mutex
	token *oauth.Token
	Saves int
	Err   error
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Load(context.Context) (*oauth.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return nil, nil
	}
	t := *m.token
	return &t, nil
}

func (m *MemoryStore) Save(_ context.Context, token oauth.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.token = &token
	m.Saves++
	return nil
}
