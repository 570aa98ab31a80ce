package tokencache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/spotkit/internal/oauth"
	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "spotkit:token"

// RedisStore keeps the token as JSON under one key. No TTL is set: the refresh
// token outlives the access token.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to the server in cfg and verifies it answers.
func NewRedisStore(ctx context.Context, cfg shared.RedisCacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, &Error{Backend: "redis", Op: "connect", Err: err}
	}

	return NewRedisStoreWithClient(client, cfg.Key), nil
}

// NewRedisStoreWithClient wraps an existing client. An empty key uses "spotkit:token".
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Name() string { return "redis" }

// Key returns the key the token is stored under.
func (s *RedisStore) Key() string { return s.key }

func (s *RedisStore) Load(ctx context.Context) (*oauth.Token, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return decodeToken(data)
}

func (s *RedisStore) Save(ctx context.Context, token oauth.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
