package draft

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Repository persists one draft per key.
type Repository[T any] interface {
	Save(ctx context.Context, key string, value T) error
	// Load returns ErrDraftNotFound when no draft is stored under key.
	Load(ctx context.Context, key string) (T, error)
	Delete(ctx context.Context, key string) error
}

// MemoryRepository keeps encoded drafts in memory.
type MemoryRepository[T any] struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository[T any]() *MemoryRepository[T] {
	return &MemoryRepository[T]{drafts: make(map[string][]byte)}
}

func (r *MemoryRepository[T]) Save(ctx context.Context, key string, value T) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[key] = data
	return nil
}

func (r *MemoryRepository[T]) Load(ctx context.Context, key string) (T, error) {
	var value T
	if err := ctx.Err(); err != nil {
		return value, err
	}

	r.mu.RLock()
	data, ok := r.drafts[key]
	r.mu.RUnlock()

	if !ok {
		return value, ErrDraftNotFound
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("decode draft: %w", err)
	}
	return value, nil
}

func (r *MemoryRepository[T]) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, key)
	return nil
}

// RedisRepository stores drafts as JSON strings in Redis.
type RedisRepository[T any] struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisRepository.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix string
	ttl    time.Duration
}

// WithPrefix sets the key prefix. Default is "draft:".
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.prefix = prefix
	}
}

// WithTTL expires drafts after ttl. Zero keeps them until deleted. Default is 24h.
func WithTTL(ttl time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.ttl = ttl
	}
}

// NewRedisRepository returns a repository backed by client.
func NewRedisRepository[T any](client redis.UniversalClient, opts ...RedisOption) *RedisRepository[T] {
	o := redisOptions{prefix: "draft:", ttl: 24 * time.Hour}
	for _, opt := range opts {
		opt(&o)
	}
	return &RedisRepository[T]{client: client, prefix: o.prefix, ttl: o.ttl}
}

func (r *RedisRepository[T]) Save(ctx context.Context, key string, value T) error {
	if key == "" {
		return ErrEmptyKey
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (r *RedisRepository[T]) Load(ctx context.Context, key string) (T, error) {
	var value T

	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return value, ErrDraftNotFound
	}
	if err != nil {
		return value, fmt.Errorf("load draft: %w", err)
	}

	if err := json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("decode draft: %w", err)
	}
	return value, nil
}

func (r *RedisRepository[T]) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
