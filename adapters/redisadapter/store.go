package redisadapter

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-countrygate/country"
	"github.com/goliatone/go-countrygate/ferrors"
	"github.com/goliatone/go-countrygate/preference"
	"github.com/goliatone/go-countrygate/scope"
)

// DefaultPrefix namespaces preference keys.
const DefaultPrefix = "countrygate"

// ErrClientRequired indicates the redis client is missing.
var ErrClientRequired = errors.New("redisadapter: client is required")

// Store keeps one redis string per key and scope level.
type Store struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// Option customizes the redis store.
type Option func(*Store)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if s == nil {
			return
		}
		s.prefix = strings.Trim(strings.TrimSpace(prefix), ":")
	}
}

// WithTTL expires stored preferences after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if s == nil || ttl < 0 {
			return
		}
		s.ttl = ttl
	}
}

// NewStore builds a redis-backed preference backend.
func NewStore(client redis.Cmdable, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.prefix == "" {
		s.prefix = DefaultPrefix
	}
	return s
}

// Key returns the redis key for a preference at one scope level.
func (s *Store) Key(key string, ref scope.Ref) string {
	parts := []string{s.prefix, strings.TrimSpace(key), string(ref.Kind)}
	if ref.ID != "" {
		parts = append(parts, ref.ID)
	}
	return strings.Join(parts, ":")
}

// Get implements preference.Backend.
func (s *Store) Get(ctx context.Context, key string, scopeSet scope.Set) (string, bool, error) {
	if s == nil || s.client == nil {
		return "", false, ErrClientRequired
	}
	for _, ref := range scopeSet.ReadChain() {
		redisKey := s.Key(key, ref)
		value, err := s.client.Get(ctx, redisKey).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", false, wrap(err, ferrors.TextCodeStoreReadFailed, "get", redisKey)
		}
		if code := country.NormalizeCode(value); code != "" {
			return code, true, nil
		}
	}
	return "", false, nil
}

// Set implements preference.Backend.
func (s *Store) Set(ctx context.Context, key string, scopeSet scope.Set, code string) error {
	if s == nil || s.client == nil {
		return ErrClientRequired
	}
	redisKey := s.Key(key, scopeSet.WriteRef())
	if err := s.client.Set(ctx, redisKey, country.NormalizeCode(code), s.ttl).Err(); err != nil {
		return wrap(err, ferrors.TextCodeStoreWriteFailed, "set", redisKey)
	}
	return nil
}

// Delete removes the value at the write level of scopeSet.
func (s *Store) Delete(ctx context.Context, key string, scopeSet scope.Set) error {
	if s == nil || s.client == nil {
		return ErrClientRequired
	}
	redisKey := s.Key(key, scopeSet.WriteRef())
	if err := s.client.Del(ctx, redisKey).Err(); err != nil {
		return wrap(err, ferrors.TextCodeStoreWriteFailed, "delete", redisKey)
	}
	return nil
}

func wrap(err error, textCode, operation, key string) error {
	return ferrors.WrapExternal(err, textCode, "redisadapter: "+operation+" failed", map[string]any{
		ferrors.MetaAdapter:   "redis",
		ferrors.MetaOperation: operation,
		ferrors.MetaPath:      key,
	})
}

var _ preference.Backend = (*Store)(nil)
