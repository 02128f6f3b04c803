// Package cache wraps redis with tag-key invalidation. Every cached key is
// recorded in the "<tag>:cached_keys" set so a write can drop all keys of a
// tag in one call. A nil client disables caching entirely.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	TagCatalog  = "catalog"
	TagUpcoming = "upcoming"
)

type Store struct {
	rdb   *redis.Client
	group singleflight.Group
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Enabled reports whether a redis client is attached.
func (s *Store) Enabled() bool {
	return s != nil && s.rdb != nil
}

func tagKey(tag string) string {
	return tag + ":cached_keys"
}

// Remember returns the cached value at key, or calls load, caches its result
// under tag and returns it. Concurrent misses for one key share a single load.
func Remember[T any](ctx context.Context, s *Store, key, tag string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if !s.Enabled() {
		return load(ctx)
	}

	if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil && len(cached) > 0 {
		var out T
		if jsonErr := json.Unmarshal(cached, &out); jsonErr == nil {
			return out, nil
		}
	} else if err != nil && !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Str("key", key).Msg("[Cache] read failed")
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		value, err := load(ctx)
		if err != nil {
			return value, err
		}
		s.store(ctx, key, tag, ttl, value)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Put stores value under key regardless of what is cached.
func Put[T any](ctx context.Context, s *Store, key, tag string, ttl time.Duration, value T) {
	if !s.Enabled() {
		return
	}
	s.store(ctx, key, tag, ttl, value)
}

func (s *Store) store(ctx context.Context, key, tag string, ttl time.Duration, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[Cache] marshal failed")
		return
	}
	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, key, payload, ttl)
	pipe.SAdd(ctx, tagKey(tag), key)
	pipe.Expire(ctx, tagKey(tag), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[Cache] write failed")
	}
}

// Invalidate drops every key recorded under tag.
func (s *Store) Invalidate(ctx context.Context, tag string) {
	if !s.Enabled() {
		return
	}
	keys, err := s.rdb.SMembers(ctx, tagKey(tag)).Result()
	if err != nil {
		log.Warn().Err(err).Str("tag", tag).Msg("[Cache] invalidate failed")
		return
	}
	keys = append(keys, tagKey(tag))
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Str("tag", tag).Msg("[Cache] invalidate failed")
	}
}

// GetBytes returns raw bytes for key; ok is false on a miss.
func (s *Store) GetBytes(ctx context.Context, key string) ([]byte, bool) {
	if !s.Enabled() {
		return nil, false
	}
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

// SetBytes stores raw bytes without a tag.
func (s *Store) SetBytes(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if !s.Enabled() {
		return
	}
	if err := s.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[Cache] write failed")
	}
}
