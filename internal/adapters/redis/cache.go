package redisad

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"restaurant_rater/internal/adapters/observability"
)

// Cache implements domain.Cache on Redis; values are stored as JSON
// under "<namespace>:<key>".
type Cache struct {
	c  *redis.Client
	ns string
}

type Option func(*Cache)

// WithNamespace prefixes every key so several deployments can share one Redis DB.
func WithNamespace(ns string) Option {
	return func(r *Cache) { r.ns = ns }
}

func New(addr, pass string, db int, opts ...Option) *Cache {
	r := &Cache{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Cache) key(k string) string {
	if r.ns == "" {
		return k
	}
	return r.ns + ":" + k
}

// Get reports a miss for absent keys. An entry that no longer decodes into
// dst is deleted and reported as a miss together with the decode error.
func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	k := r.key(key)
	v, err := r.c.Get(ctx, k).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(v, dst); err != nil {
		observability.ObserveCache("redis", "corrupt")
		if derr := r.c.Del(ctx, k).Err(); derr != nil {
			log.Warn().Err(derr).Str("key", k).Msg("could not drop undecodable cache entry")
		}
		return false, fmt.Errorf("decode cached %q: %w", k, err)
	}
	observability.ObserveCache("redis", "hit")
	return true, nil
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, r.key(key), b, time.Duration(ttlSec)*time.Second).Err()
}

func (r *Cache) Del(ctx context.Context, key string) error {
	observability.ObserveCache("redis", "del")
	return r.c.Del(ctx, r.key(key)).Err()
}

func (r *Cache) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Cache) Close() error { return r.c.Close() }
