// Package cachemanager provides generic TTL caches and the parse cache built
// on them.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a TTL keyed store.
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
	Len() int
}
