package cachemanager

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"time"

	"github.com/lumos-rgb/lumos/internal/areaspec"
	"github.com/lumos-rgb/lumos/internal/log"
)

// ParseCacheConfig configures a ParseCache.
type ParseCacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Options areaspec.Options
}

// ParseCache memoises areaspec parses keyed by the SHA-256 of the input.
type ParseCache struct {
	manager *InMemoryCacheManager[string, areaspec.Document]
	reader  *ReadThroughCache[string, areaspec.Document, string]
	ttl     time.Duration
}

// NewParseCache creates a parse cache. A zero TTL uses DefaultExpiration.
func NewParseCache(cfg ParseCacheConfig) *ParseCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultExpiration
	}

	manager := NewInMemoryCacheManager[string, areaspec.Document]("parse", ttl, DefaultCleanupInterval)
	opts := cfg.Options
	parse := func(_ context.Context, input string) (areaspec.Document, error) {
		doc, err := areaspec.ParseWithOptions(input, opts)
		if err != nil {
			log.Debug(log.CatParse, "parse failed", "chars", len(input), "error", err)
			return nil, err
		}
		log.Debug(log.CatParse, "parsed", "chars", len(input), "areas", len(doc))
		return doc, nil
	}

	return &ParseCache{
		manager: manager,
		reader:  NewReadThroughCache[string, areaspec.Document, string](manager, parse, !cfg.Enabled),
		ttl:     ttl,
	}
}

// Parse returns the document for input, parsing only on a cache miss.
// The returned document is a copy the caller may modify.
func (c *ParseCache) Parse(ctx context.Context, input string) (areaspec.Document, error) {
	doc, err := c.reader.GetWithRefresh(ctx, Key(input), input, c.ttl)
	if err != nil {
		return nil, err
	}
	return slices.Clone(doc), nil
}

// Len returns the number of cached documents.
func (c *ParseCache) Len() int {
	return c.manager.Len()
}

// Key returns the cache key for a specification text.
func Key(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
