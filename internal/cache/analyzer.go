package cache

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"
)

// Analyzer produces a raw analysis payload for a product URL
type Analyzer interface {
	Analyze(ctx context.Context, productURL string) (map[string]any, error)
}

// CachedAnalyzer serves repeat submissions from a cache.
// Only successful payloads are stored.
type CachedAnalyzer struct {
	next   Analyzer
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedAnalyzer wraps next with cache
func NewCachedAnalyzer(next Analyzer, c Cache, ttl time.Duration, logger *slog.Logger) *CachedAnalyzer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CachedAnalyzer{next: next, cache: c, ttl: ttl, logger: logger}
}

// Analyze implements Analyzer
func (a *CachedAnalyzer) Analyze(ctx context.Context, productURL string) (map[string]any, error) {
	key := Key(productURL)

	if data, ok := a.cache.Get(key); ok {
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err == nil {
			a.logger.Debug("analysis served from cache", "url", productURL)
			return raw, nil
		}
		_ = a.cache.Delete(key)
	}

	raw, err := a.next.Analyze(ctx, productURL)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(raw)
	if err == nil {
		err = a.cache.Set(key, data, a.ttl)
	}
	if err != nil {
		a.logger.Warn("failed to cache analysis", "url", productURL, "error", err)
	}

	return raw, nil
}
