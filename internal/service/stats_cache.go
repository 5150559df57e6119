package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"llm-usage-ledger/internal/core/cache"
)

// StatsCache 统计结果的读穿缓存。
// 每次写账本都会 INCR 代数计数器，缓存 key 带代数，所以旧结果最多落后一次提交。
// nil 或未配置 redis 时直接回源。
type StatsCache struct {
	c      *cache.Cache
	ttl    time.Duration
	prefix string
	log    *zap.Logger
}

func NewStatsCache(c *cache.Cache, ttl time.Duration, prefix string, l *zap.Logger) *StatsCache {
	if prefix == "" {
		prefix = "ledger"
	}
	return &StatsCache{c: c, ttl: ttl, prefix: prefix, log: l}
}

func (s *StatsCache) enabled() bool { return s != nil && s.c != nil }

func (s *StatsCache) genKey() string { return s.prefix + ":gen" }

// Invalidate 写操作提交后调用
func (s *StatsCache) Invalidate(ctx context.Context) {
	if !s.enabled() {
		return
	}
	if _, err := s.c.Incr(ctx, s.genKey()); err != nil {
		s.log.Warn("stats cache invalidate failed", zap.Error(err))
	}
}

func cachedStats[T any](ctx context.Context, s *StatsCache, key string, load func(context.Context) (T, error)) (T, error) {
	if !s.enabled() {
		return load(ctx)
	}
	gen, err := s.c.Counter(ctx, s.genKey())
	if err != nil {
		// 拿不到代数就不能保证新鲜度，直接回源
		s.log.Warn("stats cache unavailable", zap.Error(err))
		return load(ctx)
	}
	return cache.GetOrLoadJSON(s.c, ctx, fmt.Sprintf("%s:stats:%s:g%d", s.prefix, key, gen), s.ttl, load)
}
