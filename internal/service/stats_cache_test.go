package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"llm-usage-ledger/internal/core/cache"
	"llm-usage-ledger/internal/domain"
	"llm-usage-ledger/internal/service"
)

func newCachedFixture(t *testing.T) (fixture, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return newFixture(t, service.NewStatsCache(c, time.Minute, "test", zap.NewNop())), mr
}

func TestStatsCache_WritesInvalidateCatalog(t *testing.T) {
	ctx := context.Background()
	f, mr := newCachedFixture(t)

	id, err := f.llms.InsertLlm(ctx, domain.NewLlm{Name: "gpt", PricePerToken: 10})
	require.NoError(t, err)
	_, err = f.usage.InsertUsage(ctx, domain.NewUsage{UserID: 1, LlmID: id, UsedToken: 100})
	require.NoError(t, err)

	first, err := f.usage.CatalogUsageStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), first[0].TotalUsedToken)

	gen, err := mr.Get("test:gen")
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:stats:catalog:g"+gen))

	_, err = f.usage.InsertUsage(ctx, domain.NewUsage{UserID: 1, LlmID: id, UsedToken: 50})
	require.NoError(t, err)

	second, err := f.usage.CatalogUsageStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(150), second[0].TotalUsedToken)
	assert.Equal(t, int64(1500), second[0].TotalPrice)
}

func TestStatsCache_ServesCachedUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	f, mr := newCachedFixture(t)

	_, err := f.llms.InsertLlm(ctx, domain.NewLlm{Name: "gpt", PricePerToken: 10})
	require.NoError(t, err)
	_, err = f.usage.CatalogUsageStats(ctx)
	require.NoError(t, err)

	gen, err := mr.Get("test:gen")
	require.NoError(t, err)
	// 直接改缓存内容，确认第二次读走的是缓存
	require.NoError(t, mr.Set("test:stats:catalog:g"+gen, `[{"id":9,"name":"cached","totalUsedToken":1,"totalPrice":1}]`))

	got, err := f.usage.CatalogUsageStats(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cached", got[0].Name)
}

func TestStatsCache_UserReportAndDeletion(t *testing.T) {
	ctx := context.Background()
	f, _ := newCachedFixture(t)

	uid, err := f.users.InsertUser(ctx, domain.NewUser{Name: "a", Email: "a@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	rep, err := f.usage.UserUsageStats(ctx, uid)
	require.NoError(t, err)
	assert.NotNil(t, rep.LlmUsages)
	assert.Empty(t, rep.LlmUsages)

	// 缓存过的空列表反序列化后仍然不是 nil
	rep, err = f.usage.UserUsageStats(ctx, uid)
	require.NoError(t, err)
	assert.NotNil(t, rep.LlmUsages)

	_, err = f.users.DeleteUser(ctx, uid)
	require.NoError(t, err)
	_, err = f.usage.UserUsageStats(ctx, uid)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestStatsCache_NotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	f, _ := newCachedFixture(t)

	_, err := f.usage.UserUsageStats(ctx, 1)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	uid, err := f.users.InsertUser(ctx, domain.NewUser{Name: "late", Email: "late@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	require.Equal(t, int64(1), uid)

	rep, err := f.usage.UserUsageStats(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, domain.UsageTotal{}, rep.UserUsages)
}

func TestStatsCache_RedisDownFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	f, mr := newCachedFixture(t)
	mr.Close()

	id, err := f.llms.InsertLlm(ctx, domain.NewLlm{Name: "gpt", PricePerToken: 2})
	require.NoError(t, err)
	_, err = f.usage.InsertUsage(ctx, domain.NewUsage{UserID: 1, LlmID: id, UsedToken: 3})
	require.NoError(t, err)

	got, err := f.usage.CatalogUsageStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.LlmUsageStat{{ID: id, Name: "gpt", TotalUsedToken: 3, TotalPrice: 6}}, got)
}
