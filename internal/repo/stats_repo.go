package repo

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"llm-usage-ledger/internal/domain"
)

// StatsRepo 聚合查询；金额 = 总 token × 单价，整数运算
type StatsRepo struct{ base }

// CatalogStats 所有存活 LLM 左连接其存活用量；无用量的 LLM 也返回 0
func (r *StatsRepo) CatalogStats(ctx context.Context) ([]domain.LlmUsageStat, error) {
	ctx, span := tracer.Start(ctx, "StatsRepo.CatalogStats")
	defer span.End()

	rows := make([]domain.LlmUsageStat, 0)
	err := r.db.WithContext(ctx).
		Table("llms AS l").
		Select("l.id AS id, l.name AS name, " +
			"COALESCE(SUM(u.used_token), 0) AS total_used_token, " +
			"COALESCE(SUM(u.used_token), 0) * l.price_per_token AS total_price").
		Joins("LEFT JOIN llm_usages AS u ON u.llm_id = l.id AND u.is_deleted = ?", false).
		Where("l.is_deleted = ?", false).
		Group("l.id, l.name, l.price_per_token").
		Order("l.id ASC").
		Scan(&rows).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	return rows, nil
}

// UserStats 内连接：只返回该用户实际用过的存活 LLM
func (r *StatsRepo) UserStats(ctx context.Context, userID int64) ([]domain.LlmUsageStat, error) {
	ctx, span := tracer.Start(ctx, "StatsRepo.UserStats",
		trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	rows := make([]domain.LlmUsageStat, 0)
	err := r.db.WithContext(ctx).
		Table("llm_usages AS u").
		Select("l.id AS id, l.name AS name, "+
			"SUM(u.used_token) AS total_used_token, "+
			"SUM(u.used_token) * l.price_per_token AS total_price").
		Joins("JOIN llms AS l ON l.id = u.llm_id").
		Where("u.user_id = ? AND u.is_deleted = ? AND l.is_deleted = ?", userID, false, false).
		Group("l.id, l.name, l.price_per_token").
		Order("l.id ASC").
		Scan(&rows).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return rows, nil
}
