package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"llm-usage-ledger/internal/domain"
)

// UsageService 用量账本：追加记录 + 聚合统计
type UsageService struct {
	uow   domain.UnitOfWork
	stats *StatsCache
	log   *zap.Logger
}

func NewUsageService(uow domain.UnitOfWork, stats *StatsCache, l *zap.Logger) *UsageService {
	return &UsageService{uow: uow, stats: stats, log: l}
}

// InsertUsage 不检查 user / llm 是否存在，孤儿引用照样入账
func (s *UsageService) InsertUsage(ctx context.Context, in domain.NewUsage) (int64, error) {
	if in.UsedToken < 1 {
		err := domain.Invalid(domain.CodeArgumentNotValid, "usedToken must be at least 1")
		s.reject("insert_usage", err, zap.Int("used_token", in.UsedToken))
		return 0, err
	}
	var id int64
	err := s.uow.Do(ctx, func(r domain.Repositories) error {
		var err error
		id, err = r.Usages.Insert(ctx, &domain.LlmUsage{
			UserID:    in.UserID,
			LlmID:     in.LlmID,
			UsedToken: in.UsedToken,
		})
		return err
	})
	if err != nil {
		s.reject("insert_usage", err, zap.Int64("user_id", in.UserID), zap.Int64("llm_id", in.LlmID))
		return 0, domain.AsInternal(err)
	}
	usageRecordsTotal.Inc()
	tokensTotal.Add(float64(in.UsedToken))
	s.stats.Invalidate(ctx)
	s.log.Debug("usage recorded",
		zap.Int64("usage_id", id),
		zap.Int64("user_id", in.UserID),
		zap.Int64("llm_id", in.LlmID),
		zap.Int("used_token", in.UsedToken),
	)
	return id, nil
}

// CatalogUsageStats 每个存活 LLM 一行，没有用量的为 0，按 id 升序
func (s *UsageService) CatalogUsageStats(ctx context.Context) ([]domain.LlmUsageStat, error) {
	rows, err := cachedStats(ctx, s.stats, "catalog", func(ctx context.Context) ([]domain.LlmUsageStat, error) {
		var rows []domain.LlmUsageStat
		err := s.uow.Read(ctx, func(r domain.Repositories) error {
			var err error
			rows, err = r.Stats.CatalogStats(ctx)
			return err
		})
		return rows, err
	})
	if err != nil {
		s.reject("catalog_usage_stats", err)
		return nil, domain.AsInternal(err)
	}
	if rows == nil {
		rows = []domain.LlmUsageStat{}
	}
	return rows, nil
}

// UserUsageStats 用户不存在（或已软删）时返回 NotFound
func (s *UsageService) UserUsageStats(ctx context.Context, userID int64) (*domain.UserUsageReport, error) {
	key := fmt.Sprintf("user:%d", userID)
	rep, err := cachedStats(ctx, s.stats, key, func(ctx context.Context) (*domain.UserUsageReport, error) {
		var rep *domain.UserUsageReport
		err := s.uow.Read(ctx, func(r domain.Repositories) error {
			ok, err := r.Users.ExistsByID(ctx, userID)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrUserNotFound()
			}
			rows, err := r.Stats.UserStats(ctx, userID)
			if err != nil {
				return err
			}
			rep = domain.NewUserUsageReport(rows)
			return nil
		})
		return rep, err
	})
	if err != nil {
		s.reject("user_usage_stats", err, zap.Int64("user_id", userID))
		return nil, domain.AsInternal(err)
	}
	if rep.LlmUsages == nil {
		rep.LlmUsages = []domain.LlmUsageStat{}
	}
	return rep, nil
}

func (s *UsageService) reject(op string, err error, fields ...zap.Field) {
	logReject(s.log, op, err, fields...)
}
