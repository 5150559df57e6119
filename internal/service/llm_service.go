package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"llm-usage-ledger/internal/domain"
	"llm-usage-ledger/internal/repo"
)

// LlmService LLM 目录：增删改查，删除时级联软删用量
type LlmService struct {
	uow   domain.UnitOfWork
	stats *StatsCache
	log   *zap.Logger
}

func NewLlmService(uow domain.UnitOfWork, stats *StatsCache, l *zap.Logger) *LlmService {
	return &LlmService{uow: uow, stats: stats, log: l}
}

func (s *LlmService) InsertLlm(ctx context.Context, in domain.NewLlm) (int64, error) {
	var id int64
	err := s.uow.Do(ctx, func(r domain.Repositories) error {
		exists, err := r.Llms.ExistsByName(ctx, in.Name)
		if err != nil {
			return err
		}
		if exists {
			return domain.DuplicateName(in.Name)
		}
		id, err = r.Llms.Insert(ctx, &domain.Llm{Name: in.Name, PricePerToken: in.PricePerToken})
		if errors.Is(err, repo.ErrDuplicateEntry) {
			// 并发插入：唯一索引兜底
			return domain.DuplicateName(in.Name)
		}
		return err
	})
	if err != nil {
		s.reject("insert_llm", err, zap.String("name", in.Name))
		return 0, domain.AsInternal(err)
	}
	s.stats.Invalidate(ctx)
	s.log.Info("llm created", zap.Int64("llm_id", id), zap.String("name", in.Name), zap.Int("price_per_token", in.PricePerToken))
	return id, nil
}

// ListLlm 名称子串过滤（区分大小写），按 id 升序
func (s *LlmService) ListLlm(ctx context.Context, name string) ([]domain.Llm, error) {
	var out []domain.Llm
	err := s.uow.Read(ctx, func(r domain.Repositories) error {
		var err error
		out, err = r.Llms.List(ctx, domain.LlmFilter{Name: name})
		return err
	})
	if err != nil {
		return nil, domain.AsInternal(err)
	}
	return out, nil
}

// UpdateLlm 不预检重名；改成已存在的名字会被唯一索引拒绝。
// 存在性单独查：有的驱动只把值真正变化的行算进影响行数
func (s *LlmService) UpdateLlm(ctx context.Context, id int64, in domain.NewLlm) (bool, error) {
	err := s.uow.Do(ctx, func(r domain.Repositories) error {
		ok, err := r.Llms.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrLlmNotFound()
		}
		_, err = r.Llms.UpdateFields(ctx, id, domain.Fields{
			"name":            in.Name,
			"price_per_token": in.PricePerToken,
		})
		if errors.Is(err, repo.ErrDuplicateEntry) {
			return domain.DuplicateName(in.Name)
		}
		return err
	})
	if err != nil {
		s.reject("update_llm", err, zap.Int64("llm_id", id))
		return false, domain.AsInternal(err)
	}
	s.stats.Invalidate(ctx)
	s.log.Info("llm updated", zap.Int64("llm_id", id), zap.String("name", in.Name), zap.Int("price_per_token", in.PricePerToken))
	return true, nil
}

// DeleteLlm 同一事务内：先级联软删存活用量，再软删 LLM
func (s *LlmService) DeleteLlm(ctx context.Context, id int64) (bool, error) {
	var cascaded int64
	err := s.uow.Do(ctx, func(r domain.Repositories) error {
		ok, err := r.Llms.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrLlmNotFound()
		}
		if cascaded, err = r.Usages.SoftDeleteByLlm(ctx, id); err != nil {
			return err
		}
		n, err := r.Llms.UpdateFields(ctx, id, domain.SoftDelete())
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrLlmNotFound()
		}
		return nil
	})
	if err != nil {
		s.reject("delete_llm", err, zap.Int64("llm_id", id))
		return false, domain.AsInternal(err)
	}
	cascadeDeletedTotal.Add(float64(cascaded))
	s.stats.Invalidate(ctx)
	s.log.Info("llm deleted", zap.Int64("llm_id", id), zap.Int64("cascaded_usages", cascaded))
	return true, nil
}

func (s *LlmService) reject(op string, err error, fields ...zap.Field) {
	logReject(s.log, op, err, fields...)
}

// logReject 领域拒绝记 Warn，其余是内部错误记 Error
func logReject(l *zap.Logger, op string, err error, fields ...zap.Field) {
	kind := domain.KindOf(err)
	rejectionsTotal.WithLabelValues(op, kind.String()).Inc()
	fields = append(fields, zap.String("op", op), zap.Error(err))
	if kind == domain.KindInternal {
		l.Error("ledger operation failed", fields...)
		return
	}
	l.Warn("ledger operation rejected", fields...)
}
