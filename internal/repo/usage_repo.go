package repo

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"llm-usage-ledger/internal/domain"
)

type UsageRepo struct{ base }

func (r *UsageRepo) FindByID(ctx context.Context, id int64) (*domain.LlmUsage, error) {
	ctx, span := tracer.Start(ctx, "UsageRepo.FindByID",
		trace.WithAttributes(attribute.Int64("usage.id", id)))
	defer span.End()

	var u domain.LlmUsage
	err := r.query().Eq("id", id).Apply(r.db.WithContext(ctx)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("find usage: %w", err)
	}
	return &u, nil
}

// Insert 不校验 user_id / llm_id 是否存在
func (r *UsageRepo) Insert(ctx context.Context, u *domain.LlmUsage) (int64, error) {
	ctx, span := tracer.Start(ctx, "UsageRepo.Insert",
		trace.WithAttributes(
			attribute.Int64("user.id", u.UserID),
			attribute.Int64("llm.id", u.LlmID),
		))
	defer span.End()

	u.StampCreate(r.now())
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("insert usage: %w", err)
	}
	return u.ID, nil
}

func (r *UsageRepo) SoftDeleteByLlm(ctx context.Context, llmID int64) (int64, error) {
	ctx, span := tracer.Start(ctx, "UsageRepo.SoftDeleteByLlm",
		trace.WithAttributes(attribute.Int64("llm.id", llmID)))
	defer span.End()

	res := r.db.WithContext(ctx).Model(&domain.LlmUsage{}).
		Where("llm_id = ? AND is_deleted = ?", llmID, false).
		Updates(map[string]any(domain.SoftDelete().Touch(r.now())))
	if res.Error != nil {
		span.RecordError(res.Error)
		return 0, fmt.Errorf("cascade delete usages: %w", res.Error)
	}
	span.SetAttributes(attribute.Int64("usage.deleted", res.RowsAffected))
	return res.RowsAffected, nil
}

func (r *UsageRepo) ListByLlm(ctx context.Context, llmID int64, includeDeleted bool) ([]domain.LlmUsage, error) {
	ctx, span := tracer.Start(ctx, "UsageRepo.ListByLlm",
		trace.WithAttributes(attribute.Int64("llm.id", llmID)))
	defer span.End()

	q := r.query().IncludeDeleted(includeDeleted).Eq("llm_id", llmID)

	out := make([]domain.LlmUsage, 0)
	if err := q.Apply(r.db.WithContext(ctx)).Order("id ASC").Find(&out).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list usages: %w", err)
	}
	return out, nil
}
