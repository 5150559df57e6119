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

type LlmRepo struct{ base }

func (r *LlmRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	ctx, span := tracer.Start(ctx, "LlmRepo.ExistsByName",
		trace.WithAttributes(attribute.String("llm.name", name)))
	defer span.End()

	ok, err := r.exists(ctx, &domain.Llm{}, r.query().Eq("name", name))
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("check llm name: %w", err)
	}
	return ok, nil
}

func (r *LlmRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "LlmRepo.ExistsByID",
		trace.WithAttributes(attribute.Int64("llm.id", id)))
	defer span.End()

	ok, err := r.exists(ctx, &domain.Llm{}, r.query().Eq("id", id))
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("check llm id: %w", err)
	}
	return ok, nil
}

func (r *LlmRepo) FindByID(ctx context.Context, id int64) (*domain.Llm, error) {
	ctx, span := tracer.Start(ctx, "LlmRepo.FindByID",
		trace.WithAttributes(attribute.Int64("llm.id", id)))
	defer span.End()

	var l domain.Llm
	err := r.query().Eq("id", id).Apply(r.db.WithContext(ctx)).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("find llm: %w", err)
	}
	return &l, nil
}

func (r *LlmRepo) Insert(ctx context.Context, l *domain.Llm) (int64, error) {
	ctx, span := tracer.Start(ctx, "LlmRepo.Insert")
	defer span.End()

	l.StampCreate(r.now())
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		span.RecordError(err)
		if isDupKey(err) {
			return 0, fmt.Errorf("insert llm: %w", ErrDuplicateEntry)
		}
		return 0, fmt.Errorf("insert llm: %w", err)
	}
	return l.ID, nil
}

func (r *LlmRepo) UpdateFields(ctx context.Context, id int64, fields domain.Fields) (int64, error) {
	ctx, span := tracer.Start(ctx, "LlmRepo.UpdateFields",
		trace.WithAttributes(attribute.Int64("llm.id", id)))
	defer span.End()

	n, err := r.updateLive(ctx, &domain.Llm{}, id, fields)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("update llm: %w", err)
	}
	return n, nil
}

func (r *LlmRepo) List(ctx context.Context, f domain.LlmFilter) ([]domain.Llm, error) {
	ctx, span := tracer.Start(ctx, "LlmRepo.List")
	defer span.End()

	q := r.query().IncludeDeleted(f.IncludeDeleted).Contains("name", f.Name)

	llms := make([]domain.Llm, 0)
	if err := q.Apply(r.db.WithContext(ctx)).Order("id ASC").Find(&llms).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list llms: %w", err)
	}
	return llms, nil
}
