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

type UserRepo struct{ base }

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, span := tracer.Start(ctx, "UserRepo.ExistsByEmail")
	defer span.End()

	ok, err := r.exists(ctx, &domain.User{}, r.query().Eq("email", email))
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("check user email: %w", err)
	}
	return ok, nil
}

func (r *UserRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "UserRepo.ExistsByID",
		trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	ok, err := r.exists(ctx, &domain.User{}, r.query().Eq("id", id))
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("check user id: %w", err)
	}
	return ok, nil
}

// FindByID 不存在或已软删时返回 nil, nil
func (r *UserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepo.FindByID",
		trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	var u domain.User
	err := r.query().Eq("id", id).Apply(r.db.WithContext(ctx)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) Insert(ctx context.Context, u *domain.User) (int64, error) {
	ctx, span := tracer.Start(ctx, "UserRepo.Insert")
	defer span.End()

	u.StampCreate(r.now())
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		span.RecordError(err)
		if isDupKey(err) {
			return 0, fmt.Errorf("insert user: %w", ErrDuplicateEntry)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return u.ID, nil
}

func (r *UserRepo) UpdateFields(ctx context.Context, id int64, fields domain.Fields) (int64, error) {
	ctx, span := tracer.Start(ctx, "UserRepo.UpdateFields",
		trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	n, err := r.updateLive(ctx, &domain.User{}, id, fields)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("update user: %w", err)
	}
	return n, nil
}

// List 名称/邮箱子串过滤（AND），按 id 升序
func (r *UserRepo) List(ctx context.Context, f domain.UserFilter) ([]domain.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepo.List")
	defer span.End()

	q := r.query().IncludeDeleted(f.IncludeDeleted).
		Contains("name", f.Name).
		Contains("email", f.Email)

	users := make([]domain.User, 0)
	if err := q.Apply(r.db.WithContext(ctx)).Order("id ASC").Find(&users).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
