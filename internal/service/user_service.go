package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"llm-usage-ledger/internal/domain"
	"llm-usage-ledger/internal/repo"
)

type UserService struct {
	uow   domain.UnitOfWork
	stats *StatsCache
	log   *zap.Logger
}

func NewUserService(uow domain.UnitOfWork, stats *StatsCache, l *zap.Logger) *UserService {
	return &UserService{uow: uow, stats: stats, log: l}
}

// InsertUser 邮箱在存活用户中唯一（区分大小写）；密码已是 bcrypt 哈希
func (s *UserService) InsertUser(ctx context.Context, in domain.NewUser) (int64, error) {
	var id int64
	err := s.uow.Do(ctx, func(r domain.Repositories) error {
		exists, err := r.Users.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if exists {
			return domain.DuplicateEmail(in.Email)
		}
		id, err = r.Users.Insert(ctx, &domain.User{Name: in.Name, Email: in.Email, Password: in.PasswordHash})
		if errors.Is(err, repo.ErrDuplicateEntry) {
			return domain.DuplicateEmail(in.Email)
		}
		return err
	})
	if err != nil {
		s.reject("insert_user", err, zap.String("name", in.Name))
		return 0, domain.AsInternal(err)
	}
	s.log.Info("user created", zap.Int64("user_id", id), zap.String("name", in.Name))
	return id, nil
}

// ListUsers 名称/邮箱子串过滤（AND），按 id 升序；IncludeDeleted 只给后台用
func (s *UserService) ListUsers(ctx context.Context, f domain.UserFilter) ([]domain.User, error) {
	var out []domain.User
	err := s.uow.Read(ctx, func(r domain.Repositories) error {
		var err error
		out, err = r.Users.List(ctx, f)
		return err
	})
	if err != nil {
		return nil, domain.AsInternal(err)
	}
	return out, nil
}

// DeleteUser 只软删用户本身，用量历史保留
func (s *UserService) DeleteUser(ctx context.Context, id int64) (bool, error) {
	err := s.uow.Do(ctx, func(r domain.Repositories) error {
		n, err := r.Users.UpdateFields(ctx, id, domain.SoftDelete())
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrUserNotFound()
		}
		return nil
	})
	if err != nil {
		s.reject("delete_user", err, zap.Int64("user_id", id))
		return false, domain.AsInternal(err)
	}
	// 已缓存的用户统计需要失效
	s.stats.Invalidate(ctx)
	s.log.Info("user deleted", zap.Int64("user_id", id))
	return true, nil
}

func (s *UserService) reject(op string, err error, fields ...zap.Field) {
	logReject(s.log, op, err, fields...)
}
