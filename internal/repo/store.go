package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"llm-usage-ledger/internal/domain"
)

var tracer = otel.Tracer("llm-usage-ledger/repo")

// Store 基于 gorm 的工作单元；每次 Do/Read 开一个事务，仓储都绑定在该事务上
type Store struct {
	db      *gorm.DB
	dialect string
	now     func() time.Time
}

type Option func(*Store)

// WithClock 测试里固定时间
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func NewStore(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db, dialect: db.Dialector.Name(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Dialect() string { return s.dialect }

func (s *Store) repos(tx *gorm.DB) domain.Repositories {
	b := base{db: tx, dialect: s.dialect, now: s.now}
	return domain.Repositories{
		Users:  &UserRepo{base: b},
		Llms:   &LlmRepo{base: b},
		Usages: &UsageRepo{base: b},
		Stats:  &StatsRepo{base: b},
	}
}

// Do 读写事务；fn 返回错误即回滚
func (s *Store) Do(ctx context.Context, fn func(r domain.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.repos(tx))
	})
}

// Read 快照读：postgres / mysql 用只读 + 可重复读事务，sqlite 本身串行，用普通事务
func (s *Store) Read(ctx context.Context, fn func(r domain.Repositories) error) error {
	run := func(tx *gorm.DB) error { return fn(s.repos(tx)) }
	switch s.dialect {
	case "postgres", "mysql":
		return s.db.WithContext(ctx).Transaction(run, &sql.TxOptions{
			Isolation: sql.LevelRepeatableRead,
			ReadOnly:  true,
		})
	default:
		return s.db.WithContext(ctx).Transaction(run)
	}
}

// Ping 健康检查
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// base 各仓储共用
type base struct {
	db      *gorm.DB
	dialect string
	now     func() time.Time
}

func (b base) query() *Query { return NewQuery(b.dialect) }

// updateLive 只更新存活行，并刷新 updated_at
func (b base) updateLive(ctx context.Context, model any, id int64, fields domain.Fields) (int64, error) {
	res := b.db.WithContext(ctx).Model(model).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any(fields.Touch(b.now())))
	if res.Error != nil {
		if isDupKey(res.Error) {
			return 0, ErrDuplicateEntry
		}
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (b base) exists(ctx context.Context, model any, q *Query) (bool, error) {
	var n int64
	if err := q.Apply(b.db.WithContext(ctx).Model(model)).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
