package domain

import "context"

type UserFilter struct {
	Name           string
	Email          string
	IncludeDeleted bool // 仅后台可用
}

type LlmFilter struct {
	Name           string
	IncludeDeleted bool
}

// 查询默认只看 is_deleted = false 的行

type UserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Insert(ctx context.Context, u *User) (int64, error)
	UpdateFields(ctx context.Context, id int64, fields Fields) (int64, error)
	List(ctx context.Context, f UserFilter) ([]User, error)
}

type LlmRepository interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	FindByID(ctx context.Context, id int64) (*Llm, error)
	Insert(ctx context.Context, l *Llm) (int64, error)
	UpdateFields(ctx context.Context, id int64, fields Fields) (int64, error)
	List(ctx context.Context, f LlmFilter) ([]Llm, error)
}

type LlmUsageRepository interface {
	FindByID(ctx context.Context, id int64) (*LlmUsage, error)
	Insert(ctx context.Context, u *LlmUsage) (int64, error)
	// SoftDeleteByLlm 级联软删某个 LLM 的全部存活用量行，返回影响行数
	SoftDeleteByLlm(ctx context.Context, llmID int64) (int64, error)
	ListByLlm(ctx context.Context, llmID int64, includeDeleted bool) ([]LlmUsage, error)
}

type StatsRepository interface {
	CatalogStats(ctx context.Context) ([]LlmUsageStat, error)
	UserStats(ctx context.Context, userID int64) ([]LlmUsageStat, error)
}

// Repositories 绑定在同一个事务上的仓储集合
type Repositories struct {
	Users  UserRepository
	Llms   LlmRepository
	Usages LlmUsageRepository
	Stats  StatsRepository
}

// UnitOfWork 每个对外操作是一个工作单元；fn 返回错误即回滚
type UnitOfWork interface {
	Do(ctx context.Context, fn func(r Repositories) error) error
	Read(ctx context.Context, fn func(r Repositories) error) error
}
