package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"llm-usage-ledger/internal/core/database"
	"llm-usage-ledger/internal/repo"
)

var seq int64

// DB 每次返回一个全新的内存 sqlite（自增 id 从 1 开始），测试结束自动关闭
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	name := fmt.Sprintf("ledger_test_%d", atomic.AddInt64(&seq, 1))
	db, err := database.NewGorm(database.Opts{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		// 内存库只要有一个连接存活就不会丢；单连接也避免 sqlite 写锁冲突
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Store 基于 DB 的工作单元
func Store(tb testing.TB, opts ...repo.Option) *repo.Store {
	tb.Helper()
	return repo.NewStore(DB(tb), opts...)
}
