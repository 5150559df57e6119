package repo

import (
	"fmt"

	"gorm.io/gorm"

	"llm-usage-ledger/internal/domain"
)

type liveUnique struct {
	name   string
	table  string
	column string
	model  any
}

// 唯一性只约束存活行；软删后同名/同邮箱可以再次创建
var liveUniques = []liveUnique{
	{name: "ux_users_email_live", table: "users", column: "email", model: &domain.User{}},
	{name: "ux_llms_name_live", table: "llms", column: "name", model: &domain.Llm{}},
}

// Migrate 建表 + 存活行唯一索引
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.User{}, &domain.Llm{}, &domain.LlmUsage{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	for _, u := range liveUniques {
		if err := createLiveUnique(db, u); err != nil {
			return fmt.Errorf("create index %s: %w", u.name, err)
		}
	}
	return nil
}

func createLiveUnique(db *gorm.DB, u liveUnique) error {
	switch db.Dialector.Name() {
	case "mysql":
		// mysql 没有部分索引，用函数索引：已删行映射成 NULL，NULL 不参与唯一比较
		if db.Migrator().HasIndex(u.model, u.name) {
			return nil
		}
		return db.Exec(fmt.Sprintf(
			"CREATE UNIQUE INDEX %s ON %s ((CASE WHEN is_deleted = 0 THEN %s END))",
			u.name, u.table, u.column)).Error
	default:
		return db.Exec(fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s) WHERE is_deleted = false",
			u.name, u.table, u.column)).Error
	}
}
