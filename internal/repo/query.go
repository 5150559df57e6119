package repo

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Clause 一个 WHERE 条件片段
type Clause struct {
	SQL  string
	Args []any
}

// Query 显式的过滤条件构造器：默认带 is_deleted = false，
// 只有非空白的过滤值才会追加子串匹配条件（AND 组合）。
type Query struct {
	dialect        string
	includeDeleted bool
	clauses        []Clause
}

func NewQuery(dialect string) *Query { return &Query{dialect: dialect} }

// IncludeDeleted 去掉默认的存活条件（后台视图、级联幂等检查用）
func (q *Query) IncludeDeleted(v bool) *Query {
	q.includeDeleted = v
	return q
}

func (q *Query) Eq(col string, v any) *Query {
	q.clauses = append(q.clauses, Clause{SQL: col + " = ?", Args: []any{v}})
	return q
}

// Contains 区分大小写的子串匹配；空白过滤值直接忽略
func (q *Query) Contains(col, sub string) *Query {
	if strings.TrimSpace(sub) == "" {
		return q
	}
	q.clauses = append(q.clauses, Clause{SQL: containsSQL(q.dialect, col), Args: []any{sub}})
	return q
}

// Clauses 存活条件在前
func (q *Query) Clauses() []Clause {
	out := make([]Clause, 0, len(q.clauses)+1)
	if !q.includeDeleted {
		out = append(out, Clause{SQL: "is_deleted = ?", Args: []any{false}})
	}
	return append(out, q.clauses...)
}

func (q *Query) Apply(db *gorm.DB) *gorm.DB {
	for _, c := range q.Clauses() {
		db = db.Where(c.SQL, c.Args...)
	}
	return db
}

// LIKE 在 sqlite / mysql ci 排序规则下不区分大小写，这里按方言换成位置函数
func containsSQL(dialect, col string) string {
	switch dialect {
	case "postgres":
		return fmt.Sprintf("strpos(%s, ?) > 0", col)
	case "mysql":
		return fmt.Sprintf("INSTR(BINARY %s, ?) > 0", col)
	default:
		return fmt.Sprintf("instr(%s, ?) > 0", col)
	}
}
