package repo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"llm-usage-ledger/internal/repo"
)

func TestQuery_LiveByDefault(t *testing.T) {
	cs := repo.NewQuery("sqlite").Clauses()
	assert.Equal(t, []repo.Clause{{SQL: "is_deleted = ?", Args: []any{false}}}, cs)
}

func TestQuery_BlankFiltersSkipped(t *testing.T) {
	cs := repo.NewQuery("sqlite").Contains("name", "").Contains("email", "   ").Clauses()
	assert.Len(t, cs, 1)
}

func TestQuery_IncludeDeletedDropsLivePredicate(t *testing.T) {
	cs := repo.NewQuery("sqlite").IncludeDeleted(true).Eq("id", int64(3)).Clauses()
	assert.Equal(t, []repo.Clause{{SQL: "id = ?", Args: []any{int64(3)}}}, cs)
}

func TestQuery_ContainsPerDialect(t *testing.T) {
	cases := map[string]string{
		"sqlite":   "instr(name, ?) > 0",
		"postgres": "strpos(name, ?) > 0",
		"mysql":    "INSTR(BINARY name, ?) > 0",
	}
	for dialect, want := range cases {
		cs := repo.NewQuery(dialect).Contains("name", "gpt").Clauses()
		if assert.Len(t, cs, 2, dialect) {
			assert.Equal(t, want, cs[1].SQL, dialect)
			assert.Equal(t, []any{"gpt"}, cs[1].Args, dialect)
		}
	}
}

func TestQuery_ContainsKeepsRawValue(t *testing.T) {
	cs := repo.NewQuery("sqlite").Contains("name", " mini").Clauses()
	assert.Equal(t, []any{" mini"}, cs[1].Args)
}
