package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-usage-ledger/internal/domain"
)

func code(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		return ""
	}
	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.KindInvalidInput, de.Kind)
	return de.Code
}

func ptr[T any](v T) *T { return &v }

func TestLlmName(t *testing.T) {
	assert.Equal(t, "", code(t, LlmName("gpt-4o-mini")))
	assert.Equal(t, "", code(t, LlmName(strings.Repeat("가", 20))))
	assert.Equal(t, domain.CodeMissingParameter, code(t, LlmName("")))
	assert.Equal(t, domain.CodeMissingParameter, code(t, LlmName("   ")))
	assert.Equal(t, domain.CodeArgumentNotValid, code(t, LlmName(strings.Repeat("x", 21))))
}

func TestPricePerToken(t *testing.T) {
	assert.NoError(t, PricePerToken(1))
	assert.Equal(t, domain.CodeArgumentNotValid, code(t, PricePerToken(0)))
	assert.Equal(t, domain.CodeArgumentNotValid, code(t, PricePerToken(-3)))
}

func TestUserName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"alice", ""},
		{"홍길동", ""},
		{"user42", ""},
		{"", domain.CodeMissingParameter},
		{"has space", domain.CodeArgumentNotValid},
		{"under_score", domain.CodeArgumentNotValid},
		{strings.Repeat("a", 17), domain.CodeArgumentNotValid},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, code(t, UserName(tc.in)), tc.in)
	}
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("alice@example.com"))
	assert.Equal(t, domain.CodeMissingParameter, code(t, Email("")))
	assert.Equal(t, domain.CodeArgumentNotValid, code(t, Email("not-an-email")))
	assert.Equal(t, domain.CodeArgumentNotValid, code(t, Email("a@")))
}

func TestPassword(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Abcdef12", ""},
		{"abcdef1!", ""},
		{"ABCDEF!@", domain.CodeArgumentNotValid},
		{"abcdefgh", domain.CodeArgumentNotValid},
		{"Ab1!", domain.CodeArgumentNotValid},
		{"Abcdefgh12345678!", domain.CodeArgumentNotValid},
		{"", domain.CodeMissingParameter},
		{"ÉÉÉÉéééé1", domain.CodeArgumentNotValid},
		{"Ünïcödé1!", ""},
		{"１２３４abcd!", domain.CodeArgumentNotValid},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, code(t, Password(tc.in)), tc.in)
	}
}

func TestRequiredIDAndUsedToken(t *testing.T) {
	assert.NoError(t, RequiredID("userId", ptr(int64(1))))
	assert.Equal(t, domain.CodeMissingParameter, code(t, RequiredID("userId", nil)))
	assert.Equal(t, domain.CodeArgumentNotValid, code(t, RequiredID("llmId", ptr(int64(0)))))

	assert.NoError(t, UsedToken(ptr(1)))
	assert.Equal(t, domain.CodeMissingParameter, code(t, UsedToken(nil)))
	assert.Equal(t, domain.CodeArgumentNotValid, code(t, UsedToken(ptr(0))))
}

func TestPathID(t *testing.T) {
	id, err := PathID("llm_id", "12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = PathID("llm_id", "abc")
	assert.Equal(t, domain.CodeArgumentTypeMismatch, code(t, err))

	_, err = PathID("llm_id", "0")
	assert.Equal(t, domain.CodeArgumentNotValid, code(t, err))
}
