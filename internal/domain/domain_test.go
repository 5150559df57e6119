package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKindAndCode(t *testing.T) {
	err := fmt.Errorf("delete llm: %w", ErrLlmNotFound())

	assert.True(t, errors.Is(err, &Error{Kind: KindNotFound}))
	assert.True(t, errors.Is(err, &Error{Kind: KindNotFound, Code: CodeLlmNotFound}))
	assert.False(t, errors.Is(err, &Error{Kind: KindNotFound, Code: CodeUserNotFound}))
	assert.False(t, errors.Is(err, &Error{Kind: KindDuplicateName}))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestAsInternal(t *testing.T) {
	assert.NoError(t, AsInternal(nil))

	dup := DuplicateEmail("a@b.c")
	assert.Same(t, dup, AsInternal(dup))

	raw := errors.New("driver: bad connection")
	wrapped := AsInternal(raw)
	assert.Equal(t, KindInternal, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, raw)
	assert.Contains(t, wrapped.Error(), "bad connection")
}

func TestAuditStampAndTouch(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var a Audit
	a.IsDeleted = true
	a.StampCreate(t0)
	assert.Equal(t, t0, a.CreatedAt)
	assert.Equal(t, t0, a.UpdatedAt)
	assert.False(t, a.IsDeleted)

	f := SoftDelete().Touch(t0.Add(time.Minute))
	assert.Equal(t, Fields{"is_deleted": true, "updated_at": t0.Add(time.Minute)}, f)
}

func TestNewUserUsageReport(t *testing.T) {
	empty := NewUserUsageReport(nil)
	assert.NotNil(t, empty.LlmUsages)
	assert.Equal(t, UsageTotal{}, empty.UserUsages)

	rep := NewUserUsageReport([]LlmUsageStat{
		{ID: 1, Name: "a", TotalUsedToken: 512, TotalPrice: 5120},
		{ID: 2, Name: "b", TotalUsedToken: 256, TotalPrice: 5120},
	})
	assert.Equal(t, UsageTotal{TotalUsedToken: 768, TotalPrice: 10240}, rep.UserUsages)
}
