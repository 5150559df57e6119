package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("Abcdef1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcdef1!", h)
	assert.True(t, strings.HasPrefix(h, "$2a$"))
	assert.True(t, CheckPassword("Abcdef1!", h))
	assert.False(t, CheckPassword("abcdef1!", h))
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("x", 73))
	assert.Error(t, err)
}
