package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicateEntry 存储层唯一约束冲突
var ErrDuplicateEntry = errors.New("duplicate entry")

func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 未开启 TranslateError 的连接兜底
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
