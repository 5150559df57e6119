package domain

import "time"

// Audit 三张表共用的审计字段（嵌入到实体中）
type Audit struct {
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updatedAt"`
	IsDeleted bool      `gorm:"column:is_deleted;not null;index" json:"isDeleted"`
}

// StampCreate 新建时打时间戳；created_at 之后不再改
func (a *Audit) StampCreate(now time.Time) {
	a.CreatedAt = now
	a.UpdatedAt = now
	a.IsDeleted = false
}

// Fields 按列名更新的字段集
type Fields map[string]any

// Touch 每次变更（包括软删）都要刷新 updated_at
func (f Fields) Touch(now time.Time) Fields {
	f["updated_at"] = now
	return f
}

// SoftDelete 软删字段集
func SoftDelete() Fields { return Fields{"is_deleted": true} }
