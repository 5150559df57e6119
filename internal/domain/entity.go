package domain

type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"size:16;not null" json:"name"`
	Email    string `gorm:"size:191;not null;index" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"` // bcrypt
	Audit
}

func (User) TableName() string { return "users" }

type Llm struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string `gorm:"size:20;not null;index" json:"name"`
	PricePerToken int    `gorm:"type:integer;not null" json:"pricePerToken"`
	Audit
}

func (Llm) TableName() string { return "llms" }

// LlmUsage 只追加；仅在所属 LLM 删除时被级联软删
type LlmUsage struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64 `gorm:"not null;index" json:"userId"`
	LlmID     int64 `gorm:"not null;index" json:"llmId"`
	UsedToken int   `gorm:"type:integer;not null" json:"usedToken"`
	Audit
}

func (LlmUsage) TableName() string { return "llm_usages" }

// NewLlm / NewUser / NewUsage 已校验过的写命令
type NewLlm struct {
	Name          string
	PricePerToken int
}

type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
}

type NewUsage struct {
	UserID    int64
	LlmID     int64
	UsedToken int
}
