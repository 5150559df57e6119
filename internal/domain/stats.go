package domain

// LlmUsageStat 单个 LLM 的用量汇总
type LlmUsageStat struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	TotalUsedToken int64  `json:"totalUsedToken"`
	TotalPrice     int64  `json:"totalPrice"`
}

type UsageTotal struct {
	TotalUsedToken int64 `json:"totalUsedToken"`
	TotalPrice     int64 `json:"totalPrice"`
}

// UserUsageReport 某个用户的用量：总计 + 按 LLM 分组
type UserUsageReport struct {
	UserUsages UsageTotal     `json:"userUsages"`
	LlmUsages  []LlmUsageStat `json:"llmUsages"`
}

// NewUserUsageReport 总计由分组行求和得到；没有用量时返回空列表而不是 nil
func NewUserUsageReport(rows []LlmUsageStat) *UserUsageReport {
	if rows == nil {
		rows = []LlmUsageStat{}
	}
	r := &UserUsageReport{LlmUsages: rows}
	for _, s := range rows {
		r.UserUsages.TotalUsedToken += s.TotalUsedToken
		r.UserUsages.TotalPrice += s.TotalPrice
	}
	return r
}
