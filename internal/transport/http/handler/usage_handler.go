package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"llm-usage-ledger/internal/domain"
	"llm-usage-ledger/internal/service"
	"llm-usage-ledger/internal/validate"
)

// 指针字段区分"没传"和"传了 0"
type usageRequest struct {
	UserID    *int64 `json:"userId"`
	LlmID     *int64 `json:"llmId"`
	UsedToken *int   `json:"usedToken"`
}

type UsageHandler struct {
	usage *service.UsageService
}

func NewUsageHandler(usage *service.UsageService) *UsageHandler {
	return &UsageHandler{usage: usage}
}

func (h *UsageHandler) Priority() int { return 20 }

func (h *UsageHandler) MountAPI(g *gin.RouterGroup) {
	RegisterAction(g, Action[usageRequest, int64]{
		Method:   http.MethodPost,
		Path:     "/usages",
		Binder:   BindJSON,
		Status:   http.StatusCreated,
		Location: func(id int64) string { return fmt.Sprintf("/usages/%d", id) },
		Handler: func(c *gin.Context, in *usageRequest) (int64, error) {
			if err := validate.RequiredID("userId", in.UserID); err != nil {
				return 0, err
			}
			if err := validate.RequiredID("llmId", in.LlmID); err != nil {
				return 0, err
			}
			if err := validate.UsedToken(in.UsedToken); err != nil {
				return 0, err
			}
			return h.usage.InsertUsage(c.Request.Context(), domain.NewUsage{
				UserID:    *in.UserID,
				LlmID:     *in.LlmID,
				UsedToken: *in.UsedToken,
			})
		},
	})
}
