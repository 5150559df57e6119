package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"llm-usage-ledger/internal/domain"
	"llm-usage-ledger/internal/service"
	"llm-usage-ledger/internal/validate"
)

type llmRequest struct {
	Name          string `json:"name"`
	PricePerToken int    `json:"pricePerToken"`
}

func (r llmRequest) command() (domain.NewLlm, error) {
	if err := validate.LlmName(r.Name); err != nil {
		return domain.NewLlm{}, err
	}
	if err := validate.PricePerToken(r.PricePerToken); err != nil {
		return domain.NewLlm{}, err
	}
	return domain.NewLlm{Name: r.Name, PricePerToken: r.PricePerToken}, nil
}

type llmQuery struct {
	Name string `form:"name"`
}

type llmView struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	PricePerToken int    `json:"pricePerToken"`
}

// LlmHandler /llm 下的目录与统计接口
type LlmHandler struct {
	llms  *service.LlmService
	usage *service.UsageService
}

func NewLlmHandler(llms *service.LlmService, usage *service.UsageService) *LlmHandler {
	return &LlmHandler{llms: llms, usage: usage}
}

func (h *LlmHandler) Priority() int { return 10 }

func (h *LlmHandler) MountAPI(g *gin.RouterGroup) {
	RegisterAction(g, Action[llmRequest, int64]{
		Method:   http.MethodPost,
		Path:     "/llm",
		Binder:   BindJSON,
		Status:   http.StatusCreated,
		Location: func(id int64) string { return fmt.Sprintf("/llm/%d", id) },
		Handler: func(c *gin.Context, in *llmRequest) (int64, error) {
			cmd, err := in.command()
			if err != nil {
				return 0, err
			}
			return h.llms.InsertLlm(c.Request.Context(), cmd)
		},
	})

	RegisterAction(g, Action[llmQuery, []llmView]{
		Method: http.MethodGet,
		Path:   "/llm",
		Binder: BindQuery,
		Handler: func(c *gin.Context, in *llmQuery) ([]llmView, error) {
			llms, err := h.llms.ListLlm(c.Request.Context(), in.Name)
			if err != nil {
				return nil, err
			}
			out := make([]llmView, 0, len(llms))
			for _, l := range llms {
				out = append(out, llmView{ID: l.ID, Name: l.Name, PricePerToken: l.PricePerToken})
			}
			return out, nil
		},
	})

	// 静态段 /llm/usages 优先于 /llm/:llm_id
	RegisterAction(g, h.catalogStats())

	RegisterAction(g, Action[llmRequest, bool]{
		Method: http.MethodPut,
		Path:   "/llm/:llm_id",
		Binder: BindJSON,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, in *llmRequest) (bool, error) {
			id, err := pathID(c, "llm_id")
			if err != nil {
				return false, err
			}
			cmd, err := in.command()
			if err != nil {
				return false, err
			}
			return h.llms.UpdateLlm(c.Request.Context(), id, cmd)
		},
	})

	RegisterAction(g, Action[struct{}, bool]{
		Method: http.MethodDelete,
		Path:   "/llm/:llm_id",
		Binder: BindNone,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (bool, error) {
			id, err := pathID(c, "llm_id")
			if err != nil {
				return false, err
			}
			return h.llms.DeleteLlm(c.Request.Context(), id)
		},
	})
}

// MountAdmin 后台只读：目录统计
func (h *LlmHandler) MountAdmin(g *gin.RouterGroup) {
	RegisterAction(g, h.catalogStats())
}

func (h *LlmHandler) catalogStats() Action[struct{}, []domain.LlmUsageStat] {
	return Action[struct{}, []domain.LlmUsageStat]{
		Method: http.MethodGet,
		Path:   "/llm/usages",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.LlmUsageStat, error) {
			return h.usage.CatalogUsageStats(c.Request.Context())
		},
	}
}
