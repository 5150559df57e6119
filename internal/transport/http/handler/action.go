package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"llm-usage-ledger/internal/domain"
	resp "llm-usage-ledger/internal/transport/http/response"
	"llm-usage-ledger/internal/validate"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method   string // "GET" | "POST" | "PUT" | "DELETE"
	Path     string // 例："/llm/:llm_id"
	Binder   Binder
	Status   int            // 成功状态码，默认 200
	Location func(O) string // 非空时只写 Location 头，不写 body
	Handler  func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 在分组上注册动作：绑定 → 执行 → 统一错误映射
func RegisterAction[I any, O any](g gin.IRoutes, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		var in I
		switch a.Binder {
		case BindJSON:
			if err := c.ShouldBindJSON(&in); err != nil {
				_ = c.Error(err)
				resp.Abort(c, domain.CodeMessageNotReadable, "")
				return
			}
		case BindQuery:
			if err := c.ShouldBindQuery(&in); err != nil {
				_ = c.Error(err)
				resp.Abort(c, domain.CodeArgumentTypeMismatch, "")
				return
			}
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			resp.Fail(c, err)
			return
		}

		switch {
		case a.Location != nil:
			c.Header("Location", a.Location(out))
			c.Status(status)
		case status == http.StatusNoContent:
			c.Status(status)
		default:
			c.JSON(status, out)
		}
	}

	method := strings.ToUpper(a.Method)
	if method == "" {
		method = http.MethodGet
	}
	g.Handle(method, a.Path, h)
}

// pathID 取路径参数里的正整数 id
func pathID(c *gin.Context, name string) (int64, error) {
	return validate.PathID(name, c.Param(name))
}
