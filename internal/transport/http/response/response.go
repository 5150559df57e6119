package response

import (
	"errors"

	"github.com/gin-gonic/gin"

	"llm-usage-ledger/internal/domain"
)

// Body 错误响应体
type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error 按码表构造；customMsg 为空用默认文案
func Error(code, customMsg string) (int, Body) {
	st, ok := Lookup(code)
	if !ok {
		code = domain.CodeInternal
	}
	msg := st.Message
	if customMsg != "" {
		msg = customMsg
	}
	return st.HTTP, Body{Code: code, Message: msg}
}

// Abort 中间件里直接终止请求
func Abort(c *gin.Context, code, customMsg string) {
	status, body := Error(code, customMsg)
	c.AbortWithStatusJSON(status, body)
}

// Fail 把 service 返回的错误映射成响应。内部错误不回显细节，原始错误挂到 c.Errors 由访问日志输出
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	var de *domain.Error
	if errors.As(err, &de) && de.Kind != domain.KindInternal {
		Abort(c, de.Code, de.Msg)
		return
	}
	Abort(c, domain.CodeInternal, "")
}
