package response

import (
	"net/http"

	"llm-usage-ledger/internal/domain"
)

// Status 错误码对应的 HTTP 状态和默认文案
type Status struct {
	HTTP    int
	Message string
}

// 码表只在这里构造一次，外部只能通过 Lookup 读
var codeTable = map[string]Status{
	domain.CodeOK:                   {http.StatusOK, "OK"},
	domain.CodeBadRequestBody:       {http.StatusBadRequest, "Invalid request body"},
	domain.CodeUnauthorized:         {http.StatusUnauthorized, "Authentication is required"},
	domain.CodeForbidden:            {http.StatusForbidden, "Access is forbidden"},
	domain.CodeUserNotFound:         {http.StatusNotFound, "User not found"},
	domain.CodeLlmNotFound:          {http.StatusNotFound, "LLM not found"},
	domain.CodeArgumentNotValid:     {http.StatusBadRequest, "Argument is not valid"},
	domain.CodeMissingParameter:     {http.StatusBadRequest, "Required parameter is missing"},
	domain.CodeArgumentTypeMismatch: {http.StatusBadRequest, "Argument type mismatch"},
	domain.CodeMessageNotReadable:   {http.StatusBadRequest, "Request message is not readable"},
	domain.CodeNoHandlerFound:       {http.StatusNotFound, "No handler found"},
	domain.CodeMethodNotSupported:   {http.StatusMethodNotAllowed, "Request method not supported"},
	domain.CodeTooManyRequests:      {http.StatusTooManyRequests, "Too many requests"},
	domain.CodeServerBusy:           {http.StatusServiceUnavailable, "Server is busy"},
	domain.CodeRequestTimeout:       {http.StatusGatewayTimeout, "Request timed out"},
	domain.CodeInternal:             {http.StatusInternalServerError, "Internal server error"},
}

// Lookup 未知码按 500 处理
func Lookup(code string) (Status, bool) {
	st, ok := codeTable[code]
	if !ok {
		return codeTable[domain.CodeInternal], false
	}
	return st, true
}

// Codes 所有已登记的错误码（文档/测试用）
func Codes() []string {
	out := make([]string, 0, len(codeTable))
	for c := range codeTable {
		out = append(out, c)
	}
	return out
}
