package domain

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindDuplicateName
	KindDuplicateEmail
	KindNotFound
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindDuplicateName:
		return "duplicate_name"
	case KindDuplicateEmail:
		return "duplicate_email"
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "internal"
	}
}

// 稳定错误码；HTTP 状态由传输层的码表决定
const (
	CodeOK                   = "OK"
	CodeBadRequestBody       = "BAD_REQUEST_BODY"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN_REQUEST"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeLlmNotFound          = "LLM_NOT_FOUND"
	CodeArgumentNotValid     = "METHOD_ARGUMENT_NOT_VALID"
	CodeMissingParameter     = "MISSING_SERVLET_REQUEST_PARAMETER"
	CodeArgumentTypeMismatch = "METHOD_ARGUMENT_TYPE_MISMATCH"
	CodeMessageNotReadable   = "HTTP_MESSAGE_NOT_READABLE_EXCEPTION"
	CodeNoHandlerFound       = "NO_HANDLER_FOUND"
	CodeMethodNotSupported   = "HTTP_REQUEST_METHOD_NOT_SUPPORTED"
	CodeTooManyRequests      = "TOO_MANY_REQUESTS"
	CodeServerBusy           = "SERVER_BUSY"
	CodeRequestTimeout       = "REQUEST_TIMEOUT"
	CodeInternal             = "INTERNAL_SERVER_ERROR"
)

// Error 领域错误：Kind 给调用方分支用，Code 给传输层查表用
type Error struct {
	Kind Kind
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is 按 Kind 比较，便于 errors.Is(err, &Error{Kind: KindNotFound})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == "" || t.Code == e.Code)
}

func DuplicateName(name string) *Error {
	return &Error{Kind: KindDuplicateName, Code: CodeBadRequestBody, Msg: fmt.Sprintf("llm name %q already exists", name)}
}

func DuplicateEmail(email string) *Error {
	return &Error{Kind: KindDuplicateEmail, Code: CodeBadRequestBody, Msg: fmt.Sprintf("email %q already exists", email)}
}

func ErrLlmNotFound() *Error {
	return &Error{Kind: KindNotFound, Code: CodeLlmNotFound, Msg: "llm not found"}
}

func ErrUserNotFound() *Error {
	return &Error{Kind: KindNotFound, Code: CodeUserNotFound, Msg: "user not found"}
}

func Invalid(code, msg string) *Error {
	return &Error{Kind: KindInvalidInput, Code: code, Msg: msg}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Msg: "internal error", Err: err}
}

// KindOf 非领域错误一律视为 internal
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// AsInternal 保留领域错误，其余包成 internal
func AsInternal(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return Internal(err)
}
