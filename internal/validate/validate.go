package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"llm-usage-ledger/internal/domain"
)

const (
	LlmNameMax     = 20
	UserNameMax    = 16
	PasswordMin    = 8
	PasswordMax    = 16
	passwordSymbol = "!@#$%^&*()_+=-"
)

var (
	userNamePattern = regexp.MustCompile(`^[가-힣a-zA-Z0-9]*$`)
	v               = validator.New()
)

func missing(field string) error {
	return domain.Invalid(domain.CodeMissingParameter, field+" is required")
}

func invalid(format string, args ...any) error {
	return domain.Invalid(domain.CodeArgumentNotValid, fmt.Sprintf(format, args...))
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// LlmName 1..20 个字符
func LlmName(name string) error {
	if blank(name) {
		return missing("name")
	}
	if n := utf8.RuneCountInString(name); n > LlmNameMax {
		return invalid("name must be at most %d characters", LlmNameMax)
	}
	return nil
}

func PricePerToken(p int) error {
	if p <= 0 {
		return invalid("pricePerToken must be positive")
	}
	return nil
}

// UserName 1..16 个字符，只允许韩文、英文字母、数字
func UserName(name string) error {
	if blank(name) {
		return missing("name")
	}
	if utf8.RuneCountInString(name) > UserNameMax {
		return invalid("name must be at most %d characters", UserNameMax)
	}
	if !userNamePattern.MatchString(name) {
		return invalid("name may only contain hangul, letters and digits")
	}
	return nil
}

func Email(email string) error {
	if blank(email) {
		return missing("email")
	}
	if err := v.Var(email, "email"); err != nil {
		return invalid("email is not a valid address")
	}
	return nil
}

// Password 8..16 位，ASCII 大写/小写/数字/特殊字符四类里至少三类；非 ASCII 字母不计入任何一类
func Password(pw string) error {
	if blank(pw) {
		return missing("password")
	}
	if n := utf8.RuneCountInString(pw); n < PasswordMin || n > PasswordMax {
		return invalid("password must be %d to %d characters", PasswordMin, PasswordMax)
	}
	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case 'A' <= r && r <= 'Z':
			upper = true
		case 'a' <= r && r <= 'z':
			lower = true
		case '0' <= r && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbol, r):
			symbol = true
		}
	}
	classes := 0
	for _, ok := range []bool{upper, lower, digit, symbol} {
		if ok {
			classes++
		}
	}
	if classes < 3 {
		return invalid("password must mix at least three of upper, lower, digit and %s", passwordSymbol)
	}
	return nil
}

// RequiredID 请求体里的引用 id：必填且为正
func RequiredID(field string, id *int64) error {
	if id == nil {
		return missing(field)
	}
	if *id <= 0 {
		return invalid("%s must be positive", field)
	}
	return nil
}

func UsedToken(tok *int) error {
	if tok == nil {
		return missing("usedToken")
	}
	if *tok < 1 {
		return invalid("usedToken must be at least 1")
	}
	return nil
}

// PathID 路径参数：非数字是类型错误，非正数是取值错误
func PathID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.Invalid(domain.CodeArgumentTypeMismatch, field+" must be an integer")
	}
	if id <= 0 {
		return 0, invalid("%s must be positive", field)
	}
	return id, nil
}
