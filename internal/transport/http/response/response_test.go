package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-usage-ledger/internal/domain"
)

func TestLookup(t *testing.T) {
	cases := map[string]int{
		domain.CodeBadRequestBody:     http.StatusBadRequest,
		domain.CodeLlmNotFound:        http.StatusNotFound,
		domain.CodeUserNotFound:       http.StatusNotFound,
		domain.CodeMethodNotSupported: http.StatusMethodNotAllowed,
		domain.CodeTooManyRequests:    http.StatusTooManyRequests,
		domain.CodeInternal:           http.StatusInternalServerError,
	}
	for code, want := range cases {
		st, ok := Lookup(code)
		assert.True(t, ok, code)
		assert.Equal(t, want, st.HTTP, code)
		assert.NotEmpty(t, st.Message, code)
	}

	st, ok := Lookup("NOPE")
	assert.False(t, ok)
	assert.Equal(t, http.StatusInternalServerError, st.HTTP)
}

func TestCodesAllHaveMessages(t *testing.T) {
	for _, c := range Codes() {
		st, ok := Lookup(c)
		require.True(t, ok)
		assert.NotEmpty(t, st.Message, c)
	}
}

func failRecorder(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Fail(c, err)
	return w
}

func TestFail_DomainError(t *testing.T) {
	w := failRecorder(domain.ErrLlmNotFound())
	assert.Equal(t, http.StatusNotFound, w.Code)

	var b Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Equal(t, Body{Code: "LLM_NOT_FOUND", Message: "llm not found"}, b)
}

func TestFail_DuplicateIsBadRequest(t *testing.T) {
	w := failRecorder(domain.DuplicateName("gpt"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"BAD_REQUEST_BODY"`)
}

func TestFail_InternalHidesDetail(t *testing.T) {
	w := failRecorder(domain.Internal(errors.New("pq: password authentication failed")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
	assert.Contains(t, w.Body.String(), `"code":"INTERNAL_SERVER_ERROR"`)

	w = failRecorder(errors.New("raw"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
