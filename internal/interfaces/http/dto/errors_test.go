package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeRecordLocked, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeInvariantViolation, http.StatusUnprocessableEntity},
		{ErrCodeApprovalNoop, http.StatusOK},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode_DomainCodes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{shared.CodeNotFound, ErrCodeNotFound},
		{shared.CodeInvariantViolation, ErrCodeInvariantViolation},
		{shared.CodeApprovalStateConflict, ErrCodeApprovalNoop},
		{shared.CodeValidation, ErrCodeValidation},
		{shared.CodeConcurrencyConflict, ErrCodeConcurrencyConflict},
		{shared.CodeInvalidState, ErrCodeInvalidState},
		{shared.ErrRecordLocked.Code, ErrCodeRecordLocked},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"SOMETHING_ELSE", "SOMETHING_ELSE"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestEveryMappedCodeHasStatus(t *testing.T) {
	for domainCode, apiCode := range DomainErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[apiCode]
		assert.True(t, ok, "%s maps to %s which has no status", domainCode, apiCode)
	}
}

func TestResponseEnvelope(t *testing.T) {
	raw, err := json.Marshal(NewSuccessResponseWithMeta([]int{1, 2}, 41, 2, 20))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":[1,2],"meta":{"total":41,"page":2,"page_size":20,"total_pages":3}}`, string(raw))

	raw, err = json.Marshal(NewErrorResponse(ErrCodeNotFound, "payroll not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_NOT_FOUND","message":"payroll not found"}}`, string(raw))

	assert.Equal(t, 0, NewSuccessResponseWithMeta(nil, 5, 1, 0).Meta.TotalPages)
}

func TestListRequest_Normalize(t *testing.T) {
	r := ListRequest{}
	r.Normalize()
	assert.Equal(t, ListRequest{Page: 1, PageSize: 20, OrderDir: "desc"}, r)
}
