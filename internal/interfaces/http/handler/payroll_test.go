package handler

import (
	"net/http"
	"testing"

	apppayroll "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payrollEnvelope struct {
	Data apppayroll.PayrollResponse `json:"data"`
}

type approvalEnvelope struct {
	Data apppayroll.ApprovalResult `json:"data"`
}

func salaryBody(emp uuid.UUID, salary string) map[string]any {
	return map[string]any{
		"employee_id":  emp.String(),
		"month":        "2024-03",
		"salary":       salary,
		"type":         "full",
		"paid_through": testBank,
	}
}

func TestPayrollHandler_CreatePostsImmediatelyWithoutApproval(t *testing.T) {
	a := newAPI(t)
	a.configure(map[string]any{"approval_levels": 1})
	emp := a.employee("E-1")

	w := a.do(http.MethodPost, "/api/v1/payrolls", salaryBody(emp, "1000"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created payrollEnvelope
	decode(t, w, &created)
	assert.Equal(t, approval.StateNone, created.Data.Approval.State)
	assert.Len(t, created.Data.TransactionIDs, 3)

	w = a.do(http.MethodGet, "/api/v1/payrolls/"+created.Data.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/v1/payrolls?page=1&page_size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.Response
	decode(t, w, &list)
	require.NotNil(t, list.Meta)
	assert.Equal(t, int64(1), list.Meta.Total)
}

func TestPayrollHandler_ApprovalFlow(t *testing.T) {
	a := newAPI(t)
	a.configure(map[string]any{"approval_levels": 1, "approval_features": []string{"payroll"}})
	emp := a.employee("E-1")

	w := a.do(http.MethodPost, "/api/v1/payrolls", salaryBody(emp, "1500"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created payrollEnvelope
	decode(t, w, &created)
	assert.Equal(t, approval.StatePending, created.Data.Approval.State)
	assert.Empty(t, created.Data.TransactionIDs)

	path := "/api/v1/payrolls/" + created.Data.ID.String() + "/approval"
	w = a.do(http.MethodPost, path, map[string]any{"state": "approved1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var first approvalEnvelope
	decode(t, w, &first)
	assert.True(t, first.Data.Changed)
	assert.True(t, first.Data.Posted)
	assert.Equal(t, 3, first.Data.Transactions)

	w = a.do(http.MethodPost, path, map[string]any{"state": "approved1"})
	require.Equal(t, http.StatusOK, w.Code, "a repeated transition is not an error")
	var again approvalEnvelope
	decode(t, w, &again)
	assert.False(t, again.Data.Changed)

	w = a.do(http.MethodPost, path, map[string]any{"state": "rejected", "comment": "wrong month"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var rejected approvalEnvelope
	decode(t, w, &rejected)
	assert.True(t, rejected.Data.Reversed)
}

func TestPayrollHandler_Errors(t *testing.T) {
	a := newAPI(t)
	a.configure(map[string]any{"approval_levels": 1})
	emp := a.employee("E-1")

	t.Run("invalid month is a validation error", func(t *testing.T) {
		body := salaryBody(emp, "100")
		body["month"] = "2024-13"
		w := a.do(http.MethodPost, "/api/v1/payrolls", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		info := errorInfo(t, w)
		assert.Equal(t, dto.ErrCodeValidation, info.Code)
		require.NotEmpty(t, info.Details)
		assert.Equal(t, "month", info.Details[0].Field)
	})

	t.Run("unknown employee is not found", func(t *testing.T) {
		w := a.do(http.MethodPost, "/api/v1/payrolls", salaryBody(uuid.New(), "100"))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, errorInfo(t, w).Code)
	})

	t.Run("unknown paying account", func(t *testing.T) {
		body := salaryBody(emp, "100")
		body["paid_through"] = "Nowhere"
		w := a.do(http.MethodPost, "/api/v1/payrolls", body)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown payroll type", func(t *testing.T) {
		body := salaryBody(emp, "100")
		body["type"] = "bonus"
		w := a.do(http.MethodPost, "/api/v1/payrolls", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorInfo(t, w).Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := a.do(http.MethodGet, "/api/v1/payrolls/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, errorInfo(t, w).Code)
	})

	t.Run("missing payroll", func(t *testing.T) {
		w := a.do(http.MethodDelete, "/api/v1/payrolls/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		w := a.do(http.MethodGet, "/api/v1/payrolls", nil, "X-Anonymous", "1")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, errorInfo(t, w).Code)
	})
}

func TestPayrollHandler_UpdateAndDelete(t *testing.T) {
	a := newAPI(t)
	a.configure(map[string]any{"approval_levels": 1})
	emp := a.employee("E-1")

	w := a.do(http.MethodPost, "/api/v1/payrolls", salaryBody(emp, "1000"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created payrollEnvelope
	decode(t, w, &created)
	path := "/api/v1/payrolls/" + created.Data.ID.String()

	w = a.do(http.MethodPut, path, salaryBody(emp, "1200"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated payrollEnvelope
	decode(t, w, &updated)
	assert.Equal(t, "1200", updated.Data.Salary.String())

	w = a.do(http.MethodGet, "/api/v1/employees/"+emp.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var wallet struct {
		Data apppayroll.EmployeeResponse `json:"data"`
	}
	decode(t, w, &wallet)
	assert.Equal(t, "1200", wallet.Data.SalaryTaken.String())

	w = a.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodGet, "/api/v1/accounts/reconcile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reconciled struct {
		Data apppayroll.ReconciliationResult `json:"data"`
	}
	decode(t, w, &reconciled)
	assert.True(t, reconciled.Data.Balanced)
}
