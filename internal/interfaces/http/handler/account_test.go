package handler

import (
	"net/http"
	"testing"

	apppayroll "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/domain/ledger"
	"github.com/erp/payroll/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountHandler_CreateAndList(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/v1/accounts", map[string]any{"name": "Petty Cash", "type": "cash"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/v1/accounts", map[string]any{"name": "Petty Cash", "type": "cash"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrCodeAlreadyExists, errorInfo(t, w).Code)

	w = a.do(http.MethodPost, "/api/v1/accounts", map[string]any{"type": "cash"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/v1/accounts?type=cash", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list struct {
		Data []apppayroll.AccountResponse `json:"data"`
	}
	decode(t, w, &list)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Petty Cash", list.Data[0].Name)
}

func TestAccountHandler_TransactionsFollowPostings(t *testing.T) {
	a := newAPI(t)
	a.configure(map[string]any{"approval_levels": 1})
	emp := a.employee("E-1")
	w := a.do(http.MethodPost, "/api/v1/payrolls", salaryBody(emp, "400"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodGet, "/api/v1/accounts?search="+"Bank", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []apppayroll.AccountResponse `json:"data"`
	}
	decode(t, w, &list)
	var bank *apppayroll.AccountResponse
	for i := range list.Data {
		if list.Data[i].Name == testBank {
			bank = &list.Data[i]
		}
	}
	require.NotNil(t, bank)
	assert.Equal(t, ledger.AccountTypeBank, bank.Type)
	assert.Equal(t, "-400", bank.Amount.String())

	w = a.do(http.MethodGet, "/api/v1/accounts/"+bank.ID.String()+"/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var txs struct {
		Data []apppayroll.TransactionResponse `json:"data"`
	}
	decode(t, w, &txs)
	require.Len(t, txs.Data, 1)
	assert.Equal(t, "400", txs.Data[0].Credit.String())
}

func TestEmployeeHandler_Statement(t *testing.T) {
	a := newAPI(t)
	a.configure(map[string]any{"approval_levels": 1})
	emp := a.employee("E-1")

	body := salaryBody(emp, "600")
	body["type"] = "advance"
	body["number_of_months"] = 3
	w := a.do(http.MethodPost, "/api/v1/payrolls", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodGet, "/api/v1/employees/"+emp.String()+"/statement?from=2024-01&to=2024-12", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var statement struct {
		Data apppayroll.StatementResponse `json:"data"`
	}
	decode(t, w, &statement)
	require.Len(t, statement.Data.Months, 3)
	for _, m := range statement.Data.Months {
		assert.Equal(t, "200", m.Total.String())
	}

	w = a.do(http.MethodGet, "/api/v1/employees/"+emp.String()+"/statement?from=2024-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "to is required")

	w = a.do(http.MethodGet, "/api/v1/employees/"+emp.String()+"/statement?from=24-01&to=2024-12", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsHandler_GetAndUpdate(t *testing.T) {
	a := newAPI(t)

	a.configure(map[string]any{"approval_levels": 2, "is_accrual_accounting": true, "approval_features": []string{"group_payroll"}})

	w := a.do(http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Data apppayroll.SettingsResponse `json:"data"`
	}
	decode(t, w, &got)
	assert.Equal(t, 2, got.Data.ApprovalLevels)
	assert.True(t, got.Data.IsAccrualAccounting)

	w = a.do(http.MethodPut, "/api/v1/settings", map[string]any{"approval_levels": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
