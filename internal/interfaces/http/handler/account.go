package handler

import (
	apppayroll "github.com/erp/payroll/internal/application/payroll"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles ledger account endpoints
type AccountHandler struct {
	BaseHandler
	accountService *apppayroll.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *apppayroll.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Create godoc
// @ID           createAccount
// @Summary      Create a ledger account
// @Description  Creates an account with a zero balance. Names are unique per organization.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body apppayroll.CreateAccountRequest true "Account"
// @Success      201 {object} APIResponse[apppayroll.AccountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req apppayroll.CreateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), p.TenantID, p.CompanyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// List godoc
// @ID           listAccounts
// @Summary      List ledger accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Param        search    query string false "Name or code"
// @Param        type      query string false "Account type"
// @Success      200 {object} APIResponse[[]apppayroll.AccountResponse]
// @Router       /accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var filter apppayroll.AccountListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	result, err := h.accountService.List(c.Request.Context(), p.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(&h.BaseHandler, c, result)
}

// Transactions godoc
// @ID           listAccountTransactions
// @Summary      List an account's transactions
// @Description  Returns the account's legs in posting order with running balances
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id        path  string true  "Account ID" format(uuid)
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Param        from_date query string false "From date (YYYY-MM-DD)"
// @Param        to_date   query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]apppayroll.TransactionResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /accounts/{id}/transactions [get]
func (h *AccountHandler) Transactions(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var filter apppayroll.TransactionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	result, err := h.accountService.Transactions(c.Request.Context(), p.TenantID, id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(&h.BaseHandler, c, result)
}

// Provision godoc
// @ID           provisionAccounts
// @Summary      Create the well-known payroll accounts
// @Description  Creates Salary Payable and Employee Loan when missing. Existing accounts are left untouched.
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[[]apppayroll.AccountResponse]
// @Router       /accounts/provision [post]
func (h *AccountHandler) Provision(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	accounts, err := h.accountService.Provision(c.Request.Context(), p.TenantID, p.CompanyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}

// Validate godoc
// @ID           validateAccounts
// @Summary      Check the organization has its payroll accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[apppayroll.AccountValidation]
// @Router       /accounts/validate [get]
func (h *AccountHandler) Validate(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	result, err := h.accountService.ValidateOrganization(c.Request.Context(), p.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Reconcile godoc
// @ID           reconcileAccounts
// @Summary      Compare stored balances with the transaction log
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[apppayroll.ReconciliationResult]
// @Router       /accounts/reconcile [get]
func (h *AccountHandler) Reconcile(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	result, err := h.accountService.Reconcile(c.Request.Context(), p.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
