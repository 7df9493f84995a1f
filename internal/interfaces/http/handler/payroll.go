package handler

import (
	apppayroll "github.com/erp/payroll/internal/application/payroll"
	"github.com/gin-gonic/gin"
)

// PayrollHandler handles single payroll endpoints
type PayrollHandler struct {
	BaseHandler
	payrollService *apppayroll.PayrollService
}

// NewPayrollHandler creates a new PayrollHandler
func NewPayrollHandler(payrollService *apppayroll.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

// Create godoc
// @ID           createPayroll
// @Summary      Create a payroll
// @Description  Creates a full, advance, loan or timesheet payroll. Without an approval chain it is posted to the ledger immediately.
// @Tags         payrolls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body apppayroll.CreatePayrollRequest true "Payroll"
// @Success      201 {object} APIResponse[apppayroll.PayrollResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /payrolls [post]
func (h *PayrollHandler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req apppayroll.CreatePayrollRequest
	if !h.bindJSON(c, &req) {
		return
	}
	created, err := h.payrollService.Create(c.Request.Context(), p.TenantID, p.CompanyID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// List godoc
// @ID           listPayrolls
// @Summary      List payrolls
// @Tags         payrolls
// @Produce      json
// @Security     BearerAuth
// @Param        page            query int    false "Page number" default(1)
// @Param        page_size       query int    false "Page size" default(20)
// @Param        employee_id     query string false "Employee ID" format(uuid)
// @Param        month           query string false "Month (YYYY-MM)"
// @Param        type            query string false "Payroll type"
// @Param        state           query string false "Approval state"
// @Param        voucher_created query bool   false "Voucher issued"
// @Success      200 {object} APIResponse[[]apppayroll.PayrollResponse]
// @Router       /payrolls [get]
func (h *PayrollHandler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var filter apppayroll.PayrollListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	result, err := h.payrollService.List(c.Request.Context(), p.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(&h.BaseHandler, c, result)
}

// GetByID godoc
// @ID           getPayroll
// @Summary      Get a payroll
// @Tags         payrolls
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Payroll ID" format(uuid)
// @Success      200 {object} APIResponse[apppayroll.PayrollResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /payrolls/{id} [get]
func (h *PayrollHandler) GetByID(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	found, err := h.payrollService.GetByID(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, found)
}

// Update godoc
// @ID           updatePayroll
// @Summary      Edit a payroll
// @Description  A posted payroll is reversed, edited and posted again in one transaction
// @Tags         payrolls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                          true "Payroll ID" format(uuid)
// @Param        request body apppayroll.UpdatePayrollRequest true "Payroll"
// @Success      200 {object} APIResponse[apppayroll.PayrollResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /payrolls/{id} [put]
func (h *PayrollHandler) Update(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req apppayroll.UpdatePayrollRequest
	if !h.bindJSON(c, &req) {
		return
	}
	updated, err := h.payrollService.Update(c.Request.Context(), p.TenantID, p.UserID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// ChangeApproval godoc
// @ID           changePayrollApproval
// @Summary      Move a payroll through its approval chain
// @Description  Reaching the final state posts the payroll, rejecting a posted one reverses it. A transition that changes nothing returns changed=false.
// @Tags         payrolls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                     true "Payroll ID" format(uuid)
// @Param        request body apppayroll.ApprovalRequest true "Target state"
// @Success      200 {object} APIResponse[apppayroll.ApprovalResult]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /payrolls/{id}/approval [post]
func (h *PayrollHandler) ChangeApproval(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req apppayroll.ApprovalRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.payrollService.ChangeApproval(c.Request.Context(), p.TenantID, p.UserID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete godoc
// @ID           deletePayroll
// @Summary      Delete a payroll
// @Description  Reverses the payroll's postings before removing it
// @Tags         payrolls
// @Security     BearerAuth
// @Param        id path string true "Payroll ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /payrolls/{id} [delete]
func (h *PayrollHandler) Delete(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.payrollService.Delete(c.Request.Context(), p.TenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
