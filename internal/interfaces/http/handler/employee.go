package handler

import (
	apppayroll "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/erp/payroll/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// EmployeeHandler handles employee wallet and statement endpoints
type EmployeeHandler struct {
	BaseHandler
	employeeService *apppayroll.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService *apppayroll.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// StatementQuery selects the months of a statement, both inclusive
type StatementQuery struct {
	From string `form:"from" binding:"required,month" example:"2024-01"`
	To   string `form:"to" binding:"required,month" example:"2024-06"`
}

// EmployeeListQuery represents query parameters for listing employees
type EmployeeListQuery struct {
	dto.ListRequest
	Search string `form:"search" binding:"max=100"`
}

// Create godoc
// @ID           createEmployee
// @Summary      Register an employee wallet
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body apppayroll.CreateEmployeeRequest true "Employee"
// @Success      201 {object} APIResponse[apppayroll.EmployeeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req apppayroll.CreateEmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	employee, err := h.employeeService.Create(c.Request.Context(), p.TenantID, p.CompanyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, employee)
}

// List godoc
// @ID           listEmployees
// @Summary      List employee wallets
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Param        search    query string false "Name or employee number"
// @Success      200 {object} APIResponse[[]apppayroll.EmployeeResponse]
// @Router       /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var q EmployeeListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	q.Normalize()

	employees, err := h.employeeService.List(c.Request.Context(), p.TenantID, shared.Filter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employees)
}

// GetByID godoc
// @ID           getEmployee
// @Summary      Get an employee wallet
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Employee ID" format(uuid)
// @Success      200 {object} APIResponse[apppayroll.EmployeeResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	employee, err := h.employeeService.GetByID(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Statement godoc
// @ID           getEmployeeStatement
// @Summary      Get an employee's monthly statement
// @Description  Lists the ledger entries per month with salary, advance and loan totals and a running balance
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string true "Employee ID" format(uuid)
// @Param        from query string true "First month (YYYY-MM)"
// @Param        to   query string true "Last month (YYYY-MM)"
// @Success      200 {object} APIResponse[apppayroll.StatementResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /employees/{id}/statement [get]
func (h *EmployeeHandler) Statement(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var q StatementQuery
	if !h.bindQuery(c, &q) {
		return
	}
	statement, err := h.employeeService.Statement(c.Request.Context(), p.TenantID, id, q.From, q.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statement)
}

// ExportStatement godoc
// @ID           exportEmployeeStatement
// @Summary      Export an employee statement as PDF
// @Description  Renders the statement, stores it and returns a signed download URL
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string true "Employee ID" format(uuid)
// @Param        from query string true "First month (YYYY-MM)"
// @Param        to   query string true "Last month (YYYY-MM)"
// @Success      201 {object} APIResponse[apppayroll.StatementExport]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /employees/{id}/statement/export [post]
func (h *EmployeeHandler) ExportStatement(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var q StatementQuery
	if !h.bindQuery(c, &q) {
		return
	}
	export, err := h.employeeService.ExportStatement(c.Request.Context(), p.TenantID, id, q.From, q.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, export)
}
