package handler

import (
	apppayroll "github.com/erp/payroll/internal/application/payroll"
	"github.com/gin-gonic/gin"
)

// GroupPayrollHandler handles group payroll endpoints
type GroupPayrollHandler struct {
	BaseHandler
	groupService *apppayroll.GroupPayrollService
}

// NewGroupPayrollHandler creates a new GroupPayrollHandler
func NewGroupPayrollHandler(groupService *apppayroll.GroupPayrollService) *GroupPayrollHandler {
	return &GroupPayrollHandler{groupService: groupService}
}

// Create godoc
// @ID           createGroupPayroll
// @Summary      Create a group payroll
// @Description  Creates one payroll per recorded time line, all sharing the group's approval chain
// @Tags         group-payrolls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body apppayroll.CreateGroupPayrollRequest true "Group payroll"
// @Success      201 {object} APIResponse[apppayroll.GroupPayrollResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /group-payrolls [post]
func (h *GroupPayrollHandler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req apppayroll.CreateGroupPayrollRequest
	if !h.bindJSON(c, &req) {
		return
	}
	group, err := h.groupService.Create(c.Request.Context(), p.TenantID, p.CompanyID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, group)
}

// List godoc
// @ID           listGroupPayrolls
// @Summary      List group payrolls
// @Tags         group-payrolls
// @Produce      json
// @Security     BearerAuth
// @Param        page            query int    false "Page number" default(1)
// @Param        page_size       query int    false "Page size" default(20)
// @Param        search          query string false "Name"
// @Param        month           query string false "Month (YYYY-MM)"
// @Param        state           query string false "Approval state"
// @Param        voucher_created query bool   false "Voucher issued"
// @Success      200 {object} APIResponse[[]apppayroll.GroupPayrollResponse]
// @Router       /group-payrolls [get]
func (h *GroupPayrollHandler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var filter apppayroll.GroupPayrollListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	result, err := h.groupService.List(c.Request.Context(), p.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(&h.BaseHandler, c, result)
}

// GetByID godoc
// @ID           getGroupPayroll
// @Summary      Get a group payroll
// @Tags         group-payrolls
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Group payroll ID" format(uuid)
// @Success      200 {object} APIResponse[apppayroll.GroupPayrollResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /group-payrolls/{id} [get]
func (h *GroupPayrollHandler) GetByID(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	group, err := h.groupService.GetByID(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, group)
}

// ChangeApproval godoc
// @ID           changeGroupPayrollApproval
// @Summary      Move a group payroll through its approval chain
// @Description  The new state is applied to every member payroll in the same transaction
// @Tags         group-payrolls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                     true "Group payroll ID" format(uuid)
// @Param        request body apppayroll.ApprovalRequest true "Target state"
// @Success      200 {object} APIResponse[apppayroll.ApprovalResult]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /group-payrolls/{id}/approval [post]
func (h *GroupPayrollHandler) ChangeApproval(c *gin.Context) {
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
	result, err := h.groupService.ChangeApproval(c.Request.Context(), p.TenantID, p.UserID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete godoc
// @ID           deleteGroupPayroll
// @Summary      Delete a group payroll and its payrolls
// @Tags         group-payrolls
// @Security     BearerAuth
// @Param        id path string true "Group payroll ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /group-payrolls/{id} [delete]
func (h *GroupPayrollHandler) Delete(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.groupService.Delete(c.Request.Context(), p.TenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
