package handler

import (
	apppayroll "github.com/erp/payroll/internal/application/payroll"
	"github.com/gin-gonic/gin"
)

// VoucherHandler handles payroll voucher endpoints
type VoucherHandler struct {
	BaseHandler
	voucherService *apppayroll.VoucherService
}

// NewVoucherHandler creates a new VoucherHandler
func NewVoucherHandler(voucherService *apppayroll.VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherService: voucherService}
}

// Create godoc
// @ID           createVoucher
// @Summary      Issue a payroll voucher
// @Description  Pays out payrolls, listed as items or taken from a group payroll, through one account
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body apppayroll.CreateVoucherRequest true "Voucher"
// @Success      201 {object} APIResponse[apppayroll.VoucherResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /vouchers [post]
func (h *VoucherHandler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req apppayroll.CreateVoucherRequest
	if !h.bindJSON(c, &req) {
		return
	}
	voucher, err := h.voucherService.Create(c.Request.Context(), p.TenantID, p.CompanyID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, voucher)
}

// List godoc
// @ID           listVouchers
// @Summary      List payroll vouchers
// @Tags         vouchers
// @Produce      json
// @Security     BearerAuth
// @Param        page             query int    false "Page number" default(1)
// @Param        page_size        query int    false "Page size" default(20)
// @Param        search           query string false "Voucher number"
// @Param        state            query string false "Approval state"
// @Param        group_payroll_id query string false "Group payroll ID" format(uuid)
// @Success      200 {object} APIResponse[[]apppayroll.VoucherResponse]
// @Router       /vouchers [get]
func (h *VoucherHandler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var filter apppayroll.VoucherListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	result, err := h.voucherService.List(c.Request.Context(), p.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(&h.BaseHandler, c, result)
}

// GetByID godoc
// @ID           getVoucher
// @Summary      Get a payroll voucher
// @Tags         vouchers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Voucher ID" format(uuid)
// @Success      200 {object} APIResponse[apppayroll.VoucherResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /vouchers/{id} [get]
func (h *VoucherHandler) GetByID(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	voucher, err := h.voucherService.GetByID(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, voucher)
}

// ChangeApproval godoc
// @ID           changeVoucherApproval
// @Summary      Move a voucher through its approval chain
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                     true "Voucher ID" format(uuid)
// @Param        request body apppayroll.ApprovalRequest true "Target state"
// @Success      200 {object} APIResponse[apppayroll.ApprovalResult]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /vouchers/{id}/approval [post]
func (h *VoucherHandler) ChangeApproval(c *gin.Context) {
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
	result, err := h.voucherService.ChangeApproval(c.Request.Context(), p.TenantID, p.UserID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete godoc
// @ID           deleteVoucher
// @Summary      Delete a payroll voucher
// @Description  Reverses the voucher's postings and releases its payrolls
// @Tags         vouchers
// @Security     BearerAuth
// @Param        id path string true "Voucher ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /vouchers/{id} [delete]
func (h *VoucherHandler) Delete(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.voucherService.Delete(c.Request.Context(), p.TenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
