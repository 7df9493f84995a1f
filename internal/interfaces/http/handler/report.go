package handler

import (
	reportapp "github.com/erp/payroll/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the read-only ledger reports
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetTrialBalance godoc
// @ID           getTrialBalance
// @Summary      Trial balance
// @Description  Debit and credit totals per account for the period. Balanced is true when both sides agree.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        start_date   query string true  "Start date (YYYY-MM-DD)"
// @Param        end_date     query string true  "End date (YYYY-MM-DD), inclusive"
// @Param        account_type query string false "Account type"
// @Success      200 {object} APIResponse[report.TrialBalance]
// @Failure      400 {object} ErrorResponse
// @Router       /reports/trial-balance [get]
func (h *ReportHandler) GetTrialBalance(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var filter reportapp.LedgerReportFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	result, err := h.reportService.GetTrialBalance(c.Request.Context(), p.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetGeneralLedger godoc
// @ID           getGeneralLedger
// @Summary      General ledger
// @Description  Every leg posted in the period, grouped per account with opening and closing balances
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        start_date   query string true  "Start date (YYYY-MM-DD)"
// @Param        end_date     query string true  "End date (YYYY-MM-DD), inclusive"
// @Param        account_id   query string false "Account ID" format(uuid)
// @Param        account_type query string false "Account type"
// @Success      200 {object} APIResponse[report.GeneralLedger]
// @Failure      400 {object} ErrorResponse
// @Router       /reports/general-ledger [get]
func (h *ReportHandler) GetGeneralLedger(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var filter reportapp.LedgerReportFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	result, err := h.reportService.GetGeneralLedger(c.Request.Context(), p.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
