package handler

import (
	apppayroll "github.com/erp/payroll/internal/application/payroll"
	"github.com/gin-gonic/gin"
)

// SettingsHandler handles organization payroll settings
type SettingsHandler struct {
	BaseHandler
	settingsService *apppayroll.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *apppayroll.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get godoc
// @ID           getSettings
// @Summary      Get payroll settings
// @Description  Returns the accounting mode and approval chain. Organizations that never saved settings get the defaults.
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[apppayroll.SettingsResponse]
// @Router       /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	settings, err := h.settingsService.Get(c.Request.Context(), p.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// Update godoc
// @ID           updateSettings
// @Summary      Replace payroll settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body apppayroll.UpdateSettingsRequest true "Settings"
// @Success      200 {object} APIResponse[apppayroll.SettingsResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req apppayroll.UpdateSettingsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	settings, err := h.settingsService.Update(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}
