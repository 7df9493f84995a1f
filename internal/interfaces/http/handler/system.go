package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/erp/payroll/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// HealthCheck probes one dependency, e.g. the database or redis
type HealthCheck func(ctx context.Context) error

// LedgerJobTrigger queues the ledger maintenance jobs for every organization
type LedgerJobTrigger interface {
	TriggerAll(ctx context.Context) int
}

// SystemHandler handles health, info and operator endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	version   string
	checks    map[string]HealthCheck
	jobs      LedgerJobTrigger
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(version string) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		version:   version,
		checks:    make(map[string]HealthCheck),
	}
}

// AddHealthCheck registers a dependency probe for /health
func (h *SystemHandler) AddHealthCheck(name string, check HealthCheck) {
	h.checks[name] = check
}

// SetLedgerJobs enables the manual maintenance trigger
func (h *SystemHandler) SetLedgerJobs(jobs LedgerJobTrigger) {
	h.jobs = jobs
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"Payroll Ledger API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// HealthResponse reports the status of each dependency
type HealthResponse struct {
	Status string            `json:"status" example:"healthy"`
	Checks map[string]string `json:"checks"`
	Time   string            `json:"time" example:"2026-01-23T12:00:00Z"`
}

// TriggerResponse counts the queued jobs
type TriggerResponse struct {
	Jobs int `json:"jobs"`
}

// Health godoc
// @ID           getHealth
// @Summary      Health check
// @Description  Probes the database and cache. Returns 503 when any probe fails.
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{Status: "healthy", Checks: map[string]string{}, Time: time.Now().UTC().Format(time.RFC3339)}
	status := http.StatusOK
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			resp.Checks[name] = "unhealthy: " + err.Error()
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "healthy"
	}
	c.JSON(status, resp)
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Tags         system
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      "Payroll Ledger API",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// TriggerLedgerMaintenance godoc
// @ID           triggerLedgerMaintenance
// @Summary      Run reconciliation and account validation now
// @Description  Queues the daily ledger jobs for every organization without waiting for the schedule
// @Tags         system
// @Produce      json
// @Security     BearerAuth
// @Success      202 {object} APIResponse[TriggerResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /system/ledger/maintenance [post]
func (h *SystemHandler) TriggerLedgerMaintenance(c *gin.Context) {
	if h.jobs == nil {
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, "Ledger scheduler is disabled")
		return
	}
	queued := h.jobs.TriggerAll(c.Request.Context())
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(TriggerResponse{Jobs: queued}))
}
