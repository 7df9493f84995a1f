package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJobs struct{ queued int }

func (s *stubJobs) TriggerAll(context.Context) int { return s.queued }

func serveSystem(h *SystemHandler, method, path string) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/system/info", h.GetSystemInfo)
	r.POST("/system/ledger/maintenance", h.TriggerLedgerMaintenance)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	w := serveSystem(NewSystemHandler("1.2.3"), http.MethodGet, "/system/info")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data SystemInfoResponse `json:"data"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "Payroll Ledger API", resp.Data.Name)
	assert.Equal(t, "1.2.3", resp.Data.Version)
	assert.NotEmpty(t, resp.Data.GoVersion)
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("all probes pass", func(t *testing.T) {
		h := NewSystemHandler("dev")
		h.AddHealthCheck("database", func(context.Context) error { return nil })
		w := serveSystem(h, http.MethodGet, "/health")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp HealthResponse
		decode(t, w, &resp)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "healthy", resp.Checks["database"])
	})

	t.Run("failing probe answers 503", func(t *testing.T) {
		h := NewSystemHandler("dev")
		h.AddHealthCheck("database", func(context.Context) error { return nil })
		h.AddHealthCheck("redis", func(context.Context) error { return errors.New("dial tcp: refused") })
		w := serveSystem(h, http.MethodGet, "/health")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var resp HealthResponse
		decode(t, w, &resp)
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Contains(t, resp.Checks["redis"], "refused")
		assert.Equal(t, "healthy", resp.Checks["database"])
	})
}

func TestSystemHandler_TriggerLedgerMaintenance(t *testing.T) {
	h := NewSystemHandler("dev")
	w := serveSystem(h, http.MethodPost, "/system/ledger/maintenance")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "scheduler not configured")

	h.SetLedgerJobs(&stubJobs{queued: 4})
	w = serveSystem(h, http.MethodPost, "/system/ledger/maintenance")
	require.Equal(t, http.StatusAccepted, w.Code)
	var resp struct {
		Data TriggerResponse `json:"data"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 4, resp.Data.Jobs)
}
