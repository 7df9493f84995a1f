package payroll

import (
	"testing"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSettings_Workflow(t *testing.T) {
	s := DefaultSettings(uuid.New())
	assert.Equal(t, approval.StateNone, s.Workflow(approval.FeaturePayroll).State)

	s.ApprovalFeatures = []approval.Feature{approval.FeaturePayroll}
	s.ApprovalLevels = 2
	flow := s.Workflow(approval.FeaturePayroll)
	assert.Equal(t, approval.StatePending, flow.State)
	assert.Equal(t, approval.StateApproved2, flow.TerminalLevel())
	assert.Equal(t, approval.StateNone, s.Workflow(approval.FeaturePayrollVoucher).State)
}

func TestSettings_Validate(t *testing.T) {
	tenantID := uuid.New()
	tests := []struct {
		name     string
		settings Settings
		wantErr  bool
	}{
		{"defaults", *DefaultSettings(tenantID), false},
		{"no tenant", Settings{ApprovalLevels: 1}, true},
		{"three levels", Settings{TenantID: tenantID, ApprovalLevels: 3}, true},
		{"unknown feature", Settings{TenantID: tenantID, ApprovalLevels: 1, ApprovalFeatures: []approval.Feature{"invoice"}}, true},
		{"duplicate feature", Settings{TenantID: tenantID, ApprovalLevels: 1, ApprovalFeatures: []approval.Feature{approval.FeaturePayroll, approval.FeaturePayroll}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr {
				assert.True(t, shared.IsCode(err, shared.CodeValidation))
				return
			}
			assert.NoError(t, err)
		})
	}
}
