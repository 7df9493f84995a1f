package payroll

import (
	"context"
	"time"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
)

// Settings is the per-organization configuration the payroll core reads:
// the accounting mode and which features run through the approval chain.
type Settings struct {
	TenantID            uuid.UUID
	IsAccrualAccounting bool
	ApprovalLevels      int
	ApprovalFeatures    []approval.Feature
	StrictAccounts      bool
	UpdatedAt           time.Time
}

// DefaultSettings is what an organization without a settings row gets:
// cash-basis accounting and no approval chain
func DefaultSettings(tenantID uuid.UUID) *Settings {
	return &Settings{
		TenantID:         tenantID,
		ApprovalLevels:   1,
		ApprovalFeatures: make([]approval.Feature, 0),
	}
}

// RequiresApproval reports whether records of feature start in pending
func (s *Settings) RequiresApproval(f approval.Feature) bool {
	for _, af := range s.ApprovalFeatures {
		if af == f {
			return true
		}
	}
	return false
}

// Workflow returns the initial workflow for a new record of feature
func (s *Settings) Workflow(f approval.Feature) approval.Workflow {
	return approval.New(s.RequiresApproval(f), s.ApprovalLevels)
}

// Validate checks the settings before they are stored
func (s *Settings) Validate() error {
	if s.TenantID == uuid.Nil {
		return shared.NewValidationError("tenant is required")
	}
	if s.ApprovalLevels < 1 || s.ApprovalLevels > 2 {
		return shared.NewValidationError("approval levels must be 1 or 2, got %d", s.ApprovalLevels)
	}
	seen := make(map[approval.Feature]struct{}, len(s.ApprovalFeatures))
	for _, f := range s.ApprovalFeatures {
		if !f.IsValid() {
			return shared.NewValidationError("unknown approval feature %q", f)
		}
		if _, dup := seen[f]; dup {
			return shared.NewValidationError("approval feature %q listed twice", f)
		}
		seen[f] = struct{}{}
	}
	return nil
}

// SettingsRepository defines the interface for organization settings persistence
type SettingsRepository interface {
	// FindByTenant returns the tenant's settings or ErrNotFound
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*Settings, error)

	// Save inserts or replaces the tenant's settings
	Save(ctx context.Context, s *Settings) error

	// ListTenantIDs returns every tenant with a settings row
	ListTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}
