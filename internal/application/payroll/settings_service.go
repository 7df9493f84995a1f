package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SettingsService reads and updates organization payroll settings.
// It is also the SettingsProvider of the record services.
type SettingsService struct {
	repo     payroll.SettingsRepository
	accounts *AccountService
	logger   *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo payroll.SettingsRepository, accounts *AccountService, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, accounts: accounts, logger: logger}
}

var _ SettingsProvider = (*SettingsService)(nil)

// Settings returns the organization's settings, or the defaults when none
// are stored
func (s *SettingsService) Settings(ctx context.Context, tenantID uuid.UUID) (*payroll.Settings, error) {
	settings, err := s.repo.FindByTenant(ctx, tenantID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return payroll.DefaultSettings(tenantID), nil
		}
		return nil, err
	}
	return settings, nil
}

// Get returns the organization's settings with its account validation
func (s *SettingsService) Get(ctx context.Context, tenantID uuid.UUID) (*SettingsResponse, error) {
	settings, err := s.Settings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := ToSettingsResponse(settings)
	if s.accounts != nil {
		v, err := s.accounts.ValidateOrganization(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		resp.Accounts = v
	}
	return &resp, nil
}

// Update replaces the organization's settings and validates its accounts.
// With strict account checking the update is refused while accounts are missing.
func (s *SettingsService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateSettingsRequest) (*SettingsResponse, error) {
	settings := &payroll.Settings{
		TenantID:            tenantID,
		IsAccrualAccounting: req.IsAccrualAccounting,
		ApprovalLevels:      req.ApprovalLevels,
		ApprovalFeatures:    req.ApprovalFeatures,
		StrictAccounts:      req.StrictAccounts,
		UpdatedAt:           time.Now(),
	}
	if settings.ApprovalFeatures == nil {
		settings.ApprovalFeatures = make([]approval.Feature, 0)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	var validation *AccountValidation
	if s.accounts != nil {
		v, err := s.accounts.ValidateOrganization(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if !v.Valid && settings.StrictAccounts {
			return nil, shared.NewValidationError("organization is missing %d payroll accounts; provision them first", len(v.Missing))
		}
		validation = v
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	s.logger.Info("payroll settings updated",
		zap.String("tenant_id", tenantID.String()),
		zap.Bool("accrual", settings.IsAccrualAccounting),
		zap.Int("approval_levels", settings.ApprovalLevels),
	)
	resp := ToSettingsResponse(settings)
	resp.Accounts = validation
	return &resp, nil
}
