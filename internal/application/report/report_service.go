package report

import (
	"context"
	"time"

	"github.com/erp/payroll/internal/domain/report"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
)

// ReportService provides read-only ledger reports. It never opens a posting
// transaction.
type ReportService struct {
	ledgerRepo report.LedgerReportRepository
}

// NewReportService creates a new ReportService
func NewReportService(ledgerRepo report.LedgerReportRepository) *ReportService {
	return &ReportService{ledgerRepo: ledgerRepo}
}

// LedgerReportFilter defines the request filter for ledger reports
type LedgerReportFilter struct {
	StartDate   time.Time  `form:"start_date" binding:"required" time_format:"2006-01-02"`
	EndDate     time.Time  `form:"end_date" binding:"required" time_format:"2006-01-02"`
	AccountID   *uuid.UUID `form:"account_id"`
	AccountType string     `form:"account_type" binding:"omitempty,oneof=payable bank cash expense asset liability equity income"`
}

func (f LedgerReportFilter) toDomain(tenantID uuid.UUID) (report.LedgerReportFilter, error) {
	if f.StartDate.IsZero() || f.EndDate.IsZero() {
		return report.LedgerReportFilter{}, shared.NewValidationError("start_date and end_date are required")
	}
	if f.EndDate.Before(f.StartDate) {
		return report.LedgerReportFilter{}, shared.NewValidationError("end_date must not be before start_date")
	}
	return report.LedgerReportFilter{
		TenantID:  tenantID,
		StartDate: f.StartDate,
		// the end date is inclusive
		EndDate:     f.EndDate.AddDate(0, 0, 1).Add(-time.Nanosecond),
		AccountID:   f.AccountID,
		AccountType: f.AccountType,
	}, nil
}

// GetTrialBalance returns per-account debit and credit totals for the period
func (s *ReportService) GetTrialBalance(ctx context.Context, tenantID uuid.UUID, filter LedgerReportFilter) (*report.TrialBalance, error) {
	domainFilter, err := filter.toDomain(tenantID)
	if err != nil {
		return nil, err
	}
	lines, err := s.ledgerRepo.GetTrialBalanceLines(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	return report.NewTrialBalance(domainFilter, lines), nil
}

// GetGeneralLedger returns the postings of the period grouped by account
func (s *ReportService) GetGeneralLedger(ctx context.Context, tenantID uuid.UUID, filter LedgerReportFilter) (*report.GeneralLedger, error) {
	domainFilter, err := filter.toDomain(tenantID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.GetGeneralLedgerEntries(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	return report.NewGeneralLedger(domainFilter, entries), nil
}
