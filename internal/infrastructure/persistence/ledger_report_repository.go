package persistence

import (
	"context"

	"github.com/erp/payroll/internal/domain/report"
	"github.com/erp/payroll/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLedgerReportRepository implements report.LedgerReportRepository over the transaction log
type GormLedgerReportRepository struct {
	db *gorm.DB
}

// NewGormLedgerReportRepository creates a new GormLedgerReportRepository
func NewGormLedgerReportRepository(db *gorm.DB) *GormLedgerReportRepository {
	return &GormLedgerReportRepository{db: db}
}

// GetTrialBalanceLines returns per-account debit and credit totals for the period
func (r *GormLedgerReportRepository) GetTrialBalanceLines(ctx context.Context, filter report.LedgerReportFilter) ([]report.TrialBalanceLine, error) {
	var lines []report.TrialBalanceLine
	err := r.scoped(ctx, filter).
		Select("account_id, account_name, account_type, " +
			"COALESCE(SUM(debit), 0) AS debit, COALESCE(SUM(credit), 0) AS credit").
		Group("account_id, account_name, account_type").
		Order("account_type ASC, account_name ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// GetGeneralLedgerEntries returns postings for the period in posting order
func (r *GormLedgerReportRepository) GetGeneralLedgerEntries(ctx context.Context, filter report.LedgerReportFilter) ([]report.GeneralLedgerEntry, error) {
	var rows []models.TransactionModel
	if err := r.scoped(ctx, filter).
		Order("posted_at ASC, seq ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]report.GeneralLedgerEntry, len(rows))
	for i, t := range rows {
		entries[i] = report.GeneralLedgerEntry{
			TransactionID:  t.ID,
			AccountID:      t.AccountID,
			AccountName:    t.AccountName,
			AccountType:    string(t.AccountType),
			PostedAt:       t.PostedAt,
			Reference:      t.Reference,
			Type:           string(t.Type),
			Leg:            string(t.Leg),
			Debit:          t.Debit,
			Credit:         t.Credit,
			RunningBalance: t.RunningBalance,
		}
	}
	return entries, nil
}

func (r *GormLedgerReportRepository) scoped(ctx context.Context, filter report.LedgerReportFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("tenant_id = ?", filter.TenantID).
		Where("posted_at BETWEEN ? AND ?", filter.StartDate, filter.EndDate)
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.AccountType != "" {
		query = query.Where("account_type = ?", filter.AccountType)
	}
	return query
}

var _ report.LedgerReportRepository = (*GormLedgerReportRepository)(nil)
