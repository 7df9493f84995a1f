package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/payroll/internal/domain/ledger"
	"github.com/erp/payroll/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerReportRepository(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewGormAccountRepository(db)
	txs := NewGormTransactionRepository(db)
	repo := NewGormLedgerReportRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	bank := createAccount(t, accounts, tenantID, "Bank", ledger.AccountTypeBank)
	expense := createAccount(t, accounts, tenantID, "Salary Expense", ledger.AccountTypeExpense)

	march := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	may := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, txs.CreateBatch(ctx, []*ledger.Transaction{
		newLeg(tenantID, expense, ledger.LegExpense, 1000, 0, march),
		newLeg(tenantID, bank, ledger.LegFunding, 0, 1000, march),
	}))
	require.NoError(t, txs.CreateBatch(ctx, []*ledger.Transaction{
		newLeg(tenantID, expense, ledger.LegExpense, 700, 0, may),
		newLeg(tenantID, bank, ledger.LegFunding, 0, 700, may),
	}))

	filter := report.LedgerReportFilter{
		TenantID:  tenantID,
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
	}

	t.Run("trial balance sums the period only", func(t *testing.T) {
		lines, err := repo.GetTrialBalanceLines(ctx, filter)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		tb := report.NewTrialBalance(filter, lines)
		assert.True(t, tb.TotalDebit.Equal(decimal.NewFromInt(1000)))
		assert.True(t, tb.Difference.IsZero())
	})

	t.Run("general ledger filters by account type", func(t *testing.T) {
		f := filter
		f.EndDate = may
		f.AccountType = string(ledger.AccountTypeBank)
		entries, err := repo.GetGeneralLedgerEntries(ctx, f)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.True(t, entries[0].PostedAt.Before(entries[1].PostedAt))
		assert.Equal(t, "funding", entries[0].Leg)
	})
}
