package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/payroll/internal/domain/ledger"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createAccount(t *testing.T, repo *GormAccountRepository, tenantID uuid.UUID, name string, typ ledger.AccountType) *ledger.Account {
	t.Helper()
	a, err := ledger.NewAccount(tenantID, uuid.New(), name, typ)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func TestAccountRepository_FindByNamesForUpdate(t *testing.T) {
	repo := NewGormAccountRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	createAccount(t, repo, tenantID, "Salaries Payable", ledger.AccountTypePayable)
	createAccount(t, repo, tenantID, "Bank", ledger.AccountTypeBank)
	createAccount(t, repo, uuid.New(), "Cash", ledger.AccountTypeCash)

	got, err := repo.FindByNamesForUpdate(ctx, tenantID, []string{"Salaries Payable", "Cash", "Bank"})
	require.NoError(t, err)
	require.Len(t, got, 2, "other tenant's account and missing names are absent")
	assert.Equal(t, "Bank", got[0].Name)
	assert.Equal(t, "Salaries Payable", got[1].Name)
}

func TestAccountRepository_FindByIDsForUpdateMissing(t *testing.T) {
	repo := NewGormAccountRepository(setupTestDB(t))
	tenantID := uuid.New()
	a := createAccount(t, repo, tenantID, "Bank", ledger.AccountTypeBank)

	_, err := repo.FindByIDsForUpdate(context.Background(), tenantID, []uuid.UUID{a.ID, uuid.New()})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	got, err := repo.FindByIDsForUpdate(context.Background(), tenantID, []uuid.UUID{a.ID, a.ID})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAccountRepository_FindByNameNotFound(t *testing.T) {
	repo := NewGormAccountRepository(setupTestDB(t))

	_, err := repo.FindByName(context.Background(), uuid.New(), "Nope")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeNotFound, domainErr.Code)
}

func TestAccountRepository_SaveBalancesVersionCheck(t *testing.T) {
	repo := NewGormAccountRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()
	a := createAccount(t, repo, tenantID, "Bank", ledger.AccountTypeBank)

	stale := *a
	a.Amount = decimal.NewFromInt(-500)
	require.NoError(t, repo.SaveBalances(ctx, []*ledger.Account{a}))
	assert.Equal(t, 2, a.Version)

	reloaded, err := repo.FindByIDForTenant(ctx, tenantID, a.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Amount.Equal(decimal.NewFromInt(-500)))
	assert.Equal(t, 2, reloaded.Version)

	stale.Amount = decimal.NewFromInt(10)
	err = repo.SaveBalances(ctx, []*ledger.Account{&stale})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestAccountRepository_FilterAndCount(t *testing.T) {
	repo := NewGormAccountRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()
	createAccount(t, repo, tenantID, "Bank", ledger.AccountTypeBank)
	createAccount(t, repo, tenantID, "Petty Cash", ledger.AccountTypeCash)
	createAccount(t, repo, tenantID, "Salary Expense", ledger.AccountTypeExpense)

	cash := ledger.AccountTypeCash
	filter := ledger.AccountFilter{Filter: shared.Filter{Page: 1, PageSize: 10}, Type: &cash}
	got, err := repo.FindAllForTenant(ctx, tenantID, filter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Petty Cash", got[0].Name)

	count, err := repo.CountForTenant(ctx, tenantID, ledger.AccountFilter{Filter: shared.Filter{Search: "a"}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	tenants, err := repo.ListTenantIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{tenantID}, tenants)
}

func newLeg(tenantID uuid.UUID, acct *ledger.Account, leg ledger.LegKind, debit, credit int64, postedAt time.Time) *ledger.Transaction {
	return &ledger.Transaction{
		ID:          uuid.New(),
		TenantID:    tenantID,
		AccountID:   acct.ID,
		AccountName: acct.Name,
		AccountType: acct.Type,
		Type:        ledger.TransactionTypePayroll,
		Leg:         leg,
		Debit:       decimal.NewFromInt(debit),
		Credit:      decimal.NewFromInt(credit),
		SourceType:  "payroll",
		SourceID:    uuid.New(),
		PostedAt:    postedAt,
		CreatedAt:   postedAt,
	}
}

func TestTransactionRepository_BatchKeepsPostingOrder(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewGormAccountRepository(db)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	bank := createAccount(t, accounts, tenantID, "Bank", ledger.AccountTypeBank)
	expense := createAccount(t, accounts, tenantID, "Salary Expense", ledger.AccountTypeExpense)

	postedAt := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	legs := []*ledger.Transaction{
		newLeg(tenantID, expense, ledger.LegExpense, 1000, 0, postedAt),
		newLeg(tenantID, bank, ledger.LegFunding, 0, 1000, postedAt),
	}
	require.NoError(t, repo.CreateBatch(ctx, legs))

	got, err := repo.FindByIDs(ctx, tenantID, []uuid.UUID{legs[1].ID, legs[0].ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, legs[0].ID, got[0].ID)
	assert.Equal(t, legs[1].ID, got[1].ID)

	listed, err := repo.ListForAccounts(ctx, tenantID, []uuid.UUID{bank.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Credit.Equal(decimal.NewFromInt(1000)))

	accountID := expense.ID
	count, err := repo.CountForTenant(ctx, tenantID, ledger.TransactionFilter{AccountID: &accountID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	removed, err := repo.DeleteByIDs(ctx, tenantID, ledger.TransactionIDs(legs))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	left, err := repo.FindForTenant(ctx, tenantID, ledger.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestAccountRepository_ForUpdateSQL(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormAccountRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE .*name IN .* ORDER BY name ASC FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	got, err := repo.FindByNamesForUpdate(context.Background(), uuid.New(), []string{"Bank"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_SaveBalancesConflictSQL(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormAccountRepository(db)

	a, err := ledger.NewAccount(uuid.New(), uuid.New(), "Bank", ledger.AccountTypeBank)
	require.NoError(t, err)
	a.Version = 3

	mock.ExpectExec(`UPDATE "accounts" SET .* WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SaveBalances(context.Background(), []*ledger.Account{a})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.Equal(t, 3, a.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
