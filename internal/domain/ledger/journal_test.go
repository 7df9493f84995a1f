package ledger

import (
	"testing"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccounts(t *testing.T, tenantID uuid.UUID) []*Account {
	t.Helper()
	specs := append([]AccountSpec{{Name: "Main Bank", Type: AccountTypeBank}}, RequiredAccounts...)
	accounts := make([]*Account, 0, len(specs))
	for _, s := range specs {
		a, err := NewAccount(tenantID, uuid.Nil, s.Name, s.Type)
		require.NoError(t, err)
		accounts = append(accounts, a)
	}
	return accounts
}

func testSource(tenantID uuid.UUID) Source {
	return Source{
		TenantID:   tenantID,
		Type:       TransactionTypePayroll,
		SourceType: "payroll",
		SourceID:   uuid.New(),
		Reference:  "Salary 2024-05",
	}
}

func TestNewAccount(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates with zero balance", func(t *testing.T) {
		a, err := NewAccount(tenantID, uuid.Nil, "  Main Bank ", AccountTypeBank)
		require.NoError(t, err)
		assert.Equal(t, "Main Bank", a.Name)
		assert.True(t, a.Amount.IsZero())
		assert.Nil(t, a.CompanyID)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewAccount(tenantID, uuid.Nil, " ", AccountTypeBank)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewAccount(tenantID, uuid.Nil, "X", AccountType("crypto"))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestAccountType_Signed(t *testing.T) {
	hundred := decimal.NewFromInt(100)
	assert.True(t, AccountTypeBank.Signed(hundred, decimal.Zero).Equal(hundred))
	assert.True(t, AccountTypeBank.Signed(decimal.Zero, hundred).Equal(hundred.Neg()))
	assert.True(t, AccountTypePayable.Signed(hundred, decimal.Zero).Equal(hundred.Neg()))
	assert.True(t, AccountTypeExpense.Signed(hundred, decimal.Zero).Equal(hundred))
	assert.True(t, AccountTypeCash.CanFund())
	assert.False(t, AccountTypeExpense.CanFund())
}

func TestJournal_PostLeg(t *testing.T) {
	tenantID := uuid.New()
	j := NewJournal(newTestAccounts(t, tenantID))
	src := testSource(tenantID)
	amount := decimal.NewFromInt(5000)

	payable, err := j.PostLeg(src, Leg{Kind: LegPayable, Side: SideDebit, Account: AccountSalaryPayable, Amount: amount})
	require.NoError(t, err)
	funding, err := j.PostLeg(src, Leg{Kind: LegFunding, Side: SideCredit, Account: "Main Bank", Amount: amount})
	require.NoError(t, err)
	expense, err := j.PostLeg(src, Leg{Kind: LegExpense, Side: SideDebit, Account: AccountSalaryAndWages, Amount: amount})
	require.NoError(t, err)

	assert.True(t, payable.RunningBalance.Equal(decimal.NewFromInt(-5000)))
	assert.True(t, funding.RunningBalance.Equal(decimal.NewFromInt(-5000)))
	assert.True(t, expense.RunningBalance.Equal(amount))
	assert.Equal(t, "Salary 2024-05", funding.Reference)
	assert.Equal(t, SideCredit, funding.Side())
	require.NoError(t, funding.Validate())

	assert.Len(t, j.Created(), 3)
	assert.Len(t, j.Touched(), 3)

	t.Run("running balance accumulates", func(t *testing.T) {
		tx, err := j.PostLeg(src, Leg{Kind: LegFunding, Side: SideCredit, Account: "Main Bank", Amount: decimal.NewFromInt(250)})
		require.NoError(t, err)
		assert.True(t, tx.RunningBalance.Equal(decimal.NewFromInt(-5250)))
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := j.PostLeg(src, Leg{Kind: LegFunding, Side: SideCredit, Account: "Petty Cash", Amount: amount})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := j.PostLeg(src, Leg{Kind: LegFunding, Side: SideCredit, Account: "Main Bank", Amount: decimal.Zero})
		assert.ErrorIs(t, err, shared.ErrInvariantViolation)
	})
}

func TestJournal_ReverseLegRestoresBalances(t *testing.T) {
	tenantID := uuid.New()
	accounts := newTestAccounts(t, tenantID)
	j := NewJournal(accounts)
	src := testSource(tenantID)
	amount := decimal.NewFromInt(1200)

	_, err := j.PostLeg(src, Leg{Kind: LegPayable, Side: SideDebit, Account: AccountSalaryPayable, Amount: amount})
	require.NoError(t, err)
	_, err = j.PostLeg(src, Leg{Kind: LegFunding, Side: SideCredit, Account: "Main Bank", Amount: amount})
	require.NoError(t, err)
	posted := append([]*Transaction(nil), j.Created()...)
	assert.True(t, IsBalanced(posted))

	// a fresh journal over the same accounts models a later unit of work
	later := NewJournal(accounts)
	for i := len(posted) - 1; i >= 0; i-- {
		require.NoError(t, later.ReverseLeg(posted[i]))
	}
	for _, a := range accounts {
		assert.True(t, a.Amount.IsZero(), a.Name)
	}
	assert.ElementsMatch(t, TransactionIDs(posted), later.Removed())
	assert.Empty(t, later.Created())
}

func TestJournal_ReverseLegInSameJournal(t *testing.T) {
	tenantID := uuid.New()
	j := NewJournal(newTestAccounts(t, tenantID))
	tx, err := j.PostLeg(testSource(tenantID), Leg{Kind: LegFunding, Side: SideCredit, Account: "Main Bank", Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)

	require.NoError(t, j.ReverseLeg(tx))
	assert.Empty(t, j.Created())
	assert.Empty(t, j.Removed())
}

func TestJournal_ReverseLegMismatch(t *testing.T) {
	tenantID := uuid.New()
	accounts := newTestAccounts(t, tenantID)
	j := NewJournal(accounts)

	t.Run("unknown account", func(t *testing.T) {
		err := j.ReverseLeg(&Transaction{ID: uuid.New(), AccountID: uuid.New(), Debit: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("type disagrees with account", func(t *testing.T) {
		err := j.ReverseLeg(&Transaction{
			ID:          uuid.New(),
			AccountID:   accounts[0].ID,
			AccountType: AccountTypePayable,
			Credit:      decimal.NewFromInt(1),
		})
		assert.ErrorIs(t, err, shared.ErrInvariantViolation)
	})

	t.Run("both sides set", func(t *testing.T) {
		err := j.ReverseLeg(&Transaction{
			ID:          uuid.New(),
			AccountID:   accounts[0].ID,
			AccountType: accounts[0].Type,
			Debit:       decimal.NewFromInt(1),
			Credit:      decimal.NewFromInt(1),
		})
		assert.ErrorIs(t, err, shared.ErrInvariantViolation)
	})
}

func TestReconcile(t *testing.T) {
	tenantID := uuid.New()
	accounts := newTestAccounts(t, tenantID)
	j := NewJournal(accounts)
	src := testSource(tenantID)
	_, err := j.PostLeg(src, Leg{Kind: LegFunding, Side: SideCredit, Account: "Main Bank", Amount: decimal.NewFromInt(700)})
	require.NoError(t, err)
	_, err = j.PostLeg(src, Leg{Kind: LegExpense, Side: SideDebit, Account: AccountEmployeeAdvance, Amount: decimal.NewFromInt(700)})
	require.NoError(t, err)

	assert.Empty(t, Reconcile(accounts, j.Created()))

	accounts[0].Amount = accounts[0].Amount.Add(decimal.NewFromInt(5))
	drifts := Reconcile(accounts, j.Created())
	require.Len(t, drifts, 1)
	assert.Equal(t, "Main Bank", drifts[0].AccountName)
	assert.True(t, drifts[0].Difference.Equal(decimal.NewFromInt(5)))
}

func TestMissingAccounts(t *testing.T) {
	tenantID := uuid.New()
	assert.Len(t, MissingAccounts(nil), len(RequiredAccounts))

	accounts := newTestAccounts(t, tenantID)
	assert.Empty(t, MissingAccounts(accounts))

	for _, a := range accounts {
		if a.Name == AccountEmployeeLoan {
			a.Type = AccountTypeAsset
		}
	}
	missing := MissingAccounts(accounts)
	require.Len(t, missing, 1)
	assert.Equal(t, AccountEmployeeLoan, missing[0].Name)
}
