package ledger

import (
	"time"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType tags the source of a posting
type TransactionType string

const (
	TransactionTypePayroll        TransactionType = "payroll"
	TransactionTypePayrollVoucher TransactionType = "payrollvoucher"
	TransactionTypeGroupPayroll   TransactionType = "grouppayroll"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid checks if the transaction type is known
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypePayroll, TransactionTypePayrollVoucher, TransactionTypeGroupPayroll:
		return true
	}
	return false
}

// LegKind names the role of a posting leg
type LegKind string

const (
	LegPayable LegKind = "payable"
	LegFunding LegKind = "funding"
	LegExpense LegKind = "expense"
)

// Side tells whether a leg debits or credits its account
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// Transaction is one immutable posting against an account.
// Exactly one of Debit and Credit is positive. It is deleted, never edited,
// on reversal.
type Transaction struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	CompanyID      *uuid.UUID
	AccountID      uuid.UUID
	AccountName    string
	AccountType    AccountType
	Reference      string
	Type           TransactionType
	Leg            LegKind
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	RunningBalance decimal.Decimal
	SourceType     string
	SourceID       uuid.UUID
	PayrollID      *uuid.UUID
	PostedAt       time.Time
	CreatedAt      time.Time
}

// Amount returns the positive side of the posting
func (t *Transaction) Amount() decimal.Decimal {
	if t.Debit.IsPositive() {
		return t.Debit
	}
	return t.Credit
}

// Side returns which side of the account the posting hit
func (t *Transaction) Side() Side {
	if t.Debit.IsPositive() {
		return SideDebit
	}
	return SideCredit
}

// Signed returns the balance effect of the posting on its account
func (t *Transaction) Signed() decimal.Decimal {
	return t.AccountType.Signed(t.Debit, t.Credit)
}

// Validate checks the debit XOR credit rule
func (t *Transaction) Validate() error {
	if t.Debit.IsNegative() || t.Credit.IsNegative() {
		return shared.NewInvariantError("transaction %s has a negative amount", t.ID)
	}
	if t.Debit.IsPositive() == t.Credit.IsPositive() {
		return shared.NewInvariantError("transaction %s must carry exactly one of debit or credit", t.ID)
	}
	return nil
}

// TransactionIDs collects ids in order
func TransactionIDs(txs []*Transaction) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(txs))
	for _, t := range txs {
		ids = append(ids, t.ID)
	}
	return ids
}
