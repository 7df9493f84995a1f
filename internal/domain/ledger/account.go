// Package ledger holds the account balance register and the transaction log.
package ledger

import (
	"strings"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType classifies an account and decides its normal side
type AccountType string

const (
	AccountTypePayable   AccountType = "payable"
	AccountTypeBank      AccountType = "bank"
	AccountTypeCash      AccountType = "cash"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeIncome    AccountType = "income"
)

// AllAccountTypes lists every account type
var AllAccountTypes = []AccountType{
	AccountTypePayable,
	AccountTypeBank,
	AccountTypeCash,
	AccountTypeExpense,
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeIncome,
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// IsValid checks if the account type is known
func (t AccountType) IsValid() bool {
	for _, v := range AllAccountTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsDebitNormal reports whether debits increase the balance
func (t AccountType) IsDebitNormal() bool {
	switch t {
	case AccountTypeBank, AccountTypeCash, AccountTypeExpense, AccountTypeAsset:
		return true
	}
	return false
}

// CanFund reports whether money can leave the organization through the account
func (t AccountType) CanFund() bool {
	return t == AccountTypeBank || t == AccountTypeCash
}

// Signed returns the balance effect of a debit/credit pair on an account of this type
func (t AccountType) Signed(debit, credit decimal.Decimal) decimal.Decimal {
	if t.IsDebitNormal() {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// Account is a mutable balance register identified by name inside a tenant.
// Amount only changes through Journal.
type Account struct {
	shared.TenantAggregateRoot
	Name        string
	Type        AccountType
	Code        string
	Description string
	Amount      decimal.Decimal
}

// NewAccount creates an account with a zero balance
func NewAccount(tenantID, companyID uuid.UUID, name string, accountType AccountType) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("account name is required")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("account name cannot exceed 200 characters")
	}
	if !accountType.IsValid() {
		return nil, shared.NewValidationError("unknown account type %q", accountType)
	}
	return &Account{
		TenantAggregateRoot: shared.NewScopedAggregateRoot(tenantID, companyID, uuid.Nil),
		Name:                name,
		Type:                accountType,
		Amount:              decimal.Zero,
	}, nil
}

// applyDelta is called by Journal only
func (a *Account) applyDelta(delta decimal.Decimal) {
	a.Amount = a.Amount.Add(delta)
	a.Touch()
}
