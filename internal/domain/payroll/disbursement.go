package payroll

import (
	"github.com/erp/payroll/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one disbursable amount resolved from a payroll or voucher line
type Item struct {
	PayrollID      uuid.UUID
	EmployeeID     uuid.UUID
	Month          Month
	Type           Type
	Amount         decimal.Decimal
	NumberOfMonths int
	ExpenseAccount string
	CostCenterID   *uuid.UUID
	Accrued        bool // expense already recognized against the payable
}

// Disburser plans the ledger legs of an item under an accounting mode
type Disburser struct {
	Accrual bool
}

// NewDisburser creates a planner for the organization's accounting mode
func NewDisburser(accrual bool) Disburser {
	return Disburser{Accrual: accrual}
}

// Legs returns the legs to post for item through the funding account.
// Salary items clear the payable. Advances and loans were never accrued, so
// they post no payable leg. The expense leg is recognized at disbursement
// only under cash-basis accounting, and never for an accrued item.
func (d Disburser) Legs(item Item, funding string) []ledger.Leg {
	pid := item.PayrollID
	legs := make([]ledger.Leg, 0, 3)
	if item.Type.IsSalary() {
		legs = append(legs, ledger.Leg{
			Kind:      ledger.LegPayable,
			Side:      ledger.SideDebit,
			Account:   ledger.AccountSalaryPayable,
			Amount:    item.Amount,
			PayrollID: &pid,
		})
	}
	legs = append(legs, ledger.Leg{
		Kind:      ledger.LegFunding,
		Side:      ledger.SideCredit,
		Account:   funding,
		Amount:    item.Amount,
		PayrollID: &pid,
	})
	if !d.Accrual && !item.Accrued {
		legs = append(legs, ledger.Leg{
			Kind:      ledger.LegExpense,
			Side:      ledger.SideDebit,
			Account:   item.ExpenseAccount,
			Amount:    item.Amount,
			PayrollID: &pid,
		})
	}
	return legs
}

// AccrualLegs returns the legs that recognize a salary item's expense
// against Salary Payable ahead of disbursement. Other types accrue nothing.
func (d Disburser) AccrualLegs(item Item) []ledger.Leg {
	if !item.Type.IsSalary() {
		return nil
	}
	pid := item.PayrollID
	return []ledger.Leg{
		{
			Kind:      ledger.LegExpense,
			Side:      ledger.SideDebit,
			Account:   item.ExpenseAccount,
			Amount:    item.Amount,
			PayrollID: &pid,
		},
		{
			Kind:      ledger.LegPayable,
			Side:      ledger.SideCredit,
			Account:   ledger.AccountSalaryPayable,
			Amount:    item.Amount,
			PayrollID: &pid,
		},
	}
}

// AccountNames returns the account names the legs of items touch, unique
func (d Disburser) AccountNames(items []Item, funding string) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0, 4)
	add := func(n string) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	for _, it := range items {
		for _, leg := range d.Legs(it, funding) {
			add(leg.Account)
		}
	}
	return names
}

// ExpectedLegs returns how many transactions a posting of items produces
func (d Disburser) ExpectedLegs(items []Item) int {
	n := 0
	for _, it := range items {
		n += len(d.Legs(it, ""))
	}
	return n
}

// SplitAmount divides amount over n months. Each month gets amount/n
// truncated to cents and the last month absorbs the remainder so the parts
// sum exactly to amount.
func SplitAmount(amount decimal.Decimal, n int) []decimal.Decimal {
	if n <= 1 {
		return []decimal.Decimal{amount}
	}
	part := amount.Div(decimal.NewFromInt(int64(n))).Truncate(2)
	parts := make([]decimal.Decimal, n)
	rest := amount
	for i := 0; i < n-1; i++ {
		parts[i] = part
		rest = rest.Sub(part)
	}
	parts[n-1] = rest
	return parts
}

// LedgerEntries returns the employee ledger lines for item. Advances and
// loans are split over NumberOfMonths starting at the item's month.
func LedgerEntries(item Item) []LedgerEntry {
	n := 1
	if item.Type == TypeAdvance || item.Type == TypeLoan {
		n = item.NumberOfMonths
	}
	parts := SplitAmount(item.Amount, n)
	entries := make([]LedgerEntry, 0, len(parts))
	for i, amt := range parts {
		entries = append(entries, LedgerEntry{
			Month:     item.Month.Add(i),
			Amount:    amt,
			PayrollID: item.PayrollID,
			Type:      item.Type,
		})
	}
	return entries
}

// LedgerMonths returns the months whose ledger rows item touches
func LedgerMonths(item Item) []Month {
	entries := LedgerEntries(item)
	months := make([]Month, 0, len(entries))
	for _, e := range entries {
		months = append(months, e.Month)
	}
	return months
}
