package payroll

import (
	"sort"
	"strings"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletEntry is one itemized wallet movement. Salary entries keep the
// advance parts they recovered so reversal can restore them.
type WalletEntry struct {
	Month     Month           `json:"month"`
	Value     decimal.Decimal `json:"value"`
	PayrollID uuid.UUID       `json:"payroll_id"`
	Recovered []WalletEntry   `json:"recovered,omitempty"`
}

// Employee carries the wallet aggregates the payroll core mutates
type Employee struct {
	shared.TenantAggregateRoot
	EmployeeNumber string
	Name           string
	Email          string
	Department     string
	Advances       []WalletEntry
	Loans          []WalletEntry
	Salaries       []WalletEntry
	AdvanceTaken   decimal.Decimal
	LoanTaken      decimal.Decimal
	SalaryTaken    decimal.Decimal
	TotalWallet    decimal.Decimal
}

// NewEmployee creates an employee with an empty wallet
func NewEmployee(tenantID, companyID uuid.UUID, number, name string) (*Employee, error) {
	number = strings.TrimSpace(number)
	name = strings.TrimSpace(name)
	if number == "" {
		return nil, shared.NewValidationError("employee number is required")
	}
	if name == "" {
		return nil, shared.NewValidationError("employee name is required")
	}
	e := &Employee{
		TenantAggregateRoot: shared.NewScopedAggregateRoot(tenantID, companyID, uuid.Nil),
		EmployeeNumber:      number,
		Name:                name,
		Advances:            make([]WalletEntry, 0),
		Loans:               make([]WalletEntry, 0),
		Salaries:            make([]WalletEntry, 0),
	}
	e.recompute()
	return e, nil
}

// ApplyItem mutates the wallet for a posted item
func (e *Employee) ApplyItem(item Item) {
	switch item.Type {
	case TypeAdvance:
		e.recordAdvance(item)
	case TypeLoan:
		e.Loans = append(e.Loans, WalletEntry{Month: item.Month, Value: item.Amount, PayrollID: item.PayrollID})
		e.recompute()
	default:
		e.recordSalary(item)
	}
	e.Touch()
}

// recordSalary nets the month's advances out of the salary. The advance
// entries are consumed in order until the salary amount is covered; a
// partly consumed entry keeps its remainder.
func (e *Employee) recordSalary(item Item) {
	remaining := item.Amount
	recovered := make([]WalletEntry, 0)
	kept := make([]WalletEntry, 0, len(e.Advances))

	for _, adv := range e.Advances {
		if adv.Month != item.Month || !remaining.IsPositive() {
			kept = append(kept, adv)
			continue
		}
		take := decimal.Min(adv.Value, remaining)
		remaining = remaining.Sub(take)
		recovered = append(recovered, WalletEntry{Month: adv.Month, Value: take, PayrollID: adv.PayrollID})
		if left := adv.Value.Sub(take); left.IsPositive() {
			adv.Value = left
			kept = append(kept, adv)
		}
	}

	e.Advances = kept
	entry := WalletEntry{Month: item.Month, Value: remaining, PayrollID: item.PayrollID}
	if len(recovered) > 0 {
		entry.Recovered = recovered
	}
	e.Salaries = append(e.Salaries, entry)
	e.recompute()
}

func (e *Employee) recordAdvance(item Item) {
	parts := SplitAmount(item.Amount, item.NumberOfMonths)
	for i, v := range parts {
		e.Advances = append(e.Advances, WalletEntry{Month: item.Month.Add(i), Value: v, PayrollID: item.PayrollID})
	}
	e.recompute()
}

// RevertItem removes every wallet entry of the item's payroll and restores
// the advances a salary had recovered
func (e *Employee) RevertItem(item Item) error {
	if item.Type == TypeAdvance {
		for _, s := range e.Salaries {
			for _, r := range s.Recovered {
				if r.PayrollID == item.PayrollID {
					return shared.NewInvariantError(
						"advance %s was recovered by salary %s; reverse the salary first", item.PayrollID, s.PayrollID)
				}
			}
		}
	}

	switch item.Type {
	case TypeAdvance:
		e.Advances = withoutPayroll(e.Advances, item.PayrollID)
	case TypeLoan:
		e.Loans = withoutPayroll(e.Loans, item.PayrollID)
	default:
		kept := make([]WalletEntry, 0, len(e.Salaries))
		for _, s := range e.Salaries {
			if s.PayrollID != item.PayrollID {
				kept = append(kept, s)
				continue
			}
			for _, r := range s.Recovered {
				e.restoreAdvance(r)
			}
		}
		e.Salaries = kept
	}
	e.recompute()
	e.Touch()
	return nil
}

func (e *Employee) restoreAdvance(r WalletEntry) {
	for i := range e.Advances {
		if e.Advances[i].PayrollID == r.PayrollID && e.Advances[i].Month == r.Month {
			e.Advances[i].Value = e.Advances[i].Value.Add(r.Value)
			return
		}
	}
	e.Advances = append(e.Advances, WalletEntry{Month: r.Month, Value: r.Value, PayrollID: r.PayrollID})
	sort.SliceStable(e.Advances, func(i, j int) bool { return e.Advances[i].Month < e.Advances[j].Month })
}

func withoutPayroll(entries []WalletEntry, payrollID uuid.UUID) []WalletEntry {
	kept := make([]WalletEntry, 0, len(entries))
	for _, en := range entries {
		if en.PayrollID != payrollID {
			kept = append(kept, en)
		}
	}
	return kept
}

func sumEntries(entries []WalletEntry) decimal.Decimal {
	total := decimal.Zero
	for _, en := range entries {
		total = total.Add(en.Value)
	}
	return total
}

func (e *Employee) recompute() {
	e.AdvanceTaken = sumEntries(e.Advances)
	e.LoanTaken = sumEntries(e.Loans)
	e.SalaryTaken = sumEntries(e.Salaries)
	e.TotalWallet = e.AdvanceTaken.Add(e.LoanTaken).Add(e.SalaryTaken)
}

// CheckWallet verifies every aggregate equals the sum of its history
func (e *Employee) CheckWallet() error {
	checks := []struct {
		name string
		have decimal.Decimal
		want decimal.Decimal
	}{
		{"advanceTaken", e.AdvanceTaken, sumEntries(e.Advances)},
		{"loanTaken", e.LoanTaken, sumEntries(e.Loans)},
		{"salaryTaken", e.SalaryTaken, sumEntries(e.Salaries)},
		{"totalWallet", e.TotalWallet, e.AdvanceTaken.Add(e.LoanTaken).Add(e.SalaryTaken)},
	}
	for _, c := range checks {
		if !c.have.Equal(c.want) {
			return shared.NewInvariantError("employee %s %s is %s, history sums to %s", e.ID, c.name, c.have, c.want)
		}
	}
	return nil
}
