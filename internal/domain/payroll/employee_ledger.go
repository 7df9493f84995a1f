package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntry is one statement line of an employee ledger
type LedgerEntry struct {
	Month     Month           `json:"month"`
	Amount    decimal.Decimal `json:"amount"`
	PayrollID uuid.UUID       `json:"payroll_id"`
	Type      Type            `json:"type"`
}

// EmployeeLedger is the (tenant, employee, month) statement row
type EmployeeLedger struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	CompanyID  *uuid.UUID
	EmployeeID uuid.UUID
	Month      Month
	Entries    []LedgerEntry
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewEmployeeLedger creates an empty ledger row
func NewEmployeeLedger(tenantID uuid.UUID, companyID *uuid.UUID, employeeID uuid.UUID, month Month) *EmployeeLedger {
	now := time.Now()
	return &EmployeeLedger{
		ID:         uuid.New(),
		TenantID:   tenantID,
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Month:      month,
		Entries:    make([]LedgerEntry, 0),
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Add appends an entry
func (l *EmployeeLedger) Add(entry LedgerEntry) {
	l.Entries = append(l.Entries, entry)
	l.UpdatedAt = time.Now()
}

// Pull removes the entries of a payroll and returns how many were removed
func (l *EmployeeLedger) Pull(payrollID uuid.UUID) int {
	kept := make([]LedgerEntry, 0, len(l.Entries))
	for _, e := range l.Entries {
		if e.PayrollID != payrollID {
			kept = append(kept, e)
		}
	}
	removed := len(l.Entries) - len(kept)
	l.Entries = kept
	if removed > 0 {
		l.UpdatedAt = time.Now()
	}
	return removed
}

// Total sums the row's entries
func (l *EmployeeLedger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.Entries {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalByType sums the row's entries of one type
func (l *EmployeeLedger) TotalByType(t Type) decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.Entries {
		if e.Type == t {
			total = total.Add(e.Amount)
		}
	}
	return total
}
