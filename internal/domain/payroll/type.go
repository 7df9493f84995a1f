package payroll

import "github.com/erp/payroll/internal/domain/ledger"

// Type is the kind of disbursable item
type Type string

const (
	TypeFull             Type = "full"
	TypeAdvance          Type = "advance"
	TypeLoan             Type = "loan"
	TypeTimesheet        Type = "timesheet"
	TypeProjectTimesheet Type = "projecttimesheet"
)

// AllTypes lists every payroll type
var AllTypes = []Type{TypeFull, TypeAdvance, TypeLoan, TypeTimesheet, TypeProjectTimesheet}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the type is known
func (t Type) IsValid() bool {
	switch t {
	case TypeFull, TypeAdvance, TypeLoan, TypeTimesheet, TypeProjectTimesheet:
		return true
	}
	return false
}

// IsSalary reports whether the item clears an accrued salary.
// Salary items post the payable leg, advances and loans do not.
func (t Type) IsSalary() bool {
	return t == TypeFull || t == TypeTimesheet || t == TypeProjectTimesheet
}

// IsVoucherType reports whether a voucher may be issued with this type
func (t Type) IsVoucherType() bool {
	return t == TypeFull || t == TypeAdvance || t == TypeLoan
}

// Accepts reports whether a voucher of type t can pay an item of type item
func (t Type) Accepts(item Type) bool {
	if t == TypeFull {
		return item.IsSalary()
	}
	return t == item
}

// DefaultExpenseAccount returns the well-known expense account for the type
func (t Type) DefaultExpenseAccount() string {
	switch t {
	case TypeAdvance:
		return ledger.AccountEmployeeAdvance
	case TypeLoan:
		return ledger.AccountEmployeeLoan
	}
	return ledger.AccountSalaryAndWages
}
