// Package payroll holds the disbursable records, the employee wallet and the
// employee ledger together with the planning rules that turn a record into
// ledger legs.
package payroll

import (
	"fmt"
	"strings"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payroll is one employee's disbursable item: a salary run, an advance or a loan
type Payroll struct {
	shared.TenantAggregateRoot
	EmployeeID       uuid.UUID
	Month            Month
	Salary           decimal.Decimal
	TotalPay         decimal.Decimal // optional, overrides Salary when positive
	Type             Type
	NumberOfMonths   int
	Approval         approval.Workflow
	TransactionIDs   []uuid.UUID
	AccrualIDs       []uuid.UUID // expense recognized ahead of disbursement
	CostCenterID     *uuid.UUID
	SalaryAccount    string // expense account override
	PaidThrough      string // funding account for direct posting
	Reference        string
	Remark           string
	VoucherCreated   bool
	VoucherID        *uuid.UUID
	FromGroupPayroll bool
	GroupPayrollID   *uuid.UUID
	IsDeleted        bool
	IsRejected       bool
}

// PayrollParams carries the editable fields of a payroll
type PayrollParams struct {
	EmployeeID     uuid.UUID
	Month          string
	Salary         decimal.Decimal
	TotalPay       decimal.Decimal
	Type           Type
	NumberOfMonths int
	CostCenterID   *uuid.UUID
	SalaryAccount  string
	PaidThrough    string
	Reference      string
	Remark         string
}

// NewPayroll creates a payroll. The workflow decides whether it starts in
// pending or none.
func NewPayroll(tenantID, companyID, createdBy uuid.UUID, params PayrollParams, flow approval.Workflow) (*Payroll, error) {
	p := &Payroll{
		TenantAggregateRoot: shared.NewScopedAggregateRoot(tenantID, companyID, createdBy),
		Approval:            flow,
		TransactionIDs:      make([]uuid.UUID, 0),
		AccrualIDs:          make([]uuid.UUID, 0),
	}
	if err := p.assign(params); err != nil {
		return nil, err
	}
	p.AddDomainEvent(NewPayrollCreatedEvent(p))
	return p, nil
}

func (p *Payroll) assign(params PayrollParams) error {
	if params.EmployeeID == uuid.Nil {
		return shared.NewValidationError("employee is required")
	}
	month, err := ParseMonth(params.Month)
	if err != nil {
		return err
	}
	if !params.Type.IsValid() {
		return shared.NewValidationError("unknown payroll type %q", params.Type)
	}
	if !params.Salary.IsPositive() && !params.TotalPay.IsPositive() {
		return shared.NewValidationError("salary or total pay must be positive")
	}
	if params.Salary.IsNegative() || params.TotalPay.IsNegative() {
		return shared.NewValidationError("amounts cannot be negative")
	}
	months := params.NumberOfMonths
	switch params.Type {
	case TypeAdvance, TypeLoan:
		if months < 1 {
			months = 1
		}
		if strings.TrimSpace(params.PaidThrough) == "" {
			return shared.NewValidationError("%s requires a paid through account", params.Type)
		}
	default:
		months = 1
	}

	p.EmployeeID = params.EmployeeID
	p.Month = month
	p.Salary = params.Salary
	p.TotalPay = params.TotalPay
	p.Type = params.Type
	p.NumberOfMonths = months
	p.CostCenterID = params.CostCenterID
	p.SalaryAccount = strings.TrimSpace(params.SalaryAccount)
	p.PaidThrough = strings.TrimSpace(params.PaidThrough)
	p.Reference = strings.TrimSpace(params.Reference)
	p.Remark = params.Remark
	return nil
}

// Update applies an edit. Callers reverse existing postings first.
func (p *Payroll) Update(params PayrollParams) error {
	if err := p.ensureEditable(); err != nil {
		return err
	}
	if p.IsPosted() || p.IsAccrued() {
		return shared.NewInvariantError("payroll %s must be reversed before it is edited", p.ID)
	}
	if err := p.assign(params); err != nil {
		return err
	}
	p.Touch()
	return nil
}

// Amount returns TotalPay when positive, else Salary
func (p *Payroll) Amount() decimal.Decimal {
	if p.TotalPay.IsPositive() {
		return p.TotalPay
	}
	return p.Salary
}

// ExpenseAccount returns the override or the type's default expense account
func (p *Payroll) ExpenseAccount() string {
	if p.SalaryAccount != "" {
		return p.SalaryAccount
	}
	return p.Type.DefaultExpenseAccount()
}

// IsPosted reports whether the payroll owns ledger postings
func (p *Payroll) IsPosted() bool {
	return len(p.TransactionIDs) > 0
}

// IsAccrued reports whether the payroll's expense has been recognized
// against Salary Payable
func (p *Payroll) IsAccrued() bool {
	return len(p.AccrualIDs) > 0
}

// NeedsAccrual reports whether approval must recognize the salary expense
// before it is paid. Advances and loans are expensed when paid.
func (p *Payroll) NeedsAccrual(accrual bool) bool {
	return accrual && p.Type.IsSalary() && !p.IsAccrued()
}

// PostsDirectly reports whether approval posts the payroll itself rather
// than waiting for a voucher
func (p *Payroll) PostsDirectly() bool {
	return p.PaidThrough != "" && p.VoucherID == nil
}

// Item returns the disbursement item for the payroll
func (p *Payroll) Item() Item {
	return Item{
		PayrollID:      p.ID,
		EmployeeID:     p.EmployeeID,
		Month:          p.Month,
		Type:           p.Type,
		Amount:         p.Amount(),
		NumberOfMonths: p.NumberOfMonths,
		ExpenseAccount: p.ExpenseAccount(),
		CostCenterID:   p.CostCenterID,
		Accrued:        p.IsAccrued(),
	}
}

// AttachPostings records the transactions produced by a posting
func (p *Payroll) AttachPostings(ids []uuid.UUID) error {
	if p.IsPosted() {
		return shared.NewInvariantError("payroll %s is already posted", p.ID)
	}
	p.TransactionIDs = append(make([]uuid.UUID, 0, len(ids)), ids...)
	p.Touch()
	return nil
}

// DetachPostings clears the owned transactions and returns them
func (p *Payroll) DetachPostings() []uuid.UUID {
	ids := p.TransactionIDs
	p.TransactionIDs = make([]uuid.UUID, 0)
	p.Touch()
	return ids
}

// AttachAccrual records the transactions that recognized the expense
func (p *Payroll) AttachAccrual(ids []uuid.UUID) error {
	if p.IsAccrued() {
		return shared.NewInvariantError("payroll %s is already accrued", p.ID)
	}
	p.AccrualIDs = append(make([]uuid.UUID, 0, len(ids)), ids...)
	p.Touch()
	return nil
}

// DetachAccrual clears the accrual transactions and returns them
func (p *Payroll) DetachAccrual() []uuid.UUID {
	ids := p.AccrualIDs
	p.AccrualIDs = make([]uuid.UUID, 0)
	p.Touch()
	return ids
}

// CheckSelectable reports why the payroll cannot be paid by a voucher of voucherType
func (p *Payroll) CheckSelectable(voucherType Type) error {
	switch {
	case p.IsDeleted || p.IsRejected:
		return shared.NewInvariantError("payroll %s is no longer payable", p.ID)
	case p.VoucherCreated || p.VoucherID != nil:
		return shared.NewInvariantError("payroll %s is already paid by a voucher", p.ID)
	case p.IsPosted():
		return shared.NewInvariantError("payroll %s is already posted", p.ID)
	case !p.Approval.State.IsPostable():
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("payroll %s is %s and cannot be disbursed", p.ID, p.Approval.State))
	case !voucherType.Accepts(p.Type):
		return shared.NewValidationError("a %s voucher cannot pay a %s payroll", voucherType, p.Type)
	}
	return nil
}

// ReserveForVoucher marks the payroll as paid by a voucher
func (p *Payroll) ReserveForVoucher(voucherID uuid.UUID) {
	p.VoucherCreated = true
	p.VoucherID = &voucherID
	p.Touch()
}

// ReleaseFromVoucher returns the payroll to the pool of payable items
func (p *Payroll) ReleaseFromVoucher() {
	p.VoucherCreated = false
	p.VoucherID = nil
	p.Touch()
}

// MarkRejected flags the payroll as rejected
func (p *Payroll) MarkRejected() {
	p.IsRejected = true
	p.Touch()
}

// MarkDeleted invalidates the payroll
func (p *Payroll) MarkDeleted() {
	p.IsDeleted = true
	p.Touch()
}

// ensureEditable guards the operations a voucher or group reservation forbids
func (p *Payroll) ensureEditable() error {
	if p.IsDeleted {
		return shared.NewNotFoundError("payroll", p.ID)
	}
	if p.IsRejected {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("payroll %s is rejected", p.ID))
	}
	if p.VoucherID != nil {
		return shared.NewInvariantError("payroll %s is reserved by voucher %s", p.ID, *p.VoucherID)
	}
	return nil
}

// CheckEditable reports whether the payroll may be edited on its own
func (p *Payroll) CheckEditable() error {
	if err := p.ensureEditable(); err != nil {
		return err
	}
	if p.FromGroupPayroll {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("payroll %s belongs to a group payroll", p.ID))
	}
	return nil
}

// CheckRejectable reports whether the payroll may be rejected or deleted
func (p *Payroll) CheckRejectable() error {
	if p.VoucherID != nil {
		return shared.NewInvariantError("payroll %s is reserved by voucher %s", p.ID, *p.VoucherID)
	}
	return nil
}

// Feature implements approval.Record
func (p *Payroll) Feature() approval.Feature {
	return approval.FeaturePayroll
}

// DisplayID implements approval.Record
func (p *Payroll) DisplayID() string {
	if p.Reference != "" {
		return p.Reference
	}
	return "PR-" + strings.ToUpper(p.ID.String()[:8])
}

// ApprovalWorkflow implements approval.Record
func (p *Payroll) ApprovalWorkflow() *approval.Workflow {
	return &p.Approval
}

// PostedTransactionIDs implements approval.Record
func (p *Payroll) PostedTransactionIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.AccrualIDs)+len(p.TransactionIDs))
	ids = append(ids, p.AccrualIDs...)
	return append(ids, p.TransactionIDs...)
}
