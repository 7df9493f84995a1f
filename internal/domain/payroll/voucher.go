package payroll

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoucherItem is one employee line of a direct voucher
type VoucherItem struct {
	EmployeeID uuid.UUID       `json:"employee_id"`
	PayrollID  uuid.UUID       `json:"payroll_id"`
	Salary     decimal.Decimal `json:"salary"`
	TotalPay   decimal.Decimal `json:"total_pay"`
}

// Amount returns TotalPay when positive, else Salary
func (i VoucherItem) Amount() decimal.Decimal {
	if i.TotalPay.IsPositive() {
		return i.TotalPay
	}
	return i.Salary
}

// Voucher is a disbursement batch paying payrolls through one funding
// account. It pays either a list of items or a whole group payroll.
type Voucher struct {
	shared.TenantAggregateRoot
	VoucherNumber  string
	Items          []VoucherItem
	GroupPayrollID *uuid.UUID
	PaidThrough    string
	SalaryAccount  string
	Type           Type
	Approval       approval.Workflow
	TransactionIDs []uuid.UUID
	PaymentDate    time.Time
	Remark         string
	IsDeleted      bool
	IsRejected     bool
}

// VoucherParams carries the fields needed to issue a voucher
type VoucherParams struct {
	VoucherNumber  string
	Items          []VoucherItem
	GroupPayrollID *uuid.UUID
	PaidThrough    string
	SalaryAccount  string
	Type           Type
	PaymentDate    time.Time
	Remark         string
}

// NewVoucher creates a voucher
func NewVoucher(tenantID, companyID, createdBy uuid.UUID, params VoucherParams, flow approval.Workflow) (*Voucher, error) {
	number := strings.TrimSpace(params.VoucherNumber)
	if number == "" {
		return nil, shared.NewValidationError("voucher number is required")
	}
	if len(number) > 50 {
		return nil, shared.NewValidationError("voucher number cannot exceed 50 characters")
	}
	if strings.TrimSpace(params.PaidThrough) == "" {
		return nil, shared.NewValidationError("paid through account is required")
	}
	voucherType := params.Type
	if voucherType == "" {
		voucherType = TypeFull
	}
	if !voucherType.IsVoucherType() {
		return nil, shared.NewValidationError("voucher type must be full, advance or loan, got %q", params.Type)
	}
	hasItems := len(params.Items) > 0
	hasGroup := params.GroupPayrollID != nil && *params.GroupPayrollID != uuid.Nil
	if hasItems == hasGroup {
		return nil, shared.NewValidationError("a voucher pays either employee items or one group payroll")
	}
	if hasGroup && voucherType != TypeFull {
		return nil, shared.NewValidationError("group payroll vouchers must be of type full")
	}
	seen := make(map[uuid.UUID]struct{}, len(params.Items))
	for i, it := range params.Items {
		if it.PayrollID == uuid.Nil || it.EmployeeID == uuid.Nil {
			return nil, shared.NewValidationError("item %d requires employee and payroll", i)
		}
		if _, dup := seen[it.PayrollID]; dup {
			return nil, shared.NewValidationError("payroll %s appears twice", it.PayrollID)
		}
		seen[it.PayrollID] = struct{}{}
	}
	paymentDate := params.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	v := &Voucher{
		TenantAggregateRoot: shared.NewScopedAggregateRoot(tenantID, companyID, createdBy),
		VoucherNumber:       number,
		Items:               append(make([]VoucherItem, 0, len(params.Items)), params.Items...),
		PaidThrough:         strings.TrimSpace(params.PaidThrough),
		SalaryAccount:       strings.TrimSpace(params.SalaryAccount),
		Type:                voucherType,
		Approval:            flow,
		TransactionIDs:      make([]uuid.UUID, 0),
		PaymentDate:         paymentDate,
		Remark:              params.Remark,
	}
	if hasGroup {
		gid := *params.GroupPayrollID
		v.GroupPayrollID = &gid
	}
	v.AddDomainEvent(NewVoucherCreatedEvent(v))
	return v, nil
}

// IsGroupVoucher reports whether the voucher pays a group payroll
func (v *Voucher) IsGroupVoucher() bool {
	return v.GroupPayrollID != nil
}

// PayrollIDs returns the payrolls named by the voucher's items
func (v *Voucher) PayrollIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(v.Items))
	for _, it := range v.Items {
		ids = append(ids, it.PayrollID)
	}
	return ids
}

// ItemFor returns the voucher line for payrollID
func (v *Voucher) ItemFor(payrollID uuid.UUID) (VoucherItem, bool) {
	for _, it := range v.Items {
		if it.PayrollID == payrollID {
			return it, true
		}
	}
	return VoucherItem{}, false
}

// DisbursementItem builds the posting item for one paid payroll. Voucher
// line amounts override the payroll's own amount, and the voucher's salary
// account overrides the payroll's.
func (v *Voucher) DisbursementItem(p *Payroll) Item {
	item := p.Item()
	if line, ok := v.ItemFor(p.ID); ok && line.Amount().IsPositive() {
		item.Amount = line.Amount()
	}
	if v.SalaryAccount != "" {
		item.ExpenseAccount = v.SalaryAccount
	}
	return item
}

// Total sums the voucher lines
func (v *Voucher) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range v.Items {
		total = total.Add(it.Amount())
	}
	return total
}

// IsPosted reports whether the voucher owns ledger postings
func (v *Voucher) IsPosted() bool {
	return len(v.TransactionIDs) > 0
}

// AttachPostings records the transactions produced by the voucher's single posting
func (v *Voucher) AttachPostings(ids []uuid.UUID) error {
	if v.IsPosted() {
		return shared.NewInvariantError("voucher %s is already posted", v.VoucherNumber)
	}
	v.TransactionIDs = append(make([]uuid.UUID, 0, len(ids)), ids...)
	v.Touch()
	return nil
}

// DetachPostings clears the owned transactions and returns them
func (v *Voucher) DetachPostings() []uuid.UUID {
	ids := v.TransactionIDs
	v.TransactionIDs = make([]uuid.UUID, 0)
	v.Touch()
	return ids
}

// CheckActive reports whether the voucher can still change
func (v *Voucher) CheckActive() error {
	if v.IsDeleted {
		return shared.NewNotFoundError("voucher", v.ID)
	}
	if v.IsRejected {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("voucher %s is rejected", v.VoucherNumber))
	}
	return nil
}

// MarkRejected flags the voucher as rejected
func (v *Voucher) MarkRejected() {
	v.IsRejected = true
	v.Touch()
}

// MarkDeleted invalidates the voucher
func (v *Voucher) MarkDeleted() {
	v.IsDeleted = true
	v.Touch()
}

// Feature implements approval.Record
func (v *Voucher) Feature() approval.Feature {
	return approval.FeaturePayrollVoucher
}

// DisplayID implements approval.Record
func (v *Voucher) DisplayID() string {
	return v.VoucherNumber
}

// ApprovalWorkflow implements approval.Record
func (v *Voucher) ApprovalWorkflow() *approval.Workflow {
	return &v.Approval
}

// PostedTransactionIDs implements approval.Record
func (v *Voucher) PostedTransactionIDs() []uuid.UUID {
	return v.TransactionIDs
}
