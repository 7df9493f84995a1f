package payroll

import (
	"fmt"
	"strings"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordedTime is one employee line of a group payroll run
type RecordedTime struct {
	EmployeeID uuid.UUID       `json:"employee_id"`
	Salary     decimal.Decimal `json:"salary"`
	TotalPay   decimal.Decimal `json:"total_pay"`
	Type       Type            `json:"type"`
	Hours      decimal.Decimal `json:"hours"`
}

// GroupPayroll is a batch of payrolls created together for one month. The
// batch is approved as a whole and fans out to its children.
type GroupPayroll struct {
	shared.TenantAggregateRoot
	Name           string
	Month          Month
	RecordedTime   []RecordedTime
	PayrollIDs     []uuid.UUID
	Approval       approval.Workflow
	CostCenterID   *uuid.UUID
	SalaryAccount  string
	PaidThrough    string
	Remark         string
	VoucherCreated bool
	VoucherID      *uuid.UUID
	IsDeleted      bool
	IsRejected     bool
}

// GroupPayrollParams carries the fields needed to create a group payroll
type GroupPayrollParams struct {
	Name          string
	Month         string
	RecordedTime  []RecordedTime
	CostCenterID  *uuid.UUID
	SalaryAccount string
	PaidThrough   string
	Remark        string
}

// NewGroupPayroll creates the batch and one child payroll per recorded
// time line. Children inherit the batch's workflow, accounts and cost center.
func NewGroupPayroll(tenantID, companyID, createdBy uuid.UUID, params GroupPayrollParams, flow approval.Workflow) (*GroupPayroll, []*Payroll, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, nil, shared.NewValidationError("group payroll name is required")
	}
	month, err := ParseMonth(params.Month)
	if err != nil {
		return nil, nil, err
	}
	if len(params.RecordedTime) == 0 {
		return nil, nil, shared.NewValidationError("recorded time is required")
	}

	g := &GroupPayroll{
		TenantAggregateRoot: shared.NewScopedAggregateRoot(tenantID, companyID, createdBy),
		Name:                name,
		Month:               month,
		RecordedTime:        make([]RecordedTime, 0, len(params.RecordedTime)),
		PayrollIDs:          make([]uuid.UUID, 0, len(params.RecordedTime)),
		Approval:            flow,
		CostCenterID:        params.CostCenterID,
		SalaryAccount:       strings.TrimSpace(params.SalaryAccount),
		PaidThrough:         strings.TrimSpace(params.PaidThrough),
		Remark:              params.Remark,
	}

	seen := make(map[uuid.UUID]struct{}, len(params.RecordedTime))
	children := make([]*Payroll, 0, len(params.RecordedTime))
	for i, rt := range params.RecordedTime {
		if rt.Type == "" {
			rt.Type = TypeTimesheet
		}
		if !rt.Type.IsSalary() {
			return nil, nil, shared.NewValidationError("recorded time %d: group payrolls only carry salary types, got %q", i, rt.Type)
		}
		if _, dup := seen[rt.EmployeeID]; dup {
			return nil, nil, shared.NewValidationError("recorded time %d: employee %s appears twice", i, rt.EmployeeID)
		}
		seen[rt.EmployeeID] = struct{}{}

		child, err := NewPayroll(tenantID, companyID, createdBy, PayrollParams{
			EmployeeID:    rt.EmployeeID,
			Month:         month.String(),
			Salary:        rt.Salary,
			TotalPay:      rt.TotalPay,
			Type:          rt.Type,
			CostCenterID:  params.CostCenterID,
			SalaryAccount: g.SalaryAccount,
			PaidThrough:   g.PaidThrough,
			Reference:     fmt.Sprintf("%s #%d", name, i+1),
		}, flow)
		if err != nil {
			return nil, nil, shared.NewValidationError("recorded time %d: %s", i, err.Error())
		}
		gid := g.ID
		child.FromGroupPayroll = true
		child.GroupPayrollID = &gid

		g.RecordedTime = append(g.RecordedTime, rt)
		g.PayrollIDs = append(g.PayrollIDs, child.ID)
		children = append(children, child)
	}

	g.AddDomainEvent(NewGroupPayrollCreatedEvent(g))
	return g, children, nil
}

// Total sums the recorded time amounts
func (g *GroupPayroll) Total() decimal.Decimal {
	total := decimal.Zero
	for _, rt := range g.RecordedTime {
		if rt.TotalPay.IsPositive() {
			total = total.Add(rt.TotalPay)
		} else {
			total = total.Add(rt.Salary)
		}
	}
	return total
}

// CheckConsistency verifies every recorded line owns exactly one child
func (g *GroupPayroll) CheckConsistency() error {
	if len(g.PayrollIDs) != len(g.RecordedTime) {
		return shared.NewInvariantError("group payroll %s has %d payrolls for %d recorded lines",
			g.ID, len(g.PayrollIDs), len(g.RecordedTime))
	}
	return nil
}

// PostsDirectly reports whether approval posts the children rather than
// waiting for a voucher
func (g *GroupPayroll) PostsDirectly() bool {
	return g.PaidThrough != "" && g.VoucherID == nil
}

// CheckSelectable reports why the batch cannot be paid by a voucher
func (g *GroupPayroll) CheckSelectable() error {
	switch {
	case g.IsDeleted || g.IsRejected:
		return shared.NewInvariantError("group payroll %s is no longer payable", g.Name)
	case g.VoucherCreated || g.VoucherID != nil:
		return shared.NewInvariantError("group payroll %s is already paid by a voucher", g.Name)
	case !g.Approval.State.IsPostable():
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("group payroll %s is %s and cannot be disbursed", g.Name, g.Approval.State))
	}
	return nil
}

// CheckActive reports whether the batch can still change
func (g *GroupPayroll) CheckActive() error {
	if g.IsDeleted {
		return shared.NewNotFoundError("group payroll", g.ID)
	}
	if g.IsRejected {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("group payroll %s is rejected", g.Name))
	}
	if g.VoucherID != nil {
		return shared.NewInvariantError("group payroll %s is reserved by voucher %s", g.Name, *g.VoucherID)
	}
	return nil
}

// ReserveForVoucher marks the batch as paid by a voucher
func (g *GroupPayroll) ReserveForVoucher(voucherID uuid.UUID) {
	g.VoucherCreated = true
	g.VoucherID = &voucherID
	g.Touch()
}

// ReleaseFromVoucher returns the batch to the pool of payable items
func (g *GroupPayroll) ReleaseFromVoucher() {
	g.VoucherCreated = false
	g.VoucherID = nil
	g.Touch()
}

// MarkRejected flags the batch as rejected
func (g *GroupPayroll) MarkRejected() {
	g.IsRejected = true
	g.Touch()
}

// MarkDeleted invalidates the batch
func (g *GroupPayroll) MarkDeleted() {
	g.IsDeleted = true
	g.Touch()
}

// Feature implements approval.Record
func (g *GroupPayroll) Feature() approval.Feature {
	return approval.FeatureGroupPayroll
}

// DisplayID implements approval.Record
func (g *GroupPayroll) DisplayID() string {
	return g.Name
}

// ApprovalWorkflow implements approval.Record
func (g *GroupPayroll) ApprovalWorkflow() *approval.Workflow {
	return &g.Approval
}

// PostedTransactionIDs implements approval.Record. A batch owns no
// transactions itself; its children do.
func (g *GroupPayroll) PostedTransactionIDs() []uuid.UUID {
	return nil
}
