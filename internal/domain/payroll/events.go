package payroll

import (
	"time"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names
const (
	EventTypePayrollCreated       = "PayrollCreated"
	EventTypeVoucherCreated       = "PayrollVoucherCreated"
	EventTypeGroupPayrollCreated  = "GroupPayrollCreated"
	EventTypeApprovalChanged      = "ApprovalChanged"
	EventTypeDisbursementPosted   = "DisbursementPosted"
	EventTypeDisbursementReversed = "DisbursementReversed"
	EventTypeExpenseAccrued       = "ExpenseAccrued"
	EventTypeAccrualReversed      = "AccrualReversed"
	EventTypeCostCenterPushed     = "CostCenterPushed"
	EventTypeCostCenterPulled     = "CostCenterPulled"
)

// PayrollCreatedEvent is raised when a payroll is created
type PayrollCreatedEvent struct {
	shared.BaseDomainEvent
	PayrollID  uuid.UUID       `json:"payroll_id"`
	EmployeeID uuid.UUID       `json:"employee_id"`
	Month      Month           `json:"month"`
	Type       Type            `json:"payroll_type"`
	Amount     decimal.Decimal `json:"amount"`
	State      approval.State  `json:"state"`
}

// EventType returns the event type name
func (e *PayrollCreatedEvent) EventType() string {
	return EventTypePayrollCreated
}

// NewPayrollCreatedEvent creates a new PayrollCreatedEvent
func NewPayrollCreatedEvent(p *Payroll) *PayrollCreatedEvent {
	return &PayrollCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayrollCreated, "Payroll", p.ID, p.TenantID),
		PayrollID:       p.ID,
		EmployeeID:      p.EmployeeID,
		Month:           p.Month,
		Type:            p.Type,
		Amount:          p.Amount(),
		State:           p.Approval.State,
	}
}

// VoucherCreatedEvent is raised when a payroll voucher is issued
type VoucherCreatedEvent struct {
	shared.BaseDomainEvent
	VoucherID      uuid.UUID       `json:"voucher_id"`
	VoucherNumber  string          `json:"voucher_number"`
	GroupPayrollID *uuid.UUID      `json:"group_payroll_id,omitempty"`
	PaidThrough    string          `json:"paid_through"`
	Total          decimal.Decimal `json:"total"`
}

// EventType returns the event type name
func (e *VoucherCreatedEvent) EventType() string {
	return EventTypeVoucherCreated
}

// NewVoucherCreatedEvent creates a new VoucherCreatedEvent
func NewVoucherCreatedEvent(v *Voucher) *VoucherCreatedEvent {
	return &VoucherCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVoucherCreated, "PayrollVoucher", v.ID, v.TenantID),
		VoucherID:       v.ID,
		VoucherNumber:   v.VoucherNumber,
		GroupPayrollID:  v.GroupPayrollID,
		PaidThrough:     v.PaidThrough,
		Total:           v.Total(),
	}
}

// GroupPayrollCreatedEvent is raised when a group payroll and its children are created
type GroupPayrollCreatedEvent struct {
	shared.BaseDomainEvent
	GroupPayrollID uuid.UUID       `json:"group_payroll_id"`
	Name           string          `json:"name"`
	Month          Month           `json:"month"`
	PayrollCount   int             `json:"payroll_count"`
	Total          decimal.Decimal `json:"total"`
}

// EventType returns the event type name
func (e *GroupPayrollCreatedEvent) EventType() string {
	return EventTypeGroupPayrollCreated
}

// NewGroupPayrollCreatedEvent creates a new GroupPayrollCreatedEvent
func NewGroupPayrollCreatedEvent(g *GroupPayroll) *GroupPayrollCreatedEvent {
	return &GroupPayrollCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGroupPayrollCreated, "GroupPayroll", g.ID, g.TenantID),
		GroupPayrollID:  g.ID,
		Name:            g.Name,
		Month:           g.Month,
		PayrollCount:    len(g.PayrollIDs),
		Total:           g.Total(),
	}
}

// ApprovalChangedEvent is raised on every applied approval transition
type ApprovalChangedEvent struct {
	shared.BaseDomainEvent
	Feature   approval.Feature `json:"feature"`
	RecordID  uuid.UUID        `json:"record_id"`
	DisplayID string           `json:"display_id"`
	From      approval.State   `json:"from"`
	To        approval.State   `json:"to"`
	ActorID   uuid.UUID        `json:"actor_id"`
	Comment   string           `json:"comment,omitempty"`
}

// EventType returns the event type name
func (e *ApprovalChangedEvent) EventType() string {
	return EventTypeApprovalChanged
}

// NewApprovalChangedEvent creates a new ApprovalChangedEvent
func NewApprovalChangedEvent(tenantID uuid.UUID, rec approval.Record, t approval.Transition, actor uuid.UUID, comment string) *ApprovalChangedEvent {
	return &ApprovalChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeApprovalChanged, string(rec.Feature()), rec.GetID(), tenantID),
		Feature:         rec.Feature(),
		RecordID:        rec.GetID(),
		DisplayID:       rec.DisplayID(),
		From:            t.From,
		To:              t.To,
		ActorID:         actor,
		Comment:         comment,
	}
}

// DisbursementEvent is raised when a record is posted to or reversed from the ledger
type DisbursementEvent struct {
	shared.BaseDomainEvent
	SourceType     string          `json:"source_type"`
	SourceID       uuid.UUID       `json:"source_id"`
	PayrollIDs     []uuid.UUID     `json:"payroll_ids"`
	TransactionIDs []uuid.UUID     `json:"transaction_ids"`
	Amount         decimal.Decimal `json:"amount"`
	Accrual        bool            `json:"accrual"`
}

// NewDisbursementPostedEvent creates a DisbursementPosted event
func NewDisbursementPostedEvent(tenantID uuid.UUID, sourceType string, sourceID uuid.UUID, payrollIDs, txIDs []uuid.UUID, amount decimal.Decimal, accrual bool) *DisbursementEvent {
	return &DisbursementEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDisbursementPosted, sourceType, sourceID, tenantID),
		SourceType:      sourceType,
		SourceID:        sourceID,
		PayrollIDs:      payrollIDs,
		TransactionIDs:  txIDs,
		Amount:          amount,
		Accrual:         accrual,
	}
}

// NewDisbursementReversedEvent creates a DisbursementReversed event
func NewDisbursementReversedEvent(tenantID uuid.UUID, sourceType string, sourceID uuid.UUID, payrollIDs, txIDs []uuid.UUID, amount decimal.Decimal) *DisbursementEvent {
	return &DisbursementEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDisbursementReversed, sourceType, sourceID, tenantID),
		SourceType:      sourceType,
		SourceID:        sourceID,
		PayrollIDs:      payrollIDs,
		TransactionIDs:  txIDs,
		Amount:          amount,
	}
}

// NewExpenseAccruedEvent creates an ExpenseAccrued event for the expense a
// payroll recognized ahead of payment
func NewExpenseAccruedEvent(tenantID uuid.UUID, sourceType string, sourceID uuid.UUID, payrollIDs, txIDs []uuid.UUID, amount decimal.Decimal) *DisbursementEvent {
	return &DisbursementEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseAccrued, sourceType, sourceID, tenantID),
		SourceType:      sourceType,
		SourceID:        sourceID,
		PayrollIDs:      payrollIDs,
		TransactionIDs:  txIDs,
		Amount:          amount,
		Accrual:         true,
	}
}

// NewAccrualReversedEvent creates an AccrualReversed event
func NewAccrualReversedEvent(tenantID uuid.UUID, sourceType string, sourceID uuid.UUID, payrollIDs, txIDs []uuid.UUID, amount decimal.Decimal) *DisbursementEvent {
	return &DisbursementEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccrualReversed, sourceType, sourceID, tenantID),
		SourceType:      sourceType,
		SourceID:        sourceID,
		PayrollIDs:      payrollIDs,
		TransactionIDs:  txIDs,
		Amount:          amount,
		Accrual:         true,
	}
}

// CostCenterEvent asks the cost center to record or drop a payroll amount
type CostCenterEvent struct {
	shared.BaseDomainEvent
	CostCenterID uuid.UUID       `json:"cost_center_id"`
	PayrollID    uuid.UUID       `json:"payroll_id"`
	Amount       decimal.Decimal `json:"amount"`
	Account      string          `json:"account"`
	Date         time.Time       `json:"date"`
}

// NewCostCenterPushedEvent creates a CostCenterPushed event
func NewCostCenterPushedEvent(tenantID, costCenterID uuid.UUID, item Item, date time.Time) *CostCenterEvent {
	return newCostCenterEvent(EventTypeCostCenterPushed, tenantID, costCenterID, item, date)
}

// NewCostCenterPulledEvent creates a CostCenterPulled event
func NewCostCenterPulledEvent(tenantID, costCenterID uuid.UUID, item Item, date time.Time) *CostCenterEvent {
	return newCostCenterEvent(EventTypeCostCenterPulled, tenantID, costCenterID, item, date)
}

func newCostCenterEvent(eventType string, tenantID, costCenterID uuid.UUID, item Item, date time.Time) *CostCenterEvent {
	return &CostCenterEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "CostCenter", costCenterID, tenantID),
		CostCenterID:    costCenterID,
		PayrollID:       item.PayrollID,
		Amount:          item.Amount,
		Account:         item.ExpenseAccount,
		Date:            date,
	}
}
