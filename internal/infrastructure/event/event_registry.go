package event

import (
	"github.com/erp/payroll/internal/domain/payroll"
)

// RegisterPayrollEvents registers every payroll event with the serializer so
// the outbox processor can decode them
func RegisterPayrollEvents(serializer *EventSerializer) {
	serializer.Register(payroll.EventTypePayrollCreated, &payroll.PayrollCreatedEvent{})
	serializer.Register(payroll.EventTypeVoucherCreated, &payroll.VoucherCreatedEvent{})
	serializer.Register(payroll.EventTypeGroupPayrollCreated, &payroll.GroupPayrollCreatedEvent{})
	serializer.Register(payroll.EventTypeApprovalChanged, &payroll.ApprovalChangedEvent{})

	// posted, reversed and accrual events share one payload shape
	serializer.Register(payroll.EventTypeDisbursementPosted, &payroll.DisbursementEvent{})
	serializer.Register(payroll.EventTypeDisbursementReversed, &payroll.DisbursementEvent{})
	serializer.Register(payroll.EventTypeExpenseAccrued, &payroll.DisbursementEvent{})
	serializer.Register(payroll.EventTypeAccrualReversed, &payroll.DisbursementEvent{})

	serializer.Register(payroll.EventTypeCostCenterPushed, &payroll.CostCenterEvent{})
	serializer.Register(payroll.EventTypeCostCenterPulled, &payroll.CostCenterEvent{})
}

// NewPayrollSerializer returns a serializer with every payroll event registered
func NewPayrollSerializer() *EventSerializer {
	s := NewEventSerializer()
	RegisterPayrollEvents(s)
	return s
}
