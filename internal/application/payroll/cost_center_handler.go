package payroll

import (
	"context"
	"fmt"

	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"go.uber.org/zap"
)

// CostCenterHandler forwards CostCenterPushed and CostCenterPulled outbox
// events to the cost center ledger. Redelivery is possible, so the gateway
// must treat a repeated push or pull for the same payroll as a no-op.
type CostCenterHandler struct {
	gateway CostCenterGateway
	logger  *zap.Logger
}

// NewCostCenterHandler creates a new handler for cost center events
func NewCostCenterHandler(gateway CostCenterGateway, logger *zap.Logger) *CostCenterHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CostCenterHandler{gateway: gateway, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *CostCenterHandler) EventTypes() []string {
	return []string{payroll.EventTypeCostCenterPushed, payroll.EventTypeCostCenterPulled}
}

// Handle books or unbooks the payroll amount carried by the event
func (h *CostCenterHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	ev, ok := event.(*payroll.CostCenterEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected cost center event, got %s", event.EventType())
	}

	entry := CostCenterEntry{
		TenantID:     ev.TenantID(),
		CostCenterID: ev.CostCenterID,
		PayrollID:    ev.PayrollID,
		Amount:       ev.Amount,
		Account:      ev.Account,
		Date:         ev.Date,
	}

	var err error
	switch ev.EventType() {
	case payroll.EventTypeCostCenterPushed:
		err = h.gateway.Push(ctx, entry)
	case payroll.EventTypeCostCenterPulled:
		err = h.gateway.Pull(ctx, entry)
	default:
		return fmt.Errorf("unexpected event type: %s", ev.EventType())
	}
	if err != nil {
		h.logger.Warn("cost center update failed",
			zap.String("event_type", ev.EventType()),
			zap.String("payroll_id", ev.PayrollID.String()),
			zap.String("cost_center_id", ev.CostCenterID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to update cost center %s: %w", ev.CostCenterID, err)
	}

	h.logger.Debug("cost center updated",
		zap.String("event_type", ev.EventType()),
		zap.String("payroll_id", ev.PayrollID.String()),
		zap.String("amount", ev.Amount.String()),
	)
	return nil
}

var _ shared.EventHandler = (*CostCenterHandler)(nil)
