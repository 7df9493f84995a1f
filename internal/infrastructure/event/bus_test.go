package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPostedEvent(tenantID uuid.UUID) *payroll.DisbursementEvent {
	payrollID := uuid.New()
	return payroll.NewDisbursementPostedEvent(tenantID, "Payroll", payrollID,
		[]uuid.UUID{payrollID}, []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}, decimal.NewFromInt(500), false)
}

func newPushedEvent(tenantID uuid.UUID) *payroll.CostCenterEvent {
	item := payroll.Item{PayrollID: uuid.New(), Amount: decimal.NewFromInt(120), ExpenseAccount: "Salary Expense"}
	return payroll.NewCostCenterPushedEvent(tenantID, uuid.New(), item, testDate)
}

// recordingHandler records what it handled and optionally fails or panics
type recordingHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
	mu         sync.Mutex
}

func newRecordingHandler(eventTypes ...string) *recordingHandler {
	return &recordingHandler{eventTypes: eventTypes}
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	posted := newRecordingHandler(payroll.EventTypeDisbursementPosted)
	pushed := newRecordingHandler(payroll.EventTypeCostCenterPushed)
	bus.Subscribe(posted)
	bus.Subscribe(pushed)

	tenantID := uuid.New()
	err := bus.Publish(context.Background(), newPostedEvent(tenantID), newPushedEvent(tenantID), newPushedEvent(tenantID))

	require.NoError(t, err)
	assert.Equal(t, 1, posted.count())
	assert.Equal(t, 2, pushed.count())
}

func TestInMemoryEventBus_Publish_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	all := newRecordingHandler()
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), newPostedEvent(uuid.New()), newPushedEvent(uuid.New())))
	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_Publish_JoinsHandlerErrors(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := newRecordingHandler(payroll.EventTypeCostCenterPushed)
	failing.err = errors.New("cost center unavailable")
	healthy := newRecordingHandler(payroll.EventTypeCostCenterPushed)
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newPushedEvent(uuid.New()))

	require.Error(t, err)
	assert.ErrorIs(t, err, failing.err)
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, healthy.count(), "later handlers still run")
}

func TestInMemoryEventBus_Publish_RecoversPanics(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newRecordingHandler(payroll.EventTypeDisbursementPosted)
	h.panicWith = "boom"
	bus.Subscribe(h)

	err := bus.Publish(context.Background(), newPostedEvent(uuid.New()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newRecordingHandler(payroll.EventTypeDisbursementPosted)
	bus.Subscribe(h)

	_ = bus.Publish(context.Background(), newPostedEvent(uuid.New()))
	bus.Unsubscribe(h)
	_ = bus.Publish(context.Background(), newPostedEvent(uuid.New()))

	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.IsRunning())
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.IsRunning())
}
