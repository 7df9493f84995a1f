// Package testutil holds helpers shared by the payroll ledger test suites.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// RecordingHandler is a shared.EventHandler that keeps every event it sees
type RecordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	events     []shared.DomainEvent
	err        error
}

// NewRecordingHandler subscribes to eventTypes, or to every event when none is given
func NewRecordingHandler(eventTypes ...string) *RecordingHandler {
	return &RecordingHandler{eventTypes: eventTypes}
}

func (h *RecordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *RecordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.events = append(h.events, event)
	return nil
}

// FailWith makes Handle return err until it is called again with nil
func (h *RecordingHandler) FailWith(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// Events returns a copy of the recorded events
func (h *RecordingHandler) Events() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.DomainEvent, len(h.events))
	copy(out, h.events)
	return out
}

// Count returns how many recorded events have the given type
func (h *RecordingHandler) Count(eventType string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.events {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}

// Eventually fails the test unless condition holds within timeout
func Eventually(t *testing.T, condition func() bool, timeout time.Duration, msgAndArgs ...any) {
	t.Helper()
	require.Eventually(t, condition, timeout, 10*time.Millisecond, msgAndArgs...)
}

// Amount builds a decimal from whole currency units
func Amount(units int64) decimal.Decimal {
	return decimal.NewFromInt(units)
}

// RequireAmount compares decimals by value, ignoring their exponent
func RequireAmount(t *testing.T, want int64, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.Truef(t, got.Equal(decimal.NewFromInt(want)), "want %d, got %s %v", want, got.String(), msgAndArgs)
}
