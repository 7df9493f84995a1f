package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "payroll", uuid.New(), uuid.New())
	return &e
}

func TestRecordingHandler(t *testing.T) {
	h := NewRecordingHandler("A")
	assert.Equal(t, []string{"A"}, h.EventTypes())

	require.NoError(t, h.Handle(context.Background(), event("A")))
	require.NoError(t, h.Handle(context.Background(), event("B")))
	assert.Len(t, h.Events(), 2)
	assert.Equal(t, 1, h.Count("A"))

	h.FailWith(errors.New("down"))
	assert.Error(t, h.Handle(context.Background(), event("A")))
	assert.Equal(t, 1, h.Count("A"))

	h.FailWith(nil)
	require.NoError(t, h.Handle(context.Background(), event("A")))
	assert.Equal(t, 2, h.Count("A"))
}

func TestEventually(t *testing.T) {
	start := time.Now()
	Eventually(t, func() bool { return time.Since(start) > 20*time.Millisecond }, time.Second)
}

func TestRequireAmount(t *testing.T) {
	RequireAmount(t, 1500, Amount(1500))
	RequireAmount(t, 0, Amount(0).Neg())
}
