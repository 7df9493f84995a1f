package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockCostCenterGateway is a mock implementation of CostCenterGateway
type MockCostCenterGateway struct {
	mock.Mock
}

func (m *MockCostCenterGateway) Push(ctx context.Context, entry CostCenterEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCostCenterGateway) Pull(ctx context.Context, entry CostCenterEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func costCenterItem() payroll.Item {
	return payroll.Item{
		PayrollID:      uuid.New(),
		EmployeeID:     uuid.New(),
		Type:           payroll.TypeFull,
		Amount:         decimal.NewFromInt(1200),
		ExpenseAccount: "Salary and wages",
	}
}

func TestCostCenterHandler_EventTypes(t *testing.T) {
	h := NewCostCenterHandler(&MockCostCenterGateway{}, nil)
	assert.ElementsMatch(t, []string{payroll.EventTypeCostCenterPushed, payroll.EventTypeCostCenterPulled}, h.EventTypes())
}

func TestCostCenterHandler_Handle(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	costCenterID := uuid.New()
	date := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("push books the payroll amount", func(t *testing.T) {
		gateway := new(MockCostCenterGateway)
		item := costCenterItem()
		gateway.On("Push", ctx, mock.MatchedBy(func(e CostCenterEntry) bool {
			return e.TenantID == tenantID &&
				e.CostCenterID == costCenterID &&
				e.PayrollID == item.PayrollID &&
				e.Amount.Equal(item.Amount) &&
				e.Account == item.ExpenseAccount
		})).Return(nil)

		h := NewCostCenterHandler(gateway, zap.NewNop())
		err := h.Handle(ctx, payroll.NewCostCenterPushedEvent(tenantID, costCenterID, item, date))

		assert.NoError(t, err)
		gateway.AssertExpectations(t)
		gateway.AssertNotCalled(t, "Pull", mock.Anything, mock.Anything)
	})

	t.Run("pull unbooks the payroll amount", func(t *testing.T) {
		gateway := new(MockCostCenterGateway)
		gateway.On("Pull", ctx, mock.AnythingOfType("payroll.CostCenterEntry")).Return(nil)

		h := NewCostCenterHandler(gateway, zap.NewNop())
		err := h.Handle(ctx, payroll.NewCostCenterPulledEvent(tenantID, costCenterID, costCenterItem(), date))

		assert.NoError(t, err)
		gateway.AssertExpectations(t)
	})

	t.Run("gateway failure is returned for redelivery", func(t *testing.T) {
		gateway := new(MockCostCenterGateway)
		gateway.On("Push", ctx, mock.Anything).Return(errors.New("connection reset"))

		h := NewCostCenterHandler(gateway, zap.NewNop())
		err := h.Handle(ctx, payroll.NewCostCenterPushedEvent(tenantID, costCenterID, costCenterItem(), date))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), costCenterID.String())
	})

	t.Run("other events are rejected", func(t *testing.T) {
		gateway := new(MockCostCenterGateway)
		h := NewCostCenterHandler(gateway, zap.NewNop())
		other := shared.NewBaseDomainEvent("PayrollPosted", "Payroll", uuid.New(), tenantID)

		err := h.Handle(ctx, &other)

		assert.Error(t, err)
		gateway.AssertNotCalled(t, "Push", mock.Anything, mock.Anything)
	})
}
