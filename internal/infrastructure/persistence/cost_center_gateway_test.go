package persistence

import (
	"context"
	"testing"
	"time"

	apppayroll "github.com/erp/payroll/internal/application/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostCenterGateway_PushIsIdempotent(t *testing.T) {
	gw := NewGormCostCenterGateway(setupTestDB(t))
	ctx := context.Background()

	entry := apppayroll.CostCenterEntry{
		TenantID:     uuid.New(),
		CostCenterID: uuid.New(),
		PayrollID:    uuid.New(),
		Amount:       decimal.NewFromInt(1200),
		Account:      "Salary Expense",
		Date:         time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, gw.Push(ctx, entry))
	require.NoError(t, gw.Push(ctx, entry))

	rows, err := gw.ListForCostCenter(ctx, entry.TenantID, entry.CostCenterID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Amount.Equal(entry.Amount))

	require.NoError(t, gw.Pull(ctx, entry))
	require.NoError(t, gw.Pull(ctx, entry))

	rows, err = gw.ListForCostCenter(ctx, entry.TenantID, entry.CostCenterID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
