package payroll

import (
	"testing"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGroupPayroll(t *testing.T) {
	tenantID := uuid.New()
	costCenter := uuid.New()
	params := GroupPayrollParams{
		Name:         "May crew",
		Month:        "2024-05",
		CostCenterID: &costCenter,
		PaidThrough:  "Main Bank",
		RecordedTime: []RecordedTime{
			{EmployeeID: uuid.New(), Salary: dec(1200), Hours: dec(80)},
			{EmployeeID: uuid.New(), Salary: dec(1500), TotalPay: dec(1600), Type: TypeProjectTimesheet},
		},
	}

	g, children, err := NewGroupPayroll(tenantID, uuid.Nil, uuid.Nil, params, approval.New(true, 1))
	require.NoError(t, err)
	require.Len(t, children, 2)
	require.NoError(t, g.CheckConsistency())
	assert.True(t, g.Total().Equal(dec(2800)))
	assert.True(t, g.PostsDirectly())

	for i, c := range children {
		assert.Equal(t, g.PayrollIDs[i], c.ID)
		assert.True(t, c.FromGroupPayroll)
		require.NotNil(t, c.GroupPayrollID)
		assert.Equal(t, g.ID, *c.GroupPayrollID)
		assert.Equal(t, approval.StatePending, c.Approval.State)
		assert.Equal(t, "Main Bank", c.PaidThrough)
		assert.Equal(t, &costCenter, c.CostCenterID)
	}
	assert.Equal(t, TypeTimesheet, children[0].Type)
	assert.Equal(t, TypeProjectTimesheet, children[1].Type)
}

func TestNewGroupPayroll_Validation(t *testing.T) {
	emp := uuid.New()
	base := func() GroupPayrollParams {
		return GroupPayrollParams{
			Name:         "Batch",
			Month:        "2024-05",
			RecordedTime: []RecordedTime{{EmployeeID: emp, Salary: dec(100)}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*GroupPayrollParams)
	}{
		{"empty recorded time", func(p *GroupPayrollParams) { p.RecordedTime = nil }},
		{"missing name", func(p *GroupPayrollParams) { p.Name = "" }},
		{"bad month", func(p *GroupPayrollParams) { p.Month = "2024" }},
		{"advance line", func(p *GroupPayrollParams) { p.RecordedTime[0].Type = TypeAdvance }},
		{"zero salary line", func(p *GroupPayrollParams) { p.RecordedTime[0].Salary = dec(0) }},
		{"missing employee", func(p *GroupPayrollParams) { p.RecordedTime[0].EmployeeID = uuid.Nil }},
		{"duplicate employee", func(p *GroupPayrollParams) {
			p.RecordedTime = append(p.RecordedTime, RecordedTime{EmployeeID: emp, Salary: dec(5)})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := base()
			tt.mutate(&params)
			_, _, err := NewGroupPayroll(uuid.New(), uuid.Nil, uuid.Nil, params, approval.New(false, 1))
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestGroupPayroll_Reservation(t *testing.T) {
	g, _, err := NewGroupPayroll(uuid.New(), uuid.Nil, uuid.Nil, GroupPayrollParams{
		Name:         "Batch",
		Month:        "2024-05",
		RecordedTime: []RecordedTime{{EmployeeID: uuid.New(), Salary: dec(100)}},
	}, approval.New(false, 1))
	require.NoError(t, err)

	assert.NoError(t, g.CheckSelectable())
	g.ReserveForVoucher(uuid.New())
	assert.ErrorIs(t, g.CheckSelectable(), shared.ErrInvariantViolation)
	assert.ErrorIs(t, g.CheckActive(), shared.ErrInvariantViolation)
	g.ReleaseFromVoucher()
	assert.NoError(t, g.CheckActive())
	assert.Nil(t, g.PostedTransactionIDs())
}
