package payroll

import (
	"testing"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVoucher(t *testing.T) {
	item := VoucherItem{EmployeeID: uuid.New(), PayrollID: uuid.New(), Salary: dec(5000)}
	gid := uuid.New()

	t.Run("direct voucher", func(t *testing.T) {
		v, err := NewVoucher(uuid.New(), uuid.Nil, uuid.Nil, VoucherParams{
			VoucherNumber: "PV-001",
			Items:         []VoucherItem{item},
			PaidThrough:   "Main Bank",
		}, approval.New(false, 1))
		require.NoError(t, err)
		assert.Equal(t, TypeFull, v.Type)
		assert.False(t, v.IsGroupVoucher())
		assert.Equal(t, []uuid.UUID{item.PayrollID}, v.PayrollIDs())
		assert.True(t, v.Total().Equal(dec(5000)))
		assert.False(t, v.PaymentDate.IsZero())
		assert.Equal(t, approval.FeaturePayrollVoucher, v.Feature())
		assert.Equal(t, "PV-001", v.DisplayID())
	})

	t.Run("group voucher", func(t *testing.T) {
		v, err := NewVoucher(uuid.New(), uuid.Nil, uuid.Nil, VoucherParams{
			VoucherNumber:  "PV-002",
			GroupPayrollID: &gid,
			PaidThrough:    "Main Bank",
		}, approval.New(true, 1))
		require.NoError(t, err)
		assert.True(t, v.IsGroupVoucher())
		assert.Equal(t, approval.StatePending, v.Approval.State)
	})

	invalid := []struct {
		name   string
		params VoucherParams
	}{
		{"missing number", VoucherParams{Items: []VoucherItem{item}, PaidThrough: "Main Bank"}},
		{"missing paid through", VoucherParams{VoucherNumber: "PV", Items: []VoucherItem{item}}},
		{"items and group", VoucherParams{VoucherNumber: "PV", Items: []VoucherItem{item}, GroupPayrollID: &gid, PaidThrough: "Main Bank"}},
		{"neither items nor group", VoucherParams{VoucherNumber: "PV", PaidThrough: "Main Bank"}},
		{"duplicate payroll", VoucherParams{VoucherNumber: "PV", Items: []VoucherItem{item, item}, PaidThrough: "Main Bank"}},
		{"timesheet type", VoucherParams{VoucherNumber: "PV", Items: []VoucherItem{item}, PaidThrough: "Main Bank", Type: TypeTimesheet}},
		{"advance group", VoucherParams{VoucherNumber: "PV", GroupPayrollID: &gid, PaidThrough: "Main Bank", Type: TypeAdvance}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVoucher(uuid.New(), uuid.Nil, uuid.Nil, tt.params, approval.New(false, 1))
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestVoucher_DisbursementItem(t *testing.T) {
	p := newTestPayroll(t, validParams(), approval.New(false, 1))
	v, err := NewVoucher(p.TenantID, uuid.Nil, uuid.Nil, VoucherParams{
		VoucherNumber: "PV-003",
		Items:         []VoucherItem{{EmployeeID: p.EmployeeID, PayrollID: p.ID, Salary: dec(5000), TotalPay: dec(4800)}},
		PaidThrough:   "Main Bank",
		SalaryAccount: "Wages - Ops",
	}, approval.New(false, 1))
	require.NoError(t, err)

	item := v.DisbursementItem(p)
	assert.True(t, item.Amount.Equal(dec(4800)))
	assert.Equal(t, "Wages - Ops", item.ExpenseAccount)

	require.NoError(t, v.AttachPostings([]uuid.UUID{uuid.New()}))
	assert.ErrorIs(t, v.AttachPostings([]uuid.UUID{uuid.New()}), shared.ErrInvariantViolation)
	assert.Len(t, v.DetachPostings(), 1)

	v.MarkRejected()
	assert.ErrorIs(t, v.CheckActive(), shared.ErrInvalidState)
}
