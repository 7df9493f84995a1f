package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayroll(t *testing.T, tenantID, employeeID uuid.UUID, month string, flow approval.Workflow) *payroll.Payroll {
	t.Helper()
	p, err := payroll.NewPayroll(tenantID, uuid.New(), uuid.New(), payroll.PayrollParams{
		EmployeeID: employeeID,
		Month:      month,
		Salary:     decimal.NewFromInt(2500),
		Type:       payroll.TypeFull,
		Reference:  "march run",
	}, flow)
	require.NoError(t, err)
	return p
}

func TestPayrollRepository_CreateAndReload(t *testing.T) {
	repo := NewGormPayrollRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID, employeeID := uuid.New(), uuid.New()

	p := newTestPayroll(t, tenantID, employeeID, "2024-03", approval.New(true, 2))
	p.TransactionIDs = []uuid.UUID{uuid.New(), uuid.New()}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, employeeID, got.EmployeeID)
	assert.Equal(t, payroll.Month("2024-03"), got.Month)
	assert.Equal(t, approval.StatePending, got.Approval.State)
	assert.Equal(t, 2, got.Approval.Levels)
	assert.Equal(t, p.TransactionIDs, got.TransactionIDs)
	assert.True(t, got.Salary.Equal(decimal.NewFromInt(2500)))

	_, err = repo.FindByIDForTenant(ctx, uuid.New(), p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPayrollRepository_SaveWithLock(t *testing.T) {
	repo := NewGormPayrollRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	p := newTestPayroll(t, tenantID, uuid.New(), "2024-03", approval.New(false, 0))
	require.NoError(t, repo.Create(ctx, p))

	stale, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
	require.NoError(t, err)

	p.Remark = "adjusted"
	p.VoucherCreated = true
	require.NoError(t, p.AttachAccrual([]uuid.UUID{uuid.New(), uuid.New()}))
	require.NoError(t, repo.SaveWithLock(ctx, p))
	assert.Equal(t, 2, p.Version)

	got, err := repo.FindByIDForUpdate(ctx, tenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "adjusted", got.Remark)
	assert.True(t, got.VoucherCreated)
	assert.Equal(t, p.AccrualIDs, got.AccrualIDs)
	assert.Equal(t, 2, got.Version)

	stale.Remark = "lost update"
	assert.ErrorIs(t, repo.SaveWithLock(ctx, stale), shared.ErrConcurrencyConflict)
}

func TestPayrollRepository_Filters(t *testing.T) {
	repo := NewGormPayrollRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID, employeeID := uuid.New(), uuid.New()

	march := newTestPayroll(t, tenantID, employeeID, "2024-03", approval.New(false, 0))
	april := newTestPayroll(t, tenantID, employeeID, "2024-04", approval.New(true, 1))
	deleted := newTestPayroll(t, tenantID, uuid.New(), "2024-04", approval.New(false, 0))
	deleted.IsDeleted = true
	require.NoError(t, repo.Create(ctx, march, april, deleted))

	month := payroll.Month("2024-04")
	got, err := repo.FindAllForTenant(ctx, tenantID, payroll.PayrollFilter{Month: &month})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, april.ID, got[0].ID)

	count, err := repo.CountForTenant(ctx, tenantID, payroll.PayrollFilter{Month: &month, IncludeDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	pending := approval.StatePending
	count, err = repo.CountForTenant(ctx, tenantID, payroll.PayrollFilter{State: &pending})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	page, err := repo.FindAllForTenant(ctx, tenantID, payroll.PayrollFilter{
		Filter:     shared.Filter{Page: 1, PageSize: 1, OrderBy: "month", OrderDir: "asc"},
		EmployeeID: &employeeID,
	})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, march.ID, page[0].ID)
}

func TestPayrollRepository_FindByIDsForUpdateMissing(t *testing.T) {
	repo := NewGormPayrollRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()
	p := newTestPayroll(t, tenantID, uuid.New(), "2024-03", approval.New(false, 0))
	require.NoError(t, repo.Create(ctx, p))

	_, err := repo.FindByIDsForUpdate(ctx, tenantID, []uuid.UUID{p.ID, uuid.New()})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPayrollRepository_SaveWithLockSQL(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormPayrollRepository(db)

	p := newTestPayroll(t, uuid.New(), uuid.New(), "2024-03", approval.New(false, 0))
	p.Version = 4

	mock.ExpectExec(`UPDATE "payrolls" SET .* WHERE version = \$\d+ AND .*"id"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveWithLock(context.Background(), p)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.Equal(t, 4, p.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoucherRepository_RoundTrip(t *testing.T) {
	repo := NewGormVoucherRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	v, err := payroll.NewVoucher(tenantID, uuid.New(), uuid.New(), payroll.VoucherParams{
		VoucherNumber: "PV-0001",
		Items: []payroll.VoucherItem{
			{EmployeeID: uuid.New(), PayrollID: uuid.New(), Salary: decimal.NewFromInt(100)},
			{EmployeeID: uuid.New(), PayrollID: uuid.New(), Salary: decimal.NewFromInt(200)},
		},
		PaidThrough: "Bank",
		Type:        payroll.TypeFull,
		PaymentDate: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}, approval.New(false, 0))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, v))

	exists, err := repo.ExistsByNumber(ctx, tenantID, "PV-0001")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := repo.FindByIDForUpdate(ctx, tenantID, v.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.True(t, got.Items[1].Amount().Equal(decimal.NewFromInt(200)))

	got.Remark = "paid"
	require.NoError(t, repo.SaveWithLock(ctx, got))
	count, err := repo.CountForTenant(ctx, tenantID, payroll.VoucherFilter{Filter: shared.Filter{Search: "PV-"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGroupPayrollRepository_RoundTrip(t *testing.T) {
	repo := NewGormGroupPayrollRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	g, children, err := payroll.NewGroupPayroll(tenantID, uuid.New(), uuid.New(), payroll.GroupPayrollParams{
		Name:  "March timesheets",
		Month: "2024-03",
		RecordedTime: []payroll.RecordedTime{
			{EmployeeID: uuid.New(), Salary: decimal.NewFromInt(300), Type: payroll.TypeTimesheet, Hours: decimal.NewFromInt(20)},
		},
		PaidThrough: "Bank",
	}, approval.New(false, 0))
	require.NoError(t, err)
	require.Len(t, children, 1)
	require.NoError(t, repo.Create(ctx, g))

	got, err := repo.FindByIDForTenant(ctx, tenantID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.PayrollIDs, got.PayrollIDs)
	require.Len(t, got.RecordedTime, 1)
	assert.True(t, got.RecordedTime[0].Hours.Equal(decimal.NewFromInt(20)))

	got.VoucherCreated = true
	require.NoError(t, repo.SaveWithLock(ctx, got))

	created := true
	list, err := repo.FindAllForTenant(ctx, tenantID, payroll.GroupPayrollFilter{VoucherCreated: &created})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
