package payroll

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSettingsProvider is a mock implementation of SettingsProvider
type MockSettingsProvider struct {
	mock.Mock
}

func (m *MockSettingsProvider) Settings(ctx context.Context, tenantID uuid.UUID) (*payroll.Settings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.Settings), args.Error(1)
}

// MockTransactionScope is a mock implementation of TransactionScope
type MockTransactionScope struct {
	mock.Mock
}

func (m *MockTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

// MockRecordLocker is a mock implementation of shared.RecordLocker
type MockRecordLocker struct {
	mock.Mock
	released []string
}

func (m *MockRecordLocker) Acquire(ctx context.Context, key string) (func(), error) {
	args := m.Called(ctx, key)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() { m.released = append(m.released, key) }, nil
}

// MockPayrollRepository is a mock implementation of payroll.PayrollRepository
type MockPayrollRepository struct {
	mock.Mock
}

func (m *MockPayrollRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payroll.Payroll, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.Payroll), args.Error(1)
}

func (m *MockPayrollRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*payroll.Payroll, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.Payroll), args.Error(1)
}

func (m *MockPayrollRepository) FindByIDsForUpdate(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*payroll.Payroll, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]*payroll.Payroll), args.Error(1)
}

func (m *MockPayrollRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.PayrollFilter) ([]*payroll.Payroll, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*payroll.Payroll), args.Error(1)
}

func (m *MockPayrollRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.PayrollFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayrollRepository) Create(ctx context.Context, payrolls ...*payroll.Payroll) error {
	args := m.Called(ctx, payrolls)
	return args.Error(0)
}

func (m *MockPayrollRepository) SaveWithLock(ctx context.Context, p *payroll.Payroll) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type recordingNotifier struct {
	notices []ApprovalNotice
	err     error
}

func (n *recordingNotifier) NotifyNext(_ context.Context, notice ApprovalNotice) error {
	n.notices = append(n.notices, notice)
	return n.err
}

type noopCounter struct {
	noopMetrics
	noops []approval.Feature
}

func (c *noopCounter) RecordApprovalNoop(_ context.Context, f approval.Feature) {
	c.noops = append(c.noops, f)
}

func newTestPayroll(t *testing.T, tenantID uuid.UUID) *payroll.Payroll {
	t.Helper()
	p, err := payroll.NewPayroll(tenantID, uuid.New(), uuid.New(), payroll.PayrollParams{
		EmployeeID:  uuid.New(),
		Month:       "2024-03",
		Salary:      decimal.NewFromInt(1000),
		Type:        payroll.TypeFull,
		PaidThrough: "Bank",
	}, approval.New(true, 1))
	require.NoError(t, err)
	return p
}

func TestPayrollService_Create_SettingsFailure(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	settings := new(MockSettingsProvider)
	scope := new(MockTransactionScope)
	settings.On("Settings", mock.Anything, tenantID).Return(nil, errors.New("redis down"))

	svc := NewPayrollService(new(MockPayrollRepository), Dependencies{Scope: scope, Settings: settings})
	_, err := svc.Create(ctx, tenantID, uuid.New(), uuid.New(), CreatePayrollRequest{
		EmployeeID: uuid.New(),
		Month:      "2024-03",
		Salary:     decimal.NewFromInt(1000),
		Type:       payroll.TypeFull,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load settings")
	scope.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestPayrollService_Create_InvalidMonth(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	settings := new(MockSettingsProvider)
	scope := new(MockTransactionScope)
	settings.On("Settings", mock.Anything, tenantID).Return(payroll.DefaultSettings(tenantID), nil)

	svc := NewPayrollService(new(MockPayrollRepository), Dependencies{Scope: scope, Settings: settings})
	_, err := svc.Create(ctx, tenantID, uuid.New(), uuid.New(), CreatePayrollRequest{
		EmployeeID: uuid.New(),
		Month:      "March",
		Salary:     decimal.NewFromInt(1000),
		Type:       payroll.TypeFull,
	})

	assert.True(t, shared.IsCode(err, shared.CodeValidation))
	scope.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestPayrollService_ChangeApproval_LockHeld(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	id := uuid.New()
	settings := new(MockSettingsProvider)
	scope := new(MockTransactionScope)
	locker := new(MockRecordLocker)
	settings.On("Settings", mock.Anything, tenantID).Return(payroll.DefaultSettings(tenantID), nil)
	locker.On("Acquire", mock.Anything, payrollLockKey(id)).Return(shared.ErrRecordLocked)

	svc := NewPayrollService(new(MockPayrollRepository), Dependencies{Scope: scope, Settings: settings, Locker: locker})
	_, err := svc.ChangeApproval(ctx, tenantID, uuid.New(), id, ApprovalRequest{State: approval.StateApproved1})

	assert.ErrorIs(t, err, shared.ErrRecordLocked)
	scope.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestPayrollService_GetByID(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("returns the payroll", func(t *testing.T) {
		repo := new(MockPayrollRepository)
		p := newTestPayroll(t, tenantID)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)

		svc := NewPayrollService(repo, Dependencies{})
		resp, err := svc.GetByID(ctx, tenantID, p.ID)

		require.NoError(t, err)
		assert.Equal(t, p.ID, resp.ID)
		assert.Equal(t, approval.StatePending, resp.Approval.State)
	})

	t.Run("deleted payrolls are not found", func(t *testing.T) {
		repo := new(MockPayrollRepository)
		p := newTestPayroll(t, tenantID)
		p.MarkDeleted()
		repo.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)

		svc := NewPayrollService(repo, Dependencies{})
		_, err := svc.GetByID(ctx, tenantID, p.ID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestBase_WithLocksOrdersAndReleases(t *testing.T) {
	ctx := context.Background()
	locker := new(MockRecordLocker)
	locker.On("Acquire", mock.Anything, mock.Anything).Return(nil)
	b := newBase(Dependencies{Locker: locker})

	var acquired []string
	err := b.withLocks(ctx, []string{"voucher:b", "payroll:a", "group:c"}, func() error {
		for _, c := range locker.Calls {
			acquired = append(acquired, c.Arguments.String(1))
		}
		assert.Empty(t, locker.released, "locks are held while fn runs")
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"group:c", "payroll:a", "voucher:b"}, acquired)
	assert.Equal(t, []string{"voucher:b", "payroll:a", "group:c"}, locker.released)
}

func TestBase_WithLocksReleasesOnPartialAcquire(t *testing.T) {
	ctx := context.Background()
	locker := new(MockRecordLocker)
	locker.On("Acquire", mock.Anything, "a").Return(nil)
	locker.On("Acquire", mock.Anything, "b").Return(shared.ErrRecordLocked)
	b := newBase(Dependencies{Locker: locker})

	called := false
	err := b.withLocks(ctx, []string{"b", "a"}, func() error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, shared.ErrRecordLocked)
	assert.False(t, called)
	assert.Equal(t, []string{"a"}, locker.released)
}

func TestBase_IsNoop(t *testing.T) {
	ctx := context.Background()
	metrics := &noopCounter{}
	b := newBase(Dependencies{Metrics: metrics, Logger: zap.NewNop()})

	conflict := shared.NewApprovalConflictError("approved1", "approved1")
	assert.True(t, b.isNoop(ctx, conflict, approval.FeaturePayroll, uuid.New(), approval.StateApproved1))
	assert.False(t, b.isNoop(ctx, shared.ErrInvariantViolation, approval.FeaturePayroll, uuid.New(), approval.StateApproved1))
	assert.Equal(t, []approval.Feature{approval.FeaturePayroll}, metrics.noops)
}

func TestBase_NotifyOnlyOnFirstApproval(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	p := newTestPayroll(t, tenantID)

	tests := []struct {
		name string
		t    approval.Transition
		want int
	}{
		{"entered approved1", approval.Transition{From: approval.StatePending, To: approval.StateApproved1, Changed: true}, 1},
		{"moved to approved2", approval.Transition{From: approval.StateApproved1, To: approval.StateApproved2, Changed: true}, 0},
		{"ignored repeat", approval.Transition{From: approval.StateApproved1, To: approval.StateApproved1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &recordingNotifier{}
			b := newBase(Dependencies{Notifier: notifier})
			b.notify(ctx, p, tenantID, p.CompanyID, tt.t, string(p.Type), p.Reference)
			assert.Len(t, notifier.notices, tt.want)
		})
	}

	t.Run("notifier failure is swallowed", func(t *testing.T) {
		notifier := &recordingNotifier{err: errors.New("smtp timeout")}
		b := newBase(Dependencies{Notifier: notifier, Logger: zap.NewNop()})
		assert.NotPanics(t, func() {
			b.notify(ctx, p, tenantID, p.CompanyID, approval.Transition{To: approval.StateApproved1, Changed: true}, "full", "")
		})
		require.Len(t, notifier.notices, 1)
		assert.Equal(t, approval.FeaturePayroll, notifier.notices[0].Feature)
		assert.Equal(t, p.ID, notifier.notices[0].RecordID)
	})
}
