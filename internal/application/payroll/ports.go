// Package payroll orchestrates posting, reversal and approval of payroll
// records. Every operation that touches balances runs inside one
// TransactionScope execution under a per-record lock.
package payroll

import (
	"context"
	"time"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/ledger"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionScope provides transactional access to the payroll repositories.
// If fn returns an error every write made through repos is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a transaction.
// All repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	AccountRepo() ledger.AccountRepository
	TransactionRepo() ledger.TransactionRepository
	PayrollRepo() payroll.PayrollRepository
	VoucherRepo() payroll.VoucherRepository
	GroupPayrollRepo() payroll.GroupPayrollRepository
	EmployeeRepo() payroll.EmployeeRepository
	EmployeeLedgerRepo() payroll.EmployeeLedgerRepository
	// Events writes domain events to the outbox inside the transaction
	Events() shared.EventPublisher
}

// SettingsProvider resolves the organization settings used to start
// workflows and pick the accounting mode
type SettingsProvider interface {
	Settings(ctx context.Context, tenantID uuid.UUID) (*payroll.Settings, error)
}

// ApprovalNotice describes a record that entered its first approval level
type ApprovalNotice struct {
	Feature     approval.Feature `json:"feature"`
	State       approval.State   `json:"state"`
	TenantID    uuid.UUID        `json:"tenant_id"`
	CompanyID   *uuid.UUID       `json:"company_id,omitempty"`
	RecordID    uuid.UUID        `json:"record_id"`
	DisplayID   string           `json:"display_id"`
	RecordLabel string           `json:"record_label"`
	TypeKey     string           `json:"type_key"`
	Reference   string           `json:"reference,omitempty"`
}

// ApprovalNotifier tells the next approver a record is waiting.
// It is called after commit; failures never affect the transition.
type ApprovalNotifier interface {
	NotifyNext(ctx context.Context, notice ApprovalNotice) error
}

// CostCenterEntry is one payroll amount booked against a cost center
type CostCenterEntry struct {
	TenantID     uuid.UUID
	CostCenterID uuid.UUID
	PayrollID    uuid.UUID
	Amount       decimal.Decimal
	Account      string
	Date         time.Time
}

// CostCenterGateway books and unbooks payroll amounts in the cost center ledger
type CostCenterGateway interface {
	Push(ctx context.Context, entry CostCenterEntry) error
	Pull(ctx context.Context, entry CostCenterEntry) error
}

// PostingMetrics records posting activity
type PostingMetrics interface {
	RecordPosting(ctx context.Context, sourceType string, legs int, amount decimal.Decimal, duration time.Duration)
	RecordReversal(ctx context.Context, sourceType string, legs int)
	RecordApprovalNoop(ctx context.Context, feature approval.Feature)
}

type noopMetrics struct{}

func (noopMetrics) RecordPosting(context.Context, string, int, decimal.Decimal, time.Duration) {}
func (noopMetrics) RecordReversal(context.Context, string, int) {}
func (noopMetrics) RecordApprovalNoop(context.Context, approval.Feature) {}

type noopNotifier struct{}

func (noopNotifier) NotifyNext(context.Context, ApprovalNotice) error { return nil }

// unlockedLocker is used when no RecordLocker is configured; row locks
// inside the transaction still serialize writers.
type unlockedLocker struct{}

func (unlockedLocker) Acquire(context.Context, string) (func(), error) { return func() {}, nil }
