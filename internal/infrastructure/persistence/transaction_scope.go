package persistence

import (
	"context"

	apppayroll "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/domain/ledger"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"gorm.io/gorm"
)

// TxEventPublisher binds event publishing to an open transaction so events
// are written to the outbox atomically with the state change
type TxEventPublisher interface {
	ForTx(tx *gorm.DB) shared.EventPublisher
}

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db     *gorm.DB
	events TxEventPublisher
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB, events TxEventPublisher) *GormTransactionScope {
	return &GormTransactionScope{db: db, events: events}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apppayroll.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, events: s.events})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx     *gorm.DB
	events TxEventPublisher
}

func (r *gormTransactionalRepositories) AccountRepo() ledger.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

func (r *gormTransactionalRepositories) TransactionRepo() ledger.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

func (r *gormTransactionalRepositories) PayrollRepo() payroll.PayrollRepository {
	return NewGormPayrollRepository(r.tx)
}

func (r *gormTransactionalRepositories) VoucherRepo() payroll.VoucherRepository {
	return NewGormVoucherRepository(r.tx)
}

func (r *gormTransactionalRepositories) GroupPayrollRepo() payroll.GroupPayrollRepository {
	return NewGormGroupPayrollRepository(r.tx)
}

func (r *gormTransactionalRepositories) EmployeeRepo() payroll.EmployeeRepository {
	return NewGormEmployeeRepository(r.tx)
}

func (r *gormTransactionalRepositories) EmployeeLedgerRepo() payroll.EmployeeLedgerRepository {
	return NewGormEmployeeLedgerRepository(r.tx)
}

// Events returns a publisher writing to the outbox inside this transaction.
// Without an outbox publisher events are dropped.
func (r *gormTransactionalRepositories) Events() shared.EventPublisher {
	if r.events == nil {
		return discardPublisher{}
	}
	return r.events.ForTx(r.tx)
}

type discardPublisher struct{}

func (discardPublisher) Publish(context.Context, ...shared.DomainEvent) error { return nil }

var (
	_ apppayroll.TransactionScope          = (*GormTransactionScope)(nil)
	_ apppayroll.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ ledger.AccountRepository             = (*GormAccountRepository)(nil)
	_ ledger.TransactionRepository         = (*GormTransactionRepository)(nil)
	_ payroll.PayrollRepository            = (*GormPayrollRepository)(nil)
	_ payroll.VoucherRepository            = (*GormVoucherRepository)(nil)
	_ payroll.GroupPayrollRepository       = (*GormGroupPayrollRepository)(nil)
	_ payroll.EmployeeRepository           = (*GormEmployeeRepository)(nil)
	_ payroll.EmployeeLedgerRepository     = (*GormEmployeeLedgerRepository)(nil)
	_ payroll.SettingsRepository           = (*GormSettingsRepository)(nil)
)
