package ledger

import (
	"context"
	"time"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountFilter defines filtering options for account queries
type AccountFilter struct {
	shared.Filter
	Type *AccountType // Filter by account type
}

// TransactionFilter defines filtering options for transaction queries
type TransactionFilter struct {
	shared.Filter
	AccountID *uuid.UUID       // Filter by account
	Type      *TransactionType // Filter by source type tag
	SourceID  *uuid.UUID       // Filter by owning record
	FromDate  *time.Time       // Filter by posting date range start
	ToDate    *time.Time       // Filter by posting date range end
}

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	// FindByIDForTenant finds an account by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)

	// FindByName finds an account by its unique name inside the tenant
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*Account, error)

	// FindByNamesForUpdate loads and row-locks the named accounts, ordered by name.
	// Names without an account are silently absent from the result.
	FindByNamesForUpdate(ctx context.Context, tenantID uuid.UUID, names []string) ([]*Account, error)

	// FindByIDsForUpdate loads and row-locks accounts by id, ordered by name
	FindByIDsForUpdate(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*Account, error)

	// FindAllForTenant finds all accounts for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter AccountFilter) ([]*Account, error)

	// CountForTenant counts accounts for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter AccountFilter) (int64, error)

	// ListTenantIDs returns every tenant that owns at least one account
	ListTenantIDs(ctx context.Context) ([]uuid.UUID, error)

	// Create inserts a new account
	Create(ctx context.Context, account *Account) error

	// SaveBalances persists the balances of accounts changed by a Journal
	// using the optimistic version check
	SaveBalances(ctx context.Context, accounts []*Account) error
}

// TransactionRepository defines the interface for the transaction log
type TransactionRepository interface {
	// CreateBatch appends transactions in one statement
	CreateBatch(ctx context.Context, txs []*Transaction) error

	// FindByIDs loads transactions by id for a tenant, in posting order
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*Transaction, error)

	// DeleteByIDs deletes reversed transactions and returns the number removed
	DeleteByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int64, error)

	// FindForTenant finds transactions for a tenant with filtering
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter TransactionFilter) ([]*Transaction, error)

	// CountForTenant counts transactions for a tenant with filtering
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter TransactionFilter) (int64, error)

	// ListForAccounts returns every live transaction of the given accounts
	ListForAccounts(ctx context.Context, tenantID uuid.UUID, accountIDs []uuid.UUID) ([]*Transaction, error)
}
