package payroll

import (
	"context"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
)

// PayrollFilter defines filtering options for payroll queries
type PayrollFilter struct {
	shared.Filter
	EmployeeID     *uuid.UUID      // Filter by employee
	Month          *Month          // Filter by payroll month
	Type           *Type           // Filter by payroll type
	State          *approval.State // Filter by approval state
	VoucherCreated *bool           // Filter by voucher reservation
	GroupPayrollID *uuid.UUID      // Filter by owning group payroll
	IncludeDeleted bool            // Include invalidated payrolls
}

// VoucherFilter defines filtering options for voucher queries
type VoucherFilter struct {
	shared.Filter
	Type           *Type           // Filter by voucher type
	State          *approval.State // Filter by approval state
	GroupPayrollID *uuid.UUID      // Filter by paid group payroll
	IncludeDeleted bool            // Include invalidated vouchers
}

// GroupPayrollFilter defines filtering options for group payroll queries
type GroupPayrollFilter struct {
	shared.Filter
	Month          *Month          // Filter by month
	State          *approval.State // Filter by approval state
	VoucherCreated *bool           // Filter by voucher reservation
	IncludeDeleted bool            // Include invalidated batches
}

// PayrollRepository defines the interface for payroll persistence
type PayrollRepository interface {
	// FindByIDForTenant finds a payroll by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payroll, error)

	// FindByIDForUpdate loads and row-locks a payroll inside a transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Payroll, error)

	// FindByIDsForUpdate loads and row-locks payrolls ordered by id.
	// Missing ids return ErrNotFound.
	FindByIDsForUpdate(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*Payroll, error)

	// FindAllForTenant finds payrolls for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PayrollFilter) ([]*Payroll, error)

	// CountForTenant counts payrolls for a tenant with filtering
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter PayrollFilter) (int64, error)

	// Create inserts new payrolls
	Create(ctx context.Context, payrolls ...*Payroll) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, p *Payroll) error
}

// VoucherRepository defines the interface for payroll voucher persistence
type VoucherRepository interface {
	// FindByIDForTenant finds a voucher by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Voucher, error)

	// FindByIDForUpdate loads and row-locks a voucher inside a transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Voucher, error)

	// ExistsByNumber checks whether a voucher number is taken in the tenant
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)

	// FindAllForTenant finds vouchers for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter VoucherFilter) ([]*Voucher, error)

	// CountForTenant counts vouchers for a tenant with filtering
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter VoucherFilter) (int64, error)

	// Create inserts a new voucher
	Create(ctx context.Context, v *Voucher) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, v *Voucher) error
}

// GroupPayrollRepository defines the interface for group payroll persistence
type GroupPayrollRepository interface {
	// FindByIDForTenant finds a group payroll by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*GroupPayroll, error)

	// FindByIDForUpdate loads and row-locks a group payroll inside a transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*GroupPayroll, error)

	// FindAllForTenant finds group payrolls for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter GroupPayrollFilter) ([]*GroupPayroll, error)

	// CountForTenant counts group payrolls for a tenant with filtering
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter GroupPayrollFilter) (int64, error)

	// Create inserts a new group payroll
	Create(ctx context.Context, g *GroupPayroll) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, g *GroupPayroll) error
}

// EmployeeRepository defines the interface for employee wallet persistence
type EmployeeRepository interface {
	// FindByIDForTenant finds an employee by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error)

	// FindByIDsForUpdate loads and row-locks employees ordered by id.
	// Missing ids return ErrNotFound.
	FindByIDsForUpdate(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*Employee, error)

	// FindAllForTenant finds employees for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Employee, error)

	// ExistsByNumber checks whether an employee number is taken in the tenant
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)

	// Create inserts a new employee
	Create(ctx context.Context, e *Employee) error

	// SaveWithLock saves the wallet with optimistic locking (version check)
	SaveWithLock(ctx context.Context, e *Employee) error
}

// EmployeeLedgerRepository defines the interface for employee ledger rows
type EmployeeLedgerRepository interface {
	// FindForUpdate loads and row-locks the employee's rows for the given months.
	// Months without a row are absent from the result.
	FindForUpdate(ctx context.Context, tenantID, employeeID uuid.UUID, months []Month) ([]*EmployeeLedger, error)

	// FindRange returns the employee's rows between from and to inclusive, ordered by month
	FindRange(ctx context.Context, tenantID, employeeID uuid.UUID, from, to Month) ([]*EmployeeLedger, error)

	// Save inserts or updates a row
	Save(ctx context.Context, l *EmployeeLedger) error
}
