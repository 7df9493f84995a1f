package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/erp/payroll/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEmployeeRepository implements payroll.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByIDForTenant finds an employee by ID for a specific tenant
func (r *GormEmployeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payroll.Employee, error) {
	var model models.EmployeeModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("employee", id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDsForUpdate loads and row-locks employees ordered by id
func (r *GormEmployeeRepository) FindByIDsForUpdate(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*payroll.Employee, error) {
	if len(ids) == 0 {
		return []*payroll.Employee{}, nil
	}
	wanted := uniqueIDs(ids)
	var rows []models.EmployeeModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id IN ?", tenantID, wanted).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) != len(wanted) {
		return nil, shared.ErrNotFound
	}
	return employeesToDomain(rows), nil
}

// FindAllForTenant finds employees for a tenant
func (r *GormEmployeeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*payroll.Employee, error) {
	query := r.db.WithContext(ctx).Model(&models.EmployeeModel{}).Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("employee_number LIKE ? OR name LIKE ? OR email LIKE ?", searchPattern, searchPattern, searchPattern)
	}
	if dept, ok := filter.Filters["department"].(string); ok && dept != "" {
		query = query.Where("department = ?", dept)
	}
	query = applyPaging(query, filter, EmployeeSortFields, "employee_number")

	var rows []models.EmployeeModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return employeesToDomain(rows), nil
}

// ExistsByNumber checks whether an employee number is taken in the tenant
func (r *GormEmployeeRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.EmployeeModel{}).
		Where("tenant_id = ? AND employee_number = ?", tenantID, number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new employee
func (r *GormEmployeeRepository) Create(ctx context.Context, e *payroll.Employee) error {
	return r.db.WithContext(ctx).Create(models.EmployeeModelFromDomain(e)).Error
}

// SaveWithLock saves the wallet with optimistic locking (version check)
func (r *GormEmployeeRepository) SaveWithLock(ctx context.Context, e *payroll.Employee) error {
	model := models.EmployeeModelFromDomain(e)
	model.Version = e.Version + 1
	model.UpdatedAt = time.Now()
	if err := saveVersioned(r.db.WithContext(ctx), model, e.Version); err != nil {
		return err
	}
	e.Version = model.Version
	e.UpdatedAt = model.UpdatedAt
	return nil
}

func employeesToDomain(rows []models.EmployeeModel) []*payroll.Employee {
	out := make([]*payroll.Employee, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

// GormEmployeeLedgerRepository implements payroll.EmployeeLedgerRepository using GORM
type GormEmployeeLedgerRepository struct {
	db *gorm.DB
}

// NewGormEmployeeLedgerRepository creates a new GormEmployeeLedgerRepository
func NewGormEmployeeLedgerRepository(db *gorm.DB) *GormEmployeeLedgerRepository {
	return &GormEmployeeLedgerRepository{db: db}
}

// FindForUpdate loads and row-locks the employee's rows for the given months
func (r *GormEmployeeLedgerRepository) FindForUpdate(ctx context.Context, tenantID, employeeID uuid.UUID, months []payroll.Month) ([]*payroll.EmployeeLedger, error) {
	if len(months) == 0 {
		return []*payroll.EmployeeLedger{}, nil
	}
	var rows []models.EmployeeLedgerModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND employee_id = ? AND month IN ?", tenantID, employeeID, months).
		Order("month ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return ledgersToDomain(rows), nil
}

// FindRange returns the employee's rows between from and to inclusive, ordered by month.
// Months are zero-padded YYYY-MM so string order is calendar order.
func (r *GormEmployeeLedgerRepository) FindRange(ctx context.Context, tenantID, employeeID uuid.UUID, from, to payroll.Month) ([]*payroll.EmployeeLedger, error) {
	var rows []models.EmployeeLedgerModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND employee_id = ? AND month >= ? AND month <= ?", tenantID, employeeID, from, to).
		Order("month ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return ledgersToDomain(rows), nil
}

// Save inserts the row when it is new, otherwise updates it under the version check
func (r *GormEmployeeLedgerRepository) Save(ctx context.Context, l *payroll.EmployeeLedger) error {
	db := r.db.WithContext(ctx)
	now := time.Now()
	result := db.Model(&models.EmployeeLedgerModel{}).
		Where("id = ? AND version = ?", l.ID, l.Version).
		Updates(map[string]any{
			"entries":    models.JSONList[payroll.LedgerEntry](l.Entries),
			"version":    l.Version + 1,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		l.Version++
		l.UpdatedAt = now
		return nil
	}

	var exists int64
	if err := db.Model(&models.EmployeeLedgerModel{}).Where("id = ?", l.ID).Count(&exists).Error; err != nil {
		return err
	}
	if exists > 0 {
		return shared.ErrConcurrencyConflict
	}
	return db.Create(models.EmployeeLedgerModelFromDomain(l)).Error
}

func ledgersToDomain(rows []models.EmployeeLedgerModel) []*payroll.EmployeeLedger {
	out := make([]*payroll.EmployeeLedger, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}
