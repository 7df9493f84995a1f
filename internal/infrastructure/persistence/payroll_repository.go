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

// saveVersioned writes every column of model guarded by the stored version.
// model must carry the new version; current is the version read by the caller.
func saveVersioned(db *gorm.DB, model any, current int) error {
	result := db.Model(model).
		Where("version = ?", current).
		Select("*").
		Omit("id", "tenant_id", "created_at", "created_by").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// GormPayrollRepository implements payroll.PayrollRepository using GORM
type GormPayrollRepository struct {
	db *gorm.DB
}

// NewGormPayrollRepository creates a new GormPayrollRepository
func NewGormPayrollRepository(db *gorm.DB) *GormPayrollRepository {
	return &GormPayrollRepository{db: db}
}

// FindByIDForTenant finds a payroll by ID for a specific tenant
func (r *GormPayrollRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payroll.Payroll, error) {
	return r.findOne(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate loads and row-locks a payroll inside a transaction
func (r *GormPayrollRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*payroll.Payroll, error) {
	return r.findOne(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), tenantID, id)
}

func (r *GormPayrollRepository) findOne(db *gorm.DB, tenantID, id uuid.UUID) (*payroll.Payroll, error) {
	var model models.PayrollModel
	if err := db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("payroll", id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDsForUpdate loads and row-locks payrolls ordered by id
func (r *GormPayrollRepository) FindByIDsForUpdate(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*payroll.Payroll, error) {
	if len(ids) == 0 {
		return []*payroll.Payroll{}, nil
	}
	wanted := uniqueIDs(ids)
	var rows []models.PayrollModel
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
	out := make([]*payroll.Payroll, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// FindAllForTenant finds payrolls for a tenant with filtering
func (r *GormPayrollRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.PayrollFilter) ([]*payroll.Payroll, error) {
	query := r.filtered(r.db.WithContext(ctx).Model(&models.PayrollModel{}), tenantID, filter)
	query = applyPaging(query, filter.Filter, PayrollSortFields, "created_at")

	var rows []models.PayrollModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*payroll.Payroll, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts payrolls for a tenant with filtering
func (r *GormPayrollRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.PayrollFilter) (int64, error) {
	var count int64
	err := r.filtered(r.db.WithContext(ctx).Model(&models.PayrollModel{}), tenantID, filter).
		Count(&count).Error
	return count, err
}

// Create inserts new payrolls
func (r *GormPayrollRepository) Create(ctx context.Context, payrolls ...*payroll.Payroll) error {
	if len(payrolls) == 0 {
		return nil
	}
	rows := make([]*models.PayrollModel, len(payrolls))
	for i, p := range payrolls {
		rows[i] = models.PayrollModelFromDomain(p)
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPayrollRepository) SaveWithLock(ctx context.Context, p *payroll.Payroll) error {
	model := models.PayrollModelFromDomain(p)
	model.Version = p.Version + 1
	model.UpdatedAt = time.Now()
	if err := saveVersioned(r.db.WithContext(ctx), model, p.Version); err != nil {
		return err
	}
	p.Version = model.Version
	p.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *GormPayrollRepository) filtered(query *gorm.DB, tenantID uuid.UUID, filter payroll.PayrollFilter) *gorm.DB {
	query = query.Where("tenant_id = ?", tenantID)
	if !filter.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Month != nil {
		query = query.Where("month = ?", *filter.Month)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.State != nil {
		query = query.Where("approval_state = ?", *filter.State)
	}
	if filter.VoucherCreated != nil {
		query = query.Where("voucher_created = ?", *filter.VoucherCreated)
	}
	if filter.GroupPayrollID != nil {
		query = query.Where("group_payroll_id = ?", *filter.GroupPayrollID)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("reference LIKE ? OR remark LIKE ?", searchPattern, searchPattern)
	}
	return query
}

// GormVoucherRepository implements payroll.VoucherRepository using GORM
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new GormVoucherRepository
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// FindByIDForTenant finds a voucher by ID for a specific tenant
func (r *GormVoucherRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payroll.Voucher, error) {
	return r.findOne(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate loads and row-locks a voucher inside a transaction
func (r *GormVoucherRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*payroll.Voucher, error) {
	return r.findOne(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), tenantID, id)
}

func (r *GormVoucherRepository) findOne(db *gorm.DB, tenantID, id uuid.UUID) (*payroll.Voucher, error) {
	var model models.VoucherModel
	if err := db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("payroll voucher", id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByNumber checks whether a voucher number is taken in the tenant
func (r *GormVoucherRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.VoucherModel{}).
		Where("tenant_id = ? AND voucher_number = ?", tenantID, number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAllForTenant finds vouchers for a tenant with filtering
func (r *GormVoucherRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.VoucherFilter) ([]*payroll.Voucher, error) {
	query := r.filtered(r.db.WithContext(ctx).Model(&models.VoucherModel{}), tenantID, filter)
	query = applyPaging(query, filter.Filter, VoucherSortFields, "created_at")

	var rows []models.VoucherModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*payroll.Voucher, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts vouchers for a tenant with filtering
func (r *GormVoucherRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.VoucherFilter) (int64, error) {
	var count int64
	err := r.filtered(r.db.WithContext(ctx).Model(&models.VoucherModel{}), tenantID, filter).
		Count(&count).Error
	return count, err
}

// Create inserts a new voucher
func (r *GormVoucherRepository) Create(ctx context.Context, v *payroll.Voucher) error {
	return r.db.WithContext(ctx).Create(models.VoucherModelFromDomain(v)).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormVoucherRepository) SaveWithLock(ctx context.Context, v *payroll.Voucher) error {
	model := models.VoucherModelFromDomain(v)
	model.Version = v.Version + 1
	model.UpdatedAt = time.Now()
	if err := saveVersioned(r.db.WithContext(ctx), model, v.Version); err != nil {
		return err
	}
	v.Version = model.Version
	v.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *GormVoucherRepository) filtered(query *gorm.DB, tenantID uuid.UUID, filter payroll.VoucherFilter) *gorm.DB {
	query = query.Where("tenant_id = ?", tenantID)
	if !filter.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.State != nil {
		query = query.Where("approval_state = ?", *filter.State)
	}
	if filter.GroupPayrollID != nil {
		query = query.Where("group_payroll_id = ?", *filter.GroupPayrollID)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("voucher_number LIKE ? OR remark LIKE ?", searchPattern, searchPattern)
	}
	return query
}

// GormGroupPayrollRepository implements payroll.GroupPayrollRepository using GORM
type GormGroupPayrollRepository struct {
	db *gorm.DB
}

// NewGormGroupPayrollRepository creates a new GormGroupPayrollRepository
func NewGormGroupPayrollRepository(db *gorm.DB) *GormGroupPayrollRepository {
	return &GormGroupPayrollRepository{db: db}
}

// FindByIDForTenant finds a group payroll by ID for a specific tenant
func (r *GormGroupPayrollRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payroll.GroupPayroll, error) {
	return r.findOne(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate loads and row-locks a group payroll inside a transaction
func (r *GormGroupPayrollRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*payroll.GroupPayroll, error) {
	return r.findOne(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), tenantID, id)
}

func (r *GormGroupPayrollRepository) findOne(db *gorm.DB, tenantID, id uuid.UUID) (*payroll.GroupPayroll, error) {
	var model models.GroupPayrollModel
	if err := db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("group payroll", id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds group payrolls for a tenant with filtering
func (r *GormGroupPayrollRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.GroupPayrollFilter) ([]*payroll.GroupPayroll, error) {
	query := r.filtered(r.db.WithContext(ctx).Model(&models.GroupPayrollModel{}), tenantID, filter)
	query = applyPaging(query, filter.Filter, GroupPayrollSortFields, "created_at")

	var rows []models.GroupPayrollModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*payroll.GroupPayroll, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts group payrolls for a tenant with filtering
func (r *GormGroupPayrollRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.GroupPayrollFilter) (int64, error) {
	var count int64
	err := r.filtered(r.db.WithContext(ctx).Model(&models.GroupPayrollModel{}), tenantID, filter).
		Count(&count).Error
	return count, err
}

// Create inserts a new group payroll
func (r *GormGroupPayrollRepository) Create(ctx context.Context, g *payroll.GroupPayroll) error {
	return r.db.WithContext(ctx).Create(models.GroupPayrollModelFromDomain(g)).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormGroupPayrollRepository) SaveWithLock(ctx context.Context, g *payroll.GroupPayroll) error {
	model := models.GroupPayrollModelFromDomain(g)
	model.Version = g.Version + 1
	model.UpdatedAt = time.Now()
	if err := saveVersioned(r.db.WithContext(ctx), model, g.Version); err != nil {
		return err
	}
	g.Version = model.Version
	g.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *GormGroupPayrollRepository) filtered(query *gorm.DB, tenantID uuid.UUID, filter payroll.GroupPayrollFilter) *gorm.DB {
	query = query.Where("tenant_id = ?", tenantID)
	if !filter.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if filter.Month != nil {
		query = query.Where("month = ?", *filter.Month)
	}
	if filter.State != nil {
		query = query.Where("approval_state = ?", *filter.State)
	}
	if filter.VoucherCreated != nil {
		query = query.Where("voucher_created = ?", *filter.VoucherCreated)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	return query
}
