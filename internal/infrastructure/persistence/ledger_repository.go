package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/payroll/internal/domain/ledger"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/erp/payroll/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountRepository implements ledger.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByIDForTenant finds an account by ID for a specific tenant
func (r *GormAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("account", id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds an account by its unique name inside the tenant
func (r *GormAccountRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*ledger.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND name = ?", tenantID, name).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("account", name)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNamesForUpdate loads and row-locks the named accounts, ordered by name
func (r *GormAccountRepository) FindByNamesForUpdate(ctx context.Context, tenantID uuid.UUID, names []string) ([]*ledger.Account, error) {
	if len(names) == 0 {
		return []*ledger.Account{}, nil
	}
	var rows []models.AccountModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND name IN ?", tenantID, names).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return accountsToDomain(rows), nil
}

// FindByIDsForUpdate loads and row-locks accounts by id, ordered by name
func (r *GormAccountRepository) FindByIDsForUpdate(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*ledger.Account, error) {
	if len(ids) == 0 {
		return []*ledger.Account{}, nil
	}
	var rows []models.AccountModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id IN ?", tenantID, uniqueIDs(ids)).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) != len(uniqueIDs(ids)) {
		return nil, shared.ErrNotFound
	}
	return accountsToDomain(rows), nil
}

// FindAllForTenant finds all accounts for a tenant with filtering
func (r *GormAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.AccountFilter) ([]*ledger.Account, error) {
	query := r.filtered(r.db.WithContext(ctx).Model(&models.AccountModel{}), tenantID, filter)
	query = applyPaging(query, filter.Filter, AccountSortFields, "name")

	var rows []models.AccountModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return accountsToDomain(rows), nil
}

// CountForTenant counts accounts for a tenant
func (r *GormAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.AccountFilter) (int64, error) {
	var count int64
	err := r.filtered(r.db.WithContext(ctx).Model(&models.AccountModel{}), tenantID, filter).
		Count(&count).Error
	return count, err
}

// ListTenantIDs returns every tenant that owns at least one account
func (r *GormAccountRepository) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Distinct("tenant_id").
		Order("tenant_id").
		Pluck("tenant_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Create inserts a new account
func (r *GormAccountRepository) Create(ctx context.Context, account *ledger.Account) error {
	return r.db.WithContext(ctx).Create(models.AccountModelFromDomain(account)).Error
}

// SaveBalances persists the balances of accounts changed by a Journal
func (r *GormAccountRepository) SaveBalances(ctx context.Context, accounts []*ledger.Account) error {
	now := time.Now()
	for _, a := range accounts {
		result := r.db.WithContext(ctx).
			Model(&models.AccountModel{}).
			Where("id = ? AND version = ?", a.ID, a.Version).
			Updates(map[string]any{
				"amount":     a.Amount,
				"version":    a.Version + 1,
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		a.Version++
		a.UpdatedAt = now
	}
	return nil
}

func (r *GormAccountRepository) filtered(query *gorm.DB, tenantID uuid.UUID, filter ledger.AccountFilter) *gorm.DB {
	query = query.Where("tenant_id = ?", tenantID)
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", searchPattern, searchPattern)
	}
	return query
}

func accountsToDomain(rows []models.AccountModel) []*ledger.Account {
	out := make([]*ledger.Account, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

// GormTransactionRepository implements ledger.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// CreateBatch appends transactions in one statement. Seq follows slice order.
func (r *GormTransactionRepository) CreateBatch(ctx context.Context, txs []*ledger.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	base := time.Now().UnixNano()
	rows := make([]*models.TransactionModel, len(txs))
	for i, t := range txs {
		rows[i] = models.TransactionModelFromDomain(t, base+int64(i))
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// FindByIDs loads transactions by id for a tenant, in posting order
func (r *GormTransactionRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*ledger.Transaction, error) {
	if len(ids) == 0 {
		return []*ledger.Transaction{}, nil
	}
	var rows []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order("posted_at ASC, seq ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return transactionsToDomain(rows), nil
}

// DeleteByIDs deletes reversed transactions and returns the number removed
func (r *GormTransactionRepository) DeleteByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Delete(&models.TransactionModel{})
	return result.RowsAffected, result.Error
}

// FindForTenant finds transactions for a tenant with filtering
func (r *GormTransactionRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.TransactionFilter) ([]*ledger.Transaction, error) {
	query := r.filtered(r.db.WithContext(ctx).Model(&models.TransactionModel{}), tenantID, filter)
	query = applyPaging(query, filter.Filter, TransactionSortFields, "posted_at").Order("seq DESC")

	var rows []models.TransactionModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return transactionsToDomain(rows), nil
}

// CountForTenant counts transactions for a tenant with filtering
func (r *GormTransactionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.TransactionFilter) (int64, error) {
	var count int64
	err := r.filtered(r.db.WithContext(ctx).Model(&models.TransactionModel{}), tenantID, filter).
		Count(&count).Error
	return count, err
}

// ListForAccounts returns every live transaction of the given accounts in posting order
func (r *GormTransactionRepository) ListForAccounts(ctx context.Context, tenantID uuid.UUID, accountIDs []uuid.UUID) ([]*ledger.Transaction, error) {
	if len(accountIDs) == 0 {
		return []*ledger.Transaction{}, nil
	}
	var rows []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND account_id IN ?", tenantID, accountIDs).
		Order("posted_at ASC, seq ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return transactionsToDomain(rows), nil
}

func (r *GormTransactionRepository) filtered(query *gorm.DB, tenantID uuid.UUID, filter ledger.TransactionFilter) *gorm.DB {
	query = query.Where("tenant_id = ?", tenantID)
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.SourceID != nil {
		query = query.Where("source_id = ?", *filter.SourceID)
	}
	if filter.FromDate != nil {
		query = query.Where("posted_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("posted_at <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		query = query.Where("reference LIKE ?", "%"+filter.Search+"%")
	}
	return query
}

func transactionsToDomain(rows []models.TransactionModel) []*ledger.Transaction {
	out := make([]*ledger.Transaction, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
