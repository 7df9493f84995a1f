package persistence

import (
	"fmt"
	"time"

	"github.com/erp/payroll/internal/infrastructure/config"
	"github.com/erp/payroll/internal/infrastructure/logger"
	"github.com/erp/payroll/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens a postgres connection pool. SQL is logged through zap at
// logLevel ("silent", "error", "warn", "info").
func NewDatabase(cfg *config.DatabaseConfig, zapLogger *zap.Logger, logLevel string) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.NewGormLogger(zapLogger, logger.MapGormLogLevel(logLevel),
			logger.WithSlowThreshold(200*time.Millisecond),
			logger.WithIgnoreRecordNotFoundError(true),
		),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

// NewDatabaseFromGorm wraps an already opened connection, e.g. sqlite in tests
func NewDatabaseFromGorm(db *gorm.DB) *Database {
	return &Database{DB: db}
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}

// AllModels lists every table owned by the payroll ledger
func AllModels() []any {
	return []any{
		&models.AccountModel{},
		&models.TransactionModel{},
		&models.EmployeeModel{},
		&models.EmployeeLedgerModel{},
		&models.PayrollModel{},
		&models.VoucherModel{},
		&models.GroupPayrollModel{},
		&models.SettingsModel{},
		&models.CostCenterPostingModel{},
		&models.OutboxEntryModel{},
	}
}

// tenantUniqueIndexes are the per-tenant unique keys of the SQL migrations.
// tenant_id lives on the shared TenantAggregateModel, which cannot carry a
// per-table index name, so AutoMigrate creates them itself.
var tenantUniqueIndexes = []struct {
	name, table, column string
}{
	{"idx_account_tenant_name", "accounts", "name"},
	{"idx_employee_tenant_number", "employees", "employee_number"},
	{"idx_voucher_tenant_number", "payroll_vouchers", "voucher_number"},
}

// AutoMigrate creates the schema from the gorm models. Production schemas
// come from the SQL migrations; this is for sqlite tests and local runs.
func (d *Database) AutoMigrate() error {
	if err := d.DB.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	for _, idx := range tenantUniqueIndexes {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (tenant_id, %s)", idx.name, idx.table, idx.column)
		if err := d.DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}
