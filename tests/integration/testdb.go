// Package integration runs the payroll ledger against a real PostgreSQL
// started with testcontainers. The schema comes from the embedded migrations.
package integration

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/erp/payroll/internal/infrastructure/migration"
	"github.com/erp/payroll/migrations"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB is a migrated database inside its own container
type TestDB struct {
	DB        *gorm.DB
	DSN       string
	Container testcontainers.Container
}

// NewTestDB starts a fresh PostgreSQL container and applies every migration.
// The container is terminated when the test ends.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("payroll_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	MigrateUp(t, dsn)

	gormConfig := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return &TestDB{DB: db, DSN: dsn, Container: container}
}

// MigrateUp applies the embedded migrations over a dedicated connection
func MigrateUp(t *testing.T, dsn string) {
	t.Helper()
	withMigrator(t, dsn, func(m *migration.Migrator) error { return m.Up() })
}

// MigrateDown rolls every migration back
func MigrateDown(t *testing.T, dsn string) {
	t.Helper()
	withMigrator(t, dsn, func(m *migration.Migrator) error { return m.Down() })
}

func withMigrator(t *testing.T, dsn string, fn func(*migration.Migrator) error) {
	t.Helper()
	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	// closing the migrator closes sqlDB too
	defer func() { _ = m.Close() }()
	require.NoError(t, fn(m))
}

// TableExists reports whether a table is present in the public schema
func (tdb *TestDB) TableExists(t *testing.T, name string) bool {
	t.Helper()
	var n int64
	require.NoError(t, tdb.DB.Raw(
		`SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'public' AND table_name = ?`, name,
	).Scan(&n).Error)
	return n > 0
}
