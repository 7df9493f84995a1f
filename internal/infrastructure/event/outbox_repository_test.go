package event

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/erp/payroll/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupOutboxDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.OutboxEntryModel{}))
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func newEntry(t *testing.T) *shared.OutboxEntry {
	t.Helper()
	ev := newPostedEvent(uuid.New())
	payload, err := NewPayrollSerializer().Serialize(ev)
	require.NoError(t, err)
	return shared.NewOutboxEntry(ev, payload, shared.DefaultRetryPolicy())
}

func TestGormOutboxRepository_SaveAndFindPending(t *testing.T) {
	repo := NewGormOutboxRepository(setupOutboxDB(t))
	ctx := context.Background()

	first := newEntry(t)
	second := newEntry(t)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, repo.Save(ctx, second, first))
	require.NoError(t, repo.Save(ctx))

	pending, err := repo.FindPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, first.Payload, pending[0].Payload)
	assert.Equal(t, shared.OutboxStatusPending, pending[0].Status)
}

func TestGormOutboxRepository_RetryLifecycle(t *testing.T) {
	repo := NewGormOutboxRepository(setupOutboxDB(t))
	ctx := context.Background()
	policy := shared.RetryPolicy{MaxRetries: 2, BaseBackoff: time.Millisecond}

	entry := newEntry(t)
	entry.MaxRetries = 2
	require.NoError(t, repo.Save(ctx, entry))

	claimed, err := repo.MarkProcessing(ctx, []uuid.UUID{entry.ID})
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, shared.OutboxStatusProcessing, claimed[0].Status)

	again, err := repo.MarkProcessing(ctx, []uuid.UUID{entry.ID})
	require.NoError(t, err)
	assert.Empty(t, again, "a processing entry cannot be claimed twice")

	claimed[0].MarkFailed("gateway down", policy)
	require.NoError(t, repo.Update(ctx, claimed[0]))

	retryable, err := repo.FindRetryable(ctx, time.Now().Add(time.Second), 10)
	require.NoError(t, err)
	require.Len(t, retryable, 1)
	assert.Equal(t, "gateway down", retryable[0].LastError)

	retryable[0].MarkFailed("gateway still down", policy)
	require.NoError(t, repo.Update(ctx, retryable[0]))

	dead, total, err := repo.FindDead(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, dead, 1)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[shared.OutboxStatusDead])
}

func TestGormOutboxRepository_ReleaseStale(t *testing.T) {
	db := setupOutboxDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	stuck := newEntry(t)
	stuck.Status = shared.OutboxStatusProcessing
	stuck.UpdatedAt = time.Now().Add(-time.Hour)
	fresh := newEntry(t)
	fresh.Status = shared.OutboxStatusProcessing
	require.NoError(t, repo.Save(ctx, stuck, fresh))

	released, err := repo.ReleaseStale(ctx, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), released)

	got, err := repo.FindByID(ctx, stuck.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusPending, got.Status)
}

func TestGormOutboxRepository_DeleteOlderThan(t *testing.T) {
	repo := NewGormOutboxRepository(setupOutboxDB(t))
	ctx := context.Background()

	old := newEntry(t)
	old.MarkSent()
	past := time.Now().Add(-8 * 24 * time.Hour)
	old.ProcessedAt = &past
	recent := newEntry(t)
	recent.MarkSent()
	require.NoError(t, repo.Save(ctx, old, recent))

	deleted, err := repo.DeleteOlderThan(ctx, time.Now().Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestGormOutboxRepository_FindByID_NotFound(t *testing.T) {
	repo := NewGormOutboxRepository(setupOutboxDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeNotFound))
}

func TestGormOutboxRepository_MarkProcessing_SkipsLockedRows(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE SKIP LOCKED`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))
	mock.ExpectCommit()

	claimed, err := repo.MarkProcessing(context.Background(), []uuid.UUID{id})
	require.NoError(t, err)
	assert.Empty(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
