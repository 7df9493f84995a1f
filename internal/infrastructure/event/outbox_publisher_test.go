package event

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/erp/payroll/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func countOutbox(t *testing.T, db *gorm.DB) int64 {
	var n int64
	require.NoError(t, db.Model(&models.OutboxEntryModel{}).Count(&n).Error)
	return n
}

func TestOutboxPublisher_PublishWithTx(t *testing.T) {
	db := setupOutboxDB(t)
	publisher := NewOutboxPublisher(NewPayrollSerializer(), shared.DefaultRetryPolicy())
	ctx := context.Background()
	tenantID := uuid.New()

	err := db.Transaction(func(tx *gorm.DB) error {
		return publisher.ForTx(tx).Publish(ctx, newPostedEvent(tenantID), newPushedEvent(tenantID))
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), countOutbox(t, db))

	pending, err := NewGormOutboxRepository(db).FindPending(ctx, 10)
	require.NoError(t, err)
	for _, e := range pending {
		assert.Equal(t, tenantID, e.TenantID)
		assert.Equal(t, 5, e.MaxRetries)
	}
}

func TestOutboxPublisher_NoEvents(t *testing.T) {
	db := setupOutboxDB(t)
	publisher := NewOutboxPublisher(NewPayrollSerializer(), shared.DefaultRetryPolicy())

	require.NoError(t, publisher.PublishWithTx(context.Background(), db))
	assert.Zero(t, countOutbox(t, db))
}

func TestOutboxPublisher_RollsBackWithTheTransaction(t *testing.T) {
	db := setupOutboxDB(t)
	publisher := NewOutboxPublisher(NewPayrollSerializer(), shared.DefaultRetryPolicy())
	ctx := context.Background()
	boom := errors.New("posting failed")

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := publisher.PublishWithTx(ctx, tx, newPostedEvent(uuid.New())); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, countOutbox(t, db), "no event survives a rolled back posting")
}
