package persistence

import (
	"context"
	"errors"
	"testing"

	apppayroll "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/domain/ledger"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	bound []*gorm.DB
}

func (p *recordingPublisher) ForTx(tx *gorm.DB) shared.EventPublisher {
	p.bound = append(p.bound, tx)
	return discardPublisher{}
}

func TestTransactionScope_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db, nil)
	ctx := context.Background()
	tenantID := uuid.New()
	boom := errors.New("boom")

	err := scope.Execute(ctx, func(repos apppayroll.TransactionalRepositories) error {
		a, err := ledger.NewAccount(tenantID, uuid.New(), "Bank", ledger.AccountTypeBank)
		require.NoError(t, err)
		require.NoError(t, repos.AccountRepo().Create(ctx, a))
		require.NoError(t, repos.Events().Publish(ctx))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := NewGormAccountRepository(db).CountForTenant(ctx, tenantID, ledger.AccountFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTransactionScope_CommitsAndBindsEvents(t *testing.T) {
	db := setupTestDB(t)
	events := &recordingPublisher{}
	scope := NewGormTransactionScope(db, events)
	ctx := context.Background()
	tenantID := uuid.New()

	err := scope.Execute(ctx, func(repos apppayroll.TransactionalRepositories) error {
		a, err := ledger.NewAccount(tenantID, uuid.New(), "Bank", ledger.AccountTypeBank)
		if err != nil {
			return err
		}
		if err := repos.AccountRepo().Create(ctx, a); err != nil {
			return err
		}
		return repos.Events().Publish(ctx)
	})
	require.NoError(t, err)
	assert.Len(t, events.bound, 1)

	_, err = NewGormAccountRepository(db).FindByName(ctx, tenantID, "Bank")
	assert.NoError(t, err)
}
