package scheduler

import (
	"context"
	"fmt"

	apppayroll "github.com/erp/payroll/internal/application/payroll"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerMaintainer is the slice of AccountService the jobs need
type LedgerMaintainer interface {
	Reconcile(ctx context.Context, tenantID uuid.UUID) (*apppayroll.ReconciliationResult, error)
	ValidateOrganization(ctx context.Context, tenantID uuid.UUID) (*apppayroll.AccountValidation, error)
}

// DriftRecorder publishes the drift gauge
type DriftRecorder interface {
	RecordDrift(ctx context.Context, tenant string, accounts int)
}

// LedgerExecutor runs reconcile and account validation jobs
type LedgerExecutor struct {
	ledger  LedgerMaintainer
	metrics DriftRecorder
	logger  *zap.Logger
}

// NewLedgerExecutor creates the executor. metrics may be nil.
func NewLedgerExecutor(ledger LedgerMaintainer, metrics DriftRecorder, logger *zap.Logger) *LedgerExecutor {
	return &LedgerExecutor{ledger: ledger, metrics: metrics, logger: logger}
}

// Execute implements JobExecutor. A reconcile that finds drift fails the job.
func (e *LedgerExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Kind {
	case JobReconcile:
		res, err := e.ledger.Reconcile(ctx, job.TenantID)
		if err != nil {
			return err
		}
		if e.metrics != nil {
			e.metrics.RecordDrift(ctx, job.TenantID.String(), len(res.Drift))
		}
		if !res.Balanced {
			return fmt.Errorf("%w: %d accounts in %s", ErrLedgerDrift, len(res.Drift), job.TenantID)
		}
		return nil
	case JobValidateAccounts:
		v, err := e.ledger.ValidateOrganization(ctx, job.TenantID)
		if err != nil {
			return err
		}
		if !v.Valid {
			names := make([]string, 0, len(v.Missing))
			for _, m := range v.Missing {
				names = append(names, m.Name)
			}
			e.logger.Warn("organization is missing payroll accounts",
				zap.String("tenant_id", job.TenantID.String()),
				zap.Strings("missing", names),
			)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownJobKind, job.Kind)
	}
}
