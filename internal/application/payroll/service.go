package payroll

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dependencies are the collaborators shared by the record services
type Dependencies struct {
	Scope    TransactionScope
	Settings SettingsProvider
	Locker   shared.RecordLocker
	Notifier ApprovalNotifier
	Metrics  PostingMetrics
	Logger   *zap.Logger
}

// base carries the plumbing common to PayrollService, VoucherService and
// GroupPayrollService
type base struct {
	scope    TransactionScope
	settings SettingsProvider
	locker   shared.RecordLocker
	notifier ApprovalNotifier
	metrics  PostingMetrics
	engine   *postingEngine
	logger   *zap.Logger
}

func newBase(deps Dependencies) base {
	b := base{
		scope:    deps.Scope,
		settings: deps.Settings,
		locker:   deps.Locker,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
	}
	if b.locker == nil {
		b.locker = unlockedLocker{}
	}
	if b.notifier == nil {
		b.notifier = noopNotifier{}
	}
	if b.metrics == nil {
		b.metrics = noopMetrics{}
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	b.engine = newPostingEngine(b.metrics)
	return b
}

// Lock keys
func payrollLockKey(id uuid.UUID) string { return "payroll:" + id.String() }
func voucherLockKey(id uuid.UUID) string { return "voucher:" + id.String() }
func groupLockKey(id uuid.UUID) string   { return "group:" + id.String() }

// withLocks acquires keys in sorted order, runs fn, then releases them
func (b *base) withLocks(ctx context.Context, keys []string, fn func() error) error {
	sorted := append(make([]string, 0, len(keys)), keys...)
	sort.Strings(sorted)

	releases := make([]func(), 0, len(sorted))
	defer func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}()
	for _, key := range sorted {
		release, err := b.locker.Acquire(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to lock %s: %w", key, err)
		}
		releases = append(releases, release)
	}
	return fn()
}

// isNoop reports whether err is an approval conflict. Conflicts are logged
// and answered with an unchanged result.
func (b *base) isNoop(ctx context.Context, err error, rec approval.Feature, id uuid.UUID, to approval.State) bool {
	if !errors.Is(err, shared.ErrApprovalStateConflict) {
		return false
	}
	b.logger.Info("approval transition ignored",
		zap.String("feature", string(rec)),
		zap.String("record_id", id.String()),
		zap.String("to", string(to)),
		zap.String("reason", err.Error()),
	)
	b.metrics.RecordApprovalNoop(ctx, rec)
	return true
}

// notify sends the next-approver notice after commit. Errors are logged only.
func (b *base) notify(ctx context.Context, rec approval.Record, tenantID uuid.UUID, companyID *uuid.UUID, t approval.Transition, typeKey, reference string) {
	if !t.EnteredFirstApproval() {
		return
	}
	notice := ApprovalNotice{
		Feature:     rec.Feature(),
		State:       t.To,
		TenantID:    tenantID,
		CompanyID:   companyID,
		RecordID:    rec.GetID(),
		DisplayID:   rec.DisplayID(),
		RecordLabel: recordLabel(rec.Feature()),
		TypeKey:     typeKey,
		Reference:   reference,
	}
	if err := b.notifier.NotifyNext(ctx, notice); err != nil {
		b.logger.Warn("failed to notify next approver",
			zap.String("feature", string(rec.Feature())),
			zap.String("record_id", rec.GetID().String()),
			zap.Error(err),
		)
	}
}

func recordLabel(f approval.Feature) string {
	switch f {
	case approval.FeaturePayrollVoucher:
		return "Payroll Voucher"
	case approval.FeatureGroupPayroll:
		return "Group Payroll"
	}
	return "Payroll"
}

// conflictResult is the unchanged answer to a no-op transition
func conflictResult(id uuid.UUID, from approval.State) *ApprovalResult {
	return &ApprovalResult{RecordID: id, From: from, To: from}
}
