package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/ledger"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/erp/payroll/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayrollService handles single-employee payroll records: salaries,
// advances and loans
type PayrollService struct {
	base
	payrollRepo payroll.PayrollRepository
}

// NewPayrollService creates a new PayrollService
func NewPayrollService(payrollRepo payroll.PayrollRepository, deps Dependencies) *PayrollService {
	return &PayrollService{
		base:        newBase(deps),
		payrollRepo: payrollRepo,
	}
}

// Create creates a payroll. Organizations without an approval chain for
// payrolls settle it in the same transaction: the salary expense is accrued
// under accrual accounting and a payroll that pays through an account is
// posted.
func (s *PayrollService) Create(ctx context.Context, tenantID, companyID, userID uuid.UUID, req CreatePayrollRequest) (*PayrollResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payroll", "create")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrEmployeeID, req.EmployeeID.String(),
		telemetry.SpanAttrPayrollType, string(req.Type),
	)

	settings, err := s.settings.Settings(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	p, err := payroll.NewPayroll(tenantID, companyID, userID, req.params(), settings.Workflow(approval.FeaturePayroll))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.EmployeeRepo().FindByIDForTenant(ctx, tenantID, p.EmployeeID); err != nil {
			return fmt.Errorf("failed to get employee: %w", err)
		}
		if p.Approval.State == approval.StateNone {
			if _, err := s.settlePayroll(ctx, repos, p, settings.IsAccrualAccounting); err != nil {
				return err
			}
		}
		if err := repos.PayrollRepo().Create(ctx, p); err != nil {
			return fmt.Errorf("failed to save payroll: %w", err)
		}
		return publishAndClear(ctx, repos, &p.BaseAggregateRoot)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrPayrollID, p.ID.String())
	s.logger.Info("payroll created",
		zap.String("payroll_id", p.ID.String()),
		zap.String("state", string(p.Approval.State)),
		zap.Bool("posted", p.IsPosted()),
	)
	resp := ToPayrollResponse(p)
	return &resp, nil
}

// GetByID retrieves a payroll
func (s *PayrollService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PayrollResponse, error) {
	p, err := s.payrollRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if p.IsDeleted {
		return nil, shared.NewNotFoundError("payroll", id)
	}
	resp := ToPayrollResponse(p)
	return &resp, nil
}

// List retrieves a page of payrolls
func (s *PayrollService) List(ctx context.Context, tenantID uuid.UUID, f PayrollListFilter) (*shared.Paginated[PayrollResponse], error) {
	filter := payroll.PayrollFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
		}.Normalize(),
		EmployeeID:     f.EmployeeID,
		Type:           f.Type,
		State:          f.State,
		VoucherCreated: f.VoucherCreated,
		GroupPayrollID: f.GroupPayrollID,
	}
	if f.Month != "" {
		m, err := payroll.ParseMonth(f.Month)
		if err != nil {
			return nil, err
		}
		filter.Month = &m
	}

	payrolls, err := s.payrollRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.payrollRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		items = append(items, ToPayrollResponse(p))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update edits a payroll. Its postings and accrual are reversed before the
// edit. Under an approval chain the edit resubmits the payroll to pending, so
// the new content posts only once it is approved again. Without a chain the
// edited payroll is settled again in the same transaction.
func (s *PayrollService) Update(ctx context.Context, tenantID, userID, id uuid.UUID, req UpdatePayrollRequest) (*PayrollResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payroll", "update")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrPayrollID, id.String())

	settings, err := s.settings.Settings(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var p *payroll.Payroll
	err = s.withLocks(ctx, []string{payrollLockKey(id)}, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			p, err = repos.PayrollRepo().FindByIDForUpdate(ctx, tenantID, id)
			if err != nil {
				return err
			}
			if err := p.CheckEditable(); err != nil {
				return err
			}
			if _, err := repos.EmployeeRepo().FindByIDForTenant(ctx, tenantID, req.EmployeeID); err != nil {
				return fmt.Errorf("failed to get employee: %w", err)
			}

			if err := s.unsettlePayroll(ctx, repos, p); err != nil {
				return err
			}
			if err := p.Update(req.params()); err != nil {
				return err
			}
			chained := p.Approval.State != approval.StateNone && settings.RequiresApproval(approval.FeaturePayroll)
			if chained || p.Approval.State == approval.StateCorrection {
				p.Approval.Resubmit(userID, time.Now())
			}
			if p.Approval.State.IsPostable() {
				if _, err := s.settlePayroll(ctx, repos, p, settings.IsAccrualAccounting); err != nil {
					return err
				}
			}
			if err := repos.PayrollRepo().SaveWithLock(ctx, p); err != nil {
				return fmt.Errorf("failed to save payroll: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	resp := ToPayrollResponse(p)
	return &resp, nil
}

// ChangeApproval moves a payroll through the approval chain. The first entry
// into an approved state settles the payroll; rejecting a settled payroll
// reverses its postings and accrual. Transitions the chain does not
// allow are ignored and reported with Changed=false.
func (s *PayrollService) ChangeApproval(ctx context.Context, tenantID, userID, id uuid.UUID, req ApprovalRequest) (*ApprovalResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payroll", "change_approval")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrPayrollID, id.String(),
		telemetry.SpanAttrApprovalState, string(req.State),
	)

	settings, err := s.settings.Settings(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var (
		p      *payroll.Payroll
		t      approval.Transition
		result *ApprovalResult
	)
	err = s.withLocks(ctx, []string{payrollLockKey(id)}, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			p, err = repos.PayrollRepo().FindByIDForUpdate(ctx, tenantID, id)
			if err != nil {
				return err
			}
			if p.IsDeleted {
				return shared.NewNotFoundError("payroll", id)
			}
			if p.FromGroupPayroll {
				return shared.NewDomainError(shared.CodeInvalidState,
					fmt.Sprintf("payroll %s follows its group payroll's approval", p.ID))
			}
			if req.State == approval.StateRejected {
				if err := p.CheckRejectable(); err != nil {
					return err
				}
			}

			t, err = p.Approval.Plan(req.State)
			if err != nil {
				return err
			}
			result = &ApprovalResult{RecordID: p.ID, From: t.From, To: t.To, Changed: t.Changed}

			if t.Reverse && (p.IsPosted() || p.IsAccrued()) {
				result.Transactions = len(p.PostedTransactionIDs())
				if err := s.unsettlePayroll(ctx, repos, p); err != nil {
					return err
				}
				result.Reversed = true
			}
			if _, err := p.Approval.Apply(approval.Command{To: req.State, Actor: userID, Comment: req.Comment}); err != nil {
				return err
			}
			if t.To == approval.StateRejected {
				p.MarkRejected()
			}
			if t.Post {
				n, err := s.settlePayroll(ctx, repos, p, settings.IsAccrualAccounting)
				if err != nil {
					return err
				}
				result.Posted = n > 0
				result.Transactions = n
			}

			if err := repos.PayrollRepo().SaveWithLock(ctx, p); err != nil {
				return fmt.Errorf("failed to save payroll: %w", err)
			}
			return repos.Events().Publish(ctx, payroll.NewApprovalChangedEvent(tenantID, p, t, userID, req.Comment))
		})
	})
	if err != nil {
		if s.isNoop(ctx, err, approval.FeaturePayroll, id, req.State) {
			from := approval.StateNone
			if p != nil {
				from = p.Approval.State
			}
			return conflictResult(id, from), nil
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.notify(ctx, p, tenantID, p.CompanyID, t, string(p.Type), p.Reference)
	return result, nil
}

// Delete invalidates a payroll, reversing its postings and accrual first
func (s *PayrollService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "payroll", "delete")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrPayrollID, id.String())

	err := s.withLocks(ctx, []string{payrollLockKey(id)}, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			p, err := repos.PayrollRepo().FindByIDForUpdate(ctx, tenantID, id)
			if err != nil {
				return err
			}
			if err := p.CheckEditable(); err != nil {
				return err
			}
			if err := s.unsettlePayroll(ctx, repos, p); err != nil {
				return err
			}
			p.MarkDeleted()
			if err := repos.PayrollRepo().SaveWithLock(ctx, p); err != nil {
				return fmt.Errorf("failed to save payroll: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	return nil
}

func (s *PayrollService) settlePayroll(ctx context.Context, repos TransactionalRepositories, p *payroll.Payroll, accrual bool) (int, error) {
	return settle(ctx, s.engine, repos, p, payrollSource(p), accrual, true)
}

func (s *PayrollService) unsettlePayroll(ctx context.Context, repos TransactionalRepositories, p *payroll.Payroll) error {
	return unsettle(ctx, s.engine, repos, p, payrollSource(p))
}

func payrollSource(p *payroll.Payroll) ledger.Source {
	return ledger.Source{
		TenantID:   p.TenantID,
		CompanyID:  p.CompanyID,
		Type:       ledger.TransactionTypePayroll,
		SourceType: SourcePayroll,
		SourceID:   p.ID,
		Reference:  p.DisplayID(),
	}
}

// settle writes what an approved payroll owes the ledger. Under accrual
// accounting a salary's expense is accrued first. When disburse is set a
// payroll that pays through its own account is then posted. It returns how
// many transactions were written.
func settle(ctx context.Context, engine *postingEngine, repos TransactionalRepositories, p *payroll.Payroll, src ledger.Source, accrual, disburse bool) (int, error) {
	n := 0
	if p.NeedsAccrual(accrual) {
		if err := accrueDirect(ctx, engine, repos, p, src); err != nil {
			return 0, err
		}
		n += len(p.AccrualIDs)
	}
	if disburse && p.PostsDirectly() && !p.IsPosted() {
		if err := postDirect(ctx, engine, repos, p, src, accrual); err != nil {
			return 0, err
		}
		n += len(p.TransactionIDs)
	}
	return n, nil
}

// unsettle undoes settle, the disbursement before the accrual it cleared
func unsettle(ctx context.Context, engine *postingEngine, repos TransactionalRepositories, p *payroll.Payroll, src ledger.Source) error {
	if err := reverseDirect(ctx, engine, repos, p, src); err != nil {
		return err
	}
	return unaccrueDirect(ctx, engine, repos, p, src)
}

// accrueDirect recognizes p's salary expense and attaches the accrual to it
func accrueDirect(ctx context.Context, engine *postingEngine, repos TransactionalRepositories, p *payroll.Payroll, src ledger.Source) error {
	src.PostedAt = time.Now()
	ids, err := engine.accrue(ctx, repos, src, []payroll.Item{p.Item()})
	if err != nil {
		return err
	}
	return p.AttachAccrual(ids)
}

func unaccrueDirect(ctx context.Context, engine *postingEngine, repos TransactionalRepositories, p *payroll.Payroll, src ledger.Source) error {
	if !p.IsAccrued() {
		return nil
	}
	if err := engine.unaccrue(ctx, repos, reversal{
		Source:         src,
		TransactionIDs: p.AccrualIDs,
		Items:          []payroll.Item{p.Item()},
	}); err != nil {
		return err
	}
	p.DetachAccrual()
	return nil
}

// postDirect posts a payroll that pays through its own account and attaches
// the transactions to it
func postDirect(ctx context.Context, engine *postingEngine, repos TransactionalRepositories, p *payroll.Payroll, src ledger.Source, accrual bool) error {
	src.PostedAt = time.Now()
	ids, err := engine.post(ctx, repos, posting{
		Source:  src,
		Funding: p.PaidThrough,
		Items:   []payroll.Item{p.Item()},
		Accrual: accrual,
	})
	if err != nil {
		return err
	}
	return p.AttachPostings(ids)
}

// reverseDirect undoes a payroll's own postings. Unposted payrolls are left alone.
func reverseDirect(ctx context.Context, engine *postingEngine, repos TransactionalRepositories, p *payroll.Payroll, src ledger.Source) error {
	if !p.IsPosted() {
		return nil
	}
	if err := engine.reverse(ctx, repos, reversal{
		Source:         src,
		TransactionIDs: p.TransactionIDs,
		Items:          []payroll.Item{p.Item()},
	}); err != nil {
		return err
	}
	p.DetachPostings()
	return nil
}

// publishAndClear writes an aggregate's pending events to the outbox
func publishAndClear(ctx context.Context, repos TransactionalRepositories, root *shared.BaseAggregateRoot) error {
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}
	if err := repos.Events().Publish(ctx, events...); err != nil {
		return fmt.Errorf("failed to record events: %w", err)
	}
	root.ClearDomainEvents()
	return nil
}
