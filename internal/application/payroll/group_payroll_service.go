package payroll

import (
	"context"
	"fmt"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/ledger"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/erp/payroll/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GroupPayrollService handles batches of payrolls created and approved together
type GroupPayrollService struct {
	base
	groupRepo payroll.GroupPayrollRepository
}

// NewGroupPayrollService creates a new GroupPayrollService
func NewGroupPayrollService(groupRepo payroll.GroupPayrollRepository, deps Dependencies) *GroupPayrollService {
	return &GroupPayrollService{
		base:      newBase(deps),
		groupRepo: groupRepo,
	}
}

// Create creates the batch and its child payrolls atomically. Without an
// approval chain the children are settled at once: accrued under accrual
// accounting and posted when the batch pays through an account.
func (s *GroupPayrollService) Create(ctx context.Context, tenantID, companyID, userID uuid.UUID, req CreateGroupPayrollRequest) (*GroupPayrollResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "group_payroll", "create")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrItemCount, len(req.RecordedTime))

	settings, err := s.settings.Settings(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	g, children, err := payroll.NewGroupPayroll(tenantID, companyID, userID, req.params(), settings.Workflow(approval.FeatureGroupPayroll))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ids := make([]uuid.UUID, 0, len(children))
		for _, c := range children {
			ids = append(ids, c.EmployeeID)
		}
		if _, err := repos.EmployeeRepo().FindByIDsForUpdate(ctx, tenantID, ids); err != nil {
			return fmt.Errorf("failed to get employees: %w", err)
		}

		if g.Approval.State == approval.StateNone {
			for _, c := range children {
				if _, err := settle(ctx, s.engine, repos, c, groupChildSource(g, c), settings.IsAccrualAccounting, g.PostsDirectly()); err != nil {
					return err
				}
			}
		}
		if err := repos.GroupPayrollRepo().Create(ctx, g); err != nil {
			return fmt.Errorf("failed to save group payroll: %w", err)
		}
		if err := repos.PayrollRepo().Create(ctx, children...); err != nil {
			return fmt.Errorf("failed to save group payroll children: %w", err)
		}
		if err := publishAndClear(ctx, repos, &g.BaseAggregateRoot); err != nil {
			return err
		}
		for _, c := range children {
			if err := publishAndClear(ctx, repos, &c.BaseAggregateRoot); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrGroupPayrollID, g.ID.String())
	s.logger.Info("group payroll created",
		zap.String("group_payroll_id", g.ID.String()),
		zap.Int("payrolls", len(children)),
		zap.String("state", string(g.Approval.State)),
	)
	resp := ToGroupPayrollResponse(g)
	return &resp, nil
}

// GetByID retrieves a group payroll
func (s *GroupPayrollService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*GroupPayrollResponse, error) {
	g, err := s.groupRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if g.IsDeleted {
		return nil, shared.NewNotFoundError("group payroll", id)
	}
	resp := ToGroupPayrollResponse(g)
	return &resp, nil
}

// List retrieves a page of group payrolls
func (s *GroupPayrollService) List(ctx context.Context, tenantID uuid.UUID, f GroupPayrollListFilter) (*shared.Paginated[GroupPayrollResponse], error) {
	filter := payroll.GroupPayrollFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			Search:   f.Search,
		}.Normalize(),
		State:          f.State,
		VoucherCreated: f.VoucherCreated,
	}
	if f.Month != "" {
		m, err := payroll.ParseMonth(f.Month)
		if err != nil {
			return nil, err
		}
		filter.Month = &m
	}
	groups, err := s.groupRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.groupRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]GroupPayrollResponse, 0, len(groups))
	for _, g := range groups {
		items = append(items, ToGroupPayrollResponse(g))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ChangeApproval moves the batch through the approval chain and fans the
// new state out to every child that is not rejected. First approval settles
// the children; rejection reverses every settled child.
func (s *GroupPayrollService) ChangeApproval(ctx context.Context, tenantID, userID, id uuid.UUID, req ApprovalRequest) (*ApprovalResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "group_payroll", "change_approval")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrGroupPayrollID, id.String(),
		telemetry.SpanAttrApprovalState, string(req.State),
	)

	settings, err := s.settings.Settings(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var (
		g      *payroll.GroupPayroll
		t      approval.Transition
		result *ApprovalResult
	)
	err = s.withLocks(ctx, []string{groupLockKey(id)}, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			g, err = repos.GroupPayrollRepo().FindByIDForUpdate(ctx, tenantID, id)
			if err != nil {
				return err
			}
			if g.IsDeleted {
				return shared.NewNotFoundError("group payroll", id)
			}
			if req.State == approval.StateRejected && g.VoucherID != nil {
				return shared.NewInvariantError("group payroll %s is reserved by voucher %s", g.Name, *g.VoucherID)
			}

			t, err = g.Approval.Plan(req.State)
			if err != nil {
				return err
			}
			result = &ApprovalResult{RecordID: g.ID, From: t.From, To: t.To, Changed: t.Changed}

			children, err := repos.PayrollRepo().FindByIDsForUpdate(ctx, tenantID, g.PayrollIDs)
			if err != nil {
				return err
			}

			if t.Reverse {
				for _, c := range children {
					if !c.IsPosted() && !c.IsAccrued() {
						continue
					}
					result.Transactions += len(c.PostedTransactionIDs())
					if err := unsettle(ctx, s.engine, repos, c, groupChildSource(g, c)); err != nil {
						return err
					}
					result.Reversed = true
				}
			}
			if _, err := g.Approval.Apply(approval.Command{To: req.State, Actor: userID, Comment: req.Comment}); err != nil {
				return err
			}

			switch {
			case t.To == approval.StateRejected:
				g.MarkRejected()
				for _, c := range children {
					c.Approval.Follow(&g.Approval)
					c.MarkRejected()
				}
			case t.Post:
				for _, c := range children {
					if c.IsRejected {
						continue
					}
					c.Approval.Follow(&g.Approval)
					n, err := settle(ctx, s.engine, repos, c, groupChildSource(g, c), settings.IsAccrualAccounting, g.PostsDirectly())
					if err != nil {
						return err
					}
					if n > 0 {
						result.Posted = true
						result.Transactions += n
					}
				}
			default:
				for _, c := range children {
					if c.IsRejected {
						continue
					}
					c.Approval.Follow(&g.Approval)
				}
			}

			for _, c := range children {
				if err := repos.PayrollRepo().SaveWithLock(ctx, c); err != nil {
					return fmt.Errorf("failed to save group payroll child: %w", err)
				}
			}
			if err := repos.GroupPayrollRepo().SaveWithLock(ctx, g); err != nil {
				return fmt.Errorf("failed to save group payroll: %w", err)
			}
			return repos.Events().Publish(ctx, payroll.NewApprovalChangedEvent(tenantID, g, t, userID, req.Comment))
		})
	})
	if err != nil {
		if s.isNoop(ctx, err, approval.FeatureGroupPayroll, id, req.State) {
			from := approval.StateNone
			if g != nil {
				from = g.Approval.State
			}
			return conflictResult(id, from), nil
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.notify(ctx, g, tenantID, g.CompanyID, t, "group", g.Name)
	return result, nil
}

// Delete invalidates the batch and every child, reversing settled children
func (s *GroupPayrollService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "group_payroll", "delete")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrGroupPayrollID, id.String())

	err := s.withLocks(ctx, []string{groupLockKey(id)}, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			g, err := repos.GroupPayrollRepo().FindByIDForUpdate(ctx, tenantID, id)
			if err != nil {
				return err
			}
			if g.IsDeleted {
				return shared.NewNotFoundError("group payroll", id)
			}
			if g.VoucherID != nil {
				return shared.NewInvariantError("group payroll %s is reserved by voucher %s", g.Name, *g.VoucherID)
			}
			children, err := repos.PayrollRepo().FindByIDsForUpdate(ctx, tenantID, g.PayrollIDs)
			if err != nil {
				return err
			}
			for _, c := range children {
				if err := unsettle(ctx, s.engine, repos, c, groupChildSource(g, c)); err != nil {
					return err
				}
				c.MarkDeleted()
				if err := repos.PayrollRepo().SaveWithLock(ctx, c); err != nil {
					return fmt.Errorf("failed to save group payroll child: %w", err)
				}
			}
			g.MarkDeleted()
			if err := repos.GroupPayrollRepo().SaveWithLock(ctx, g); err != nil {
				return fmt.Errorf("failed to save group payroll: %w", err)
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

// groupChildSource tags a child's postings with the batch that produced them
func groupChildSource(g *payroll.GroupPayroll, c *payroll.Payroll) ledger.Source {
	return ledger.Source{
		TenantID:   c.TenantID,
		CompanyID:  c.CompanyID,
		Type:       ledger.TransactionTypeGroupPayroll,
		SourceType: SourceGroupPayroll,
		SourceID:   g.ID,
		Reference:  c.DisplayID(),
	}
}
