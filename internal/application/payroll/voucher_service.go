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

// VoucherService handles payroll vouchers: batches that pay approved
// payrolls, or a whole group payroll, through one funding account
type VoucherService struct {
	base
	voucherRepo payroll.VoucherRepository
}

// NewVoucherService creates a new VoucherService
func NewVoucherService(voucherRepo payroll.VoucherRepository, deps Dependencies) *VoucherService {
	return &VoucherService{
		base:        newBase(deps),
		voucherRepo: voucherRepo,
	}
}

// voucherScope is a voucher with the records it pays, loaded under lock
type voucherScope struct {
	voucher  *payroll.Voucher
	group    *payroll.GroupPayroll
	payrolls []*payroll.Payroll
}

func (vs *voucherScope) items() []payroll.Item {
	items := make([]payroll.Item, 0, len(vs.payrolls))
	for _, p := range vs.payrolls {
		items = append(items, vs.voucher.DisbursementItem(p))
	}
	return items
}

func (vs *voucherScope) source() ledger.Source {
	v := vs.voucher
	return ledger.Source{
		TenantID:   v.TenantID,
		CompanyID:  v.CompanyID,
		Type:       ledger.TransactionTypePayrollVoucher,
		SourceType: SourceVoucher,
		SourceID:   v.ID,
		Reference:  v.VoucherNumber,
		PostedAt:   v.PaymentDate,
	}
}

// Create issues a voucher. The paid payrolls, or the group payroll and its
// children, are reserved so no other voucher can pay them. Organizations
// without an approval chain for vouchers post it immediately.
func (s *VoucherService) Create(ctx context.Context, tenantID, companyID, userID uuid.UUID, req CreateVoucherRequest) (*VoucherResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payroll_voucher", "create")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrVoucherNumber, req.VoucherNumber,
		telemetry.SpanAttrItemCount, len(req.Items),
	)

	settings, err := s.settings.Settings(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	v, err := payroll.NewVoucher(tenantID, companyID, userID, req.params(), settings.Workflow(approval.FeaturePayrollVoucher))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	keys := []string{voucherLockKey(v.ID)}
	if v.IsGroupVoucher() {
		keys = append(keys, groupLockKey(*v.GroupPayrollID))
	}
	for _, pid := range v.PayrollIDs() {
		keys = append(keys, payrollLockKey(pid))
	}

	err = s.withLocks(ctx, keys, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			taken, err := repos.VoucherRepo().ExistsByNumber(ctx, tenantID, v.VoucherNumber)
			if err != nil {
				return fmt.Errorf("failed to check voucher number: %w", err)
			}
			if taken {
				return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("voucher number %s already exists", v.VoucherNumber))
			}

			vs, err := s.reserve(ctx, repos, v)
			if err != nil {
				return err
			}
			if v.Approval.State == approval.StateNone {
				if err := s.postVoucher(ctx, repos, vs, settings.IsAccrualAccounting); err != nil {
					return err
				}
			}
			if err := repos.VoucherRepo().Create(ctx, v); err != nil {
				return fmt.Errorf("failed to save voucher: %w", err)
			}
			if err := s.saveScope(ctx, repos, vs); err != nil {
				return err
			}
			return publishAndClear(ctx, repos, &v.BaseAggregateRoot)
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrVoucherID, v.ID.String())
	s.logger.Info("payroll voucher created",
		zap.String("voucher_id", v.ID.String()),
		zap.String("voucher_number", v.VoucherNumber),
		zap.String("state", string(v.Approval.State)),
		zap.Bool("posted", v.IsPosted()),
	)
	resp := ToVoucherResponse(v)
	return &resp, nil
}

// reserve checks and reserves what v pays
func (s *VoucherService) reserve(ctx context.Context, repos TransactionalRepositories, v *payroll.Voucher) (*voucherScope, error) {
	vs := &voucherScope{voucher: v}

	if v.IsGroupVoucher() {
		g, err := repos.GroupPayrollRepo().FindByIDForUpdate(ctx, v.TenantID, *v.GroupPayrollID)
		if err != nil {
			return nil, err
		}
		if err := g.CheckSelectable(); err != nil {
			return nil, err
		}
		if err := g.CheckConsistency(); err != nil {
			return nil, err
		}
		children, err := repos.PayrollRepo().FindByIDsForUpdate(ctx, v.TenantID, g.PayrollIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range children {
			if err := p.CheckSelectable(payroll.TypeFull); err != nil {
				return nil, err
			}
			p.ReserveForVoucher(v.ID)
		}
		g.ReserveForVoucher(v.ID)
		vs.group = g
		vs.payrolls = children
		return vs, nil
	}

	payrolls, err := repos.PayrollRepo().FindByIDsForUpdate(ctx, v.TenantID, v.PayrollIDs())
	if err != nil {
		return nil, err
	}
	for _, p := range payrolls {
		if err := p.CheckSelectable(v.Type); err != nil {
			return nil, err
		}
		if p.FromGroupPayroll {
			return nil, shared.NewValidationError("payroll %s belongs to a group payroll; pay the group instead", p.ID)
		}
		line, _ := v.ItemFor(p.ID)
		if line.EmployeeID != p.EmployeeID {
			return nil, shared.NewValidationError("payroll %s does not belong to employee %s", p.ID, line.EmployeeID)
		}
		p.ReserveForVoucher(v.ID)
	}
	vs.payrolls = payrolls
	return vs, nil
}

// load re-reads a stored voucher and what it pays under row locks
func (s *VoucherService) load(ctx context.Context, repos TransactionalRepositories, tenantID, id uuid.UUID) (*voucherScope, error) {
	v, err := repos.VoucherRepo().FindByIDForUpdate(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if v.IsDeleted {
		return nil, shared.NewNotFoundError("voucher", id)
	}
	vs := &voucherScope{voucher: v}
	if v.IsRejected {
		// a rejected voucher has already released what it paid
		return vs, nil
	}
	ids := v.PayrollIDs()
	if v.IsGroupVoucher() {
		g, err := repos.GroupPayrollRepo().FindByIDForUpdate(ctx, tenantID, *v.GroupPayrollID)
		if err != nil {
			return nil, err
		}
		vs.group = g
		ids = g.PayrollIDs
	}
	vs.payrolls, err = repos.PayrollRepo().FindByIDsForUpdate(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range vs.payrolls {
		if p.VoucherID == nil || *p.VoucherID != v.ID {
			return nil, shared.NewInvariantError("payroll %s is not reserved by voucher %s", p.ID, v.VoucherNumber)
		}
	}
	return vs, nil
}

// GetByID retrieves a voucher
func (s *VoucherService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*VoucherResponse, error) {
	v, err := s.voucherRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if v.IsDeleted {
		return nil, shared.NewNotFoundError("voucher", id)
	}
	resp := ToVoucherResponse(v)
	return &resp, nil
}

// List retrieves a page of vouchers
func (s *VoucherService) List(ctx context.Context, tenantID uuid.UUID, f VoucherListFilter) (*shared.Paginated[VoucherResponse], error) {
	filter := payroll.VoucherFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		}.Normalize(),
		Type:           f.Type,
		State:          f.State,
		GroupPayrollID: f.GroupPayrollID,
	}
	vouchers, err := s.voucherRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.voucherRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]VoucherResponse, 0, len(vouchers))
	for _, v := range vouchers {
		items = append(items, ToVoucherResponse(v))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ChangeApproval moves a voucher through the approval chain. First approval
// posts every paid payroll; rejection reverses the voucher and releases what
// it reserved.
func (s *VoucherService) ChangeApproval(ctx context.Context, tenantID, userID, id uuid.UUID, req ApprovalRequest) (*ApprovalResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payroll_voucher", "change_approval")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrVoucherID, id.String(),
		telemetry.SpanAttrApprovalState, string(req.State),
	)

	settings, err := s.settings.Settings(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var (
		vs     *voucherScope
		t      approval.Transition
		result *ApprovalResult
	)
	err = s.withLocks(ctx, []string{voucherLockKey(id)}, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			vs, err = s.load(ctx, repos, tenantID, id)
			if err != nil {
				return err
			}
			v := vs.voucher

			t, err = v.Approval.Plan(req.State)
			if err != nil {
				return err
			}
			result = &ApprovalResult{RecordID: v.ID, From: t.From, To: t.To, Changed: t.Changed}

			if t.Reverse && v.IsPosted() {
				result.Transactions = len(v.TransactionIDs)
				if err := s.reverseVoucher(ctx, repos, vs); err != nil {
					return err
				}
				result.Reversed = true
			}
			if _, err := v.Approval.Apply(approval.Command{To: req.State, Actor: userID, Comment: req.Comment}); err != nil {
				return err
			}
			if t.To == approval.StateRejected {
				v.MarkRejected()
				vs.release()
			}
			if t.Post && !v.IsPosted() {
				if err := s.postVoucher(ctx, repos, vs, settings.IsAccrualAccounting); err != nil {
					return err
				}
				result.Posted = true
				result.Transactions = len(v.TransactionIDs)
			}

			if err := repos.VoucherRepo().SaveWithLock(ctx, v); err != nil {
				return fmt.Errorf("failed to save voucher: %w", err)
			}
			if err := s.saveScope(ctx, repos, vs); err != nil {
				return err
			}
			return repos.Events().Publish(ctx, payroll.NewApprovalChangedEvent(tenantID, v, t, userID, req.Comment))
		})
	})
	if err != nil {
		if s.isNoop(ctx, err, approval.FeaturePayrollVoucher, id, req.State) {
			from := approval.StateNone
			if vs != nil {
				from = vs.voucher.Approval.State
			}
			return conflictResult(id, from), nil
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	v := vs.voucher
	s.notify(ctx, v, tenantID, v.CompanyID, t, string(v.Type), v.VoucherNumber)
	return result, nil
}

// Delete invalidates a voucher, reversing it and releasing what it reserved
func (s *VoucherService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "payroll_voucher", "delete")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrVoucherID, id.String())

	err := s.withLocks(ctx, []string{voucherLockKey(id)}, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			vs, err := s.load(ctx, repos, tenantID, id)
			if err != nil {
				return err
			}
			if err := s.reverseVoucher(ctx, repos, vs); err != nil {
				return err
			}
			vs.voucher.MarkDeleted()
			vs.release()
			if err := repos.VoucherRepo().SaveWithLock(ctx, vs.voucher); err != nil {
				return fmt.Errorf("failed to save voucher: %w", err)
			}
			return s.saveScope(ctx, repos, vs)
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	return nil
}

// postVoucher posts every paid payroll through the voucher's account.
// The voucher owns the resulting transactions. Under accrual accounting a
// salary not yet accrued is accrued first; that accrual stays with the
// payroll when the voucher is reversed.
func (s *VoucherService) postVoucher(ctx context.Context, repos TransactionalRepositories, vs *voucherScope, accrual bool) error {
	for _, p := range vs.payrolls {
		if p.IsPosted() {
			return shared.NewInvariantError("payroll %s is already posted", p.ID)
		}
		if p.NeedsAccrual(accrual) {
			if err := accrueDirect(ctx, s.engine, repos, p, payrollSource(p)); err != nil {
				return err
			}
		}
	}
	ids, err := s.engine.post(ctx, repos, posting{
		Source:  vs.source(),
		Funding: vs.voucher.PaidThrough,
		Items:   vs.items(),
		Accrual: accrual,
	})
	if err != nil {
		return err
	}
	return vs.voucher.AttachPostings(ids)
}

func (s *VoucherService) reverseVoucher(ctx context.Context, repos TransactionalRepositories, vs *voucherScope) error {
	if !vs.voucher.IsPosted() {
		return nil
	}
	if err := s.engine.reverse(ctx, repos, reversal{
		Source:         vs.source(),
		TransactionIDs: vs.voucher.TransactionIDs,
		Items:          vs.items(),
	}); err != nil {
		return err
	}
	vs.voucher.DetachPostings()
	return nil
}

// release returns the paid records to the pool of payable items
func (vs *voucherScope) release() {
	for _, p := range vs.payrolls {
		p.ReleaseFromVoucher()
	}
	if vs.group != nil {
		vs.group.ReleaseFromVoucher()
	}
}

func (s *VoucherService) saveScope(ctx context.Context, repos TransactionalRepositories, vs *voucherScope) error {
	for _, p := range vs.payrolls {
		if err := repos.PayrollRepo().SaveWithLock(ctx, p); err != nil {
			return fmt.Errorf("failed to save payroll: %w", err)
		}
	}
	if vs.group != nil {
		if err := repos.GroupPayrollRepo().SaveWithLock(ctx, vs.group); err != nil {
			return fmt.Errorf("failed to save group payroll: %w", err)
		}
	}
	return nil
}
