package payroll

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/erp/payroll/internal/domain/ledger"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/erp/payroll/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source type tags stored on transactions and disbursement events
const (
	SourcePayroll      = "Payroll"
	SourceVoucher      = "PayrollVoucher"
	SourceGroupPayroll = "GroupPayroll"
)

// posting is one unit of disbursement: the items paid through one funding
// account on behalf of one owner
type posting struct {
	Source  ledger.Source
	Funding string
	Items   []payroll.Item
	Accrual bool
}

// reversal undoes a previous posting given the owner's transaction ids and
// the items the posting was made for
type reversal struct {
	Source         ledger.Source
	TransactionIDs []uuid.UUID
	Items          []payroll.Item
}

// postingEngine writes balances, transactions, wallets and employee ledger
// rows for a posting and exactly undoes them for a reversal. It runs inside
// the caller's transaction and never commits.
type postingEngine struct {
	metrics PostingMetrics
	now     func() time.Time
}

func newPostingEngine(metrics PostingMetrics) *postingEngine {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &postingEngine{metrics: metrics, now: time.Now}
}

// post applies every leg of p and returns the created transaction ids
func (e *postingEngine) post(ctx context.Context, repos TransactionalRepositories, p posting) ([]uuid.UUID, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "posting", "post")
	defer span.End()
	started := e.now()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrSourceType, p.Source.SourceType,
		telemetry.SpanAttrSourceID, p.Source.SourceID.String(),
		telemetry.SpanAttrItemCount, len(p.Items),
	)

	if len(p.Items) == 0 {
		return nil, shared.NewInvariantError("%s %s has nothing to post", p.Source.SourceType, p.Source.SourceID)
	}
	tenantID := p.Source.TenantID
	disburser := payroll.NewDisburser(p.Accrual)

	names := disburser.AccountNames(p.Items, p.Funding)
	accounts, err := repos.AccountRepo().FindByNamesForUpdate(ctx, tenantID, names)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	journal := ledger.NewJournal(accounts)

	funding, err := journal.Account(p.Funding)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !funding.Type.CanFund() {
		err := shared.NewValidationError("account %s is %s and cannot fund a disbursement", funding.Name, funding.Type)
		telemetry.RecordError(span, err)
		return nil, err
	}

	total := decimal.Zero
	for _, item := range p.Items {
		if !item.Amount.IsPositive() {
			err := shared.NewInvariantError("payroll %s has no positive amount to disburse", item.PayrollID)
			telemetry.RecordError(span, err)
			return nil, err
		}
		for _, leg := range disburser.Legs(item, p.Funding) {
			if _, err := journal.PostLeg(p.Source, leg); err != nil {
				telemetry.RecordError(span, err)
				return nil, err
			}
		}
		total = total.Add(item.Amount)
	}

	created := journal.Created()
	if want := disburser.ExpectedLegs(p.Items); len(created) != want {
		err := shared.NewInvariantError("posting produced %d transactions, expected %d", len(created), want)
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := e.applyWallets(ctx, repos, tenantID, p.Items, false); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := e.applyEmployeeLedgers(ctx, repos, p.Source, p.Items, false); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := repos.TransactionRepo().CreateBatch(ctx, created); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to write transactions: %w", err)
	}
	if err := repos.AccountRepo().SaveBalances(ctx, journal.Touched()); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save balances: %w", err)
	}

	txIDs := ledger.TransactionIDs(created)
	events := []shared.DomainEvent{
		payroll.NewDisbursementPostedEvent(tenantID, p.Source.SourceType, p.Source.SourceID,
			itemPayrollIDs(p.Items), txIDs, total, p.Accrual),
	}
	for _, item := range p.Items {
		if item.CostCenterID != nil {
			events = append(events, payroll.NewCostCenterPushedEvent(tenantID, *item.CostCenterID, item, p.Source.PostedAt))
		}
	}
	if err := repos.Events().Publish(ctx, events...); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to record disbursement events: %w", err)
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrLegCount, len(created),
		telemetry.SpanAttrAmount, total.String(),
	)
	e.metrics.RecordPosting(ctx, p.Source.SourceType, len(created), total, e.now().Sub(started))
	return txIDs, nil
}

// reverse deletes the owner's transactions and restores every balance,
// wallet and employee ledger row they changed. No transactions is a no-op.
func (e *postingEngine) reverse(ctx context.Context, repos TransactionalRepositories, r reversal) error {
	if len(r.TransactionIDs) == 0 {
		return nil
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "posting", "reverse")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrSourceType, r.Source.SourceType,
		telemetry.SpanAttrSourceID, r.Source.SourceID.String(),
		telemetry.SpanAttrLegCount, len(r.TransactionIDs),
	)
	tenantID := r.Source.TenantID

	removed, err := e.unwind(ctx, repos, r)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if err := e.applyWallets(ctx, repos, tenantID, r.Items, true); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if err := e.applyEmployeeLedgers(ctx, repos, r.Source, r.Items, true); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	events := []shared.DomainEvent{
		payroll.NewDisbursementReversedEvent(tenantID, r.Source.SourceType, r.Source.SourceID,
			itemPayrollIDs(r.Items), r.TransactionIDs, itemTotal(r.Items)),
	}
	for _, item := range r.Items {
		if item.CostCenterID != nil {
			events = append(events, payroll.NewCostCenterPulledEvent(tenantID, *item.CostCenterID, item, e.now()))
		}
	}
	if err := repos.Events().Publish(ctx, events...); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to record reversal events: %w", err)
	}

	e.metrics.RecordReversal(ctx, r.Source.SourceType, removed)
	return nil
}

// accrue recognizes the salary expense of items against Salary Payable and
// returns the created transaction ids. Wallets and employee ledger rows
// follow the cash and are left to the disbursement.
func (e *postingEngine) accrue(ctx context.Context, repos TransactionalRepositories, src ledger.Source, items []payroll.Item) ([]uuid.UUID, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "posting", "accrue")
	defer span.End()
	started := e.now()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrSourceType, src.SourceType,
		telemetry.SpanAttrSourceID, src.SourceID.String(),
		telemetry.SpanAttrItemCount, len(items),
	)

	disburser := payroll.NewDisburser(true)
	legs := make([]ledger.Leg, 0, 2*len(items))
	for _, item := range items {
		if !item.Amount.IsPositive() {
			err := shared.NewInvariantError("payroll %s has no positive amount to accrue", item.PayrollID)
			telemetry.RecordError(span, err)
			return nil, err
		}
		legs = append(legs, disburser.AccrualLegs(item)...)
	}
	if len(legs) == 0 {
		err := shared.NewInvariantError("%s %s has nothing to accrue", src.SourceType, src.SourceID)
		telemetry.RecordError(span, err)
		return nil, err
	}

	names := make([]string, 0, len(legs))
	seen := make(map[string]struct{}, len(legs))
	for _, leg := range legs {
		if _, ok := seen[leg.Account]; !ok {
			seen[leg.Account] = struct{}{}
			names = append(names, leg.Account)
		}
	}
	accounts, err := repos.AccountRepo().FindByNamesForUpdate(ctx, src.TenantID, names)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	journal := ledger.NewJournal(accounts)
	for _, leg := range legs {
		if _, err := journal.PostLeg(src, leg); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	created := journal.Created()
	if err := repos.TransactionRepo().CreateBatch(ctx, created); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to write transactions: %w", err)
	}
	if err := repos.AccountRepo().SaveBalances(ctx, journal.Touched()); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save balances: %w", err)
	}

	txIDs := ledger.TransactionIDs(created)
	total := itemTotal(items)
	if err := repos.Events().Publish(ctx, payroll.NewExpenseAccruedEvent(src.TenantID, src.SourceType, src.SourceID,
		itemPayrollIDs(items), txIDs, total)); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to record accrual event: %w", err)
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrLegCount, len(created),
		telemetry.SpanAttrAmount, total.String(),
	)
	e.metrics.RecordPosting(ctx, src.SourceType, len(created), total, e.now().Sub(started))
	return txIDs, nil
}

// unaccrue deletes accrual transactions and restores the balances they changed
func (e *postingEngine) unaccrue(ctx context.Context, repos TransactionalRepositories, r reversal) error {
	if len(r.TransactionIDs) == 0 {
		return nil
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "posting", "unaccrue")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrSourceType, r.Source.SourceType,
		telemetry.SpanAttrSourceID, r.Source.SourceID.String(),
		telemetry.SpanAttrLegCount, len(r.TransactionIDs),
	)

	removed, err := e.unwind(ctx, repos, r)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if err := repos.Events().Publish(ctx, payroll.NewAccrualReversedEvent(r.Source.TenantID, r.Source.SourceType, r.Source.SourceID,
		itemPayrollIDs(r.Items), r.TransactionIDs, itemTotal(r.Items))); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to record accrual reversal event: %w", err)
	}
	e.metrics.RecordReversal(ctx, r.Source.SourceType, removed)
	return nil
}

// unwind applies the inverse of every stored transaction of r to its
// account, deletes the transactions and saves the balances. It returns how
// many transactions were removed.
func (e *postingEngine) unwind(ctx context.Context, repos TransactionalRepositories, r reversal) (int, error) {
	tenantID := r.Source.TenantID
	txs, err := repos.TransactionRepo().FindByIDs(ctx, tenantID, r.TransactionIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(txs) != len(r.TransactionIDs) {
		return 0, shared.NewInvariantError("%s %s owns %d transactions, %d found",
			r.Source.SourceType, r.Source.SourceID, len(r.TransactionIDs), len(txs))
	}
	if err := checkReversal(txs, r.Items); err != nil {
		return 0, err
	}

	accountIDs := make([]uuid.UUID, 0, len(txs))
	seen := make(map[uuid.UUID]struct{}, len(txs))
	for _, t := range txs {
		if _, ok := seen[t.AccountID]; !ok {
			seen[t.AccountID] = struct{}{}
			accountIDs = append(accountIDs, t.AccountID)
		}
	}
	accounts, err := repos.AccountRepo().FindByIDsForUpdate(ctx, tenantID, accountIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to load accounts: %w", err)
	}
	journal := ledger.NewJournal(accounts)
	for i := len(txs) - 1; i >= 0; i-- {
		if err := journal.ReverseLeg(txs[i]); err != nil {
			return 0, err
		}
	}

	removed, err := repos.TransactionRepo().DeleteByIDs(ctx, tenantID, journal.Removed())
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions: %w", err)
	}
	if removed != int64(len(txs)) {
		return 0, shared.NewInvariantError("reversal deleted %d of %d transactions", removed, len(txs))
	}
	if err := repos.AccountRepo().SaveBalances(ctx, journal.Touched()); err != nil {
		return 0, fmt.Errorf("failed to save balances: %w", err)
	}
	return len(txs), nil
}

// checkReversal verifies every stored transaction belongs to one of the
// items and carries that item's amount
func checkReversal(txs []*ledger.Transaction, items []payroll.Item) error {
	amounts := make(map[uuid.UUID]decimal.Decimal, len(items))
	for _, item := range items {
		amounts[item.PayrollID] = item.Amount
	}
	for _, t := range txs {
		if err := t.Validate(); err != nil {
			return err
		}
		if t.PayrollID == nil {
			return shared.NewInvariantError("transaction %s carries no payroll", t.ID)
		}
		want, ok := amounts[*t.PayrollID]
		if !ok {
			return shared.NewInvariantError("transaction %s belongs to payroll %s outside this reversal", t.ID, *t.PayrollID)
		}
		if !t.Amount().Equal(want) {
			return shared.NewInvariantError("transaction %s amount %s disagrees with payroll %s amount %s",
				t.ID, t.Amount(), *t.PayrollID, want)
		}
	}
	return nil
}

// applyWallets applies or reverts items on their employees' wallets.
// Employees are locked in id order. Reverts run in reverse item order so a
// salary releases its recovered advances before those advances go.
func (e *postingEngine) applyWallets(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, items []payroll.Item, revert bool) error {
	ids := employeeIDs(items)
	employees, err := repos.EmployeeRepo().FindByIDsForUpdate(ctx, tenantID, ids)
	if err != nil {
		return fmt.Errorf("failed to load employees: %w", err)
	}
	byID := make(map[uuid.UUID]*payroll.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
	}

	for i := range items {
		item := items[i]
		if revert {
			item = items[len(items)-1-i]
		}
		emp, ok := byID[item.EmployeeID]
		if !ok {
			return shared.NewNotFoundError("employee", item.EmployeeID)
		}
		if revert {
			if err := emp.RevertItem(item); err != nil {
				return err
			}
			continue
		}
		emp.ApplyItem(item)
	}

	for _, emp := range employees {
		if err := emp.CheckWallet(); err != nil {
			return err
		}
		if err := repos.EmployeeRepo().SaveWithLock(ctx, emp); err != nil {
			return fmt.Errorf("failed to save employee wallet: %w", err)
		}
	}
	return nil
}

// applyEmployeeLedgers adds or pulls the items' statement lines
func (e *postingEngine) applyEmployeeLedgers(ctx context.Context, repos TransactionalRepositories, src ledger.Source, items []payroll.Item, pull bool) error {
	byEmployee := make(map[uuid.UUID][]payroll.Item)
	for _, item := range items {
		byEmployee[item.EmployeeID] = append(byEmployee[item.EmployeeID], item)
	}

	for _, employeeID := range employeeIDs(items) {
		empItems := byEmployee[employeeID]
		months := make([]payroll.Month, 0, len(empItems))
		for _, item := range empItems {
			months = append(months, payroll.LedgerMonths(item)...)
		}
		rows, err := repos.EmployeeLedgerRepo().FindForUpdate(ctx, src.TenantID, employeeID, months)
		if err != nil {
			return fmt.Errorf("failed to load employee ledger: %w", err)
		}
		byMonth := make(map[payroll.Month]*payroll.EmployeeLedger, len(rows))
		for _, row := range rows {
			byMonth[row.Month] = row
		}

		dirty := make(map[payroll.Month]struct{})
		for _, item := range empItems {
			if pull {
				for _, m := range payroll.LedgerMonths(item) {
					row, ok := byMonth[m]
					if !ok {
						continue
					}
					if row.Pull(item.PayrollID) > 0 {
						dirty[m] = struct{}{}
					}
				}
				continue
			}
			for _, entry := range payroll.LedgerEntries(item) {
				row, ok := byMonth[entry.Month]
				if !ok {
					row = payroll.NewEmployeeLedger(src.TenantID, src.CompanyID, employeeID, entry.Month)
					byMonth[entry.Month] = row
				}
				row.Add(entry)
				dirty[entry.Month] = struct{}{}
			}
		}

		changed := make([]payroll.Month, 0, len(dirty))
		for m := range dirty {
			changed = append(changed, m)
		}
		sort.Slice(changed, func(i, j int) bool { return changed[i].Before(changed[j]) })
		for _, m := range changed {
			if err := repos.EmployeeLedgerRepo().Save(ctx, byMonth[m]); err != nil {
				return fmt.Errorf("failed to save employee ledger: %w", err)
			}
		}
	}
	return nil
}

// employeeIDs returns the distinct employees of items in id order
func employeeIDs(items []payroll.Item) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.EmployeeID]; ok {
			continue
		}
		seen[item.EmployeeID] = struct{}{}
		ids = append(ids, item.EmployeeID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func itemPayrollIDs(items []payroll.Item) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.PayrollID)
	}
	return ids
}

func itemTotal(items []payroll.Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}
