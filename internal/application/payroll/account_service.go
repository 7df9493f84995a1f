package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/payroll/internal/domain/ledger"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/erp/payroll/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService manages ledger accounts: creation, provisioning of the
// well-known payroll accounts, validation and balance reconciliation
type AccountService struct {
	accountRepo  ledger.AccountRepository
	txRepo       ledger.TransactionRepository
	settingsRepo payroll.SettingsRepository
	logger       *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accountRepo ledger.AccountRepository,
	txRepo ledger.TransactionRepository,
	settingsRepo payroll.SettingsRepository,
	logger *zap.Logger,
) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		accountRepo:  accountRepo,
		txRepo:       txRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// Create creates an account with a zero balance
func (s *AccountService) Create(ctx context.Context, tenantID, companyID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	if _, err := s.accountRepo.FindByName(ctx, tenantID, req.Name); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("account %s already exists", req.Name))
	} else if !shared.IsCode(err, shared.CodeNotFound) {
		return nil, err
	}
	a, err := ledger.NewAccount(tenantID, companyID, req.Name, req.Type)
	if err != nil {
		return nil, err
	}
	a.Code = req.Code
	a.Description = req.Description
	if err := s.accountRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	resp := ToAccountResponse(a)
	return &resp, nil
}

// List retrieves a page of accounts
func (s *AccountService) List(ctx context.Context, tenantID uuid.UUID, f AccountListFilter) (*shared.Paginated[AccountResponse], error) {
	filter := ledger.AccountFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  "name",
			OrderDir: "asc",
			Search:   f.Search,
		}.Normalize(),
		Type: f.Type,
	}
	accounts, err := s.accountRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.accountRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, ToAccountResponse(a))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Transactions retrieves a page of an account's transaction log
func (s *AccountService) Transactions(ctx context.Context, tenantID, accountID uuid.UUID, f TransactionListFilter) (*shared.Paginated[TransactionResponse], error) {
	if _, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID); err != nil {
		return nil, err
	}
	filter := ledger.TransactionFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  "posted_at",
			OrderDir: "asc",
		}.Normalize(),
		AccountID: &accountID,
		Type:      f.Type,
		SourceID:  f.SourceID,
		FromDate:  f.FromDate,
		ToDate:    f.ToDate,
	}
	txs, err := s.txRepo.FindForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.txRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		items = append(items, ToTransactionResponse(t))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Provision creates the well-known accounts the organization lacks and
// returns the created accounts
func (s *AccountService) Provision(ctx context.Context, tenantID, companyID uuid.UUID) ([]AccountResponse, error) {
	accounts, err := s.allAccounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	created := make([]AccountResponse, 0)
	for _, spec := range ledger.MissingAccounts(accounts) {
		if _, err := s.accountRepo.FindByName(ctx, tenantID, spec.Name); err == nil {
			// the name exists with another type; provisioning cannot fix that
			return nil, shared.NewInvariantError("account %s exists but is not a %s account", spec.Name, spec.Type)
		}
		a, err := ledger.NewAccount(tenantID, companyID, spec.Name, spec.Type)
		if err != nil {
			return nil, err
		}
		if err := s.accountRepo.Create(ctx, a); err != nil {
			return nil, fmt.Errorf("failed to create account %s: %w", spec.Name, err)
		}
		created = append(created, ToAccountResponse(a))
	}
	if len(created) > 0 {
		s.logger.Info("provisioned payroll accounts",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("created", len(created)),
		)
	}
	return created, nil
}

// ValidateOrganization reports the well-known accounts the organization lacks
func (s *AccountService) ValidateOrganization(ctx context.Context, tenantID uuid.UUID) (*AccountValidation, error) {
	accounts, err := s.allAccounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	missing := ledger.MissingAccounts(accounts)
	return &AccountValidation{
		TenantID: tenantID,
		Valid:    len(missing) == 0,
		Missing:  missing,
	}, nil
}

// ValidateAll validates every organization with settings. It returns the
// organizations with missing accounts, and an error when one of them runs
// with strict account checking enabled.
func (s *AccountService) ValidateAll(ctx context.Context) ([]AccountValidation, error) {
	tenantIDs, err := s.settingsRepo.ListTenantIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	invalid := make([]AccountValidation, 0)
	var strictErr error
	for _, tenantID := range tenantIDs {
		v, err := s.ValidateOrganization(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if v.Valid {
			continue
		}
		invalid = append(invalid, *v)
		names := make([]string, 0, len(v.Missing))
		for _, m := range v.Missing {
			names = append(names, m.Name)
		}
		s.logger.Warn("organization is missing payroll accounts",
			zap.String("tenant_id", tenantID.String()),
			zap.Strings("missing", names),
		)
		settings, err := s.settingsRepo.FindByTenant(ctx, tenantID)
		if err == nil && settings.StrictAccounts && strictErr == nil {
			strictErr = shared.NewInvariantError("organization %s is missing %d payroll accounts", tenantID, len(v.Missing))
		}
	}
	return invalid, strictErr
}

// Reconcile recomputes every account balance of the organization from its
// transactions and reports drift
func (s *AccountService) Reconcile(ctx context.Context, tenantID uuid.UUID) (*ReconciliationResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "account", "reconcile")
	defer span.End()

	accounts, err := s.allAccounts(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.ID)
	}
	txs, err := s.txRepo.ListForAccounts(ctx, tenantID, ids)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	drift := ledger.Reconcile(accounts, txs)
	telemetry.SetAttributes(span,
		"accounts", len(accounts),
		"transactions", len(txs),
		"drift", len(drift),
	)
	if len(drift) > 0 {
		s.logger.Error("ledger drift detected",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("accounts", len(drift)),
		)
	}
	return &ReconciliationResult{
		TenantID:     tenantID,
		Accounts:     len(accounts),
		Transactions: len(txs),
		Balanced:     len(drift) == 0,
		Drift:        drift,
		CheckedAt:    time.Now(),
	}, nil
}

// ReconcileAll reconciles every organization that owns accounts
func (s *AccountService) ReconcileAll(ctx context.Context) ([]ReconciliationResult, error) {
	tenantIDs, err := s.accountRepo.ListTenantIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	results := make([]ReconciliationResult, 0, len(tenantIDs))
	for _, tenantID := range tenantIDs {
		r, err := s.Reconcile(ctx, tenantID)
		if err != nil {
			return results, err
		}
		results = append(results, *r)
	}
	return results, nil
}

func (s *AccountService) allAccounts(ctx context.Context, tenantID uuid.UUID) ([]*ledger.Account, error) {
	filter := ledger.AccountFilter{Filter: shared.Filter{Page: 1, PageSize: 200, OrderBy: "name", OrderDir: "asc"}}
	all := make([]*ledger.Account, 0)
	for {
		page, err := s.accountRepo.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}
		all = append(all, page...)
		if len(page) < filter.PageSize {
			return all, nil
		}
		filter.Page++
	}
}
