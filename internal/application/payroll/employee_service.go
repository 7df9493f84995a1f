package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/erp/payroll/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StatementRenderer renders an employee statement document
type StatementRenderer interface {
	Render(statement *StatementResponse) ([]byte, error)
	ContentType() string
}

// StatementStorage stores rendered statements
type StatementStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// EmployeeService manages employee wallets and statements
type EmployeeService struct {
	employeeRepo payroll.EmployeeRepository
	ledgerRepo   payroll.EmployeeLedgerRepository
	renderer     StatementRenderer
	storage      StatementStorage
	logger       *zap.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(
	employeeRepo payroll.EmployeeRepository,
	ledgerRepo payroll.EmployeeLedgerRepository,
	logger *zap.Logger,
) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		employeeRepo: employeeRepo,
		ledgerRepo:   ledgerRepo,
		logger:       logger,
	}
}

// SetStatementExport wires the renderer and the storage used by ExportStatement
func (s *EmployeeService) SetStatementExport(renderer StatementRenderer, storage StatementStorage) {
	s.renderer = renderer
	s.storage = storage
}

// Create registers an employee with an empty wallet
func (s *EmployeeService) Create(ctx context.Context, tenantID, companyID uuid.UUID, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	taken, err := s.employeeRepo.ExistsByNumber(ctx, tenantID, req.EmployeeNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("employee number %s already exists", req.EmployeeNumber))
	}
	e, err := payroll.NewEmployee(tenantID, companyID, req.EmployeeNumber, req.Name)
	if err != nil {
		return nil, err
	}
	e.Email = req.Email
	e.Department = req.Department
	if err := s.employeeRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	resp := ToEmployeeResponse(e)
	return &resp, nil
}

// GetByID retrieves an employee with its wallet
func (s *EmployeeService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*EmployeeResponse, error) {
	e, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(e)
	return &resp, nil
}

// List retrieves a page of employees
func (s *EmployeeService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]EmployeeResponse, error) {
	employees, err := s.employeeRepo.FindAllForTenant(ctx, tenantID, filter.Normalize())
	if err != nil {
		return nil, err
	}
	items := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		items = append(items, ToEmployeeResponse(e))
	}
	return items, nil
}

// Statement builds the employee's ledger between two months inclusive.
// Balance is the running total of the statement lines.
func (s *EmployeeService) Statement(ctx context.Context, tenantID, employeeID uuid.UUID, from, to string) (*StatementResponse, error) {
	fromMonth, err := payroll.ParseMonth(from)
	if err != nil {
		return nil, err
	}
	toMonth, err := payroll.ParseMonth(to)
	if err != nil {
		return nil, err
	}
	if toMonth.Before(fromMonth) {
		return nil, shared.NewValidationError("statement end %s is before its start %s", toMonth, fromMonth)
	}

	e, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	rows, err := s.ledgerRepo.FindRange(ctx, tenantID, employeeID, fromMonth, toMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee ledger: %w", err)
	}

	statement := &StatementResponse{
		Employee: ToEmployeeResponse(e),
		From:     fromMonth,
		To:       toMonth,
		Months:   make([]StatementMonth, 0, len(rows)),
		Total:    decimal.Zero,
	}
	balance := decimal.Zero
	for _, row := range rows {
		if len(row.Entries) == 0 {
			continue
		}
		salary := row.TotalByType(payroll.TypeFull).
			Add(row.TotalByType(payroll.TypeTimesheet)).
			Add(row.TotalByType(payroll.TypeProjectTimesheet))
		total := row.Total()
		balance = balance.Add(total)
		statement.Months = append(statement.Months, StatementMonth{
			Month:   row.Month,
			Entries: row.Entries,
			Salary:  salary,
			Advance: row.TotalByType(payroll.TypeAdvance),
			Loan:    row.TotalByType(payroll.TypeLoan),
			Total:   total,
			Balance: balance,
		})
	}
	statement.Total = balance
	return statement, nil
}

// ExportStatement renders the statement and stores it, returning where it lives
func (s *EmployeeService) ExportStatement(ctx context.Context, tenantID, employeeID uuid.UUID, from, to string) (*StatementExport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "employee", "export_statement")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrEmployeeID, employeeID.String())

	if s.renderer == nil || s.storage == nil {
		err := shared.NewDomainError(shared.CodeInvalidState, "statement export is not configured")
		telemetry.RecordError(span, err)
		return nil, err
	}
	statement, err := s.Statement(ctx, tenantID, employeeID, from, to)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	data, err := s.renderer.Render(statement)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to render statement: %w", err)
	}

	key := fmt.Sprintf("statements/%s/%s/%s_%s_%d.pdf",
		tenantID, employeeID, statement.From, statement.To, time.Now().Unix())
	if err := s.storage.Upload(ctx, key, data, s.renderer.ContentType()); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to store statement: %w", err)
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, 0)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to sign statement url: %w", err)
	}

	s.logger.Info("employee statement exported",
		zap.String("employee_id", employeeID.String()),
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)
	return &StatementExport{
		Key:         key,
		ContentType: s.renderer.ContentType(),
		Size:        len(data),
		DownloadURL: url,
		ExpiresAt:   expiresAt,
	}, nil
}
