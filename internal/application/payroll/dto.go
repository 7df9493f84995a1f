package payroll

import (
	"time"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/ledger"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Approval DTOs ====================

// ApprovalRequest moves a record to a new approval state
type ApprovalRequest struct {
	State   approval.State `json:"state" binding:"required"`
	Comment string         `json:"comment" binding:"max=500"`
}

// ApprovalResult reports the outcome of an approval request.
// Changed is false when the transition was a no-op.
type ApprovalResult struct {
	RecordID     uuid.UUID      `json:"record_id"`
	From         approval.State `json:"from"`
	To           approval.State `json:"to"`
	Changed      bool           `json:"changed"`
	Posted       bool           `json:"posted"`
	Reversed     bool           `json:"reversed"`
	Transactions int            `json:"transactions"`
}

// WorkflowResponse is the approval block of a record response
type WorkflowResponse struct {
	State          approval.State `json:"state"`
	Levels         int            `json:"levels"`
	Comment        string         `json:"comment,omitempty"`
	SubmittedBy    *uuid.UUID     `json:"submitted_by,omitempty"`
	ReviewedBy     *uuid.UUID     `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time     `json:"reviewed_at,omitempty"`
	VerifiedBy     *uuid.UUID     `json:"verified_by,omitempty"`
	VerifiedAt     *time.Time     `json:"verified_at,omitempty"`
	AcknowledgedBy *uuid.UUID     `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time     `json:"acknowledged_at,omitempty"`
	Approved1By    *uuid.UUID     `json:"approved1_by,omitempty"`
	Approved1At    *time.Time     `json:"approved1_at,omitempty"`
	Approved2By    *uuid.UUID     `json:"approved2_by,omitempty"`
	Approved2At    *time.Time     `json:"approved2_at,omitempty"`
	RejectedBy     *uuid.UUID     `json:"rejected_by,omitempty"`
	RejectedAt     *time.Time     `json:"rejected_at,omitempty"`
}

// ToWorkflowResponse converts an approval workflow
func ToWorkflowResponse(w approval.Workflow) WorkflowResponse {
	return WorkflowResponse{
		State:          w.State,
		Levels:         w.Levels,
		Comment:        w.Comment,
		SubmittedBy:    w.SubmittedBy,
		ReviewedBy:     w.ReviewedBy,
		ReviewedAt:     w.ReviewedAt,
		VerifiedBy:     w.VerifiedBy,
		VerifiedAt:     w.VerifiedAt,
		AcknowledgedBy: w.AcknowledgedBy,
		AcknowledgedAt: w.AcknowledgedAt,
		Approved1By:    w.Approved1By,
		Approved1At:    w.Approved1At,
		Approved2By:    w.Approved2By,
		Approved2At:    w.Approved2At,
		RejectedBy:     w.RejectedBy,
		RejectedAt:     w.RejectedAt,
	}
}

// ==================== Payroll DTOs ====================

// CreatePayrollRequest represents a request to create a payroll
type CreatePayrollRequest struct {
	EmployeeID     uuid.UUID       `json:"employee_id" binding:"required"`
	Month          string          `json:"month" binding:"required,month"`
	Salary         decimal.Decimal `json:"salary"`
	TotalPay       decimal.Decimal `json:"total_pay"`
	Type           payroll.Type    `json:"type" binding:"required"`
	NumberOfMonths int             `json:"number_of_months" binding:"omitempty,min=1,max=120"`
	CostCenterID   *uuid.UUID      `json:"cost_center_id"`
	SalaryAccount  string          `json:"salary_account" binding:"max=200"`
	PaidThrough    string          `json:"paid_through" binding:"max=200"`
	Reference      string          `json:"reference" binding:"max=100"`
	Remark         string          `json:"remark" binding:"max=500"`
}

// UpdatePayrollRequest replaces the editable fields of a payroll
type UpdatePayrollRequest = CreatePayrollRequest

func (r CreatePayrollRequest) params() payroll.PayrollParams {
	return payroll.PayrollParams{
		EmployeeID:     r.EmployeeID,
		Month:          r.Month,
		Salary:         r.Salary,
		TotalPay:       r.TotalPay,
		Type:           r.Type,
		NumberOfMonths: r.NumberOfMonths,
		CostCenterID:   r.CostCenterID,
		SalaryAccount:  r.SalaryAccount,
		PaidThrough:    r.PaidThrough,
		Reference:      r.Reference,
		Remark:         r.Remark,
	}
}

// PayrollListFilter represents query filters for listing payrolls
type PayrollListFilter struct {
	Page           int             `form:"page" binding:"omitempty,min=1"`
	PageSize       int             `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string          `form:"order_by" binding:"omitempty,oneof=created_at month salary"`
	OrderDir       string          `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	EmployeeID     *uuid.UUID      `form:"employee_id"`
	Month          string          `form:"month" binding:"omitempty,month"`
	Type           *payroll.Type   `form:"type"`
	State          *approval.State `form:"state"`
	VoucherCreated *bool           `form:"voucher_created"`
	GroupPayrollID *uuid.UUID      `form:"group_payroll_id"`
}

// PayrollResponse represents a payroll in API responses
type PayrollResponse struct {
	ID               uuid.UUID        `json:"id"`
	TenantID         uuid.UUID        `json:"tenant_id"`
	CompanyID        *uuid.UUID       `json:"company_id,omitempty"`
	EmployeeID       uuid.UUID        `json:"employee_id"`
	Month            payroll.Month    `json:"month"`
	Salary           decimal.Decimal  `json:"salary"`
	TotalPay         decimal.Decimal  `json:"total_pay"`
	Amount           decimal.Decimal  `json:"amount"`
	Type             payroll.Type     `json:"type"`
	NumberOfMonths   int              `json:"number_of_months"`
	Approval         WorkflowResponse `json:"approval"`
	TransactionIDs   []uuid.UUID      `json:"transaction_ids"`
	AccrualIDs       []uuid.UUID      `json:"accrual_transaction_ids"`
	CostCenterID     *uuid.UUID       `json:"cost_center_id,omitempty"`
	SalaryAccount    string           `json:"salary_account,omitempty"`
	PaidThrough      string           `json:"paid_through,omitempty"`
	Reference        string           `json:"reference,omitempty"`
	Remark           string           `json:"remark,omitempty"`
	VoucherCreated   bool             `json:"voucher_created"`
	VoucherID        *uuid.UUID       `json:"voucher_id,omitempty"`
	FromGroupPayroll bool             `json:"from_group_payroll"`
	GroupPayrollID   *uuid.UUID       `json:"group_payroll_id,omitempty"`
	IsRejected       bool             `json:"is_rejected"`
	Version          int              `json:"version"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// ToPayrollResponse converts a payroll to its response
func ToPayrollResponse(p *payroll.Payroll) PayrollResponse {
	return PayrollResponse{
		ID:               p.ID,
		TenantID:         p.TenantID,
		CompanyID:        p.CompanyID,
		EmployeeID:       p.EmployeeID,
		Month:            p.Month,
		Salary:           p.Salary,
		TotalPay:         p.TotalPay,
		Amount:           p.Amount(),
		Type:             p.Type,
		NumberOfMonths:   p.NumberOfMonths,
		Approval:         ToWorkflowResponse(p.Approval),
		TransactionIDs:   p.TransactionIDs,
		AccrualIDs:       p.AccrualIDs,
		CostCenterID:     p.CostCenterID,
		SalaryAccount:    p.SalaryAccount,
		PaidThrough:      p.PaidThrough,
		Reference:        p.Reference,
		Remark:           p.Remark,
		VoucherCreated:   p.VoucherCreated,
		VoucherID:        p.VoucherID,
		FromGroupPayroll: p.FromGroupPayroll,
		GroupPayrollID:   p.GroupPayrollID,
		IsRejected:       p.IsRejected,
		Version:          p.Version,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ==================== Voucher DTOs ====================

// VoucherItemInput is one employee line of a voucher request
type VoucherItemInput struct {
	EmployeeID uuid.UUID       `json:"employee_id" binding:"required"`
	PayrollID  uuid.UUID       `json:"payroll_id" binding:"required"`
	Salary     decimal.Decimal `json:"salary"`
	TotalPay   decimal.Decimal `json:"total_pay"`
}

// CreateVoucherRequest represents a request to issue a payroll voucher
type CreateVoucherRequest struct {
	VoucherNumber  string             `json:"voucher_number" binding:"required,min=1,max=50"`
	Items          []VoucherItemInput `json:"items" binding:"omitempty,dive"`
	GroupPayrollID *uuid.UUID         `json:"group_payroll_id"`
	PaidThrough    string             `json:"paid_through" binding:"required,max=200"`
	SalaryAccount  string             `json:"salary_account" binding:"max=200"`
	Type           payroll.Type       `json:"type"`
	PaymentDate    *time.Time         `json:"payment_date"`
	Remark         string             `json:"remark" binding:"max=500"`
}

func (r CreateVoucherRequest) params() payroll.VoucherParams {
	items := make([]payroll.VoucherItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, payroll.VoucherItem{
			EmployeeID: it.EmployeeID,
			PayrollID:  it.PayrollID,
			Salary:     it.Salary,
			TotalPay:   it.TotalPay,
		})
	}
	params := payroll.VoucherParams{
		VoucherNumber:  r.VoucherNumber,
		Items:          items,
		GroupPayrollID: r.GroupPayrollID,
		PaidThrough:    r.PaidThrough,
		SalaryAccount:  r.SalaryAccount,
		Type:           r.Type,
		Remark:         r.Remark,
	}
	if r.PaymentDate != nil {
		params.PaymentDate = *r.PaymentDate
	}
	return params
}

// VoucherListFilter represents query filters for listing vouchers
type VoucherListFilter struct {
	Page           int             `form:"page" binding:"omitempty,min=1"`
	PageSize       int             `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string          `form:"order_by" binding:"omitempty,oneof=created_at payment_date voucher_number"`
	OrderDir       string          `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search         string          `form:"search" binding:"max=50"`
	Type           *payroll.Type   `form:"type"`
	State          *approval.State `form:"state"`
	GroupPayrollID *uuid.UUID      `form:"group_payroll_id"`
}

// VoucherResponse represents a voucher in API responses
type VoucherResponse struct {
	ID             uuid.UUID             `json:"id"`
	TenantID       uuid.UUID             `json:"tenant_id"`
	CompanyID      *uuid.UUID            `json:"company_id,omitempty"`
	VoucherNumber  string                `json:"voucher_number"`
	Items          []payroll.VoucherItem `json:"items"`
	GroupPayrollID *uuid.UUID            `json:"group_payroll_id,omitempty"`
	PaidThrough    string                `json:"paid_through"`
	SalaryAccount  string                `json:"salary_account,omitempty"`
	Type           payroll.Type          `json:"type"`
	Total          decimal.Decimal       `json:"total"`
	Approval       WorkflowResponse      `json:"approval"`
	TransactionIDs []uuid.UUID           `json:"transaction_ids"`
	PaymentDate    time.Time             `json:"payment_date"`
	Remark         string                `json:"remark,omitempty"`
	IsRejected     bool                  `json:"is_rejected"`
	Version        int                   `json:"version"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// ToVoucherResponse converts a voucher to its response
func ToVoucherResponse(v *payroll.Voucher) VoucherResponse {
	return VoucherResponse{
		ID:             v.ID,
		TenantID:       v.TenantID,
		CompanyID:      v.CompanyID,
		VoucherNumber:  v.VoucherNumber,
		Items:          v.Items,
		GroupPayrollID: v.GroupPayrollID,
		PaidThrough:    v.PaidThrough,
		SalaryAccount:  v.SalaryAccount,
		Type:           v.Type,
		Total:          v.Total(),
		Approval:       ToWorkflowResponse(v.Approval),
		TransactionIDs: v.TransactionIDs,
		PaymentDate:    v.PaymentDate,
		Remark:         v.Remark,
		IsRejected:     v.IsRejected,
		Version:        v.Version,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

// ==================== Group Payroll DTOs ====================

// RecordedTimeInput is one employee line of a group payroll request
type RecordedTimeInput struct {
	EmployeeID uuid.UUID       `json:"employee_id" binding:"required"`
	Salary     decimal.Decimal `json:"salary"`
	TotalPay   decimal.Decimal `json:"total_pay"`
	Type       payroll.Type    `json:"type"`
	Hours      decimal.Decimal `json:"hours"`
}

// CreateGroupPayrollRequest represents a request to create a group payroll
type CreateGroupPayrollRequest struct {
	Name          string              `json:"name" binding:"required,min=1,max=200"`
	Month         string              `json:"month" binding:"required,month"`
	RecordedTime  []RecordedTimeInput `json:"recorded_time" binding:"required,min=1,dive"`
	CostCenterID  *uuid.UUID          `json:"cost_center_id"`
	SalaryAccount string              `json:"salary_account" binding:"max=200"`
	PaidThrough   string              `json:"paid_through" binding:"max=200"`
	Remark        string              `json:"remark" binding:"max=500"`
}

func (r CreateGroupPayrollRequest) params() payroll.GroupPayrollParams {
	lines := make([]payroll.RecordedTime, 0, len(r.RecordedTime))
	for _, rt := range r.RecordedTime {
		lines = append(lines, payroll.RecordedTime{
			EmployeeID: rt.EmployeeID,
			Salary:     rt.Salary,
			TotalPay:   rt.TotalPay,
			Type:       rt.Type,
			Hours:      rt.Hours,
		})
	}
	return payroll.GroupPayrollParams{
		Name:          r.Name,
		Month:         r.Month,
		RecordedTime:  lines,
		CostCenterID:  r.CostCenterID,
		SalaryAccount: r.SalaryAccount,
		PaidThrough:   r.PaidThrough,
		Remark:        r.Remark,
	}
}

// GroupPayrollListFilter represents query filters for listing group payrolls
type GroupPayrollListFilter struct {
	Page           int             `form:"page" binding:"omitempty,min=1"`
	PageSize       int             `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search         string          `form:"search" binding:"max=100"`
	Month          string          `form:"month" binding:"omitempty,month"`
	State          *approval.State `form:"state"`
	VoucherCreated *bool           `form:"voucher_created"`
}

// GroupPayrollResponse represents a group payroll in API responses
type GroupPayrollResponse struct {
	ID             uuid.UUID              `json:"id"`
	TenantID       uuid.UUID              `json:"tenant_id"`
	CompanyID      *uuid.UUID             `json:"company_id,omitempty"`
	Name           string                 `json:"name"`
	Month          payroll.Month          `json:"month"`
	RecordedTime   []payroll.RecordedTime `json:"recorded_time"`
	PayrollIDs     []uuid.UUID            `json:"payroll_ids"`
	Total          decimal.Decimal        `json:"total"`
	Approval       WorkflowResponse       `json:"approval"`
	CostCenterID   *uuid.UUID             `json:"cost_center_id,omitempty"`
	SalaryAccount  string                 `json:"salary_account,omitempty"`
	PaidThrough    string                 `json:"paid_through,omitempty"`
	Remark         string                 `json:"remark,omitempty"`
	VoucherCreated bool                   `json:"voucher_created"`
	VoucherID      *uuid.UUID             `json:"voucher_id,omitempty"`
	IsRejected     bool                   `json:"is_rejected"`
	Version        int                    `json:"version"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// ToGroupPayrollResponse converts a group payroll to its response
func ToGroupPayrollResponse(g *payroll.GroupPayroll) GroupPayrollResponse {
	return GroupPayrollResponse{
		ID:             g.ID,
		TenantID:       g.TenantID,
		CompanyID:      g.CompanyID,
		Name:           g.Name,
		Month:          g.Month,
		RecordedTime:   g.RecordedTime,
		PayrollIDs:     g.PayrollIDs,
		Total:          g.Total(),
		Approval:       ToWorkflowResponse(g.Approval),
		CostCenterID:   g.CostCenterID,
		SalaryAccount:  g.SalaryAccount,
		PaidThrough:    g.PaidThrough,
		Remark:         g.Remark,
		VoucherCreated: g.VoucherCreated,
		VoucherID:      g.VoucherID,
		IsRejected:     g.IsRejected,
		Version:        g.Version,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

// ==================== Account DTOs ====================

// CreateAccountRequest represents a request to create a ledger account
type CreateAccountRequest struct {
	Name        string             `json:"name" binding:"required,min=1,max=200"`
	Type        ledger.AccountType `json:"type" binding:"required"`
	Code        string             `json:"code" binding:"max=50"`
	Description string             `json:"description" binding:"max=500"`
}

// AccountListFilter represents query filters for listing accounts
type AccountListFilter struct {
	Page     int                 `form:"page" binding:"omitempty,min=1"`
	PageSize int                 `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string              `form:"search" binding:"max=100"`
	Type     *ledger.AccountType `form:"type"`
}

// TransactionListFilter represents query filters for an account's transactions
type TransactionListFilter struct {
	Page     int                     `form:"page" binding:"omitempty,min=1"`
	PageSize int                     `form:"page_size" binding:"omitempty,min=1,max=100"`
	Type     *ledger.TransactionType `form:"type"`
	SourceID *uuid.UUID              `form:"source_id"`
	FromDate *time.Time              `form:"from_date" time_format:"2006-01-02"`
	ToDate   *time.Time              `form:"to_date" time_format:"2006-01-02"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID          uuid.UUID          `json:"id"`
	TenantID    uuid.UUID          `json:"tenant_id"`
	CompanyID   *uuid.UUID         `json:"company_id,omitempty"`
	Name        string             `json:"name"`
	Type        ledger.AccountType `json:"type"`
	Code        string             `json:"code,omitempty"`
	Description string             `json:"description,omitempty"`
	Amount      decimal.Decimal    `json:"amount"`
	Version     int                `json:"version"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ToAccountResponse converts an account to its response
func ToAccountResponse(a *ledger.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		TenantID:    a.TenantID,
		CompanyID:   a.CompanyID,
		Name:        a.Name,
		Type:        a.Type,
		Code:        a.Code,
		Description: a.Description,
		Amount:      a.Amount,
		Version:     a.Version,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// TransactionResponse represents a ledger transaction in API responses
type TransactionResponse struct {
	ID             uuid.UUID              `json:"id"`
	AccountID      uuid.UUID              `json:"account_id"`
	AccountName    string                 `json:"account_name"`
	Reference      string                 `json:"reference"`
	Type           ledger.TransactionType `json:"type"`
	Leg            ledger.LegKind         `json:"leg"`
	Debit          decimal.Decimal        `json:"debit"`
	Credit         decimal.Decimal        `json:"credit"`
	RunningBalance decimal.Decimal        `json:"running_balance"`
	SourceType     string                 `json:"source_type"`
	SourceID       uuid.UUID              `json:"source_id"`
	PayrollID      *uuid.UUID             `json:"payroll_id,omitempty"`
	PostedAt       time.Time              `json:"posted_at"`
}

// ToTransactionResponse converts a transaction to its response
func ToTransactionResponse(t *ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		AccountID:      t.AccountID,
		AccountName:    t.AccountName,
		Reference:      t.Reference,
		Type:           t.Type,
		Leg:            t.Leg,
		Debit:          t.Debit,
		Credit:         t.Credit,
		RunningBalance: t.RunningBalance,
		SourceType:     t.SourceType,
		SourceID:       t.SourceID,
		PayrollID:      t.PayrollID,
		PostedAt:       t.PostedAt,
	}
}

// AccountValidation lists the well-known accounts an organization lacks
type AccountValidation struct {
	TenantID uuid.UUID            `json:"tenant_id"`
	Valid    bool                 `json:"valid"`
	Missing  []ledger.AccountSpec `json:"missing"`
}

// ReconciliationResult reports balance drift for an organization
type ReconciliationResult struct {
	TenantID     uuid.UUID      `json:"tenant_id"`
	Accounts     int            `json:"accounts"`
	Transactions int            `json:"transactions"`
	Balanced     bool           `json:"balanced"`
	Drift        []ledger.Drift `json:"drift"`
	CheckedAt    time.Time      `json:"checked_at"`
}

// ==================== Settings DTOs ====================

// UpdateSettingsRequest replaces an organization's payroll settings
type UpdateSettingsRequest struct {
	IsAccrualAccounting bool               `json:"is_accrual_accounting"`
	ApprovalLevels      int                `json:"approval_levels" binding:"required,min=1,max=2"`
	ApprovalFeatures    []approval.Feature `json:"approval_features"`
	StrictAccounts      bool               `json:"strict_accounts"`
}

// SettingsResponse represents organization settings in API responses
type SettingsResponse struct {
	TenantID            uuid.UUID          `json:"tenant_id"`
	IsAccrualAccounting bool               `json:"is_accrual_accounting"`
	ApprovalLevels      int                `json:"approval_levels"`
	ApprovalFeatures    []approval.Feature `json:"approval_features"`
	StrictAccounts      bool               `json:"strict_accounts"`
	UpdatedAt           time.Time          `json:"updated_at"`
	Accounts            *AccountValidation `json:"accounts,omitempty"`
}

// ToSettingsResponse converts settings to their response
func ToSettingsResponse(s *payroll.Settings) SettingsResponse {
	return SettingsResponse{
		TenantID:            s.TenantID,
		IsAccrualAccounting: s.IsAccrualAccounting,
		ApprovalLevels:      s.ApprovalLevels,
		ApprovalFeatures:    s.ApprovalFeatures,
		StrictAccounts:      s.StrictAccounts,
		UpdatedAt:           s.UpdatedAt,
	}
}

// ==================== Employee DTOs ====================

// CreateEmployeeRequest represents a request to register an employee wallet
type CreateEmployeeRequest struct {
	EmployeeNumber string `json:"employee_number" binding:"required,min=1,max=50"`
	Name           string `json:"name" binding:"required,min=1,max=200"`
	Email          string `json:"email" binding:"omitempty,email,max=200"`
	Department     string `json:"department" binding:"max=100"`
}

// EmployeeResponse represents an employee wallet in API responses
type EmployeeResponse struct {
	ID             uuid.UUID             `json:"id"`
	TenantID       uuid.UUID             `json:"tenant_id"`
	CompanyID      *uuid.UUID            `json:"company_id,omitempty"`
	EmployeeNumber string                `json:"employee_number"`
	Name           string                `json:"name"`
	Email          string                `json:"email,omitempty"`
	Department     string                `json:"department,omitempty"`
	Advances       []payroll.WalletEntry `json:"advances"`
	Loans          []payroll.WalletEntry `json:"loans"`
	Salaries       []payroll.WalletEntry `json:"salaries"`
	AdvanceTaken   decimal.Decimal       `json:"advance_taken"`
	LoanTaken      decimal.Decimal       `json:"loan_taken"`
	SalaryTaken    decimal.Decimal       `json:"salary_taken"`
	TotalWallet    decimal.Decimal       `json:"total_wallet"`
	Version        int                   `json:"version"`
}

// ToEmployeeResponse converts an employee to its response
func ToEmployeeResponse(e *payroll.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		TenantID:       e.TenantID,
		CompanyID:      e.CompanyID,
		EmployeeNumber: e.EmployeeNumber,
		Name:           e.Name,
		Email:          e.Email,
		Department:     e.Department,
		Advances:       e.Advances,
		Loans:          e.Loans,
		Salaries:       e.Salaries,
		AdvanceTaken:   e.AdvanceTaken,
		LoanTaken:      e.LoanTaken,
		SalaryTaken:    e.SalaryTaken,
		TotalWallet:    e.TotalWallet,
		Version:        e.Version,
	}
}

// StatementMonth is one month of an employee statement
type StatementMonth struct {
	Month   payroll.Month         `json:"month"`
	Entries []payroll.LedgerEntry `json:"entries"`
	Salary  decimal.Decimal       `json:"salary"`
	Advance decimal.Decimal       `json:"advance"`
	Loan    decimal.Decimal       `json:"loan"`
	Total   decimal.Decimal       `json:"total"`
	Balance decimal.Decimal       `json:"balance"`
}

// StatementResponse is an employee's ledger between two months
type StatementResponse struct {
	Employee EmployeeResponse `json:"employee"`
	From     payroll.Month    `json:"from"`
	To       payroll.Month    `json:"to"`
	Months   []StatementMonth `json:"months"`
	Total    decimal.Decimal  `json:"total"`
}

// StatementExport is the stored location of a rendered statement
type StatementExport struct {
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}
