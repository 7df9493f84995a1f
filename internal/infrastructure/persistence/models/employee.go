package models

import (
	"time"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeModel is the persistence model for an employee and its wallet
type EmployeeModel struct {
	TenantAggregateModel
	EmployeeNumber string                        `gorm:"type:varchar(50);not null"`
	Name           string                        `gorm:"type:varchar(200);not null"`
	Email          string                        `gorm:"type:varchar(200)"`
	Department     string                        `gorm:"type:varchar(100)"`
	Advances       JSONList[payroll.WalletEntry] `gorm:"type:jsonb;default:'[]'"`
	Loans          JSONList[payroll.WalletEntry] `gorm:"type:jsonb;default:'[]'"`
	Salaries       JSONList[payroll.WalletEntry] `gorm:"type:jsonb;default:'[]'"`
	AdvanceTaken   decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	LoanTaken      decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	SalaryTaken    decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	TotalWallet    decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the persistence model to a domain Employee
func (m *EmployeeModel) ToDomain() *payroll.Employee {
	return &payroll.Employee{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		EmployeeNumber:      m.EmployeeNumber,
		Name:                m.Name,
		Email:               m.Email,
		Department:          m.Department,
		Advances:            []payroll.WalletEntry(m.Advances),
		Loans:               []payroll.WalletEntry(m.Loans),
		Salaries:            []payroll.WalletEntry(m.Salaries),
		AdvanceTaken:        m.AdvanceTaken,
		LoanTaken:           m.LoanTaken,
		SalaryTaken:         m.SalaryTaken,
		TotalWallet:         m.TotalWallet,
	}
}

// EmployeeModelFromDomain creates a persistence model from a domain Employee
func EmployeeModelFromDomain(e *payroll.Employee) *EmployeeModel {
	m := &EmployeeModel{
		EmployeeNumber: e.EmployeeNumber,
		Name:           e.Name,
		Email:          e.Email,
		Department:     e.Department,
		Advances:       JSONList[payroll.WalletEntry](e.Advances),
		Loans:          JSONList[payroll.WalletEntry](e.Loans),
		Salaries:       JSONList[payroll.WalletEntry](e.Salaries),
		AdvanceTaken:   e.AdvanceTaken,
		LoanTaken:      e.LoanTaken,
		SalaryTaken:    e.SalaryTaken,
		TotalWallet:    e.TotalWallet,
	}
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	return m
}

// EmployeeLedgerModel is one (employee, month) row of the employee ledger
type EmployeeLedgerModel struct {
	ID         uuid.UUID                     `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID                     `gorm:"type:uuid;not null;uniqueIndex:idx_employee_ledger_month,priority:1"`
	CompanyID  *uuid.UUID                    `gorm:"type:uuid"`
	EmployeeID uuid.UUID                     `gorm:"type:uuid;not null;uniqueIndex:idx_employee_ledger_month,priority:2"`
	Month      payroll.Month                 `gorm:"type:varchar(7);not null;uniqueIndex:idx_employee_ledger_month,priority:3"`
	Entries    JSONList[payroll.LedgerEntry] `gorm:"type:jsonb;default:'[]'"`
	Version    int                           `gorm:"not null;default:1"`
	CreatedAt  time.Time                     `gorm:"not null"`
	UpdatedAt  time.Time                     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (EmployeeLedgerModel) TableName() string {
	return "employee_ledgers"
}

// ToDomain converts the persistence model to a domain EmployeeLedger
func (m *EmployeeLedgerModel) ToDomain() *payroll.EmployeeLedger {
	return &payroll.EmployeeLedger{
		ID:         m.ID,
		TenantID:   m.TenantID,
		CompanyID:  m.CompanyID,
		EmployeeID: m.EmployeeID,
		Month:      m.Month,
		Entries:    []payroll.LedgerEntry(m.Entries),
		Version:    m.Version,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// EmployeeLedgerModelFromDomain creates a persistence model from a domain EmployeeLedger
func EmployeeLedgerModelFromDomain(l *payroll.EmployeeLedger) *EmployeeLedgerModel {
	return &EmployeeLedgerModel{
		ID:         l.ID,
		TenantID:   l.TenantID,
		CompanyID:  l.CompanyID,
		EmployeeID: l.EmployeeID,
		Month:      l.Month,
		Entries:    JSONList[payroll.LedgerEntry](l.Entries),
		Version:    l.Version,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

// SettingsModel holds one organization's payroll settings
type SettingsModel struct {
	TenantID            uuid.UUID                  `gorm:"type:uuid;primary_key"`
	IsAccrualAccounting bool                       `gorm:"not null;default:false"`
	ApprovalLevels      int                        `gorm:"not null;default:0"`
	ApprovalFeatures    JSONList[approval.Feature] `gorm:"type:jsonb;default:'[]'"`
	StrictAccounts      bool                       `gorm:"not null;default:false"`
	UpdatedAt           time.Time                  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SettingsModel) TableName() string {
	return "payroll_settings"
}

// ToDomain converts the persistence model to domain Settings
func (m *SettingsModel) ToDomain() *payroll.Settings {
	return &payroll.Settings{
		TenantID:            m.TenantID,
		IsAccrualAccounting: m.IsAccrualAccounting,
		ApprovalLevels:      m.ApprovalLevels,
		ApprovalFeatures:    []approval.Feature(m.ApprovalFeatures),
		StrictAccounts:      m.StrictAccounts,
		UpdatedAt:           m.UpdatedAt,
	}
}

// SettingsModelFromDomain creates a persistence model from domain Settings
func SettingsModelFromDomain(s *payroll.Settings) *SettingsModel {
	return &SettingsModel{
		TenantID:            s.TenantID,
		IsAccrualAccounting: s.IsAccrualAccounting,
		ApprovalLevels:      s.ApprovalLevels,
		ApprovalFeatures:    JSONList[approval.Feature](s.ApprovalFeatures),
		StrictAccounts:      s.StrictAccounts,
		UpdatedAt:           s.UpdatedAt,
	}
}

// CostCenterPostingModel records a payroll amount booked against a cost center.
// One row per (payroll, cost center) keeps pushes idempotent.
type CostCenterPostingModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CostCenterID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cost_center_payroll,priority:1"`
	PayrollID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cost_center_payroll,priority:2"`
	Account      string          `gorm:"type:varchar(100);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PostedOn     time.Time       `gorm:"not null"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CostCenterPostingModel) TableName() string {
	return "cost_center_postings"
}
