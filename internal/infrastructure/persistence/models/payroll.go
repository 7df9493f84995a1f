package models

import (
	"time"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApprovalColumns are the workflow columns shared by payrolls, vouchers and
// group payrolls
type ApprovalColumns struct {
	State          approval.State `gorm:"column:approval_state;type:varchar(20);not null;index"`
	Levels         int            `gorm:"column:approval_levels;not null;default:0"`
	Comment        string         `gorm:"column:approval_comment;type:text"`
	SubmittedBy    *uuid.UUID     `gorm:"type:uuid"`
	SubmittedAt    *time.Time
	ReviewedBy     *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt     *time.Time
	VerifiedBy     *uuid.UUID `gorm:"type:uuid"`
	VerifiedAt     *time.Time
	AcknowledgedBy *uuid.UUID `gorm:"type:uuid"`
	AcknowledgedAt *time.Time
	Approved1By    *uuid.UUID `gorm:"column:approved1_by;type:uuid"`
	Approved1At    *time.Time `gorm:"column:approved1_at"`
	Approved2By    *uuid.UUID `gorm:"column:approved2_by;type:uuid"`
	Approved2At    *time.Time `gorm:"column:approved2_at"`
	CorrectedBy    *uuid.UUID `gorm:"type:uuid"`
	CorrectedAt    *time.Time
	RejectedBy     *uuid.UUID `gorm:"type:uuid"`
	RejectedAt     *time.Time
}

func approvalColumns(w approval.Workflow) ApprovalColumns {
	return ApprovalColumns{
		State:          w.State,
		Levels:         w.Levels,
		Comment:        w.Comment,
		SubmittedBy:    w.SubmittedBy,
		SubmittedAt:    w.SubmittedAt,
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
		CorrectedBy:    w.CorrectedBy,
		CorrectedAt:    w.CorrectedAt,
		RejectedBy:     w.RejectedBy,
		RejectedAt:     w.RejectedAt,
	}
}

func (c ApprovalColumns) workflow() approval.Workflow {
	return approval.Workflow{
		State:          c.State,
		Levels:         c.Levels,
		Comment:        c.Comment,
		SubmittedBy:    c.SubmittedBy,
		SubmittedAt:    c.SubmittedAt,
		ReviewedBy:     c.ReviewedBy,
		ReviewedAt:     c.ReviewedAt,
		VerifiedBy:     c.VerifiedBy,
		VerifiedAt:     c.VerifiedAt,
		AcknowledgedBy: c.AcknowledgedBy,
		AcknowledgedAt: c.AcknowledgedAt,
		Approved1By:    c.Approved1By,
		Approved1At:    c.Approved1At,
		Approved2By:    c.Approved2By,
		Approved2At:    c.Approved2At,
		CorrectedBy:    c.CorrectedBy,
		CorrectedAt:    c.CorrectedAt,
		RejectedBy:     c.RejectedBy,
		RejectedAt:     c.RejectedAt,
	}
}

// PayrollModel is the persistence model for the Payroll aggregate
type PayrollModel struct {
	TenantAggregateModel
	ApprovalColumns  `gorm:"embedded"`
	EmployeeID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	Month            payroll.Month       `gorm:"type:varchar(7);not null;index"`
	Salary           decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	TotalPay         decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Type             payroll.Type        `gorm:"type:varchar(20);not null;index"`
	NumberOfMonths   int                 `gorm:"not null;default:1"`
	TransactionIDs   JSONList[uuid.UUID] `gorm:"type:jsonb;default:'[]'"`
	AccrualIDs       JSONList[uuid.UUID] `gorm:"column:accrual_transaction_ids;type:jsonb;default:'[]'"`
	CostCenterID     *uuid.UUID          `gorm:"type:uuid"`
	SalaryAccount    string              `gorm:"type:varchar(100)"`
	PaidThrough      string              `gorm:"type:varchar(100)"`
	Reference        string              `gorm:"type:varchar(200)"`
	Remark           string              `gorm:"type:text"`
	VoucherCreated   bool                `gorm:"not null;default:false;index"`
	VoucherID        *uuid.UUID          `gorm:"type:uuid"`
	FromGroupPayroll bool                `gorm:"not null;default:false"`
	GroupPayrollID   *uuid.UUID          `gorm:"type:uuid;index"`
	IsDeleted        bool                `gorm:"not null;default:false"`
	IsRejected       bool                `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (PayrollModel) TableName() string {
	return "payrolls"
}

// ToDomain converts the persistence model to a domain Payroll
func (m *PayrollModel) ToDomain() *payroll.Payroll {
	return &payroll.Payroll{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		EmployeeID:          m.EmployeeID,
		Month:               m.Month,
		Salary:              m.Salary,
		TotalPay:            m.TotalPay,
		Type:                m.Type,
		NumberOfMonths:      m.NumberOfMonths,
		Approval:            m.ApprovalColumns.workflow(),
		TransactionIDs:      []uuid.UUID(m.TransactionIDs),
		AccrualIDs:          []uuid.UUID(m.AccrualIDs),
		CostCenterID:        m.CostCenterID,
		SalaryAccount:       m.SalaryAccount,
		PaidThrough:         m.PaidThrough,
		Reference:           m.Reference,
		Remark:              m.Remark,
		VoucherCreated:      m.VoucherCreated,
		VoucherID:           m.VoucherID,
		FromGroupPayroll:    m.FromGroupPayroll,
		GroupPayrollID:      m.GroupPayrollID,
		IsDeleted:           m.IsDeleted,
		IsRejected:          m.IsRejected,
	}
}

// PayrollModelFromDomain creates a persistence model from a domain Payroll
func PayrollModelFromDomain(p *payroll.Payroll) *PayrollModel {
	m := &PayrollModel{
		ApprovalColumns:  approvalColumns(p.Approval),
		EmployeeID:       p.EmployeeID,
		Month:            p.Month,
		Salary:           p.Salary,
		TotalPay:         p.TotalPay,
		Type:             p.Type,
		NumberOfMonths:   p.NumberOfMonths,
		TransactionIDs:   JSONList[uuid.UUID](p.TransactionIDs),
		AccrualIDs:       JSONList[uuid.UUID](p.AccrualIDs),
		CostCenterID:     p.CostCenterID,
		SalaryAccount:    p.SalaryAccount,
		PaidThrough:      p.PaidThrough,
		Reference:        p.Reference,
		Remark:           p.Remark,
		VoucherCreated:   p.VoucherCreated,
		VoucherID:        p.VoucherID,
		FromGroupPayroll: p.FromGroupPayroll,
		GroupPayrollID:   p.GroupPayrollID,
		IsDeleted:        p.IsDeleted,
		IsRejected:       p.IsRejected,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}

// VoucherModel is the persistence model for a payroll Voucher
type VoucherModel struct {
	TenantAggregateModel
	ApprovalColumns `gorm:"embedded"`
	VoucherNumber   string                        `gorm:"type:varchar(50);not null"`
	Items           JSONList[payroll.VoucherItem] `gorm:"type:jsonb;default:'[]'"`
	GroupPayrollID  *uuid.UUID                    `gorm:"type:uuid;index"`
	PaidThrough     string                        `gorm:"type:varchar(100);not null"`
	SalaryAccount   string                        `gorm:"type:varchar(100)"`
	Type            payroll.Type                  `gorm:"type:varchar(20);not null;index"`
	TransactionIDs  JSONList[uuid.UUID]           `gorm:"type:jsonb;default:'[]'"`
	PaymentDate     time.Time                     `gorm:"not null"`
	Remark          string                        `gorm:"type:text"`
	IsDeleted       bool                          `gorm:"not null;default:false"`
	IsRejected      bool                          `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (VoucherModel) TableName() string {
	return "payroll_vouchers"
}

// ToDomain converts the persistence model to a domain Voucher
func (m *VoucherModel) ToDomain() *payroll.Voucher {
	return &payroll.Voucher{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		VoucherNumber:       m.VoucherNumber,
		Items:               []payroll.VoucherItem(m.Items),
		GroupPayrollID:      m.GroupPayrollID,
		PaidThrough:         m.PaidThrough,
		SalaryAccount:       m.SalaryAccount,
		Type:                m.Type,
		Approval:            m.ApprovalColumns.workflow(),
		TransactionIDs:      []uuid.UUID(m.TransactionIDs),
		PaymentDate:         m.PaymentDate,
		Remark:              m.Remark,
		IsDeleted:           m.IsDeleted,
		IsRejected:          m.IsRejected,
	}
}

// VoucherModelFromDomain creates a persistence model from a domain Voucher
func VoucherModelFromDomain(v *payroll.Voucher) *VoucherModel {
	m := &VoucherModel{
		ApprovalColumns: approvalColumns(v.Approval),
		VoucherNumber:   v.VoucherNumber,
		Items:           JSONList[payroll.VoucherItem](v.Items),
		GroupPayrollID:  v.GroupPayrollID,
		PaidThrough:     v.PaidThrough,
		SalaryAccount:   v.SalaryAccount,
		Type:            v.Type,
		TransactionIDs:  JSONList[uuid.UUID](v.TransactionIDs),
		PaymentDate:     v.PaymentDate,
		Remark:          v.Remark,
		IsDeleted:       v.IsDeleted,
		IsRejected:      v.IsRejected,
	}
	m.FromDomainTenantAggregateRoot(v.TenantAggregateRoot)
	return m
}

// GroupPayrollModel is the persistence model for a GroupPayroll batch
type GroupPayrollModel struct {
	TenantAggregateModel
	ApprovalColumns `gorm:"embedded"`
	Name            string                         `gorm:"type:varchar(200);not null"`
	Month           payroll.Month                  `gorm:"type:varchar(7);not null;index"`
	RecordedTime    JSONList[payroll.RecordedTime] `gorm:"type:jsonb;default:'[]'"`
	PayrollIDs      JSONList[uuid.UUID]            `gorm:"type:jsonb;default:'[]'"`
	CostCenterID    *uuid.UUID                     `gorm:"type:uuid"`
	SalaryAccount   string                         `gorm:"type:varchar(100)"`
	PaidThrough     string                         `gorm:"type:varchar(100)"`
	Remark          string                         `gorm:"type:text"`
	VoucherCreated  bool                           `gorm:"not null;default:false"`
	VoucherID       *uuid.UUID                     `gorm:"type:uuid"`
	IsDeleted       bool                           `gorm:"not null;default:false"`
	IsRejected      bool                           `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (GroupPayrollModel) TableName() string {
	return "group_payrolls"
}

// ToDomain converts the persistence model to a domain GroupPayroll
func (m *GroupPayrollModel) ToDomain() *payroll.GroupPayroll {
	return &payroll.GroupPayroll{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		Month:               m.Month,
		RecordedTime:        []payroll.RecordedTime(m.RecordedTime),
		PayrollIDs:          []uuid.UUID(m.PayrollIDs),
		Approval:            m.ApprovalColumns.workflow(),
		CostCenterID:        m.CostCenterID,
		SalaryAccount:       m.SalaryAccount,
		PaidThrough:         m.PaidThrough,
		Remark:              m.Remark,
		VoucherCreated:      m.VoucherCreated,
		VoucherID:           m.VoucherID,
		IsDeleted:           m.IsDeleted,
		IsRejected:          m.IsRejected,
	}
}

// GroupPayrollModelFromDomain creates a persistence model from a domain GroupPayroll
func GroupPayrollModelFromDomain(g *payroll.GroupPayroll) *GroupPayrollModel {
	m := &GroupPayrollModel{
		ApprovalColumns: approvalColumns(g.Approval),
		Name:            g.Name,
		Month:           g.Month,
		RecordedTime:    JSONList[payroll.RecordedTime](g.RecordedTime),
		PayrollIDs:      JSONList[uuid.UUID](g.PayrollIDs),
		CostCenterID:    g.CostCenterID,
		SalaryAccount:   g.SalaryAccount,
		PaidThrough:     g.PaidThrough,
		Remark:          g.Remark,
		VoucherCreated:  g.VoucherCreated,
		VoucherID:       g.VoucherID,
		IsDeleted:       g.IsDeleted,
		IsRejected:      g.IsRejected,
	}
	m.FromDomainTenantAggregateRoot(g.TenantAggregateRoot)
	return m
}
