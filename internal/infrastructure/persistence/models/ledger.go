package models

import (
	"time"

	"github.com/erp/payroll/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountModel is the persistence model for the ledger Account aggregate
type AccountModel struct {
	TenantAggregateModel
	Name        string             `gorm:"type:varchar(100);not null"`
	Type        ledger.AccountType `gorm:"type:varchar(20);not null;index"`
	Code        string             `gorm:"type:varchar(50)"`
	Description string             `gorm:"type:text"`
	Amount      decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account
func (m *AccountModel) ToDomain() *ledger.Account {
	return &ledger.Account{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		Type:                m.Type,
		Code:                m.Code,
		Description:         m.Description,
		Amount:              m.Amount,
	}
}

// AccountModelFromDomain creates a persistence model from a domain Account
func AccountModelFromDomain(a *ledger.Account) *AccountModel {
	m := &AccountModel{
		Name:        a.Name,
		Type:        a.Type,
		Code:        a.Code,
		Description: a.Description,
		Amount:      a.Amount,
	}
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	return m
}

// TransactionModel is one immutable leg in the transaction log
type TransactionModel struct {
	ID             uuid.UUID              `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID              `gorm:"type:uuid;not null;index:idx_tx_tenant_posted,priority:1"`
	CompanyID      *uuid.UUID             `gorm:"type:uuid"`
	AccountID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	AccountName    string                 `gorm:"type:varchar(100);not null"`
	AccountType    ledger.AccountType     `gorm:"type:varchar(20);not null"`
	Reference      string                 `gorm:"type:varchar(200)"`
	Type           ledger.TransactionType `gorm:"type:varchar(30);not null"`
	Leg            ledger.LegKind         `gorm:"type:varchar(20);not null"`
	Debit          decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Credit         decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	RunningBalance decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	SourceType     string                 `gorm:"type:varchar(30);not null;index:idx_tx_source,priority:1"`
	SourceID       uuid.UUID              `gorm:"type:uuid;not null;index:idx_tx_source,priority:2"`
	PayrollID      *uuid.UUID             `gorm:"type:uuid;index"`
	PostedAt       time.Time              `gorm:"not null;index:idx_tx_tenant_posted,priority:2"`
	CreatedAt      time.Time              `gorm:"not null"`
	// Seq keeps posting order for legs sharing a PostedAt instant
	Seq int64 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction
func (m *TransactionModel) ToDomain() *ledger.Transaction {
	return &ledger.Transaction{
		ID:             m.ID,
		TenantID:       m.TenantID,
		CompanyID:      m.CompanyID,
		AccountID:      m.AccountID,
		AccountName:    m.AccountName,
		AccountType:    m.AccountType,
		Reference:      m.Reference,
		Type:           m.Type,
		Leg:            m.Leg,
		Debit:          m.Debit,
		Credit:         m.Credit,
		RunningBalance: m.RunningBalance,
		SourceType:     m.SourceType,
		SourceID:       m.SourceID,
		PayrollID:      m.PayrollID,
		PostedAt:       m.PostedAt,
		CreatedAt:      m.CreatedAt,
	}
}

// TransactionModelFromDomain creates a persistence model from a domain Transaction
func TransactionModelFromDomain(t *ledger.Transaction, seq int64) *TransactionModel {
	return &TransactionModel{
		ID:             t.ID,
		TenantID:       t.TenantID,
		CompanyID:      t.CompanyID,
		AccountID:      t.AccountID,
		AccountName:    t.AccountName,
		AccountType:    t.AccountType,
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
		CreatedAt:      t.CreatedAt,
		Seq:            seq,
	}
}
