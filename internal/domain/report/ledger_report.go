package report

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerReportFilter defines filtering options for ledger reports
type LedgerReportFilter struct {
	TenantID    uuid.UUID  `json:"-"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	AccountID   *uuid.UUID `json:"account_id,omitempty"`
	AccountType string     `json:"account_type,omitempty"`
}

// TrialBalanceLine is the activity of one account over the period
type TrialBalanceLine struct {
	AccountID   uuid.UUID       `json:"account_id"`
	AccountName string          `json:"account_name"`
	AccountType string          `json:"account_type"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// AccountTypeTotal groups trial balance lines by account type
type AccountTypeTotal struct {
	AccountType string          `json:"account_type"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Accounts    int             `json:"accounts"`
}

// TrialBalance is a read model over the transaction log
type TrialBalance struct {
	TenantID    uuid.UUID          `json:"tenant_id"`
	PeriodStart time.Time          `json:"period_start"`
	PeriodEnd   time.Time          `json:"period_end"`
	Lines       []TrialBalanceLine `json:"lines"`
	ByType      []AccountTypeTotal `json:"by_type"`
	TotalDebit  decimal.Decimal    `json:"total_debit"`
	TotalCredit decimal.Decimal    `json:"total_credit"`
	Difference  decimal.Decimal    `json:"difference"` // TotalDebit - TotalCredit
}

// NewTrialBalance totals lines and groups them by account type
func NewTrialBalance(filter LedgerReportFilter, lines []TrialBalanceLine) *TrialBalance {
	tb := &TrialBalance{
		TenantID:    filter.TenantID,
		PeriodStart: filter.StartDate,
		PeriodEnd:   filter.EndDate,
		Lines:       lines,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	groups := make(map[string]*AccountTypeTotal)
	for _, l := range lines {
		tb.TotalDebit = tb.TotalDebit.Add(l.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(l.Credit)
		g, ok := groups[l.AccountType]
		if !ok {
			g = &AccountTypeTotal{AccountType: l.AccountType, Debit: decimal.Zero, Credit: decimal.Zero}
			groups[l.AccountType] = g
		}
		g.Debit = g.Debit.Add(l.Debit)
		g.Credit = g.Credit.Add(l.Credit)
		g.Accounts++
	}
	tb.ByType = make([]AccountTypeTotal, 0, len(groups))
	for _, g := range groups {
		tb.ByType = append(tb.ByType, *g)
	}
	sort.Slice(tb.ByType, func(i, j int) bool { return tb.ByType[i].AccountType < tb.ByType[j].AccountType })
	tb.Difference = tb.TotalDebit.Sub(tb.TotalCredit)
	return tb
}

// GeneralLedgerEntry is one posting inside a general ledger account section
type GeneralLedgerEntry struct {
	TransactionID  uuid.UUID       `json:"transaction_id"`
	AccountID      uuid.UUID       `json:"account_id"`
	AccountName    string          `json:"account_name"`
	AccountType    string          `json:"account_type"`
	PostedAt       time.Time       `json:"posted_at"`
	Reference      string          `json:"reference"`
	Type           string          `json:"type"`
	Leg            string          `json:"leg"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// GeneralLedgerAccount is one account section of the general ledger
type GeneralLedgerAccount struct {
	AccountID   uuid.UUID            `json:"account_id"`
	AccountName string               `json:"account_name"`
	AccountType string               `json:"account_type"`
	Debit       decimal.Decimal      `json:"debit"`
	Credit      decimal.Decimal      `json:"credit"`
	Entries     []GeneralLedgerEntry `json:"entries"`
}

// GeneralLedger lists postings per account over a period
type GeneralLedger struct {
	TenantID    uuid.UUID              `json:"tenant_id"`
	PeriodStart time.Time              `json:"period_start"`
	PeriodEnd   time.Time              `json:"period_end"`
	Accounts    []GeneralLedgerAccount `json:"accounts"`
}

// NewGeneralLedger groups entries by account, keeping posting order inside
// each account and ordering accounts by type then name
func NewGeneralLedger(filter LedgerReportFilter, entries []GeneralLedgerEntry) *GeneralLedger {
	sections := make(map[uuid.UUID]*GeneralLedgerAccount)
	order := make([]uuid.UUID, 0)
	for _, e := range entries {
		s, ok := sections[e.AccountID]
		if !ok {
			s = &GeneralLedgerAccount{
				AccountID:   e.AccountID,
				AccountName: e.AccountName,
				AccountType: e.AccountType,
				Debit:       decimal.Zero,
				Credit:      decimal.Zero,
			}
			sections[e.AccountID] = s
			order = append(order, e.AccountID)
		}
		s.Debit = s.Debit.Add(e.Debit)
		s.Credit = s.Credit.Add(e.Credit)
		s.Entries = append(s.Entries, e)
	}
	gl := &GeneralLedger{
		TenantID:    filter.TenantID,
		PeriodStart: filter.StartDate,
		PeriodEnd:   filter.EndDate,
		Accounts:    make([]GeneralLedgerAccount, 0, len(order)),
	}
	for _, id := range order {
		gl.Accounts = append(gl.Accounts, *sections[id])
	}
	sort.SliceStable(gl.Accounts, func(i, j int) bool {
		a, b := gl.Accounts[i], gl.Accounts[j]
		if a.AccountType != b.AccountType {
			return a.AccountType < b.AccountType
		}
		return a.AccountName < b.AccountName
	})
	return gl
}

// LedgerReportRepository defines read-only queries over the ledger
type LedgerReportRepository interface {
	// GetTrialBalanceLines returns per-account debit and credit totals for the period
	GetTrialBalanceLines(ctx context.Context, filter LedgerReportFilter) ([]TrialBalanceLine, error)

	// GetGeneralLedgerEntries returns postings for the period in posting order
	GetGeneralLedgerEntries(ctx context.Context, filter LedgerReportFilter) ([]GeneralLedgerEntry, error)
}
