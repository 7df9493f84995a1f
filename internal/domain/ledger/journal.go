package ledger

import (
	"sort"
	"time"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source identifies the record a posting belongs to
type Source struct {
	TenantID   uuid.UUID
	CompanyID  *uuid.UUID
	Type       TransactionType
	SourceType string
	SourceID   uuid.UUID
	Reference  string
	PostedAt   time.Time
}

// Leg is one debit or credit to post against a named account
type Leg struct {
	Kind      LegKind
	Side      Side
	Account   string
	Amount    decimal.Decimal
	PayrollID *uuid.UUID
	Reference string
}

// Journal is the only writer of account balances. Every PostLeg applies the
// account delta and creates the matching transaction together, so callers
// persist Touched and Created in one unit of work.
type Journal struct {
	byName  map[string]*Account
	byID    map[uuid.UUID]*Account
	touched map[uuid.UUID]struct{}
	created []*Transaction
	removed []uuid.UUID
	now     func() time.Time
}

// NewJournal creates a journal over the accounts loaded for a unit of work
func NewJournal(accounts []*Account) *Journal {
	j := &Journal{
		byName:  make(map[string]*Account, len(accounts)),
		byID:    make(map[uuid.UUID]*Account, len(accounts)),
		touched: make(map[uuid.UUID]struct{}),
		now:     time.Now,
	}
	for _, a := range accounts {
		j.byName[a.Name] = a
		j.byID[a.ID] = a
	}
	return j
}

// Account resolves an account by name
func (j *Journal) Account(name string) (*Account, error) {
	a, ok := j.byName[name]
	if !ok {
		return nil, shared.NewNotFoundError("account", name)
	}
	return a, nil
}

// PostLeg applies the leg to its account and returns the new transaction.
// RunningBalance is the account balance after the leg.
func (j *Journal) PostLeg(src Source, leg Leg) (*Transaction, error) {
	if !leg.Amount.IsPositive() {
		return nil, shared.NewInvariantError("leg %s on %s must have a positive amount", leg.Kind, leg.Account)
	}
	acct, err := j.Account(leg.Account)
	if err != nil {
		return nil, err
	}

	tx := &Transaction{
		ID:          uuid.New(),
		TenantID:    src.TenantID,
		CompanyID:   src.CompanyID,
		AccountID:   acct.ID,
		AccountName: acct.Name,
		AccountType: acct.Type,
		Reference:   src.Reference,
		Type:        src.Type,
		Leg:         leg.Kind,
		Debit:       decimal.Zero,
		Credit:      decimal.Zero,
		SourceType:  src.SourceType,
		SourceID:    src.SourceID,
		PayrollID:   leg.PayrollID,
		PostedAt:    src.PostedAt,
		CreatedAt:   j.now(),
	}
	if leg.Reference != "" {
		tx.Reference = leg.Reference
	}
	if tx.PostedAt.IsZero() {
		tx.PostedAt = tx.CreatedAt
	}
	if leg.Side == SideDebit {
		tx.Debit = leg.Amount
	} else {
		tx.Credit = leg.Amount
	}

	acct.applyDelta(tx.Signed())
	tx.RunningBalance = acct.Amount

	j.touched[acct.ID] = struct{}{}
	j.created = append(j.created, tx)
	return tx, nil
}

// ReverseLeg applies the inverse delta of a stored transaction and marks it
// for deletion
func (j *Journal) ReverseLeg(tx *Transaction) error {
	acct, ok := j.byID[tx.AccountID]
	if !ok {
		return shared.NewNotFoundError("account", tx.AccountID)
	}
	if err := tx.Validate(); err != nil {
		return err
	}
	if acct.Type != tx.AccountType {
		return shared.NewInvariantError("transaction %s was posted to a %s account, %s is %s",
			tx.ID, tx.AccountType, acct.Name, acct.Type)
	}

	acct.applyDelta(tx.Signed().Neg())
	j.touched[acct.ID] = struct{}{}

	for i, c := range j.created {
		if c.ID == tx.ID {
			j.created = append(j.created[:i], j.created[i+1:]...)
			return nil
		}
	}
	j.removed = append(j.removed, tx.ID)
	return nil
}

// Created returns the transactions posted by this journal
func (j *Journal) Created() []*Transaction {
	return j.created
}

// Removed returns the ids of the stored transactions reversed by this journal
func (j *Journal) Removed() []uuid.UUID {
	return j.removed
}

// Touched returns the accounts whose balance changed, ordered by name
func (j *Journal) Touched() []*Account {
	out := make([]*Account, 0, len(j.touched))
	for id := range j.touched {
		out = append(out, j.byID[id])
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// Accounts returns every account known to the journal, ordered by name
func (j *Journal) Accounts() []*Account {
	out := make([]*Account, 0, len(j.byID))
	for _, a := range j.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// Totals sums the debit and credit sides of txs
func Totals(txs []*Transaction) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, t := range txs {
		debit = debit.Add(t.Debit)
		credit = credit.Add(t.Credit)
	}
	return debit, credit
}

// IsBalanced reports whether debits equal credits across txs
func IsBalanced(txs []*Transaction) bool {
	d, c := Totals(txs)
	return d.Equal(c)
}
