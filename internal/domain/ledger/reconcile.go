package ledger

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Drift is a mismatch between a stored balance and its transactions
type Drift struct {
	AccountID   uuid.UUID       `json:"account_id"`
	AccountName string          `json:"account_name"`
	Stored      decimal.Decimal `json:"stored"`
	Computed    decimal.Decimal `json:"computed"`
	Difference  decimal.Decimal `json:"difference"`
}

// Balances returns the signed sum of txs per account id
func Balances(txs []*Transaction) map[uuid.UUID]decimal.Decimal {
	sums := make(map[uuid.UUID]decimal.Decimal)
	for _, t := range txs {
		sums[t.AccountID] = sums[t.AccountID].Add(t.Signed())
	}
	return sums
}

// Reconcile recomputes every account balance from txs and returns the
// accounts whose stored amount disagrees, ordered by name
func Reconcile(accounts []*Account, txs []*Transaction) []Drift {
	sums := Balances(txs)
	drifts := make([]Drift, 0)
	for _, a := range accounts {
		computed := sums[a.ID]
		if computed.Equal(a.Amount) {
			continue
		}
		drifts = append(drifts, Drift{
			AccountID:   a.ID,
			AccountName: a.Name,
			Stored:      a.Amount,
			Computed:    computed,
			Difference:  a.Amount.Sub(computed),
		})
	}
	sort.Slice(drifts, func(i, j int) bool { return drifts[i].AccountName < drifts[j].AccountName })
	return drifts
}
