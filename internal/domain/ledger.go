package domain

import (
	"sort"

	"github.com/pkg/errors"
)

// Ledger transactions in ascending time order.
type Ledger []Transaction

// NewLedger concatenates the groups and sorts the result by time.
// The sort is stable, so transactions sharing a timestamp keep their concatenation order.
func NewLedger(groups ...[]Transaction) Ledger {
	size := 0
	for _, g := range groups {
		size += len(g)
	}

	ledger := make(Ledger, 0, size)
	for _, g := range groups {
		ledger = append(ledger, g...)
	}
	ledger.Sort()

	return ledger
}

// Sort orders the ledger by time, stable on ties.
func (l Ledger) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Before(l[j])
	})
}

// Compact returns a copy of the ledger with every transaction compacted.
func (l Ledger) Compact() (Ledger, error) {
	compacted := make(Ledger, len(l))
	for i, tx := range l {
		c, err := tx.Compact()
		if err != nil {
			return nil, errors.Wrapf(err, "compact transaction at %s", tx.Time)
		}
		compacted[i] = c
	}
	return compacted, nil
}

// Totals merges every transaction into one and compacts it, giving the net
// change per currency over the whole ledger.
func (l Ledger) Totals() (Transaction, error) {
	if len(l) == 0 {
		return Transaction{Type: TransactionTypeCumulative}, nil
	}

	total := l[0]
	for _, tx := range l[1:] {
		total = Merge(total, tx)
	}

	return total.Compact()
}

// TradedPairs returns the distinct pairs of buy and sell transactions sorted by symbol.
func (l Ledger) TradedPairs() []Pair {
	seen := make(map[string]struct{})
	pairs := make([]Pair, 0)
	for _, tx := range l {
		if tx.Pair == nil || (tx.Type != TransactionTypeBuy && tx.Type != TransactionTypeSell) {
			continue
		}
		if _, ok := seen[tx.Pair.Symbol]; ok {
			continue
		}
		seen[tx.Pair.Symbol] = struct{}{}
		pairs = append(pairs, *tx.Pair)
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Symbol < pairs[j].Symbol
	})

	return pairs
}
