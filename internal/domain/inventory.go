package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Inventory point-in-time balances keyed by currency symbol.
type Inventory struct {
	Time     time.Time
	Holdings map[string]Amount
	// Untracked nonzero balances in currencies outside the trade currencies.
	Untracked []Amount
}

// NewInventory creates an empty inventory.
func NewInventory(at time.Time) Inventory {
	return Inventory{Time: at, Holdings: make(map[string]Amount)}
}

// Balance returns the held amount of the currency.
func (inv Inventory) Balance(c Currency) (Amount, bool) {
	if a, ok := inv.Holdings[c.Symbol]; ok {
		return a, true
	}
	for _, a := range inv.Holdings {
		if a.Currency().Equal(c) {
			return a, true
		}
	}
	return Amount{}, false
}

// Amounts returns the holdings sorted by symbol.
func (inv Inventory) Amounts() []Amount {
	amounts := make([]Amount, 0, len(inv.Holdings))
	for _, a := range inv.Holdings {
		amounts = append(amounts, a)
	}
	sort.Slice(amounts, func(i, j int) bool {
		return amounts[i].Currency().Symbol < amounts[j].Currency().Symbol
	})
	return amounts
}

// Snapshot returns the serializable form of the inventory.
func (inv Inventory) Snapshot() InventorySnapshot {
	balances := make(map[string]string, len(inv.Holdings))
	for symbol, a := range inv.Holdings {
		balances[symbol] = a.Value().String()
	}
	untracked := make([]string, 0, len(inv.Untracked))
	for _, a := range inv.Untracked {
		untracked = append(untracked, a.Currency().Symbol)
	}
	sort.Strings(untracked)

	return InventorySnapshot{
		ID:        uuid.NewString(),
		Timestamp: inv.Time,
		Balances:  balances,
		Untracked: untracked,
	}
}

// InventorySnapshot persisted inventory state.
type InventorySnapshot struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"ts"`
	Balances  map[string]string `json:"balances"`
	Untracked []string          `json:"untracked,omitempty"`
}

// InventorySnapshotRecord bundles a snapshot with its storage index.
type InventorySnapshotRecord struct {
	Index    uint64
	Snapshot InventorySnapshot
}
