package domain

import "fmt"

// Pair tradable currency combination identified by the exchange symbol.
// Pairs are built by the registry so both legs are known currencies.
type Pair struct {
	// Symbol exchange symbol, e.g. BTCUSDT.
	Symbol string
	// Base currency prices are quoted in.
	Base Currency
	// Trade currency being bought or sold.
	Trade Currency
}

// String returns the string representation.
func (p Pair) String() string {
	return fmt.Sprintf("%s_%s", p.Trade.Symbol, p.Base.Symbol)
}

// Equal compares pairs by symbol.
func (p Pair) Equal(o Pair) bool {
	return p.Symbol == o.Symbol
}

func samePair(a, b *Pair) bool {
	return a != nil && b != nil && a.Equal(*b)
}
