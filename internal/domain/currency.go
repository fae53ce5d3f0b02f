// Package domain defines the currency, amount and transaction model shared by the tracker.
package domain

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// CurrencyKind distinguishes fiat money from market-listed coins.
type CurrencyKind int

const (
	CurrencyKindFiat CurrencyKind = iota
	CurrencyKindCoin
)

// String returns the string representation of the kind.
func (k CurrencyKind) String() string {
	switch k {
	case CurrencyKindFiat:
		return "fiat"
	case CurrencyKindCoin:
		return "coin"
	default:
		return "unknown"
	}
}

// Currency is a fiat currency or a coin.
// Identity is the symbol; equality also honours the alias.
type Currency struct {
	Symbol string
	Name   string
	// Alias alternate symbol used by another venue, equals Symbol when not overridden.
	Alias string
	Kind  CurrencyKind
	// Stats market statistics, nil for fiat and for coins loaded without market data.
	Stats *CoinStats
}

// NewFiat creates a fiat currency.
func NewFiat(symbol, name string) Currency {
	return Currency{
		Symbol: symbol,
		Name:   name,
		Alias:  symbol,
		Kind:   CurrencyKindFiat,
	}
}

// NewCoin creates a coin with optional market statistics.
func NewCoin(symbol, name string, stats *CoinStats) Currency {
	return Currency{
		Symbol: symbol,
		Name:   name,
		Alias:  symbol,
		Kind:   CurrencyKindCoin,
		Stats:  stats,
	}
}

// CoinFromRecord builds a coin from a raw market-data record.
// Every field except symbol and name is coerced into CoinStats.
func CoinFromRecord(record RawCoin) (Currency, error) {
	symbol := strings.TrimSpace(fmt.Sprint(valueOrEmpty(record["symbol"])))
	if symbol == "" {
		return Currency{}, errors.New("coin record has no symbol")
	}
	name := strings.TrimSpace(fmt.Sprint(valueOrEmpty(record["name"])))

	return NewCoin(symbol, name, ParseCoinStats(record)), nil
}

// WithAlias returns a copy of the currency using the given alias.
func (c Currency) WithAlias(alias string) Currency {
	if alias == "" {
		alias = c.Symbol
	}
	c.Alias = alias
	return c
}

// IsFiat reports whether the currency is fiat money.
func (c Currency) IsFiat() bool {
	return c.Kind == CurrencyKindFiat
}

// Equal reports whether two currencies denote the same money, either by symbol
// or because one side's alias matches the other's symbol or alias.
func (c Currency) Equal(o Currency) bool {
	if c.Symbol == "" || o.Symbol == "" {
		return c.Symbol == o.Symbol
	}
	ca, oa := c.alias(), o.alias()
	return c.Symbol == o.Symbol || ca == o.Symbol || oa == c.Symbol || ca == oa
}

// Matches reports whether the symbol names this currency directly or by alias.
func (c Currency) Matches(symbol string) bool {
	return symbol != "" && (c.Symbol == symbol || c.alias() == symbol)
}

// String returns the string representation.
func (c Currency) String() string {
	if c.Name == "" {
		return c.Symbol
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Symbol)
}

func (c Currency) alias() string {
	if c.Alias == "" {
		return c.Symbol
	}
	return c.Alias
}

func valueOrEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}
