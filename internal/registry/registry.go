// Package registry holds the set of known currencies and resolves symbols,
// aliases and trading pairs against it.
package registry

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/cryptotracker/internal/domain"
)

// CoinLister market-data source returning raw coin records.
type CoinLister interface {
	ListCoins(ctx context.Context) ([]domain.RawCoin, error)
}

// DefaultFiat fiat currencies every registry starts with.
func DefaultFiat() []domain.Currency {
	return []domain.Currency{
		domain.NewFiat("USD", "Dollar"),
		domain.NewFiat("GBP", "British Pound"),
		domain.NewFiat("EUR", "Euro"),
	}
}

// symbols the exchange and the market-data provider spell differently
var defaultAliases = [][2]string{
	{"YOYO", "YOYOW"},
	{"IOTA", "MIOTA"},
	{"BQX", "ETHOS"},
}

// Registry canonical currencies, fiat first. Symbols are unique.
type Registry struct {
	currencies []domain.Currency
	bySymbol   map[string]int
	aliases    map[string]string
}

// New creates a registry from fiat and coins. A symbol seen twice keeps its
// first entry; the skipped duplicates are returned.
func New(fiat, coins []domain.Currency) (*Registry, []domain.Currency) {
	r := &Registry{
		currencies: make([]domain.Currency, 0, len(fiat)+len(coins)),
		bySymbol:   make(map[string]int, len(fiat)+len(coins)),
		aliases:    newAliasTable(defaultAliases),
	}

	var skipped []domain.Currency
	for _, c := range append(append([]domain.Currency(nil), fiat...), coins...) {
		if !r.add(c) {
			skipped = append(skipped, c)
		}
	}

	return r, skipped
}

// Build fetches coins once from the lister and creates the registry with the default fiat.
func Build(ctx context.Context, lister CoinLister, logger *zap.Logger) (*Registry, error) {
	records, err := lister.ListCoins(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list coins")
	}

	coins := make([]domain.Currency, 0, len(records))
	for i, record := range records {
		coin, err := domain.CoinFromRecord(record)
		if err != nil {
			logger.Warn("skip coin record", zap.Int("index", i), zap.Error(err))
			continue
		}
		coins = append(coins, coin)
	}

	r, skipped := New(DefaultFiat(), coins)
	for _, c := range skipped {
		logger.Debug("skip duplicate currency symbol", zap.String("symbol", c.Symbol), zap.String("name", c.Name))
	}
	logger.Info("currency registry built", zap.Int("currencies", len(r.currencies)), zap.Int("duplicates", len(skipped)))

	return r, nil
}

func newAliasTable(pairs [][2]string) map[string]string {
	table := make(map[string]string, len(pairs)*2)
	for _, p := range pairs {
		table[p[0]] = p[1]
		table[p[1]] = p[0]
	}
	return table
}

func (r *Registry) add(c domain.Currency) bool {
	if c.Symbol == "" {
		return false
	}
	if _, ok := r.bySymbol[c.Symbol]; ok {
		return false
	}
	c = c.WithAlias(r.aliases[c.Symbol])
	r.bySymbol[c.Symbol] = len(r.currencies)
	r.currencies = append(r.currencies, c)
	return true
}

// Resolve finds a currency by symbol or by alias in either direction.
func (r *Registry) Resolve(symbol string) (domain.Currency, error) {
	if i, ok := r.bySymbol[symbol]; ok {
		return r.currencies[i], nil
	}
	if alias, ok := r.aliases[symbol]; ok {
		if i, ok := r.bySymbol[alias]; ok {
			return r.currencies[i], nil
		}
	}
	for _, c := range r.currencies {
		if c.Matches(symbol) {
			return c, nil
		}
	}

	return domain.Currency{}, &domain.UnknownCurrencyError{Symbol: symbol}
}

// Contains reports whether the symbol resolves.
func (r *Registry) Contains(symbol string) bool {
	_, err := r.Resolve(symbol)
	return err == nil
}

// All returns every currency, fiat first.
func (r *Registry) All() []domain.Currency {
	return append([]domain.Currency(nil), r.currencies...)
}

// Len returns the number of currencies.
func (r *Registry) Len() int {
	return len(r.currencies)
}
