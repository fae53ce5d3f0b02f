package ledger

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/cryptotracker/internal/domain"
)

// Inventory returns current balances of registry currencies that are either
// nonzero or among the trade currencies. Nonzero balances outside the trade
// currencies are kept, logged and listed in Untracked.
func (b *Builder) Inventory(ctx context.Context) (domain.Inventory, error) {
	balances, err := b.exchange.AccountBalances(ctx)
	if err != nil {
		return domain.Inventory{}, errors.Wrap(err, "failed to get account balances")
	}

	inv := domain.NewInventory(b.now())
	for _, balance := range balances {
		free, err := decimal.NewFromString(balance.Free)
		if err != nil {
			return domain.Inventory{}, errors.Wrapf(err, "failed to parse free balance of %s", balance.Asset)
		}
		locked, err := decimal.NewFromString(balance.Locked)
		if err != nil {
			return domain.Inventory{}, errors.Wrapf(err, "failed to parse locked balance of %s", balance.Asset)
		}
		total := free.Add(locked)

		currency, err := b.registry.Resolve(balance.Asset)
		if err != nil {
			if !total.IsZero() {
				b.logger.Debug("balance in currency outside registry", zap.String("asset", balance.Asset))
			}
			continue
		}

		tracked := b.isTradeCurrency(currency)
		if total.IsZero() && !tracked {
			continue
		}

		amount := domain.NewAmount(total, currency)
		inv.Holdings[currency.Symbol] = amount

		if !tracked && !total.IsZero() {
			b.logger.Warn("nonzero balance not included in trade currencies",
				zap.String("asset", balance.Asset), zap.String("amount", total.String()))
			inv.Untracked = append(inv.Untracked, amount)
		}
	}

	return inv, nil
}

func (b *Builder) isTradeCurrency(c domain.Currency) bool {
	for _, tc := range b.tradeCurrencies {
		if tc.Equal(c) {
			return true
		}
	}
	return false
}
