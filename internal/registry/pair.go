package registry

import (
	"github.com/vadiminshakov/cryptotracker/internal/domain"
)

// MakePair resolves both legs of an exchange symbol. tradeSymbol is the asset
// being traded and baseSymbol the one it is priced in, in the order exchanges list them.
func (r *Registry) MakePair(symbol, tradeSymbol, baseSymbol string) (domain.Pair, error) {
	trade, err := r.Resolve(tradeSymbol)
	if err != nil {
		return domain.Pair{}, &domain.PairError{Symbol: symbol, Err: err}
	}
	base, err := r.Resolve(baseSymbol)
	if err != nil {
		return domain.Pair{}, &domain.PairError{Symbol: symbol, Err: err}
	}

	return domain.Pair{Symbol: symbol, Base: base, Trade: trade}, nil
}
