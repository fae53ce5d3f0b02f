// Package ledger fetches trade and transfer history from an exchange and turns it
// into a time-ordered ledger of transactions plus an inventory snapshot.
package ledger

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/cryptotracker/internal/domain"
	"github.com/vadiminshakov/cryptotracker/internal/registry"
)

const (
	defaultWorkers       = 10
	defaultTransferQuote = "EUR"
)

// DefaultQuoteCurrencies quote assets combined with every trade currency to guess traded pairs.
var DefaultQuoteCurrencies = []string{"BNB", "ETH", "BTC"}

// Exchange source of raw account records.
type Exchange interface {
	ExchangeInfo(ctx context.Context) ([]domain.RawSymbol, error)
	AccountBalances(ctx context.Context) ([]domain.RawBalance, error)
	MyTrades(ctx context.Context, symbol string) ([]domain.RawTrade, error)
	Transfers(ctx context.Context) ([]domain.RawTransfer, error)
}

// Options configures a Builder.
type Options struct {
	// TradeCurrencies symbols of the currencies the user trades.
	TradeCurrencies []string
	// QuoteCurrencies defaults to DefaultQuoteCurrencies.
	QuoteCurrencies []string
	// TransferQuote base of the display pair attached to transfers, defaults to EUR.
	TransferQuote string
	// Workers concurrent trade history fetches, defaults to 10.
	Workers int
}

// Builder produces the ledger and inventory from an exchange.
type Builder struct {
	logger          *zap.Logger
	exchange        Exchange
	registry        *registry.Registry
	tradeCurrencies []domain.Currency
	quotes          []string
	transferQuote   string
	workers         int
	now             func() time.Time
}

// Result of a ledger build.
type Result struct {
	// Ledger all transactions sorted by time.
	Ledger domain.Ledger
	// CandidatePairs pairs whose history was fetched.
	CandidatePairs []domain.Pair
	// TradedPairs pairs with at least one trade, sorted by symbol.
	TradedPairs []domain.Pair
}

// NewBuilder creates a Builder. Every trade currency must be known to the registry.
func NewBuilder(logger *zap.Logger, exchange Exchange, reg *registry.Registry, opts Options) (*Builder, error) {
	if len(opts.TradeCurrencies) == 0 {
		return nil, errors.New("at least one trade currency is required")
	}

	tradeCurrencies := make([]domain.Currency, 0, len(opts.TradeCurrencies))
	for _, symbol := range opts.TradeCurrencies {
		c, err := reg.Resolve(symbol)
		if err != nil {
			return nil, errors.Wrapf(err, "trade currency %s", symbol)
		}
		tradeCurrencies = append(tradeCurrencies, c)
	}

	quotes := opts.QuoteCurrencies
	if len(quotes) == 0 {
		quotes = DefaultQuoteCurrencies
	}
	transferQuote := opts.TransferQuote
	if transferQuote == "" {
		transferQuote = defaultTransferQuote
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Builder{
		logger:          logger,
		exchange:        exchange,
		registry:        reg,
		tradeCurrencies: tradeCurrencies,
		quotes:          quotes,
		transferQuote:   transferQuote,
		workers:         workers,
		now:             time.Now,
	}, nil
}

// CandidatePairs combines every trade currency's alias and symbol with every
// quote currency and keeps the symbols the exchange lists.
func (b *Builder) CandidatePairs(ctx context.Context) ([]domain.Pair, error) {
	symbols, err := b.exchange.ExchangeInfo(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get exchange info")
	}

	listed := make(map[string]domain.RawSymbol, len(symbols))
	for _, s := range symbols {
		listed[s.Symbol] = s
	}

	seen := make(map[string]struct{})
	pairs := make([]domain.Pair, 0)
	for _, c := range b.tradeCurrencies {
		for _, quote := range b.quotes {
			for _, prefix := range []string{c.Alias, c.Symbol} {
				s, ok := listed[prefix+quote]
				if !ok {
					continue
				}
				if _, dup := seen[s.Symbol]; dup {
					continue
				}
				seen[s.Symbol] = struct{}{}

				pair, err := b.registry.MakePair(s.Symbol, s.BaseAsset, s.QuoteAsset)
				if err != nil {
					return nil, err
				}
				pairs = append(pairs, pair)
			}
		}
	}

	return pairs, nil
}

// Build fetches trade history of every candidate pair concurrently, then the
// transfer history, and returns them merged into one ledger. The first failed
// fetch cancels the others and fails the build.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	pairs, err := b.CandidatePairs(ctx)
	if err != nil {
		return nil, err
	}
	b.logger.Info("fetching trade history", zap.Int("pairs", len(pairs)), zap.Int("workers", b.workers))

	// one slot per pair keeps the concatenation order independent of completion order
	perPair := make([][]domain.Transaction, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, pair := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			txs, err := b.tradeHistory(gctx, pair)
			if err != nil {
				return errors.Wrapf(err, "trade history for %s", pair.Symbol)
			}
			perPair[i] = txs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	transfers, err := b.transferHistory(ctx)
	if err != nil {
		return nil, err
	}

	trades := make([]domain.Transaction, 0)
	for _, txs := range perPair {
		trades = append(trades, txs...)
	}

	ledger := domain.NewLedger(trades, transfers)
	result := &Result{
		Ledger:         ledger,
		CandidatePairs: pairs,
		TradedPairs:    ledger.TradedPairs(),
	}

	b.logger.Info("ledger built",
		zap.Int("transactions", len(ledger)),
		zap.Int("trades", len(trades)),
		zap.Int("transfers", len(transfers)),
		zap.Int("traded_pairs", len(result.TradedPairs)))

	return result, nil
}

func (b *Builder) tradeHistory(ctx context.Context, pair domain.Pair) ([]domain.Transaction, error) {
	b.logger.Debug("trade history", zap.String("pair", pair.String()))

	trades, err := b.exchange.MyTrades(ctx, pair.Symbol)
	if err != nil {
		return nil, err
	}

	txs := make([]domain.Transaction, 0, len(trades))
	for _, trade := range trades {
		tx, err := b.tradeTransaction(pair, trade)
		if err != nil {
			return nil, errors.Wrapf(err, "trade at %d", trade.Time)
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

// tradeTransaction bundles the traded quantity, the opposite base amount and
// the fee into one buy or sell transaction.
func (b *Builder) tradeTransaction(pair domain.Pair, trade domain.RawTrade) (domain.Transaction, error) {
	qty, err := decimal.NewFromString(trade.Quantity)
	if err != nil {
		return domain.Transaction{}, errors.Wrap(err, "failed to parse trade quantity")
	}
	price, err := decimal.NewFromString(trade.Price)
	if err != nil {
		return domain.Transaction{}, errors.Wrap(err, "failed to parse trade price")
	}
	commission, err := decimal.NewFromString(trade.Commission)
	if err != nil {
		return domain.Transaction{}, errors.Wrap(err, "failed to parse trade commission")
	}
	feeCurrency, err := b.registry.Resolve(trade.CommissionAsset)
	if err != nil {
		return domain.Transaction{}, errors.Wrap(err, "fee currency")
	}

	sign := decimal.NewFromInt(1)
	txType := domain.TransactionTypeBuy
	if !trade.IsBuyer {
		sign = sign.Neg()
		txType = domain.TransactionTypeSell
	}

	amounts := []domain.Amount{
		domain.NewAmount(sign.Mul(qty), pair.Trade),
		domain.NewAmount(sign.Neg().Mul(qty).Mul(price), pair.Base),
		domain.NewAmount(commission.Neg(), feeCurrency),
	}

	return domain.NewTransaction(&pair, time.UnixMilli(trade.Time), amounts, txType), nil
}

func (b *Builder) transferHistory(ctx context.Context) ([]domain.Transaction, error) {
	transfers, err := b.exchange.Transfers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transfer history")
	}

	txs := make([]domain.Transaction, 0, len(transfers))
	for _, transfer := range transfers {
		tx, err := b.transferTransaction(transfer)
		if err != nil {
			return nil, errors.Wrapf(err, "%s transfer of %s at %d", transfer.Type, transfer.Asset, transfer.Time)
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

// transferTransaction converts a deposit or withdrawal into a single-amount
// transaction. The pair against the transfer quote is for display only.
func (b *Builder) transferTransaction(transfer domain.RawTransfer) (domain.Transaction, error) {
	pair, err := b.registry.MakePair(transfer.Asset+b.transferQuote, transfer.Asset, b.transferQuote)
	if err != nil {
		return domain.Transaction{}, err
	}

	value, err := decimal.NewFromString(transfer.Amount)
	if err != nil {
		return domain.Transaction{}, errors.Wrap(err, "failed to parse transfer amount")
	}

	txType, known := domain.ParseTransactionType(transfer.Type)
	if !known {
		b.logger.Warn("unrecognized transfer type, recording as unknown",
			zap.String("type", transfer.Type), zap.String("asset", transfer.Asset))
	}

	if txType == domain.TransactionTypeWithdrawal {
		fee := decimal.Zero
		if transfer.Fee != "" {
			if fee, err = decimal.NewFromString(transfer.Fee); err != nil {
				return domain.Transaction{}, errors.Wrap(err, "failed to parse withdrawal fee")
			}
		}
		value = value.Add(fee).Neg()
	}

	amounts := []domain.Amount{domain.NewAmount(value, pair.Trade)}
	return domain.NewTransaction(&pair, time.UnixMilli(transfer.Time), amounts, txType), nil
}
