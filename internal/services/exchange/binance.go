// Package exchange adapts exchange SDKs to the raw records consumed by the ledger builder.
package exchange

import (
	"context"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/cryptotracker/internal/domain"
	"github.com/vadiminshakov/cryptotracker/pkg/retrier"
)

const (
	binanceDepositStatusSuccess    = 1
	binanceWithdrawStatusCompleted = 6
	binanceApplyTimeLayout         = "2006-01-02 15:04:05"
)

// API error codes that describe a transient condition
var binanceTransientCodes = map[int64]struct{}{
	-1001: {}, // disconnected
	-1003: {}, // too many requests
	-1007: {}, // backend timeout
}

// Binance reads account history through the Binance REST API.
type Binance struct {
	client  *binance.Client
	retrier *retrier.Retrier
	logger  *zap.Logger
}

// NewBinance creates the adapter. A nil retrier disables retries.
func NewBinance(client *binance.Client, r *retrier.Retrier, logger *zap.Logger) *Binance {
	if r == nil {
		r = retrier.New(retrier.WithMaxRetries(0))
	}
	return &Binance{client: client, retrier: r, logger: logger}
}

// NewBinanceRetrier returns a retrier that gives up on API errors unless they are transient.
func NewBinanceRetrier(opts ...retrier.Option) *retrier.Retrier {
	return retrier.New(append([]retrier.Option{retrier.WithRetryIf(isRetryableBinanceError)}, opts...)...)
}

func isRetryableBinanceError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		_, ok := binanceTransientCodes[apiErr.Code]
		return ok
	}
	return true
}

// ExchangeInfo returns every listed symbol.
func (b *Binance) ExchangeInfo(ctx context.Context) ([]domain.RawSymbol, error) {
	info, err := retrier.DoWithData(b.retrier, ctx, func(ctx context.Context) (*binance.ExchangeInfo, error) {
		return b.client.NewExchangeInfoService().Do(ctx)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get binance exchange info")
	}

	symbols := make([]domain.RawSymbol, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		symbols = append(symbols, domain.RawSymbol{
			Symbol:     s.Symbol,
			BaseAsset:  s.BaseAsset,
			QuoteAsset: s.QuoteAsset,
		})
	}

	return symbols, nil
}

// AccountBalances returns the spot balances of the account.
func (b *Binance) AccountBalances(ctx context.Context) ([]domain.RawBalance, error) {
	account, err := retrier.DoWithData(b.retrier, ctx, func(ctx context.Context) (*binance.Account, error) {
		return b.client.NewGetAccountService().Do(ctx)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get binance account balance")
	}

	balances := make([]domain.RawBalance, 0, len(account.Balances))
	for _, balance := range account.Balances {
		balances = append(balances, domain.RawBalance{
			Asset:  balance.Asset,
			Free:   balance.Free,
			Locked: balance.Locked,
		})
	}

	return balances, nil
}

// MyTrades returns the account's fills for one symbol.
func (b *Binance) MyTrades(ctx context.Context, symbol string) ([]domain.RawTrade, error) {
	trades, err := retrier.DoWithData(b.retrier, ctx, func(ctx context.Context) ([]*binance.TradeV3, error) {
		return b.client.NewListTradesService().Symbol(symbol).Do(ctx)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list binance trades for %s", symbol)
	}

	raw := make([]domain.RawTrade, 0, len(trades))
	for _, trade := range trades {
		raw = append(raw, domain.RawTrade{
			Symbol:          trade.Symbol,
			Time:            trade.Time,
			IsBuyer:         trade.IsBuyer,
			Quantity:        trade.Quantity,
			Price:           trade.Price,
			Commission:      trade.Commission,
			CommissionAsset: trade.CommissionAsset,
		})
	}

	return raw, nil
}

// Transfers returns successful deposits followed by completed withdrawals.
func (b *Binance) Transfers(ctx context.Context) ([]domain.RawTransfer, error) {
	deposits, err := retrier.DoWithData(b.retrier, ctx, func(ctx context.Context) ([]*binance.Deposit, error) {
		return b.client.NewListDepositsService().Do(ctx)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list binance deposits")
	}

	withdrawals, err := retrier.DoWithData(b.retrier, ctx, func(ctx context.Context) ([]*binance.Withdraw, error) {
		return b.client.NewListWithdrawsService().Do(ctx)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list binance withdrawals")
	}

	transfers := make([]domain.RawTransfer, 0, len(deposits)+len(withdrawals))
	for _, d := range deposits {
		if d.Status != binanceDepositStatusSuccess {
			b.logger.Debug("skip unfinished deposit", zap.String("coin", d.Coin), zap.Int("status", d.Status))
			continue
		}
		transfers = append(transfers, domain.RawTransfer{
			Asset:  d.Coin,
			Time:   d.InsertTime,
			Amount: d.Amount,
			Type:   domain.TransactionTypeDeposit.String(),
		})
	}

	for _, w := range withdrawals {
		if w.Status != binanceWithdrawStatusCompleted {
			b.logger.Debug("skip unfinished withdrawal", zap.String("coin", w.Coin), zap.Int("status", w.Status))
			continue
		}
		applied, err := time.ParseInLocation(binanceApplyTimeLayout, w.ApplyTime, time.UTC)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse withdrawal time %q", w.ApplyTime)
		}
		transfers = append(transfers, domain.RawTransfer{
			Asset:  w.Coin,
			Time:   applied.UnixMilli(),
			Amount: w.Amount,
			Fee:    w.TransactionFee,
			Type:   domain.TransactionTypeWithdrawal.String(),
		})
	}

	return transfers, nil
}
