package internal

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/cryptotracker/config"
	"github.com/vadiminshakov/cryptotracker/internal/clients"
	"github.com/vadiminshakov/cryptotracker/internal/registry"
	"github.com/vadiminshakov/cryptotracker/internal/services/currencyfile"
	"github.com/vadiminshakov/cryptotracker/internal/services/exchange"
	"github.com/vadiminshakov/cryptotracker/internal/services/ledger"
	"github.com/vadiminshakov/cryptotracker/internal/storage/inventorysnapshots"
)

// NewExchange creates the Binance adapter with retries on transient API errors.
func NewExchange(conf config.Config, logger *zap.Logger) (ledger.Exchange, error) {
	if conf.BinanceAPIKey == "" || conf.BinanceAPISecret == "" {
		return nil, errors.New("BINANCE_API_KEY and BINANCE_API_SECRET environment variables must be set")
	}

	client := clients.NewBinanceClient(conf.BinanceAPIKey, conf.BinanceAPISecret, conf.BinanceURL)
	return exchange.NewBinance(client, exchange.NewBinanceRetrier(), logger.With(zap.String("exchange", "binance"))), nil
}

// NewCoinLister returns the coin source selected by the config.
func NewCoinLister(conf config.Config) (registry.CoinLister, error) {
	switch conf.CurrencySource {
	case config.SourceCoinMarketCap:
		if conf.CoinMarketCapKey == "" {
			return nil, errors.New("CMC_API_KEY environment variable must be set for coinmarketcap source")
		}
		return clients.NewCoinMarketCapClient(conf.CoinMarketCapURL, conf.CoinMarketCapKey, conf.CoinMarketCapLimit), nil
	case config.SourceCSV:
		return currencyfile.NewSource(conf.CurrencyFile), nil
	default:
		return nil, fmt.Errorf("unsupported currency source: %s", conf.CurrencySource)
	}
}

// NewSnapshotStore opens the snapshot WAL, or returns nil when snapshots are disabled.
func NewSnapshotStore(conf config.Config) (*inventorysnapshots.WALStore, error) {
	if conf.SnapshotDir == "" {
		return nil, nil
	}
	return inventorysnapshots.NewWALStore(conf.SnapshotDir)
}
