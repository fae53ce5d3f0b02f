// Command cryptotracker builds the trade and transfer ledger of a Binance
// account, prints net positions per currency and records an inventory snapshot.
//
// Usage:
//
//	cryptotracker --config config.yaml
//	cryptotracker --trade BTC,ETH,IOTA [--schedule "@every 6h"]
//
// Required environment variables:
//
//	BINANCE_API_KEY, BINANCE_API_SECRET
//	CMC_API_KEY (coinmarketcap currency source only)
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/vadiminshakov/cryptotracker/config"
	"github.com/vadiminshakov/cryptotracker/internal"
)

func main() {
	conf, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger := newLogger(conf.Debug)

	if err := run(conf, logger); err != nil {
		logger.Error("tracker stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(conf config.Config, logger *zap.Logger) error {
	exchange, err := internal.NewExchange(conf, logger)
	if err != nil {
		return errors.Wrap(err, "failed to create exchange")
	}

	coins, err := internal.NewCoinLister(conf)
	if err != nil {
		return errors.Wrap(err, "failed to create currency source")
	}

	var store internal.SnapshotStore
	walStore, err := internal.NewSnapshotStore(conf)
	if err != nil {
		return errors.Wrap(err, "failed to open inventory snapshot store")
	}
	if walStore != nil {
		defer func() {
			if err := walStore.Close(); err != nil {
				logger.Error("failed to close inventory snapshot store", zap.Error(err))
			}
		}()
		store = walStore
	}

	tracker := internal.NewTracker(conf, exchange, coins, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if conf.Schedule == "" {
		_, err := tracker.Run(ctx)
		return err
	}

	c := cron.New()
	if _, err := c.AddFunc(conf.Schedule, func() {
		if _, err := tracker.Run(ctx); err != nil {
			logger.Error("scheduled tracker run failed", zap.Error(err))
		}
	}); err != nil {
		return errors.Wrapf(err, "invalid schedule %q", conf.Schedule)
	}

	logger.Info("tracker scheduled", zap.String("schedule", conf.Schedule))
	c.Start()

	<-ctx.Done()
	logger.Info("shutting down")
	<-c.Stop().Done()

	return nil
}

func newLogger(debug bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatal(err)
	}
	return logger
}
