package internal

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/cryptotracker/config"
	"github.com/vadiminshakov/cryptotracker/internal/domain"
	"github.com/vadiminshakov/cryptotracker/internal/registry"
	"github.com/vadiminshakov/cryptotracker/internal/services/currencyfile"
	"github.com/vadiminshakov/cryptotracker/internal/services/ledger"
)

// SnapshotStore persists inventory snapshots.
type SnapshotStore interface {
	Save(snapshot domain.InventorySnapshot) (uint64, error)
}

// Report is the outcome of one tracker run.
type Report struct {
	Registry  *registry.Registry
	Ledger    *ledger.Result
	Inventory domain.Inventory
	// Totals net amount per currency over the whole ledger.
	Totals   domain.Transaction
	Snapshot *domain.InventorySnapshotRecord
}

// Tracker builds the currency registry, the ledger and the inventory.
type Tracker struct {
	conf     config.Config
	exchange ledger.Exchange
	coins    registry.CoinLister
	store    SnapshotStore
	logger   *zap.Logger
}

// NewTracker creates a tracker. store may be nil.
func NewTracker(conf config.Config, exchange ledger.Exchange, coins registry.CoinLister, store SnapshotStore, logger *zap.Logger) *Tracker {
	return &Tracker{
		conf:     conf,
		exchange: exchange,
		coins:    coins,
		store:    store,
		logger:   logger,
	}
}

// Run performs one full pass. The registry is built once and shared by every step.
func (t *Tracker) Run(ctx context.Context) (*Report, error) {
	reg, err := registry.Build(ctx, t.coins, t.logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build currency registry")
	}

	if t.conf.ExportCurrencies != "" {
		if err := currencyfile.ExportFile(t.conf.ExportCurrencies, reg.All()); err != nil {
			return nil, errors.Wrap(err, "failed to export currencies")
		}
		t.logger.Info("currencies exported", zap.String("path", t.conf.ExportCurrencies), zap.Int("count", reg.Len()))
	}

	builder, err := ledger.NewBuilder(t.logger, t.exchange, reg, ledger.Options{
		TradeCurrencies: t.conf.TradeCurrencies,
		QuoteCurrencies: t.conf.QuoteCurrencies,
		TransferQuote:   t.conf.TransferQuote,
		Workers:         t.conf.Workers,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create ledger builder")
	}

	result, err := builder.Build(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build ledger")
	}

	inventory, err := builder.Inventory(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build inventory")
	}

	totals, err := result.Ledger.Totals()
	if err != nil {
		return nil, errors.Wrap(err, "failed to total ledger")
	}

	report := &Report{
		Registry:  reg,
		Ledger:    result,
		Inventory: inventory,
		Totals:    totals,
	}

	if t.store != nil {
		snapshot := inventory.Snapshot()
		index, err := t.store.Save(snapshot)
		if err != nil {
			return nil, errors.Wrap(err, "failed to save inventory snapshot")
		}
		report.Snapshot = &domain.InventorySnapshotRecord{Index: index, Snapshot: snapshot}
	}

	t.logSummary(report)

	return report, nil
}

func (t *Tracker) logSummary(r *Report) {
	for _, pair := range r.Ledger.TradedPairs {
		t.logger.Info("traded pair", zap.String("pair", pair.String()))
	}
	for _, amount := range r.Totals.Amounts {
		t.logger.Info("ledger total", zap.String("amount", amount.String()))
	}
	for _, amount := range r.Inventory.Amounts() {
		t.logger.Info("holding", zap.String("amount", amount.String()))
	}
	if r.Snapshot != nil {
		t.logger.Info("inventory snapshot saved",
			zap.Uint64("index", r.Snapshot.Index), zap.String("id", r.Snapshot.Snapshot.ID))
	}
}
