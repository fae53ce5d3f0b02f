package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	SourceCoinMarketCap = "coinmarketcap"
	SourceCSV           = "csv"

	defaultWorkers       = 10
	defaultTransferQuote = "EUR"
)

var defaultQuoteCurrencies = []string{"BNB", "ETH", "BTC"}

type Config struct {
	TradeCurrencies    []string
	QuoteCurrencies    []string
	TransferQuote      string
	Workers            int
	CurrencySource     string
	CurrencyFile       string
	CoinMarketCapURL   string
	CoinMarketCapLimit int
	SnapshotDir        string
	Schedule           string
	ExportCurrencies   string
	BinanceURL         string
	Debug              bool

	BinanceAPIKey    string
	BinanceAPISecret string
	CoinMarketCapKey string
}

type ConfigTmp struct {
	TradeCurrencies    []string `yaml:"trade_currencies"`
	QuoteCurrencies    []string `yaml:"quote_currencies,omitempty"`
	TransferQuote      string   `yaml:"transfer_quote,omitempty"`
	Workers            int      `yaml:"workers,omitempty"`
	CurrencySource     string   `yaml:"currency_source,omitempty"`
	CurrencyFile       string   `yaml:"currency_file,omitempty"`
	CoinMarketCapURL   string   `yaml:"coinmarketcap_url,omitempty"`
	CoinMarketCapLimit int      `yaml:"coinmarketcap_limit,omitempty"`
	SnapshotDir        string   `yaml:"snapshot_dir,omitempty"`
	Schedule           string   `yaml:"schedule,omitempty"`
	ExportCurrencies   string   `yaml:"export_currencies,omitempty"`
	BinanceURL         string   `yaml:"binance_url,omitempty"`
	Debug              bool     `yaml:"debug,omitempty"`
}

// Get reads the config from the yaml file given by --config, otherwise from flags.
// API secrets always come from the environment.
func Get() (Config, error) {
	return parse(flag.CommandLine, os.Args[1:], os.Getenv)
}

func parse(fs *flag.FlagSet, args []string, getenv func(string) string) (Config, error) {
	configPath := fs.String("config", "", "path to yaml config")
	trade := fs.String("trade", "", "comma separated trade currencies, example: BTC,ETH,IOTA")
	quotes := fs.String("quotes", strings.Join(defaultQuoteCurrencies, ","), "comma separated quote currencies")
	transferQuote := fs.String("transferquote", defaultTransferQuote, "quote of the display pair attached to deposits and withdrawals")
	workers := fs.Int("workers", defaultWorkers, "concurrent trade history requests")
	source := fs.String("source", SourceCoinMarketCap, "currency source: coinmarketcap or csv")
	currencyFile := fs.String("currencyfile", "", "path to symbol,name csv, used with --source=csv")
	cmcURL := fs.String("cmcurl", "", "coinmarketcap listings URL")
	cmcLimit := fs.Int("cmclimit", 0, "number of coinmarketcap listings to fetch")
	snapshotDir := fs.String("snapshotdir", "", "directory of the inventory snapshot WAL, empty disables snapshots")
	schedule := fs.String("schedule", "", "cron spec for periodic runs, empty runs once")
	export := fs.String("export", "", "path of the currency csv export, empty disables export")
	binanceURL := fs.String("binanceurl", "", "override binance API base URL")
	debug := fs.Bool("debug", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	var (
		conf Config
		err  error
	)
	if *configPath != "" {
		conf, err = getYaml(*configPath)
		if err != nil {
			return Config{}, err
		}
	} else {
		conf = Config{
			TradeCurrencies:    splitSymbols(*trade),
			QuoteCurrencies:    splitSymbols(*quotes),
			TransferQuote:      *transferQuote,
			Workers:            *workers,
			CurrencySource:     *source,
			CurrencyFile:       *currencyFile,
			CoinMarketCapURL:   *cmcURL,
			CoinMarketCapLimit: *cmcLimit,
			SnapshotDir:        *snapshotDir,
			Schedule:           *schedule,
			ExportCurrencies:   *export,
			BinanceURL:         *binanceURL,
			Debug:              *debug,
		}
	}

	conf.BinanceAPIKey = getenv("BINANCE_API_KEY")
	conf.BinanceAPISecret = getenv("BINANCE_API_SECRET")
	conf.CoinMarketCapKey = getenv("CMC_API_KEY")

	if err := conf.Validate(); err != nil {
		return Config{}, err
	}

	return conf, nil
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var c ConfigTmp
	if err := yaml.Unmarshal(f, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse yaml config %s: %w", path, err)
	}

	conf := Config{
		TradeCurrencies:    normalizeSymbols(c.TradeCurrencies),
		QuoteCurrencies:    normalizeSymbols(c.QuoteCurrencies),
		TransferQuote:      strings.ToUpper(strings.TrimSpace(c.TransferQuote)),
		Workers:            c.Workers,
		CurrencySource:     c.CurrencySource,
		CurrencyFile:       c.CurrencyFile,
		CoinMarketCapURL:   c.CoinMarketCapURL,
		CoinMarketCapLimit: c.CoinMarketCapLimit,
		SnapshotDir:        c.SnapshotDir,
		Schedule:           c.Schedule,
		ExportCurrencies:   c.ExportCurrencies,
		BinanceURL:         c.BinanceURL,
		Debug:              c.Debug,
	}

	if len(conf.QuoteCurrencies) == 0 {
		conf.QuoteCurrencies = append([]string(nil), defaultQuoteCurrencies...)
	}
	if conf.TransferQuote == "" {
		conf.TransferQuote = defaultTransferQuote
	}
	if conf.Workers == 0 {
		conf.Workers = defaultWorkers
	}
	if conf.CurrencySource == "" {
		conf.CurrencySource = SourceCoinMarketCap
	}

	return conf, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if len(c.TradeCurrencies) == 0 {
		return fmt.Errorf("at least one trade currency is required")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("invalid workers count %d, must be positive", c.Workers)
	}

	switch c.CurrencySource {
	case SourceCoinMarketCap:
	case SourceCSV:
		if c.CurrencyFile == "" {
			return fmt.Errorf("currency file is required for %s source", SourceCSV)
		}
	default:
		return fmt.Errorf("unknown currency source %q", c.CurrencySource)
	}

	return nil
}

func splitSymbols(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return normalizeSymbols(strings.Split(s, ","))
}

func normalizeSymbols(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
