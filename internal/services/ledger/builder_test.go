package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/cryptotracker/internal/domain"
	"github.com/vadiminshakov/cryptotracker/internal/registry"
	exchangeMock "github.com/vadiminshakov/cryptotracker/mocks/exchange"
)

var (
	t1 = time.Date(2018, 1, 10, 9, 0, 0, 0, time.UTC)
	t3 = t1.Add(6 * time.Hour)
	t2 = t1.Add(24 * time.Hour)
)

func testRegistry() *registry.Registry {
	r, _ := registry.New(
		[]domain.Currency{domain.NewFiat("USD", "Dollar"), domain.NewFiat("EUR", "Euro")},
		[]domain.Currency{
			domain.NewCoin("BTC", "Bitcoin", nil),
			domain.NewCoin("ETH", "Ethereum", nil),
			domain.NewCoin("BNB", "Binance Coin", nil),
			domain.NewCoin("MIOTA", "IOTA", nil),
		},
	)
	return r
}

func createTestBuilder(t *testing.T, ex Exchange, opts Options) *Builder {
	t.Helper()
	b, err := NewBuilder(zap.NewNop(), ex, testRegistry(), opts)
	require.NoError(t, err)
	return b
}

func ms(t time.Time) int64 {
	return t.UnixMilli()
}

func TestNewBuilder(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		b := createTestBuilder(t, exchangeMock.NewExchange(t), Options{TradeCurrencies: []string{"BTC"}})
		assert.Equal(t, DefaultQuoteCurrencies, b.quotes)
		assert.Equal(t, "EUR", b.transferQuote)
		assert.Equal(t, 10, b.workers)
	})

	t.Run("no trade currencies", func(t *testing.T) {
		_, err := NewBuilder(zap.NewNop(), exchangeMock.NewExchange(t), testRegistry(), Options{})
		assert.Error(t, err)
	})

	t.Run("unknown trade currency", func(t *testing.T) {
		_, err := NewBuilder(zap.NewNop(), exchangeMock.NewExchange(t), testRegistry(), Options{TradeCurrencies: []string{"XYZ"}})
		assert.ErrorIs(t, err, domain.ErrUnknownCurrency)
	})
}

func TestBuilder_CandidatePairs(t *testing.T) {
	ex := exchangeMock.NewExchange(t)
	ex.On("ExchangeInfo", mock.Anything).Return([]domain.RawSymbol{
		{Symbol: "ETHBTC", BaseAsset: "ETH", QuoteAsset: "BTC"},
		{Symbol: "BNBBTC", BaseAsset: "BNB", QuoteAsset: "BTC"},
		{Symbol: "IOTABNB", BaseAsset: "IOTA", QuoteAsset: "BNB"},
		{Symbol: "IOTAETH", BaseAsset: "IOTA", QuoteAsset: "ETH"},
		{Symbol: "IOTABTC", BaseAsset: "IOTA", QuoteAsset: "BTC"},
		{Symbol: "XRPBTC", BaseAsset: "XRP", QuoteAsset: "BTC"},
	}, nil).Once()

	b := createTestBuilder(t, ex, Options{TradeCurrencies: []string{"BTC", "ETH", "MIOTA"}})

	pairs, err := b.CandidatePairs(context.Background())
	require.NoError(t, err)

	got := make([]string, len(pairs))
	for i, p := range pairs {
		got[i] = p.Symbol
	}
	assert.Equal(t, []string{"ETHBTC", "IOTABNB", "IOTAETH", "IOTABTC"}, got)
	assert.Equal(t, "MIOTA", pairs[1].Trade.Symbol)
	assert.Equal(t, "BNB", pairs[1].Base.Symbol)
}

func TestBuilder_CandidatePairsExchangeSymbol(t *testing.T) {
	// the csv source carries the exchange's own symbol, so the alias is the market-data spelling
	reg, _ := registry.New(
		[]domain.Currency{domain.NewFiat("USD", "Dollar")},
		[]domain.Currency{domain.NewCoin("BTC", "Bitcoin", nil), domain.NewCoin("IOTA", "IOTA", nil)},
	)
	ex := exchangeMock.NewExchange(t)
	ex.On("ExchangeInfo", mock.Anything).Return([]domain.RawSymbol{
		{Symbol: "IOTABTC", BaseAsset: "IOTA", QuoteAsset: "BTC"},
	}, nil).Once()

	b, err := NewBuilder(zap.NewNop(), ex, reg, Options{TradeCurrencies: []string{"IOTA"}, QuoteCurrencies: []string{"BTC"}})
	require.NoError(t, err)

	pairs, err := b.CandidatePairs(context.Background())
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "IOTABTC", pairs[0].Symbol)
	assert.Equal(t, "IOTA", pairs[0].Trade.Symbol)
	assert.Equal(t, "BTC", pairs[0].Base.Symbol)
}

func TestBuilder_TradeTransaction(t *testing.T) {
	ex := exchangeMock.NewExchange(t)
	ex.On("ExchangeInfo", mock.Anything).Return([]domain.RawSymbol{
		{Symbol: "BTCUSD", BaseAsset: "BTC", QuoteAsset: "USD"},
	}, nil).Once()
	ex.On("MyTrades", mock.Anything, "BTCUSD").Return([]domain.RawTrade{
		{Symbol: "BTCUSD", Time: ms(t1), IsBuyer: true, Quantity: "2", Price: "100", Commission: "0.1", CommissionAsset: "BNB"},
		{Symbol: "BTCUSD", Time: ms(t3), IsBuyer: false, Quantity: "0.5", Price: "120", Commission: "6", CommissionAsset: "USD"},
	}, nil).Once()
	ex.On("Transfers", mock.Anything).Return(nil, nil).Once()

	b := createTestBuilder(t, ex, Options{TradeCurrencies: []string{"BTC"}, QuoteCurrencies: []string{"USD"}})

	result, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Ledger, 2)

	buy := result.Ledger[0]
	assert.Equal(t, domain.TransactionTypeBuy, buy.Type)
	require.NotNil(t, buy.Pair)
	assert.Equal(t, "BTCUSD", buy.Pair.Symbol)
	assert.True(t, t1.Equal(buy.Time))
	require.Len(t, buy.Amounts, 3)
	assertAmount(t, buy.Amounts[0], "2", "BTC")
	assertAmount(t, buy.Amounts[1], "-200", "USD")
	assertAmount(t, buy.Amounts[2], "-0.1", "BNB")

	sell := result.Ledger[1]
	assert.Equal(t, domain.TransactionTypeSell, sell.Type)
	assertAmount(t, sell.Amounts[0], "-0.5", "BTC")
	assertAmount(t, sell.Amounts[1], "60", "USD")
	assertAmount(t, sell.Amounts[2], "-6", "USD")

	compacted, err := sell.Compact()
	require.NoError(t, err)
	require.Len(t, compacted.Amounts, 2)
	assertAmount(t, compacted.Amounts[1], "54", "USD")

	require.Len(t, result.TradedPairs, 1)
	assert.Equal(t, "BTCUSD", result.TradedPairs[0].Symbol)
}

func TestBuilder_BuildMergesAndSorts(t *testing.T) {
	ex := exchangeMock.NewExchange(t)
	ex.On("ExchangeInfo", mock.Anything).Return([]domain.RawSymbol{
		{Symbol: "ETHBTC", BaseAsset: "ETH", QuoteAsset: "BTC"},
		{Symbol: "IOTABTC", BaseAsset: "IOTA", QuoteAsset: "BTC"},
	}, nil).Once()
	ex.On("MyTrades", mock.Anything, "ETHBTC").Return([]domain.RawTrade{
		{Time: ms(t3), IsBuyer: true, Quantity: "1", Price: "0.1", Commission: "0.001", CommissionAsset: "ETH"},
	}, nil).Once()
	ex.On("MyTrades", mock.Anything, "IOTABTC").Return([]domain.RawTrade{}, nil).Once()
	ex.On("Transfers", mock.Anything).Return([]domain.RawTransfer{
		{Asset: "BTC", Time: ms(t1), Amount: "1", Type: "deposit"},
		{Asset: "BTC", Time: ms(t2), Amount: "0.5", Type: "deposit"},
	}, nil).Once()

	b := createTestBuilder(t, ex, Options{TradeCurrencies: []string{"ETH", "MIOTA"}, QuoteCurrencies: []string{"BTC"}, Workers: 2})

	result, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Ledger, 3)

	assert.True(t, t1.Equal(result.Ledger[0].Time))
	assert.Equal(t, domain.TransactionTypeDeposit, result.Ledger[0].Type)
	assert.True(t, t3.Equal(result.Ledger[1].Time))
	assert.Equal(t, domain.TransactionTypeBuy, result.Ledger[1].Type)
	assert.True(t, t2.Equal(result.Ledger[2].Time))

	for i := 0; i+1 < len(result.Ledger); i++ {
		assert.False(t, result.Ledger[i+1].Time.Before(result.Ledger[i].Time))
	}

	assert.Len(t, result.CandidatePairs, 2)
	require.Len(t, result.TradedPairs, 1, "pairs without fills are not traded pairs")
	assert.Equal(t, "ETHBTC", result.TradedPairs[0].Symbol)
}

func TestBuilder_TransferTransactions(t *testing.T) {
	ex := exchangeMock.NewExchange(t)
	ex.On("ExchangeInfo", mock.Anything).Return([]domain.RawSymbol{}, nil).Once()
	ex.On("Transfers", mock.Anything).Return([]domain.RawTransfer{
		{Asset: "BTC", Time: ms(t1), Amount: "1.5", Type: "deposit"},
		{Asset: "ETH", Time: ms(t3), Amount: "2", Fee: "0.01", Type: "withdrawal"},
		{Asset: "IOTA", Time: ms(t2), Amount: "100", Type: "airdrop"},
	}, nil).Once()

	b := createTestBuilder(t, ex, Options{TradeCurrencies: []string{"BTC"}})

	result, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Ledger, 3)

	deposit := result.Ledger[0]
	assert.Equal(t, domain.TransactionTypeDeposit, deposit.Type)
	require.NotNil(t, deposit.Pair)
	assert.Equal(t, "BTCEUR", deposit.Pair.Symbol)
	assert.Equal(t, "EUR", deposit.Pair.Base.Symbol)
	require.Len(t, deposit.Amounts, 1)
	assertAmount(t, deposit.Amounts[0], "1.5", "BTC")

	withdrawal := result.Ledger[1]
	assert.Equal(t, domain.TransactionTypeWithdrawal, withdrawal.Type)
	require.Len(t, withdrawal.Amounts, 1)
	assertAmount(t, withdrawal.Amounts[0], "-2.01", "ETH")

	unknown := result.Ledger[2]
	assert.Equal(t, domain.TransactionTypeUnknown, unknown.Type)
	assertAmount(t, unknown.Amounts[0], "100", "MIOTA")

	assert.Empty(t, result.TradedPairs)
}

func TestBuilder_UnknownFeeCurrencyFails(t *testing.T) {
	ex := exchangeMock.NewExchange(t)
	ex.On("ExchangeInfo", mock.Anything).Return([]domain.RawSymbol{
		{Symbol: "ETHBTC", BaseAsset: "ETH", QuoteAsset: "BTC"},
	}, nil).Once()
	ex.On("MyTrades", mock.Anything, "ETHBTC").Return([]domain.RawTrade{
		{Time: ms(t1), IsBuyer: true, Quantity: "1", Price: "0.1", Commission: "1", CommissionAsset: "XYZ"},
	}, nil).Once()

	b := createTestBuilder(t, ex, Options{TradeCurrencies: []string{"ETH"}, QuoteCurrencies: []string{"BTC"}})

	_, err := b.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)
	ex.AssertNotCalled(t, "Transfers", mock.Anything)
}

func TestBuilder_FirstFetchErrorCancelsOthers(t *testing.T) {
	ex := exchangeMock.NewExchange(t)
	ex.On("ExchangeInfo", mock.Anything).Return([]domain.RawSymbol{
		{Symbol: "ETHBTC", BaseAsset: "ETH", QuoteAsset: "BTC"},
		{Symbol: "IOTABTC", BaseAsset: "IOTA", QuoteAsset: "BTC"},
		{Symbol: "BNBBTC", BaseAsset: "BNB", QuoteAsset: "BTC"},
	}, nil).Once()
	ex.On("MyTrades", mock.Anything, "ETHBTC").Return(nil, errors.New("connection reset")).Once()

	b := createTestBuilder(t, ex, Options{
		TradeCurrencies: []string{"ETH", "MIOTA", "BNB"},
		QuoteCurrencies: []string{"BTC"},
		Workers:         1,
	})

	_, err := b.Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Contains(t, err.Error(), "ETHBTC")
	ex.AssertNotCalled(t, "MyTrades", mock.Anything, "IOTABTC")
	ex.AssertNotCalled(t, "MyTrades", mock.Anything, "BNBBTC")
	ex.AssertNotCalled(t, "Transfers", mock.Anything)
}

func TestBuilder_ExchangeInfoError(t *testing.T) {
	ex := exchangeMock.NewExchange(t)
	ex.On("ExchangeInfo", mock.Anything).Return(nil, errors.New("maintenance")).Once()

	b := createTestBuilder(t, ex, Options{TradeCurrencies: []string{"BTC"}})

	_, err := b.Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maintenance")
}

func TestBuilder_Inventory(t *testing.T) {
	ex := exchangeMock.NewExchange(t)
	ex.On("AccountBalances", mock.Anything).Return([]domain.RawBalance{
		{Asset: "BTC", Free: "1", Locked: "0.5"},
		{Asset: "ETH", Free: "0.00000000", Locked: "0.00000000"},
		{Asset: "BNB", Free: "3", Locked: "0"},
		{Asset: "XRP", Free: "5", Locked: "0"},
		{Asset: "USD", Free: "0", Locked: "0"},
		{Asset: "IOTA", Free: "10", Locked: "0"},
	}, nil).Once()

	b := createTestBuilder(t, ex, Options{TradeCurrencies: []string{"BTC", "ETH", "MIOTA"}})
	b.now = func() time.Time { return t2 }

	inv, err := b.Inventory(context.Background())
	require.NoError(t, err)

	assert.True(t, t2.Equal(inv.Time))
	assert.Len(t, inv.Holdings, 4)
	assertAmount(t, inv.Holdings["BTC"], "1.5", "BTC")
	assertAmount(t, inv.Holdings["ETH"], "0", "ETH")
	assertAmount(t, inv.Holdings["BNB"], "3", "BNB")
	assertAmount(t, inv.Holdings["MIOTA"], "10", "MIOTA")
	assert.NotContains(t, inv.Holdings, "XRP")
	assert.NotContains(t, inv.Holdings, "USD")

	require.Len(t, inv.Untracked, 1)
	assert.Equal(t, "BNB", inv.Untracked[0].Currency().Symbol)
}

func TestBuilder_InventoryBadBalance(t *testing.T) {
	ex := exchangeMock.NewExchange(t)
	ex.On("AccountBalances", mock.Anything).Return([]domain.RawBalance{
		{Asset: "BTC", Free: "lots", Locked: "0"},
	}, nil).Once()

	b := createTestBuilder(t, ex, Options{TradeCurrencies: []string{"BTC"}})

	_, err := b.Inventory(context.Background())
	assert.Error(t, err)
}

func assertAmount(t *testing.T, a domain.Amount, value, symbol string) {
	t.Helper()
	expected := decimal.RequireFromString(value)
	assert.True(t, expected.Equal(a.Value()), "expected %s %s, got %s", value, symbol, a)
	assert.Equal(t, symbol, a.Currency().Symbol)
}
