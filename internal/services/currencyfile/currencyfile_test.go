package currencyfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/cryptotracker/internal/domain"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []domain.RawCoin
		wantErr bool
	}{
		{
			name:  "symbol and name",
			input: "symbol,name\nBTC,Bitcoin\nETH,Ethereum\n",
			want: []domain.RawCoin{
				{"symbol": "BTC", "name": "Bitcoin"},
				{"symbol": "ETH", "name": "Ethereum"},
			},
		},
		{
			name:  "reordered columns and blank rows",
			input: "name, symbol\nBinance Coin, BNB\n,\nIOTA,MIOTA\n",
			want: []domain.RawCoin{
				{"symbol": "BNB", "name": "Binance Coin"},
				{"symbol": "MIOTA", "name": "IOTA"},
			},
		},
		{
			name:    "missing header column",
			input:   "coin,token\nBTC,\n",
			wantErr: true,
		},
		{
			name:    "empty file",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSource_ListCoins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coins.csv")
	require.NoError(t, os.WriteFile(path, []byte("symbol,name\nBTC,Bitcoin\n"), 0o600))

	coins, err := NewSource(path).ListCoins(context.Background())
	require.NoError(t, err)
	require.Len(t, coins, 1)

	coin, err := domain.CoinFromRecord(coins[0])
	require.NoError(t, err)
	assert.Equal(t, "BTC", coin.Symbol)
	assert.Equal(t, "Bitcoin", coin.Name)

	_, err = NewSource(filepath.Join(t.TempDir(), "missing.csv")).ListCoins(context.Background())
	require.Error(t, err)
}

func TestExport(t *testing.T) {
	currencies := []domain.Currency{
		domain.NewFiat("USD", "Dollar"),
		domain.NewCoin("BTC", "Bitcoin", nil),
		domain.NewCoin("XYZ", "Comma, Coin", nil),
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, currencies))
	assert.Equal(t, "coin,name,token\nUSD,Dollar,\nBTC,Bitcoin,\nXYZ,\"Comma, Coin\",\n", buf.String())

	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, ExportFile(path, currencies))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))
}
