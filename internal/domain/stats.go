package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RawCoin is a flat market-data record as returned by a coin listing source.
type RawCoin map[string]any

// StatKind tells which field of a StatValue holds the value.
type StatKind int

const (
	StatKindString StatKind = iota
	StatKindInt
	StatKindDecimal
)

// StatValue is a best-effort parsed statistic: an integer, a decimal, or the raw string.
type StatValue struct {
	Kind    StatKind
	Int     int64
	Decimal decimal.Decimal
	Str     string
}

// ParseStatValue coerces a raw field, trying int first, then decimal, then keeping the string.
func ParseStatValue(raw any) StatValue {
	switch v := raw.(type) {
	case nil:
		return StatValue{Kind: StatKindString}
	case int:
		return StatValue{Kind: StatKindInt, Int: int64(v)}
	case int64:
		return StatValue{Kind: StatKindInt, Int: v}
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < math.MaxInt64 {
			return StatValue{Kind: StatKindInt, Int: int64(v)}
		}
		return StatValue{Kind: StatKindDecimal, Decimal: decimal.NewFromFloat(v)}
	case decimal.Decimal:
		return StatValue{Kind: StatKindDecimal, Decimal: v}
	case json.Number:
		return parseStatString(v.String())
	case string:
		return parseStatString(v)
	default:
		return StatValue{Kind: StatKindString, Str: fmt.Sprint(v)}
	}
}

func parseStatString(s string) StatValue {
	trimmed := strings.TrimSpace(s)
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return StatValue{Kind: StatKindInt, Int: i}
	}
	if d, err := decimal.NewFromString(trimmed); err == nil {
		return StatValue{Kind: StatKindDecimal, Decimal: d}
	}
	return StatValue{Kind: StatKindString, Str: s}
}

// Number returns the numeric value if the statistic parsed as a number.
func (v StatValue) Number() (decimal.Decimal, bool) {
	switch v.Kind {
	case StatKindInt:
		return decimal.NewFromInt(v.Int), true
	case StatKindDecimal:
		return v.Decimal, true
	default:
		return decimal.Zero, false
	}
}

// IsZero reports whether nothing was parsed.
func (v StatValue) IsZero() bool {
	return v.Kind == StatKindString && v.Str == ""
}

// String returns the string representation.
func (v StatValue) String() string {
	switch v.Kind {
	case StatKindInt:
		return strconv.FormatInt(v.Int, 10)
	case StatKindDecimal:
		return v.Decimal.String()
	default:
		return v.Str
	}
}

// CoinStats market statistics of a coin.
// Unknown fields of the source record land in Extra.
type CoinStats struct {
	ID               StatValue
	Rank             StatValue
	PriceUSD         StatValue
	PriceBTC         StatValue
	Volume24hUSD     StatValue
	MarketCapUSD     StatValue
	AvailableSupply  StatValue
	TotalSupply      StatValue
	MaxSupply        StatValue
	PercentChange1h  StatValue
	PercentChange24h StatValue
	PercentChange7d  StatValue
	LastUpdated      StatValue
	Extra            map[string]StatValue
}

var coinStatFields = map[string]func(*CoinStats) *StatValue{
	"id":                 func(s *CoinStats) *StatValue { return &s.ID },
	"rank":               func(s *CoinStats) *StatValue { return &s.Rank },
	"price_usd":          func(s *CoinStats) *StatValue { return &s.PriceUSD },
	"price_btc":          func(s *CoinStats) *StatValue { return &s.PriceBTC },
	"24h_volume_usd":     func(s *CoinStats) *StatValue { return &s.Volume24hUSD },
	"market_cap_usd":     func(s *CoinStats) *StatValue { return &s.MarketCapUSD },
	"available_supply":   func(s *CoinStats) *StatValue { return &s.AvailableSupply },
	"total_supply":       func(s *CoinStats) *StatValue { return &s.TotalSupply },
	"max_supply":         func(s *CoinStats) *StatValue { return &s.MaxSupply },
	"percent_change_1h":  func(s *CoinStats) *StatValue { return &s.PercentChange1h },
	"percent_change_24h": func(s *CoinStats) *StatValue { return &s.PercentChange24h },
	"percent_change_7d":  func(s *CoinStats) *StatValue { return &s.PercentChange7d },
	"last_updated":       func(s *CoinStats) *StatValue { return &s.LastUpdated },
}

// ParseCoinStats coerces every field of the record except symbol and name.
func ParseCoinStats(record RawCoin) *CoinStats {
	stats := &CoinStats{Extra: make(map[string]StatValue)}
	for key, raw := range record {
		if key == "symbol" || key == "name" {
			continue
		}
		value := ParseStatValue(raw)
		if field, ok := coinStatFields[key]; ok {
			*field(stats) = value
			continue
		}
		stats.Extra[key] = value
	}

	return stats
}

// Price returns the USD price when known.
func (s *CoinStats) Price() (decimal.Decimal, bool) {
	if s == nil {
		return decimal.Zero, false
	}
	return s.PriceUSD.Number()
}
