package domain

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Amount single-currency value. The currency is fixed at construction.
type Amount struct {
	value    decimal.Decimal
	currency Currency
}

// NewAmount creates an amount.
func NewAmount(value decimal.Decimal, currency Currency) Amount {
	return Amount{value: value, currency: currency}
}

// Value returns the raw numeric value.
func (a Amount) Value() decimal.Decimal {
	return a.value
}

// Currency returns the currency of the amount.
func (a Amount) Currency() Currency {
	return a.currency
}

// Add sums two amounts of the same currency.
func (a Amount) Add(b Amount) (Amount, error) {
	if !a.currency.Equal(b.currency) {
		return Amount{}, &CurrencyMismatchError{Left: a.currency, Right: b.currency}
	}
	return Amount{value: a.value.Add(b.value), currency: a.currency}, nil
}

// AddValue adds a bare number, which is taken to be in the amount's own currency.
func (a Amount) AddValue(v decimal.Decimal) Amount {
	return Amount{value: a.value.Add(v), currency: a.currency}
}

// Neg returns the amount with the opposite sign.
func (a Amount) Neg() Amount {
	return Amount{value: a.value.Neg(), currency: a.currency}
}

// IsZero reports whether the value is zero.
func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// Equal compares value and currency.
func (a Amount) Equal(b Amount) bool {
	return a.currency.Equal(b.currency) && a.value.Equal(b.value)
}

// String returns the string representation. Fiat values use the currency's minor unit.
func (a Amount) String() string {
	if a.currency.IsFiat() {
		if cur := money.GetCurrency(a.currency.Symbol); cur != nil {
			fraction := int32(cur.Fraction)
			minor := a.value.Round(fraction).Shift(fraction).IntPart()
			return fmt.Sprintf("%s: %s", a.currency.Symbol, cur.Formatter().Format(minor))
		}
	}
	return fmt.Sprintf("%s: %s", a.currency.Symbol, a.value.String())
}

// SumAmounts adds amounts that must all share one currency.
func SumAmounts(amounts []Amount) (Amount, error) {
	if len(amounts) == 0 {
		return Amount{}, errors.New("nothing to sum")
	}

	total := amounts[0]
	for _, a := range amounts[1:] {
		var err error
		if total, err = total.Add(a); err != nil {
			return Amount{}, err
		}
	}

	return total, nil
}

// CompactAmounts folds same-currency amounts into one entry per currency,
// keeping the order in which currencies first appear.
func CompactAmounts(amounts []Amount) ([]Amount, error) {
	groups := make([][]Amount, 0, len(amounts))
	for _, a := range amounts {
		placed := false
		for i, g := range groups {
			if g[0].currency.Equal(a.currency) {
				groups[i] = append(g, a)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []Amount{a})
		}
	}

	compacted := make([]Amount, 0, len(groups))
	for _, g := range groups {
		total, err := SumAmounts(g)
		if err != nil {
			return nil, errors.Wrapf(err, "compact %s", g[0].currency.Symbol)
		}
		compacted = append(compacted, total)
	}

	return compacted, nil
}
