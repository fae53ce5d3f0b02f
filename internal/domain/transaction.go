package domain

import (
	"fmt"
	"strings"
	"time"
)

// TransactionType kind of ledger entry.
type TransactionType int

const (
	TransactionTypeUnknown TransactionType = iota
	TransactionTypeWithdrawal
	TransactionTypeDeposit
	TransactionTypeBuy
	TransactionTypeSell
	// TransactionTypeCumulative result of merging transactions of different types.
	TransactionTypeCumulative
)

const (
	transactionStringUnknown    = "unknown"
	transactionStringWithdrawal = "withdrawal"
	transactionStringDeposit    = "deposit"
	transactionStringBuy        = "buy"
	transactionStringSell       = "sell"
	transactionStringCumulative = "cumulative"
)

// String returns the string representation of the type.
func (t TransactionType) String() string {
	switch t {
	case TransactionTypeWithdrawal:
		return transactionStringWithdrawal
	case TransactionTypeDeposit:
		return transactionStringDeposit
	case TransactionTypeBuy:
		return transactionStringBuy
	case TransactionTypeSell:
		return transactionStringSell
	case TransactionTypeCumulative:
		return transactionStringCumulative
	default:
		return transactionStringUnknown
	}
}

// ParseTransactionType maps a tag to a type. Unrecognised tags yield
// TransactionTypeUnknown and false rather than an error.
func ParseTransactionType(tag string) (TransactionType, bool) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case transactionStringWithdrawal:
		return TransactionTypeWithdrawal, true
	case transactionStringDeposit:
		return TransactionTypeDeposit, true
	case transactionStringBuy:
		return TransactionTypeBuy, true
	case transactionStringSell:
		return TransactionTypeSell, true
	case transactionStringCumulative:
		return TransactionTypeCumulative, true
	case transactionStringUnknown:
		return TransactionTypeUnknown, true
	default:
		return TransactionTypeUnknown, false
	}
}

// Transaction timestamped bundle of amounts.
// Amounts may repeat a currency until compacted.
type Transaction struct {
	// Pair nil for aggregates mixing several pairs.
	Pair    *Pair
	Time    time.Time
	Amounts []Amount
	Type    TransactionType
}

// NewTransaction creates a transaction owning a copy of the amounts.
func NewTransaction(pair *Pair, when time.Time, amounts []Amount, txType TransactionType) Transaction {
	return Transaction{
		Pair:    pair,
		Time:    when,
		Amounts: append([]Amount(nil), amounts...),
		Type:    txType,
	}
}

// TransactionFromRecord creates a transaction from an exchange record with a
// millisecond timestamp and a type tag. The bool is false when the tag was not recognised.
func TransactionFromRecord(pair *Pair, millis int64, amounts []Amount, tag string) (Transaction, bool) {
	txType, ok := ParseTransactionType(tag)
	return NewTransaction(pair, time.UnixMilli(millis), amounts, txType), ok
}

// Merge combines two transactions: the pair survives only if shared, the time is
// the later one, differing types become cumulative, and amounts are concatenated.
func Merge(a, b Transaction) Transaction {
	var pair *Pair
	if samePair(a.Pair, b.Pair) {
		pair = a.Pair
	}

	when := a.Time
	if b.Time.After(when) {
		when = b.Time
	}

	txType := a.Type
	if a.Type != b.Type {
		txType = TransactionTypeCumulative
	}

	amounts := make([]Amount, 0, len(a.Amounts)+len(b.Amounts))
	amounts = append(amounts, a.Amounts...)
	amounts = append(amounts, b.Amounts...)

	return Transaction{Pair: pair, Time: when, Amounts: amounts, Type: txType}
}

// Compact returns a copy with one amount per currency.
func (t Transaction) Compact() (Transaction, error) {
	amounts, err := CompactAmounts(t.Amounts)
	if err != nil {
		return Transaction{}, err
	}
	t.Amounts = amounts
	return t, nil
}

// Before orders transactions by time only.
func (t Transaction) Before(o Transaction) bool {
	return t.Time.Before(o.Time)
}

// String returns the string representation.
func (t Transaction) String() string {
	pair := "-"
	if t.Pair != nil {
		pair = t.Pair.String()
	}
	parts := make([]string, len(t.Amounts))
	for i, a := range t.Amounts {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s %s [%s]: %s", pair, t.Time.UTC().Format(time.RFC3339), strings.Join(parts, ", "), t.Type)
}
