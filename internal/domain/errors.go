package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownCurrency is returned when a symbol or alias is not in the registry.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrCurrencyMismatch is returned by arithmetic between amounts of different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrCurrencyNotRecognized is returned when a pair leg cannot be resolved.
	ErrCurrencyNotRecognized = errors.New("currency not recognized")
)

// UnknownCurrencyError carries the symbol that failed to resolve.
type UnknownCurrencyError struct {
	Symbol string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown currency %q", e.Symbol)
}

// Is matches ErrUnknownCurrency.
func (e *UnknownCurrencyError) Is(target error) bool {
	return target == ErrUnknownCurrency
}

// CurrencyMismatchError carries both sides of a rejected addition.
type CurrencyMismatchError struct {
	Left  Currency
	Right Currency
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("cannot add amounts with different currencies: %s, %s", e.Left, e.Right)
}

// Is matches ErrCurrencyMismatch.
func (e *CurrencyMismatchError) Is(target error) bool {
	return target == ErrCurrencyMismatch
}

// PairError wraps the lookup failure of a pair leg with the pair symbol.
type PairError struct {
	Symbol string
	Err    error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("currency not recognized in pair %s: %v", e.Symbol, e.Err)
}

// Is matches ErrCurrencyNotRecognized.
func (e *PairError) Is(target error) bool {
	return target == ErrCurrencyNotRecognized
}

func (e *PairError) Unwrap() error {
	return e.Err
}
