package sprout

import "errors"

var (
	// ErrInsufficientFunds is returned when an operation would make the cash balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNotFound is returned when a holding or a watchlist item does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for non-positive shares or prices, empty symbols and the like.
	ErrInvalidInput = errors.New("invalid input")
	// ErrQuoteUnavailable wraps any failure of a QuoteSource.
	ErrQuoteUnavailable = errors.New("quote unavailable")
	// ErrPersist is returned when a mutation was applied but could not be saved.
	ErrPersist = errors.New("cannot persist")
)
