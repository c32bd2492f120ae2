package sprout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a single latest-price observation for a symbol.
type Quote struct {
	Symbol string
	Price  decimal.Decimal
	At     time.Time // latest trading day, zero if unknown
	Source string
}

// Overview describes a company, it is used for research only and never
// touches the ledger.
type Overview struct {
	Symbol        string
	Name          string
	Description   string
	Exchange      string
	Currency      string
	Sector        string
	Industry      string
	MarketCap     decimal.Decimal
	PERatio       decimal.Decimal
	DividendYield decimal.Decimal // as a ratio, 0.005 is 0.5%
	Week52High    decimal.Decimal
	Week52Low     decimal.Decimal
}

//go:generate mockgen -source=quote.go -destination=mocks/mock_quote.go

// QuoteSource returns current prices from a third-party service.
//
// Failures must be returned as *QuoteError.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
	Overview(ctx context.Context, symbol string) (Overview, error)
}

// Match is a symbol found by a keyword search.
type Match struct {
	Symbol   string
	Name     string
	Type     string
	Region   string
	Currency string
	Score    float64 // between 0 and 1
}

// Searcher finds symbols matching keywords. Not every QuoteSource is a Searcher.
type Searcher interface {
	Search(ctx context.Context, keywords string) ([]Match, error)
}

// QuoteErrorKind classifies QuoteSource failures.
type QuoteErrorKind int

const (
	QuoteNotFound QuoteErrorKind = iota + 1
	QuoteRateLimited
	QuoteNetworkError
	QuoteInvalidCredential
)

func (k QuoteErrorKind) String() string {
	switch k {
	case QuoteNotFound:
		return "not found"
	case QuoteRateLimited:
		return "rate limited"
	case QuoteNetworkError:
		return "network error"
	case QuoteInvalidCredential:
		return "invalid credential"
	default:
		return "unknown"
	}
}

// QuoteError is the failure of a QuoteSource call for a symbol.
//
// errors.Is(err, ErrQuoteUnavailable) is true for any QuoteError.
type QuoteError struct {
	Symbol string
	Kind   QuoteErrorKind
	Err    error // optional cause
}

// NewQuoteError creates a QuoteError, cause can be nil.
func NewQuoteError(symbol string, kind QuoteErrorKind, cause error) *QuoteError {
	return &QuoteError{Symbol: symbol, Kind: kind, Err: cause}
}

func (e *QuoteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("quote for %s: %s", e.Symbol, e.Kind)
	}
	return fmt.Sprintf("quote for %s: %s: %v", e.Symbol, e.Kind, e.Err)
}

func (e *QuoteError) Unwrap() error { return e.Err }

func (e *QuoteError) Is(target error) bool { return target == ErrQuoteUnavailable }

// QuoteErrorKindOf returns the kind of the QuoteError in err's chain.
func QuoteErrorKindOf(err error) (QuoteErrorKind, bool) {
	var qe *QuoteError
	if errors.As(err, &qe) {
		return qe.Kind, true
	}
	return 0, false
}
