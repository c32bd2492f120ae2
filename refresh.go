package sprout

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/etnz/sprout/logger"
	"github.com/hako/durafmt"
)

//go:generate mockgen -source=refresh.go -destination=mocks/mock_refresh.go

// RefreshState is the state of a Refresher.
type RefreshState int

const (
	Idle RefreshState = iota
	Confirming
	Running
	Completed
)

func (s RefreshState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Confirming:
		return "confirming"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Entry is a priced item of a RefreshTarget.
type Entry struct {
	ID     string
	Symbol string
}

// RefreshTarget is a collection whose prices can be refreshed: the holdings of
// a Ledger or the items of a Watchlist.
type RefreshTarget interface {
	Name() string
	Currency() string
	Entries() []Entry
	// ApplyPrice sets the current price of the entry id, it returns false if
	// the entry does not exist anymore.
	ApplyPrice(id string, price Money) (bool, error)
}

// Prompter is the user in front of a refresh.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(message string) bool
	// Notify tells the user about a failure, the refresh goes on.
	Notify(message string)
}

// RefreshFailure is a symbol that could not be refreshed.
type RefreshFailure struct {
	Symbol string
	Err    error
}

// RefreshReport is the outcome of a Refresher run.
type RefreshReport struct {
	Target    string
	Symbols   int // distinct symbols to refresh
	Succeeded int
	Failed    int
	Failures  []RefreshFailure
	Declined  bool // the user did not confirm, nothing happened
	Elapsed   time.Duration
}

// Refresher re-prices every symbol of a target, one quote call at a time.
//
// A Refresher runs one batch at a time. A symbol that fails keeps its old
// price and never aborts the batch.
type Refresher struct {
	Quotes   QuoteSource
	Limiter  Limiter  // nil means no pacing
	Prompter Prompter // nil confirms everything and notifies nobody

	mu      sync.Mutex
	state   RefreshState
	running sync.Mutex
}

// NewRefresher creates a Refresher.
func NewRefresher(quotes QuoteSource, limiter Limiter, prompter Prompter) *Refresher {
	return &Refresher{Quotes: quotes, Limiter: limiter, Prompter: prompter}
}

// State returns the current state.
func (r *Refresher) State() RefreshState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Refresher) setState(s RefreshState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = s
}

// symbols returns the distinct symbols of entries in order of first appearance.
func symbols(entries []Entry) []string {
	var result []string
	for _, e := range entries {
		if !slices.Contains(result, e.Symbol) {
			result = append(result, e.Symbol)
		}
	}
	return result
}

// ETA returns the expected duration of a refresh of n symbols.
func (r *Refresher) ETA(n int) time.Duration {
	if r.Limiter == nil || n < 2 {
		return 0
	}
	return time.Duration(n-1) * r.Limiter.Interval()
}

func (r *Refresher) confirm(message string) bool {
	if r.Prompter == nil {
		return true
	}
	return r.Prompter.Confirm(message)
}

func (r *Refresher) notify(message string) {
	if r.Prompter != nil {
		r.Prompter.Notify(message)
	}
}

// Run refreshes the prices of target.
//
// The entries are read once, at the start: entries removed during the run are
// silently skipped and entries added are left for the next run. Each symbol is
// quoted once and its price is applied to every entry holding it.
//
// The returned error is ctx.Err() if the run was cancelled, the report then
// covers the symbols processed so far. Otherwise it joins the persistence
// errors, quote failures are only reported in RefreshReport.
func (r *Refresher) Run(ctx context.Context, target RefreshTarget) (RefreshReport, error) {
	r.running.Lock()
	defer r.running.Unlock()
	log := logger.FromContext(ctx)

	entries := target.Entries()
	syms := symbols(entries)
	report := RefreshReport{Target: target.Name(), Symbols: len(syms)}
	if len(syms) == 0 {
		r.setState(Completed)
		return report, nil
	}

	r.setState(Confirming)
	msg := fmt.Sprintf("Refresh %d %s symbols?", len(syms), target.Name())
	if eta := r.ETA(len(syms)); eta > 0 {
		msg = fmt.Sprintf("Refresh %d %s symbols? It takes about %s.", len(syms), target.Name(), durafmt.Parse(eta).LimitFirstN(2))
	}
	if !r.confirm(msg) {
		r.setState(Idle)
		report.Declined = true
		return report, nil
	}

	r.setState(Running)
	defer r.setState(Completed)
	start := time.Now()
	var errs error
	for i, symbol := range syms {
		if r.Limiter != nil {
			if err := r.Limiter.Wait(ctx); err != nil {
				report.Elapsed = time.Since(start)
				return report, err
			}
		}
		if err := ctx.Err(); err != nil {
			report.Elapsed = time.Since(start)
			return report, err
		}
		log.Debugw("refreshing", "target", target.Name(), "symbol", symbol, "index", i, "count", len(syms))

		q, err := r.Quotes.Quote(ctx, symbol)
		if err == nil && !q.Price.IsPositive() {
			err = NewQuoteError(symbol, QuoteNotFound, fmt.Errorf("non positive price %s", q.Price))
		}
		if err != nil {
			if ctx.Err() != nil {
				report.Elapsed = time.Since(start)
				return report, ctx.Err()
			}
			log.Infow("cannot refresh", "symbol", symbol, "error", err)
			report.Failed++
			report.Failures = append(report.Failures, RefreshFailure{Symbol: symbol, Err: err})
			r.notify(fmt.Sprintf("Cannot refresh %s: %v", symbol, err))
			continue
		}

		price := M(q.Price, target.Currency())
		for _, e := range entries {
			if e.Symbol != symbol {
				continue
			}
			applied, err := target.ApplyPrice(e.ID, price)
			if err != nil {
				errs = errors.Join(errs, err)
			}
			if !applied && err == nil {
				log.Debugw("entry is gone, skipping", "id", e.ID, "symbol", symbol)
			}
		}
		report.Succeeded++
	}
	report.Elapsed = time.Since(start)
	return report, errs
}
