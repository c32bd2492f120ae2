package sprout

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"sync"
	"time"

	"github.com/etnz/sprout/logger"
	"github.com/google/uuid"
)

// Ledger owns the cash balance and the holdings of a simulated portfolio.
//
// Ledger operations never interleave, and either fully apply or leave the
// ledger unchanged: cash is never negative as the result of an operation and
// every holding has a positive number of shares.
//
// When the ledger has a Store, every successful mutation is followed by a save
// of the affected documents. A save failure is reported wrapped in ErrPersist,
// the mutation itself stays applied.
type Ledger struct {
	mu       sync.Mutex
	cash     Money
	holdings []Holding // in insertion order
	store    Store

	newID func() string
	now   func() time.Time
}

// NewLedger creates an in-memory ledger.
func NewLedger(cash Money, holdings ...Holding) *Ledger {
	return &Ledger{
		cash:     cash,
		holdings: slices.Clone(holdings),
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// OpenLedger loads the ledger from store.
//
// A missing or corrupt document falls back to the seed, it never fails.
func OpenLedger(ctx context.Context, store Store, seed Seed) *Ledger {
	log := logger.FromContext(ctx)
	l := NewLedger(seed.CashMoney())
	l.store = store

	data, err := store.Load(KeyCash)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debugw("no cash document, using the seed", "cash", l.cash)
	case err != nil:
		log.Warnw("cannot read cash document, using the seed", "error", err)
	default:
		if cash, err := DecodeCash(data, seed.Currency); err != nil {
			log.Warnw("corrupt cash document, using the seed", "error", err)
		} else {
			l.cash = cash
		}
	}

	data, err = store.Load(KeyPortfolio)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debugw("no portfolio document, using the seed")
		l.holdings = seed.NewHoldings(l.now())
	case err != nil:
		log.Warnw("cannot read portfolio document, using the seed", "error", err)
		l.holdings = seed.NewHoldings(l.now())
	default:
		holdings, err := DecodeHoldings(data, seed.Currency)
		if err != nil {
			log.Warnw("corrupt portfolio document, using the seed", "error", err)
			holdings = seed.NewHoldings(l.now())
		}
		l.holdings = holdings
	}

	// The configured currency wins over the one the documents were saved in.
	currency := seed.Currency
	if currency == "" {
		currency = l.cash.cur
	}
	if l.cash.cur != currency {
		log.Warnw("cash document in another currency, reading it as "+currency, "currency", l.cash.cur)
		l.cash = l.cash.In(currency)
	}
	l.holdings = sanitize(ctx, l.holdings, currency)
	return l
}

// sanitize drops persisted holdings that would break the ledger invariants,
// and reads the others in currency.
func sanitize(ctx context.Context, holdings []Holding, currency string) []Holding {
	log := logger.FromContext(ctx)
	seen := make(map[string]bool)
	result := holdings[:0]
	for _, h := range holdings {
		if h.BuyPrice.cur != currency || h.CurrentPrice.cur != currency {
			log.Warnw("holding in another currency, reading it as "+currency, "id", h.ID, "currency", h.BuyPrice.cur)
			h.BuyPrice = h.BuyPrice.In(currency)
			h.CurrentPrice = h.CurrentPrice.In(currency)
		}
		if !h.Shares.IsPositive() {
			log.Warnw("dropping holding without shares", "id", h.ID, "symbol", h.Symbol)
			continue
		}
		if seen[h.ID] {
			log.Warnw("dropping holding with a duplicated id", "id", h.ID, "symbol", h.Symbol)
			continue
		}
		seen[h.ID] = true
		result = append(result, h)
	}
	return result
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cash
}

// Holdings returns a copy of the holdings in insertion order.
func (l *Ledger) Holdings() []Holding {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.holdings)
}

// Holding returns the holding with this id.
func (l *Ledger) Holding(id string) (Holding, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return Holding{}, false
	}
	return l.holdings[i], true
}

// Symbols returns the held symbols, each once, in order of first purchase.
func (l *Ledger) Symbols() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var symbols []string
	for _, h := range l.holdings {
		if !slices.Contains(symbols, h.Symbol) {
			symbols = append(symbols, h.Symbol)
		}
	}
	return symbols
}

// Currency returns the currency of the cash account.
func (l *Ledger) Currency() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cash.cur
}

func (l *Ledger) index(id string) int {
	return slices.IndexFunc(l.holdings, func(h Holding) bool { return h.ID == id })
}

// checkCurrency rejects amounts that are not in the cash currency.
func (l *Ledger) checkCurrency(m Money) error {
	if m.cur != "" && l.cash.cur != "" && m.cur != l.cash.cur {
		return fmt.Errorf("%w: amount in %s, the portfolio is in %s", ErrInvalidInput, m.cur, l.cash.cur)
	}
	return nil
}

// AdjustCash adds delta to the cash balance and returns the new balance.
//
// A negative delta is a withdrawal, it fails with ErrInsufficientFunds when
// there isn't enough cash. Deposits never fail.
func (l *Ledger) AdjustCash(delta Money) (Money, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.checkCurrency(delta); err != nil {
		return l.cash, err
	}
	next := l.cash.Add(delta)
	if delta.IsNegative() && next.IsNegative() {
		return l.cash, fmt.Errorf("%w: cannot withdraw %s, only %s available", ErrInsufficientFunds, delta.Neg(), l.cash)
	}
	l.cash = next
	return l.cash, l.save(KeyCash)
}

// Deposit adds a positive amount to the cash balance.
func (l *Ledger) Deposit(amount Money) (Money, error) {
	if !amount.IsPositive() {
		return l.Cash(), fmt.Errorf("%w: deposit must be positive, got %s", ErrInvalidInput, amount)
	}
	return l.AdjustCash(amount)
}

// Withdraw removes a positive amount from the cash balance.
func (l *Ledger) Withdraw(amount Money) (Money, error) {
	if !amount.IsPositive() {
		return l.Cash(), fmt.Errorf("%w: withdrawal must be positive, got %s", ErrInvalidInput, amount)
	}
	return l.AdjustCash(amount.Neg())
}

// Buy purchases shares at price and returns the id of the new holding.
//
// The holding is a new lot, its buy price and current price are both price.
func (l *Ledger) Buy(symbol string, shares Quantity, price Money) (string, error) {
	symbol = NormalizeSymbol(symbol)
	switch {
	case symbol == "":
		return "", fmt.Errorf("%w: empty symbol", ErrInvalidInput)
	case !shares.IsPositive():
		return "", fmt.Errorf("%w: shares must be positive, got %s", ErrInvalidInput, shares)
	case !price.IsPositive():
		return "", fmt.Errorf("%w: price must be positive, got %s", ErrInvalidInput, price)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.checkCurrency(price); err != nil {
		return "", err
	}
	cost := price.Mul(shares)
	if cost.GreaterThan(l.cash) {
		return "", fmt.Errorf("%w: %s shares of %s cost %s, only %s available", ErrInsufficientFunds, shares, symbol, cost, l.cash)
	}
	price.cur = l.cash.cur
	h := Holding{
		ID:           l.newID(),
		Symbol:       symbol,
		Name:         symbol,
		Shares:       shares,
		BuyPrice:     price,
		CurrentPrice: price,
		AcquiredAt:   l.now(),
	}
	l.holdings = append(l.holdings, h)
	l.cash = l.cash.Sub(cost)
	return h.ID, l.save(KeyCash, KeyPortfolio)
}

// Sell liquidates a holding at its current price and returns the amount credited.
func (l *Ledger) Sell(id string) (Money, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return Money{}, fmt.Errorf("%w: no holding %q", ErrNotFound, id)
	}
	h := l.holdings[i]
	credit := MarketValue(h)
	l.holdings = slices.Delete(l.holdings, i, i+1)
	l.cash = l.cash.Add(credit)
	return credit, l.save(KeyCash, KeyPortfolio)
}

// EditHolding replaces the shares and the buy price of a holding.
//
// The cost difference between the new and the old lot is charged to (or
// refunded into) the cash balance. An increase that cannot be funded fails
// with ErrInsufficientFunds and nothing changes. The current price is kept.
func (l *Ledger) EditHolding(id string, shares Quantity, buyPrice Money) error {
	switch {
	case !shares.IsPositive():
		return fmt.Errorf("%w: shares must be positive, got %s", ErrInvalidInput, shares)
	case !buyPrice.IsPositive():
		return fmt.Errorf("%w: buy price must be positive, got %s", ErrInvalidInput, buyPrice)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.checkCurrency(buyPrice); err != nil {
		return err
	}
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: no holding %q", ErrNotFound, id)
	}
	h := l.holdings[i]
	diff := buyPrice.Mul(shares).Sub(h.BuyPrice.Mul(h.Shares))
	if diff.IsPositive() && diff.GreaterThan(l.cash) {
		return fmt.Errorf("%w: the edit costs %s more, only %s available", ErrInsufficientFunds, diff, l.cash)
	}
	buyPrice.cur = h.BuyPrice.cur
	h.Shares, h.BuyPrice = shares, buyPrice
	l.holdings[i] = h
	l.cash = l.cash.Sub(diff)
	return l.save(KeyCash, KeyPortfolio)
}

// LiquidateAll sells every holding at its current price and returns the
// amount credited. It does nothing on an empty portfolio.
func (l *Ledger) LiquidateAll() (Money, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := TotalValue(l.holdings)
	if len(l.holdings) == 0 {
		return M(0, l.cash.cur), nil
	}
	l.cash = l.cash.Add(total)
	l.holdings = l.holdings[:0]
	return total, l.save(KeyCash, KeyPortfolio)
}

// ApplyPriceUpdate sets the current price of a holding.
//
// It reports false, and no error, when the holding does not exist anymore: it
// may have been sold while a refresh was running.
func (l *Ledger) ApplyPriceUpdate(id string, price Money) (bool, error) {
	if !price.IsPositive() {
		return false, fmt.Errorf("%w: price must be positive, got %s", ErrInvalidInput, price)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.checkCurrency(price); err != nil {
		return false, err
	}
	i := l.index(id)
	if i < 0 {
		return false, nil
	}
	price.cur = l.holdings[i].CurrentPrice.cur
	l.holdings[i].CurrentPrice = price
	return true, l.save(KeyPortfolio)
}

// RefreshTarget returns the holdings as a target for a Refresher.
func (l *Ledger) RefreshTarget() RefreshTarget { return ledgerTarget{l} }

type ledgerTarget struct{ l *Ledger }

func (t ledgerTarget) Name() string     { return "holdings" }
func (t ledgerTarget) Currency() string { return t.l.Currency() }
func (t ledgerTarget) Entries() []Entry {
	var entries []Entry
	for _, h := range t.l.Holdings() {
		entries = append(entries, Entry{ID: h.ID, Symbol: h.Symbol})
	}
	return entries
}
func (t ledgerTarget) ApplyPrice(id string, price Money) (bool, error) {
	return t.l.ApplyPriceUpdate(id, price)
}

// save writes the documents for keys, it must be called with the lock held.
func (l *Ledger) save(keys ...string) error {
	if l.store == nil {
		return nil
	}
	var errs error
	for _, key := range keys {
		var data []byte
		var err error
		switch key {
		case KeyCash:
			data, err = EncodeCash(l.cash)
		case KeyPortfolio:
			data, err = EncodeHoldings(l.holdings)
		default:
			err = fmt.Errorf("unknown document")
		}
		if err == nil {
			err = l.store.Save(key, data)
		}
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%w %q: %w", ErrPersist, key, err))
		}
	}
	return errs
}
