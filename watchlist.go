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

// Watchlist is the list of symbols followed without owning them.
//
// It has no cash interaction. A symbol appears at most once.
type Watchlist struct {
	mu       sync.Mutex
	items    []WatchItem
	currency string
	store    Store

	newID func() string
	now   func() time.Time
}

// NewWatchlist creates an in-memory watchlist.
func NewWatchlist(currency string, items ...WatchItem) *Watchlist {
	return &Watchlist{
		items:    slices.Clone(items),
		currency: currency,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// OpenWatchlist loads the watchlist from store, it starts empty if the
// document is missing or corrupt.
func OpenWatchlist(ctx context.Context, store Store, currency string) *Watchlist {
	log := logger.FromContext(ctx)
	w := NewWatchlist(currency)
	w.store = store
	data, err := store.Load(KeyWatchlist)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warnw("cannot read watchlist document, starting empty", "error", err)
		}
		return w
	}
	items, err := DecodeWatchlist(data, currency)
	if err != nil {
		log.Warnw("corrupt watchlist document, starting empty", "error", err)
		return w
	}
	for _, item := range items {
		if currency != "" && (item.AddedPrice.cur != currency || item.CurrentPrice.cur != currency) {
			log.Warnw("watched item in another currency, reading it as "+currency, "symbol", item.Symbol, "currency", item.AddedPrice.cur)
			item.AddedPrice = item.AddedPrice.In(currency)
			item.CurrentPrice = item.CurrentPrice.In(currency)
		}
		if w.find(item.Symbol) >= 0 {
			log.Warnw("dropping duplicated watchlist symbol", "symbol", item.Symbol)
			continue
		}
		w.items = append(w.items, item)
	}
	return w
}

// Items returns a copy of the watched items in insertion order.
func (w *Watchlist) Items() []WatchItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.items)
}

func (w *Watchlist) find(symbol string) int {
	return slices.IndexFunc(w.items, func(i WatchItem) bool { return i.Symbol == symbol })
}

func (w *Watchlist) index(id string) int {
	return slices.IndexFunc(w.items, func(i WatchItem) bool { return i.ID == id })
}

// Add starts watching symbol at price and returns the new item id.
func (w *Watchlist) Add(symbol string, price Money) (string, error) {
	symbol = NormalizeSymbol(symbol)
	switch {
	case symbol == "":
		return "", fmt.Errorf("%w: empty symbol", ErrInvalidInput)
	case !price.IsPositive():
		return "", fmt.Errorf("%w: price must be positive, got %s", ErrInvalidInput, price)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.find(symbol) >= 0 {
		return "", fmt.Errorf("%w: %s is already watched", ErrInvalidInput, symbol)
	}
	price.cur = w.currency
	item := WatchItem{
		ID:           w.newID(),
		Symbol:       symbol,
		AddedPrice:   price,
		CurrentPrice: price,
		AddedAt:      w.now(),
	}
	w.items = append(w.items, item)
	return item.ID, w.save()
}

// Remove stops watching the item with this id.
func (w *Watchlist) Remove(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.index(id)
	if i < 0 {
		return fmt.Errorf("%w: no watchlist item %q", ErrNotFound, id)
	}
	w.items = slices.Delete(w.items, i, i+1)
	return w.save()
}

// ApplyPriceUpdate sets the current price of an item, it reports false when
// the item is gone.
func (w *Watchlist) ApplyPriceUpdate(id string, price Money) (bool, error) {
	if !price.IsPositive() {
		return false, fmt.Errorf("%w: price must be positive, got %s", ErrInvalidInput, price)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.index(id)
	if i < 0 {
		return false, nil
	}
	price.cur = w.currency
	w.items[i].CurrentPrice = price
	return true, w.save()
}

// RefreshTarget returns the watchlist as a target for a Refresher.
func (w *Watchlist) RefreshTarget() RefreshTarget { return watchTarget{w} }

type watchTarget struct{ w *Watchlist }

func (t watchTarget) Name() string     { return "watchlist" }
func (t watchTarget) Currency() string { return t.w.currency }
func (t watchTarget) Entries() []Entry {
	var entries []Entry
	for _, i := range t.w.Items() {
		entries = append(entries, Entry{ID: i.ID, Symbol: i.Symbol})
	}
	return entries
}
func (t watchTarget) ApplyPrice(id string, price Money) (bool, error) {
	return t.w.ApplyPriceUpdate(id, price)
}

func (w *Watchlist) save() error {
	if w.store == nil {
		return nil
	}
	data, err := EncodeWatchlist(w.items)
	if err == nil {
		err = w.store.Save(KeyWatchlist, data)
	}
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrPersist, KeyWatchlist, err)
	}
	return nil
}
