package sprout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testWatchlist(items ...WatchItem) *Watchlist {
	w := NewWatchlist("USD", items...)
	w.newID = sequence("w")
	w.now = func() time.Time { return testTime }
	return w
}

func TestWatchlist_AddRemove(t *testing.T) {
	w := testWatchlist()

	id, err := w.Add(" tsla", USD(250))
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := w.Add("TSLA", USD(260)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Add() duplicate error = %v, want %v", err, ErrInvalidInput)
	}
	if _, err := w.Add("", USD(1)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Add() empty symbol error = %v, want %v", err, ErrInvalidInput)
	}
	if _, err := w.Add("NVDA", USD(0)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Add() zero price error = %v, want %v", err, ErrInvalidInput)
	}

	want := []WatchItem{{ID: id, Symbol: "TSLA", AddedPrice: USD(250), CurrentPrice: USD(250), AddedAt: testTime}}
	if diff := cmp.Diff(want, w.Items(), cmpMoney); diff != "" {
		t.Errorf("Items() mismatch (-want +got):\n%s", diff)
	}

	if err := w.Remove(id); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := w.Remove(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove() twice error = %v, want %v", err, ErrNotFound)
	}
	if len(w.Items()) != 0 {
		t.Errorf("Items() = %v, want none", w.Items())
	}
}

func TestWatchlist_ApplyPriceUpdate(t *testing.T) {
	w := testWatchlist(WatchItem{ID: "x", Symbol: "TSLA", AddedPrice: USD(200), CurrentPrice: USD(200)})
	if ok, err := w.ApplyPriceUpdate("x", USD(250)); !ok || err != nil {
		t.Fatalf("ApplyPriceUpdate() = %v, %v, want true, nil", ok, err)
	}
	item := w.Items()[0]
	if !item.CurrentPrice.Equal(USD(250)) {
		t.Errorf("CurrentPrice = %v, want %v", item.CurrentPrice, USD(250))
	}
	if got := item.Change(); !got.Equal(25) {
		t.Errorf("Change() = %v, want 25%%", got)
	}
	if ok, err := w.ApplyPriceUpdate("gone", USD(250)); ok || err != nil {
		t.Errorf("ApplyPriceUpdate(gone) = %v, %v, want false, nil", ok, err)
	}
}

func TestOpenWatchlist(t *testing.T) {
	ctx := context.Background()
	store := &MemoryStore{}

	if w := OpenWatchlist(ctx, store, "USD"); len(w.Items()) != 0 {
		t.Fatalf("OpenWatchlist() on an empty store = %v, want none", w.Items())
	}

	w := OpenWatchlist(ctx, store, "USD")
	if _, err := w.Add("NVDA", USD(120)); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Add("VOO", USD(480)); err != nil {
		t.Fatal(err)
	}
	reopened := OpenWatchlist(ctx, store, "USD")
	if diff := cmp.Diff(w.Items(), reopened.Items(), cmpMoney); diff != "" {
		t.Errorf("Items() mismatch (-want +got):\n%s", diff)
	}

	store.Save(KeyWatchlist, []byte(`[{"id": 1, "symbol": "nvda", "addedPrice": 100}, {"id": 2, "symbol": "NVDA", "addedPrice": 90}]`))
	legacy := OpenWatchlist(ctx, store, "USD")
	want := []WatchItem{{ID: "1", Symbol: "NVDA", AddedPrice: USD(100), CurrentPrice: USD(100)}}
	if diff := cmp.Diff(want, legacy.Items(), cmpMoney); diff != "" {
		t.Errorf("legacy Items() mismatch (-want +got):\n%s", diff)
	}

	store.Save(KeyWatchlist, []byte(`{`))
	if w := OpenWatchlist(ctx, store, "USD"); len(w.Items()) != 0 {
		t.Errorf("OpenWatchlist() on a corrupt document = %v, want none", w.Items())
	}
}

func TestOpenWatchlist_OtherCurrency(t *testing.T) {
	store := &MemoryStore{}
	store.Save(KeyWatchlist, []byte(`[{"id": "w1", "symbol": "NVDA", "addedPrice": 100, "currentPrice": 125, "currency": "USD"}]`))

	w := OpenWatchlist(context.Background(), store, "EUR")
	want := []WatchItem{{ID: "w1", Symbol: "NVDA", AddedPrice: EUR(100), CurrentPrice: EUR(125)}}
	if diff := cmp.Diff(want, w.Items(), cmpMoney); diff != "" {
		t.Errorf("Items() mismatch (-want +got):\n%s", diff)
	}
	if ok, err := w.ApplyPriceUpdate("w1", EUR(130)); !ok || err != nil {
		t.Errorf("ApplyPriceUpdate() = %v, %v, want true, nil", ok, err)
	}
}
