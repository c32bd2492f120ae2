package renderer

import "github.com/etnz/sprout"

// Watchlist is the view of the watched symbols.
type Watchlist struct {
	Items []WatchRow
}

// WatchRow is a watched symbol.
type WatchRow struct {
	ID           string
	ShortID      string
	Symbol       string
	AddedPrice   sprout.Money
	CurrentPrice sprout.Money
	Change       sprout.Percent
	Added        string
}

// NewWatchlist creates the view of watched items.
func NewWatchlist(items []sprout.WatchItem) *Watchlist {
	w := &Watchlist{Items: make([]WatchRow, 0, len(items))}
	for _, i := range items {
		r := WatchRow{
			ID:           i.ID,
			ShortID:      ShortID(i.ID),
			Symbol:       i.Symbol,
			AddedPrice:   i.AddedPrice,
			CurrentPrice: i.CurrentPrice,
			Change:       i.Change(),
		}
		if !i.AddedAt.IsZero() {
			r.Added = i.AddedAt.Format("2006-01-02")
		}
		w.Items = append(w.Items, r)
	}
	return w
}
