package sprout

import (
	"strings"
	"time"
)

// Holding is one purchased lot of a symbol with its own cost basis.
//
// Two purchases of the same symbol are two holdings, they are never averaged.
type Holding struct {
	ID           string
	Symbol       string
	Name         string
	Shares       Quantity
	BuyPrice     Money // cost basis per share
	CurrentPrice Money // latest known market price
	AcquiredAt   time.Time
}

// WatchItem is a symbol followed without owning it.
type WatchItem struct {
	ID           string
	Symbol       string
	AddedPrice   Money
	CurrentPrice Money
	AddedAt      time.Time
}

// Change returns the price change since the item was added, in percent.
func (w WatchItem) Change() Percent { return change(w.AddedPrice.value, w.CurrentPrice.value) }

// NormalizeSymbol returns the canonical form of a ticker symbol.
func NormalizeSymbol(symbol string) string { return strings.ToUpper(strings.TrimSpace(symbol)) }
