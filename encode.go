package sprout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// This file contains the codecs of the documents saved in a Store.
//
// Documents written by the browser version of this tool are still readable:
// cash was a bare number, ids were numbers (milliseconds since epoch), and
// there was no acquisition time.

// jid reads an identifier that can be either a json string or a json number.
type jid string

func (i *jid) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*i = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*i = jid(s)
	default:
		// numbers are kept verbatim
		*i = jid(b)
	}
	return nil
}

type jholding struct {
	ID           jid             `json:"id"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name,omitempty"`
	Shares       decimal.Decimal `json:"shares"`
	BuyPrice     decimal.Decimal `json:"buyPrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	Currency     string          `json:"currency,omitempty"`
	AcquiredAt   *time.Time      `json:"acquiredAt,omitempty"`
}

type jwatch struct {
	ID           jid             `json:"id"`
	Symbol       string          `json:"symbol"`
	AddedPrice   decimal.Decimal `json:"addedPrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	Currency     string          `json:"currency,omitempty"`
	AddedAt      *time.Time      `json:"addedAt,omitempty"`
}

// EncodeCash encodes the cash document.
func EncodeCash(cash Money) ([]byte, error) {
	return json.Marshal(cash)
}

// DecodeCash decodes the cash document, currency is used when the document has none.
func DecodeCash(data []byte, currency string) (Money, error) {
	var cash Money
	if err := json.Unmarshal(data, &cash); err != nil {
		return Money{}, fmt.Errorf("invalid cash document: %w", err)
	}
	if cash.cur == "" {
		cash.cur = currency
	}
	return cash, nil
}

// EncodeHoldings encodes the portfolio document.
func EncodeHoldings(holdings []Holding) ([]byte, error) {
	list := make([]jholding, 0, len(holdings))
	for _, h := range holdings {
		j := jholding{
			ID:           jid(h.ID),
			Symbol:       h.Symbol,
			Name:         h.Name,
			Shares:       h.Shares.value,
			BuyPrice:     h.BuyPrice.value,
			CurrentPrice: h.CurrentPrice.value,
			Currency:     h.BuyPrice.cur,
		}
		if !h.AcquiredAt.IsZero() {
			at := h.AcquiredAt
			j.AcquiredAt = &at
		}
		list = append(list, j)
	}
	return json.MarshalIndent(list, "", "  ")
}

// DecodeHoldings decodes the portfolio document.
//
// Missing ids are generated, a missing current price defaults to the buy price.
func DecodeHoldings(data []byte, currency string) ([]Holding, error) {
	var list []jholding
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("invalid portfolio document: %w", err)
	}
	holdings := make([]Holding, 0, len(list))
	for _, j := range list {
		cur := j.Currency
		if cur == "" {
			cur = currency
		}
		h := Holding{
			ID:           string(j.ID),
			Symbol:       NormalizeSymbol(j.Symbol),
			Name:         j.Name,
			Shares:       Q(j.Shares),
			BuyPrice:     M(j.BuyPrice, cur),
			CurrentPrice: M(j.CurrentPrice, cur),
		}
		if h.ID == "" {
			h.ID = uuid.NewString()
		}
		if h.CurrentPrice.IsZero() {
			h.CurrentPrice = h.BuyPrice
		}
		if j.AcquiredAt != nil {
			h.AcquiredAt = *j.AcquiredAt
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

// EncodeWatchlist encodes the watchlist document.
func EncodeWatchlist(items []WatchItem) ([]byte, error) {
	list := make([]jwatch, 0, len(items))
	for _, w := range items {
		j := jwatch{
			ID:           jid(w.ID),
			Symbol:       w.Symbol,
			AddedPrice:   w.AddedPrice.value,
			CurrentPrice: w.CurrentPrice.value,
			Currency:     w.AddedPrice.cur,
		}
		if !w.AddedAt.IsZero() {
			at := w.AddedAt
			j.AddedAt = &at
		}
		list = append(list, j)
	}
	return json.MarshalIndent(list, "", "  ")
}

// DecodeWatchlist decodes the watchlist document.
func DecodeWatchlist(data []byte, currency string) ([]WatchItem, error) {
	var list []jwatch
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("invalid watchlist document: %w", err)
	}
	items := make([]WatchItem, 0, len(list))
	for _, j := range list {
		cur := j.Currency
		if cur == "" {
			cur = currency
		}
		w := WatchItem{
			ID:           string(j.ID),
			Symbol:       NormalizeSymbol(j.Symbol),
			AddedPrice:   M(j.AddedPrice, cur),
			CurrentPrice: M(j.CurrentPrice, cur),
		}
		if w.ID == "" {
			w.ID = uuid.NewString()
		}
		if w.CurrentPrice.IsZero() {
			w.CurrentPrice = w.AddedPrice
		}
		if j.AddedAt != nil {
			w.AddedAt = *j.AddedAt
		}
		items = append(items, w)
	}
	return items, nil
}
