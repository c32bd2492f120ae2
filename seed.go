package sprout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Seed is the starting state of a ledger that has never been saved.
type Seed struct {
	Currency string
	Cash     decimal.Decimal
	Holdings []SeedHolding
}

// SeedHolding is an example holding of a Seed.
type SeedHolding struct {
	Symbol       string
	Shares       decimal.Decimal
	BuyPrice     decimal.Decimal
	CurrentPrice decimal.Decimal
}

// DefaultSeed returns a small cash balance and one example Apple lot.
func DefaultSeed() Seed {
	return Seed{
		Currency: "USD",
		Cash:     decimal.RequireFromString("2.66"),
		Holdings: []SeedHolding{{
			Symbol:       "AAPL",
			Shares:       decimal.NewFromInt(5),
			BuyPrice:     decimal.NewFromInt(150),
			CurrentPrice: decimal.NewFromInt(180),
		}},
	}
}

// CashMoney returns the seed cash.
func (s Seed) CashMoney() Money { return M(s.Cash, s.Currency) }

// NewHoldings creates the seed holdings, with fresh ids.
func (s Seed) NewHoldings(at time.Time) []Holding {
	holdings := make([]Holding, 0, len(s.Holdings))
	for _, sh := range s.Holdings {
		h := Holding{
			ID:           uuid.NewString(),
			Symbol:       NormalizeSymbol(sh.Symbol),
			Name:         NormalizeSymbol(sh.Symbol),
			Shares:       Q(sh.Shares),
			BuyPrice:     M(sh.BuyPrice, s.Currency),
			CurrentPrice: M(sh.CurrentPrice, s.Currency),
			AcquiredAt:   at,
		}
		if h.CurrentPrice.IsZero() {
			h.CurrentPrice = h.BuyPrice
		}
		if !h.Shares.IsPositive() || !h.BuyPrice.IsPositive() {
			continue
		}
		holdings = append(holdings, h)
	}
	return holdings
}
