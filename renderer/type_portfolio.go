package renderer

import (
	"github.com/etnz/sprout"
)

// Portfolio is the view of a ledger.
type Portfolio struct {
	Cash            sprout.Money
	StockValue      sprout.Money
	NetWorth        sprout.Money
	GainLoss        sprout.Money
	GainLossPercent sprout.Percent
	Positions       int
	Best            *HoldingRow
	AverageReturn   sprout.Percent
	ReturnSpread    sprout.Percent
	LargestSymbol   string
	LargestWeight   sprout.Percent
	Holdings        []HoldingRow
}

// HoldingRow is one holding with its valuation.
type HoldingRow struct {
	ID              string
	ShortID         string
	Symbol          string
	Shares          sprout.Quantity
	BuyPrice        sprout.Money
	CurrentPrice    sprout.Money
	MarketValue     sprout.Money
	GainLoss        sprout.Money
	GainLossPercent sprout.Percent
	Acquired        string
}

// ShortID returns the first characters of an id, enough to tell holdings apart.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newHoldingRow(h sprout.Holding) HoldingRow {
	r := HoldingRow{
		ID:              h.ID,
		ShortID:         ShortID(h.ID),
		Symbol:          h.Symbol,
		Shares:          h.Shares,
		BuyPrice:        h.BuyPrice,
		CurrentPrice:    h.CurrentPrice,
		MarketValue:     sprout.MarketValue(h),
		GainLoss:        sprout.GainLoss(h),
		GainLossPercent: sprout.GainLossPercent(h),
	}
	if !h.AcquiredAt.IsZero() {
		r.Acquired = h.AcquiredAt.Format("2006-01-02")
	}
	return r
}

// NewPortfolio creates the view of cash and holdings.
func NewPortfolio(cash sprout.Money, holdings []sprout.Holding) *Portfolio {
	s := sprout.Summarize(cash, holdings)
	p := &Portfolio{
		Cash:            s.Cash,
		StockValue:      s.StockValue,
		NetWorth:        s.NetWorth,
		GainLoss:        s.GainLoss,
		GainLossPercent: s.GainLossPercent,
		Positions:       s.Positions,
		AverageReturn:   s.AverageReturn,
		ReturnSpread:    s.ReturnSpread,
		LargestSymbol:   s.LargestSymbol,
		LargestWeight:   s.LargestWeight,
		Holdings:        make([]HoldingRow, 0, len(holdings)),
	}
	if s.Best != nil {
		best := newHoldingRow(*s.Best)
		p.Best = &best
	}
	for _, h := range holdings {
		p.Holdings = append(p.Holdings, newHoldingRow(h))
	}
	return p
}
