package sprout

import (
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// This file contains the valuation engine: pure functions over holdings.

// MarketValue returns shares × current price.
func MarketValue(h Holding) Money { return h.CurrentPrice.Mul(h.Shares) }

// GainLoss returns the unrealized gain of a holding.
func GainLoss(h Holding) Money { return h.CurrentPrice.Sub(h.BuyPrice).Mul(h.Shares) }

// GainLossPercent returns the unrealized gain relative to the cost basis, or
// NotAvailable if the buy price is zero.
func GainLossPercent(h Holding) Percent { return change(h.BuyPrice.value, h.CurrentPrice.value) }

// TotalValue returns the sum of the market values.
func TotalValue(holdings []Holding) Money {
	var total Money
	for _, h := range holdings {
		total = total.Add(MarketValue(h))
	}
	return total
}

// TotalGainLoss returns the sum of the unrealized gains.
func TotalGainLoss(holdings []Holding) Money {
	var total Money
	for _, h := range holdings {
		total = total.Add(GainLoss(h))
	}
	return total
}

// TotalCost returns the sum of what was paid for the holdings.
func TotalCost(holdings []Holding) Money {
	var total Money
	for _, h := range holdings {
		total = total.Add(h.BuyPrice.Mul(h.Shares))
	}
	return total
}

// BestPerformer returns the holding with the highest GainLossPercent, nil if
// there are no holdings. The first one wins a tie.
func BestPerformer(holdings []Holding) *Holding {
	best := -1
	var bestPct Percent
	for i, h := range holdings {
		p := GainLossPercent(h)
		if best < 0 || (!p.IsNaN() && (bestPct.IsNaN() || p > bestPct)) {
			best, bestPct = i, p
		}
	}
	if best < 0 {
		return nil
	}
	h := holdings[best]
	return &h
}

// Summary is the headline view of a portfolio.
type Summary struct {
	Cash            Money
	StockValue      Money
	NetWorth        Money // cash and stock value
	GainLoss        Money
	GainLossPercent Percent // total gain relative to total cost
	Positions       int
	Best            *Holding

	// AverageReturn and ReturnSpread are the mean and the standard deviation
	// of GainLossPercent over all holdings.
	AverageReturn Percent
	ReturnSpread  Percent

	// LargestSymbol is the symbol weighting the most in the stock value.
	LargestSymbol string
	LargestWeight Percent
}

// Summarize computes the Summary of cash and holdings.
func Summarize(cash Money, holdings []Holding) Summary {
	zero := M(0, cash.cur)
	s := Summary{
		Cash:            cash,
		StockValue:      zero.Add(TotalValue(holdings)),
		GainLoss:        zero.Add(TotalGainLoss(holdings)),
		GainLossPercent: NotAvailable,
		Positions:       len(holdings),
		Best:            BestPerformer(holdings),
		AverageReturn:   NotAvailable,
		ReturnSpread:    NotAvailable,
		LargestWeight:   NotAvailable,
	}
	s.NetWorth = cash.Add(s.StockValue)
	if cost := TotalCost(holdings); !cost.IsZero() {
		s.GainLossPercent = ratio(s.GainLoss.value, cost.value)
	}

	var returns stats.Float64Data
	for _, h := range holdings {
		if p := GainLossPercent(h); !p.IsNaN() {
			returns = append(returns, float64(p))
		}
	}
	if mean, err := stats.Mean(returns); err == nil {
		s.AverageReturn = Percent(mean)
	}
	if sd, err := stats.StandardDeviation(returns); err == nil {
		s.ReturnSpread = Percent(sd)
	}

	if !s.StockValue.IsPositive() {
		return s
	}
	bySymbol := make(map[string]decimal.Decimal)
	for _, h := range holdings {
		bySymbol[h.Symbol] = bySymbol[h.Symbol].Add(MarketValue(h).value)
	}
	for _, h := range holdings { // iterate holdings for a stable tie-break
		w := bySymbol[h.Symbol]
		if s.LargestSymbol == "" || w.GreaterThan(bySymbol[s.LargestSymbol]) {
			s.LargestSymbol = h.Symbol
		}
	}
	s.LargestWeight = ratio(bySymbol[s.LargestSymbol], s.StockValue.value)
	return s
}
