package renderer

import (
	"github.com/etnz/sprout"
	"github.com/shopspring/decimal"
)

// Quote is the view of a single quote.
type Quote struct {
	Symbol string
	Price  sprout.Money
	At     string
	Source string
}

// NewQuote creates the view of q.
func NewQuote(q sprout.Quote, currency string) *Quote {
	v := &Quote{Symbol: q.Symbol, Price: sprout.M(q.Price, currency), Source: q.Source}
	if !q.At.IsZero() {
		v.At = q.At.Format("2006-01-02")
	}
	return v
}

// Research is the view of what is known about a symbol.
type Research struct {
	Query    string
	Overview *Overview
	Matches  []sprout.Match
}

// Overview is the view of a company overview.
type Overview struct {
	sprout.Overview
	MarketCap     string
	PERatio       string
	DividendYield sprout.Percent
	Week52High    sprout.Money
	Week52Low     sprout.Money
}

// NewResearch creates the view of an overview (nil if unknown) and of matches.
func NewResearch(query string, o *sprout.Overview, matches []sprout.Match) *Research {
	r := &Research{Query: query, Matches: matches}
	if o != nil {
		yield, _ := o.DividendYield.Mul(decimal.NewFromInt(100)).Float64()
		r.Overview = &Overview{
			Overview:      *o,
			MarketCap:     humanize(o.MarketCap),
			PERatio:       "N/A",
			DividendYield: sprout.Percent(yield),
			Week52High:    sprout.M(o.Week52High, o.Currency),
			Week52Low:     sprout.M(o.Week52Low, o.Currency),
		}
		if o.PERatio.IsPositive() {
			r.Overview.PERatio = o.PERatio.StringFixed(2)
		}
	}
	return r
}

// humanize writes large amounts with a T, B or M suffix.
func humanize(d decimal.Decimal) string {
	units := []struct {
		suffix string
		value  decimal.Decimal
	}{
		{"T", decimal.New(1, 12)},
		{"B", decimal.New(1, 9)},
		{"M", decimal.New(1, 6)},
	}
	if d.IsZero() {
		return "N/A"
	}
	for _, u := range units {
		if d.Abs().GreaterThanOrEqual(u.value) {
			return d.Div(u.value).StringFixed(2) + u.suffix
		}
	}
	return d.StringFixed(0)
}
