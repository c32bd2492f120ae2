package renderer

import (
	"github.com/etnz/sprout"
	"github.com/shopspring/decimal"
)

// Projection is the view of a savings projection, amounts in a currency.
type Projection struct {
	Initial            sprout.Money
	Monthly            sprout.Money
	Years              int
	AnnualRate         sprout.Percent
	FutureValue        sprout.Money
	TotalContributions sprout.Money
	TotalInterest      sprout.Money
	Schedule           []ProjectionYear
}

// ProjectionYear is the state of the savings at the end of a year.
type ProjectionYear struct {
	Year          int
	Balance       sprout.Money
	Contributions sprout.Money
	Interest      sprout.Money
	Bar           string // a text bar proportional to the balance
}

// barWidth is the width of the largest schedule bar.
const barWidth = 30

// NewProjection creates the view of plan and its projection p.
func NewProjection(plan sprout.SavingsPlan, p sprout.Projection, currency string) *Projection {
	rate, _ := plan.AnnualRatePercent.Float64()
	v := &Projection{
		Initial:            sprout.M(plan.Initial, currency),
		Monthly:            sprout.M(plan.Monthly, currency),
		Years:              plan.Years,
		AnnualRate:         sprout.Percent(rate),
		FutureValue:        sprout.M(p.FutureValue, currency),
		TotalContributions: sprout.M(p.TotalContributions, currency),
		TotalInterest:      sprout.M(p.TotalInterest, currency),
	}
	max := p.FutureValue
	for _, y := range p.Years {
		if y.Balance.GreaterThan(max) {
			max = y.Balance
		}
	}
	for _, y := range p.Years {
		row := ProjectionYear{
			Year:          y.Year,
			Balance:       sprout.M(y.Balance, currency),
			Contributions: sprout.M(y.Contributions, currency),
			Interest:      sprout.M(y.Interest, currency),
		}
		if max.IsPositive() && y.Balance.IsPositive() {
			n := int(y.Balance.Mul(decimal.NewFromInt(barWidth)).Div(max).IntPart())
			row.Bar = bar(n)
		}
		v.Schedule = append(v.Schedule, row)
	}
	return v
}

func bar(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = '█'
	}
	return string(b)
}
