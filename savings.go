package sprout

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// stepPlaces is the number of decimal places kept after each monthly step,
// it makes projections reproducible digit for digit.
const stepPlaces = 12

// SavingsPlan is a regular saving plan.
type SavingsPlan struct {
	Initial           decimal.Decimal
	Monthly           decimal.Decimal // contribution added at the end of each month
	Years             int
	AnnualRatePercent decimal.Decimal // can be negative
}

// Validate checks that amounts and duration are not negative.
func (p SavingsPlan) Validate() error {
	switch {
	case p.Initial.IsNegative():
		return fmt.Errorf("%w: initial amount cannot be negative, got %s", ErrInvalidInput, p.Initial)
	case p.Monthly.IsNegative():
		return fmt.Errorf("%w: monthly contribution cannot be negative, got %s", ErrInvalidInput, p.Monthly)
	case p.Years < 0:
		return fmt.Errorf("%w: years cannot be negative, got %d", ErrInvalidInput, p.Years)
	}
	return nil
}

// Projection is the outcome of a SavingsPlan.
type Projection struct {
	FutureValue        decimal.Decimal
	TotalContributions decimal.Decimal
	TotalInterest      decimal.Decimal
	Years              []YearEnd // balance at the end of each year
}

// YearEnd is the state of a projection at the end of a year.
type YearEnd struct {
	Year          int
	Balance       decimal.Decimal
	Contributions decimal.Decimal
	Interest      decimal.Decimal
}

// Project computes the compound growth of a plan, month by month.
//
// Each month the whole balance earns interest, then the monthly contribution
// is added; the new contribution earns nothing that month.
func Project(plan SavingsPlan) Projection {
	monthlyRate := plan.AnnualRatePercent.Div(decimal.NewFromInt(1200))
	growth := decimal.NewFromInt(1).Add(monthlyRate)

	value := plan.Initial
	contributions := plan.Initial
	var years []YearEnd
	for month := 1; month <= plan.Years*12; month++ {
		value = value.Mul(growth).Add(plan.Monthly).Round(stepPlaces)
		contributions = contributions.Add(plan.Monthly)
		if month%12 == 0 {
			years = append(years, YearEnd{
				Year:          month / 12,
				Balance:       value,
				Contributions: contributions,
				Interest:      value.Sub(contributions),
			})
		}
	}
	return Projection{
		FutureValue:        value,
		TotalContributions: contributions,
		TotalInterest:      value.Sub(contributions),
		Years:              years,
	}
}
