package sprout

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Percent is a percentage, NaN when undefined.
type Percent float64

// NotAvailable is the Percent reported when a ratio has no defined value.
var NotAvailable = Percent(math.NaN())

func (p Percent) IsNaN() bool { return math.IsNaN(float64(p)) }

func (p Percent) Equal(q Percent) bool {
	if p.IsNaN() || q.IsNaN() {
		return p.IsNaN() && q.IsNaN()
	}
	// it has to be compared with some precision
	const precision = 0.0001
	return math.Abs(float64(p-q)) < precision
}

func (p Percent) String() string {
	if p.IsNaN() {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	if p.IsNaN() {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f%%", p)
}

// change returns the relative change from 'from' to 'to' in percent.
func change(from, to decimal.Decimal) Percent { return ratio(to.Sub(from), from) }

// ratio returns part/whole in percent.
func ratio(part, whole decimal.Decimal) Percent {
	if whole.IsZero() {
		return NotAvailable
	}
	f, _ := part.Div(whole).Mul(decimal.NewFromInt(100)).Float64()
	return Percent(f)
}
