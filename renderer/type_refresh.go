package renderer

import (
	"time"

	"github.com/etnz/sprout"
	"github.com/hako/durafmt"
)

// Refresh is the view of a refresh report.
type Refresh struct {
	sprout.RefreshReport
	Took     string
	Failures []RefreshFailure
}

// RefreshFailure is a symbol that kept its old price.
type RefreshFailure struct {
	Symbol string
	Reason string
}

// NewRefresh creates the view of r.
func NewRefresh(r sprout.RefreshReport) *Refresh {
	v := &Refresh{RefreshReport: r, Took: durafmt.Parse(r.Elapsed.Round(time.Second)).LimitFirstN(2).String()}
	for _, f := range r.Failures {
		reason := f.Err.Error()
		if kind, ok := sprout.QuoteErrorKindOf(f.Err); ok {
			reason = kind.String()
		}
		v.Failures = append(v.Failures, RefreshFailure{Symbol: f.Symbol, Reason: reason})
	}
	return v
}
