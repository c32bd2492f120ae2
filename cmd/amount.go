package cmd

import (
	"fmt"
	"strings"

	"github.com/etnz/sprout"
	"github.com/maja42/goval"
	"github.com/shopspring/decimal"
)

// parseAmount reads a number, or an arithmetic expression like "12*150" or
// "1000 - 2.66".
//
// Plain numbers are read exactly, expressions are evaluated in float64.
func parseAmount(expr string) (decimal.Decimal, error) {
	expr = strings.TrimSpace(strings.ReplaceAll(expr, "_", ""))
	if expr == "" {
		return decimal.Zero, fmt.Errorf("%w: missing amount", sprout.ErrInvalidInput)
	}
	if d, err := decimal.NewFromString(expr); err == nil {
		return d, nil
	}
	v, err := goval.NewEvaluator().Evaluate(expr, nil, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q: %v", sprout.ErrInvalidInput, expr, err)
	}
	switch v := v.(type) {
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q is not a number but %T", sprout.ErrInvalidInput, expr, v)
	}
}
