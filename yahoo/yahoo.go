// Package yahoo implements a sprout.QuoteSource over the Yahoo Finance chart
// endpoint. It needs no API key, but only knows about prices.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/sprout"
	"github.com/etnz/sprout/logger"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"
)

// Source is the name of this quote source.
const Source = "yahoo"

// Bar is a daily price bar.
type Bar struct {
	At    time.Time
	Close decimal.Decimal
}

// Client reads the latest daily close of a symbol.
type Client struct {
	// Lookback is how far in the past bars are requested, it must cover
	// week-ends and holidays.
	Lookback time.Duration

	bars func(symbol string, start, end time.Time) ([]Bar, error)
}

// New creates a Client using the Yahoo chart endpoint.
func New() *Client {
	return &Client{Lookback: 7 * 24 * time.Hour, bars: chartBars}
}

// chartBars returns the daily bars of symbol between start and end.
func chartBars(symbol string, start, end time.Time) ([]Bar, error) {
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)
	var bars []Bar
	for iter.Next() {
		bars = append(bars, Bar{
			At:    time.Unix(int64(iter.Bar().Timestamp), 0),
			Close: iter.Bar().Close,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get prices for %s: %w", symbol, err)
	}
	return bars, nil
}

// classify turns a chart failure into a QuoteError.
func classify(symbol string, err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found"), strings.Contains(msg, "no data"), strings.Contains(msg, "delisted"):
		return sprout.NewQuoteError(symbol, sprout.QuoteNotFound, err)
	case strings.Contains(msg, "429"), strings.Contains(msg, "too many requests"):
		return sprout.NewQuoteError(symbol, sprout.QuoteRateLimited, err)
	case strings.Contains(msg, "401"), strings.Contains(msg, "unauthorized"):
		return sprout.NewQuoteError(symbol, sprout.QuoteInvalidCredential, err)
	default:
		return sprout.NewQuoteError(symbol, sprout.QuoteNetworkError, err)
	}
}

// Quote returns the close of the latest daily bar.
func (c *Client) Quote(ctx context.Context, symbol string) (sprout.Quote, error) {
	symbol = sprout.NormalizeSymbol(symbol)
	if err := ctx.Err(); err != nil {
		return sprout.Quote{}, sprout.NewQuoteError(symbol, sprout.QuoteNetworkError, err)
	}
	end := time.Now()
	bars, err := c.bars(symbol, end.Add(-c.Lookback), end)
	if err != nil {
		return sprout.Quote{}, classify(symbol, err)
	}
	logger.FromContext(ctx).Debugw("yahoo chart", "symbol", symbol, "bars", len(bars))
	for i := len(bars) - 1; i >= 0; i-- {
		// the current day bar can be empty before the market opens
		if bars[i].Close.IsPositive() {
			return sprout.Quote{Symbol: symbol, Price: bars[i].Close, At: bars[i].At, Source: Source}, nil
		}
	}
	return sprout.Quote{}, sprout.NewQuoteError(symbol, sprout.QuoteNotFound, fmt.Errorf("no price in the last %v", c.Lookback))
}

// Overview is not available from the chart endpoint.
func (c *Client) Overview(ctx context.Context, symbol string) (sprout.Overview, error) {
	symbol = sprout.NormalizeSymbol(symbol)
	return sprout.Overview{}, sprout.NewQuoteError(symbol, sprout.QuoteNotFound, fmt.Errorf("company overview: %w", errors.ErrUnsupported))
}
