// Package alphavantage implements a sprout.QuoteSource over the Alpha Vantage
// API (https://www.alphavantage.co/documentation/).
//
// The free tier allows 5 calls per minute and 25 per day, callers are
// expected to pace their calls with a sprout.Limiter.
package alphavantage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/sprout"
	"github.com/etnz/sprout/logger"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the Alpha Vantage query endpoint.
const DefaultBaseURL = "https://www.alphavantage.co/query"

// DemoKey is accepted by Alpha Vantage for a handful of symbols (IBM mostly).
const DemoKey = "demo"

// Source is the name of this quote source.
const Source = "alphavantage"

// Client is an Alpha Vantage client.
type Client struct {
	apiKey    string
	baseURL   string
	client    *http.Client
	overviews *cache.Cache // nil when overviews are not cached
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL changes the query endpoint.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithHTTPClient sets the http client used for every call.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.client = h } }

// WithOverviewTTL sets how long company overviews are kept in memory, zero
// or less disables the cache.
func WithOverviewTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.overviews = nil
			return
		}
		c.overviews = cache.New(ttl, 2*ttl)
	}
}

// New creates a Client for apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:    apiKey,
		baseURL:   DefaultBaseURL,
		client:    &http.Client{Timeout: 30 * time.Second},
		overviews: cache.New(time.Hour, 2*time.Hour),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// query calls function with params and returns the decoded json object.
//
// Alpha Vantage answers 200 even on errors, the error being a member of the
// json object, so failures are classified from the body as well.
func (c *Client) query(ctx context.Context, symbol, function string, params url.Values) (map[string]any, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("function", function)
	params.Set("apikey", c.apiKey)
	addr := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, sprout.NewQuoteError(symbol, sprout.QuoteNetworkError, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, sprout.NewQuoteError(symbol, sprout.QuoteNetworkError, err)
	}
	defer resp.Body.Close()
	logger.FromContext(ctx).Debugw("alphavantage", "function", function, "symbol", symbol, "status", resp.Status)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, sprout.NewQuoteError(symbol, sprout.QuoteRateLimited, fmt.Errorf("http %s", resp.Status))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, sprout.NewQuoteError(symbol, sprout.QuoteInvalidCredential, fmt.Errorf("http %s", resp.Status))
	case resp.StatusCode != http.StatusOK:
		return nil, sprout.NewQuoteError(symbol, sprout.QuoteNetworkError, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status))
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, sprout.NewQuoteError(symbol, sprout.QuoteNetworkError, err)
	}
	var jobj map[string]any
	if err := json.Unmarshal(buf.Bytes(), &jobj); err != nil {
		return nil, sprout.NewQuoteError(symbol, sprout.QuoteNetworkError, fmt.Errorf("invalid json: %w", err))
	}
	if err := classify(symbol, jobj); err != nil {
		return nil, err
	}
	return jobj, nil
}

// classify returns the QuoteError described by an Alpha Vantage error payload.
func classify(symbol string, jobj map[string]any) error {
	if msg, ok := jobj["Error Message"].(string); ok {
		if strings.Contains(strings.ToLower(msg), "apikey") {
			return sprout.NewQuoteError(symbol, sprout.QuoteInvalidCredential, fmt.Errorf("%s", msg))
		}
		return sprout.NewQuoteError(symbol, sprout.QuoteNotFound, fmt.Errorf("%s", msg))
	}
	if msg, ok := jobj["Note"].(string); ok {
		return sprout.NewQuoteError(symbol, sprout.QuoteRateLimited, fmt.Errorf("%s", msg))
	}
	if msg, ok := jobj["Information"].(string); ok {
		// daily quota and premium endpoints are reported this way too
		if strings.Contains(strings.ToLower(msg), "apikey") {
			return sprout.NewQuoteError(symbol, sprout.QuoteInvalidCredential, fmt.Errorf("%s", msg))
		}
		return sprout.NewQuoteError(symbol, sprout.QuoteRateLimited, fmt.Errorf("%s", msg))
	}
	return nil
}

// get returns the value at path in jobj.
func get(jobj any, path string) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, err
	}
	// jsonpath may return a list of one answer, or the answer.
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return nil, fmt.Errorf("%s: no value", path)
		}
		jval = jlist[0]
	}
	return jval, nil
}

// getString returns the string at path, "" if there is none.
func getString(jobj any, path string) string {
	jval, err := get(jobj, path)
	if err != nil {
		return ""
	}
	s, _ := jval.(string)
	return strings.TrimSpace(s)
}

// getDecimal returns the number at path. Alpha Vantage writes numbers as
// strings, and "None" or "-" when there is no value: that's a zero.
func getDecimal(jobj any, path string) decimal.Decimal {
	switch s := getString(jobj, path); s {
	case "", "None", "-":
		return decimal.Zero
	default:
		d, err := decimal.NewFromString(strings.TrimSuffix(s, "%"))
		if err != nil {
			return decimal.Zero
		}
		return d
	}
}

// Quote returns the latest price of symbol (GLOBAL_QUOTE).
func (c *Client) Quote(ctx context.Context, symbol string) (sprout.Quote, error) {
	symbol = sprout.NormalizeSymbol(symbol)
	jobj, err := c.query(ctx, symbol, "GLOBAL_QUOTE", url.Values{"symbol": {symbol}})
	if err != nil {
		return sprout.Quote{}, err
	}
	// An unknown symbol is an empty "Global Quote" object.
	sval := getString(jobj, `$["Global Quote"]["05. price"]`)
	if sval == "" {
		return sprout.Quote{}, sprout.NewQuoteError(symbol, sprout.QuoteNotFound, nil)
	}
	price, err := decimal.NewFromString(sval)
	if err != nil {
		return sprout.Quote{}, sprout.NewQuoteError(symbol, sprout.QuoteNotFound, fmt.Errorf("invalid price %q: %w", sval, err))
	}
	if !price.IsPositive() {
		return sprout.Quote{}, sprout.NewQuoteError(symbol, sprout.QuoteNotFound, fmt.Errorf("invalid price %s", price))
	}
	q := sprout.Quote{Symbol: symbol, Price: price, Source: Source}
	if day := getString(jobj, `$["Global Quote"]["07. latest trading day"]`); day != "" {
		q.At, _ = time.Parse(time.DateOnly, day)
	}
	if s := getString(jobj, `$["Global Quote"]["01. symbol"]`); s != "" {
		q.Symbol = s
	}
	return q, nil
}

// Overview returns the company overview of symbol (OVERVIEW).
//
// Overviews hardly change during a session, they are kept in memory to save
// the call budget.
func (c *Client) Overview(ctx context.Context, symbol string) (sprout.Overview, error) {
	symbol = sprout.NormalizeSymbol(symbol)
	if c.overviews != nil {
		if o, ok := c.overviews.Get(symbol); ok {
			return o.(sprout.Overview), nil
		}
	}
	jobj, err := c.query(ctx, symbol, "OVERVIEW", url.Values{"symbol": {symbol}})
	if err != nil {
		return sprout.Overview{}, err
	}
	if len(jobj) == 0 {
		return sprout.Overview{}, sprout.NewQuoteError(symbol, sprout.QuoteNotFound, nil)
	}
	o := sprout.Overview{
		Symbol:        getString(jobj, "$.Symbol"),
		Name:          getString(jobj, "$.Name"),
		Description:   getString(jobj, "$.Description"),
		Exchange:      getString(jobj, "$.Exchange"),
		Currency:      getString(jobj, "$.Currency"),
		Sector:        getString(jobj, "$.Sector"),
		Industry:      getString(jobj, "$.Industry"),
		MarketCap:     getDecimal(jobj, "$.MarketCapitalization"),
		PERatio:       getDecimal(jobj, "$.PERatio"),
		DividendYield: getDecimal(jobj, "$.DividendYield"),
		Week52High:    getDecimal(jobj, `$["52WeekHigh"]`),
		Week52Low:     getDecimal(jobj, `$["52WeekLow"]`),
	}
	if o.Symbol == "" {
		o.Symbol = symbol
	}
	if c.overviews != nil {
		c.overviews.Set(symbol, o, cache.DefaultExpiration)
	}
	return o, nil
}

// Search returns the symbols best matching keywords (SYMBOL_SEARCH).
func (c *Client) Search(ctx context.Context, keywords string) ([]sprout.Match, error) {
	jobj, err := c.query(ctx, keywords, "SYMBOL_SEARCH", url.Values{"keywords": {keywords}})
	if err != nil {
		return nil, err
	}
	jlist, _ := jobj["bestMatches"].([]any)
	matches := make([]sprout.Match, 0, len(jlist))
	for _, jm := range jlist {
		score, _ := getDecimal(jm, `$["9. matchScore"]`).Float64()
		matches = append(matches, sprout.Match{
			Symbol:   getString(jm, `$["1. symbol"]`),
			Name:     getString(jm, `$["2. name"]`),
			Type:     getString(jm, `$["3. type"]`),
			Region:   getString(jm, `$["4. region"]`),
			Currency: getString(jm, `$["8. currency"]`),
			Score:    score,
		})
	}
	return matches, nil
}
