// Package eodhd implements a sprout.QuoteSource over the EOD Historical Data
// API (https://eodhd.com/financial-apis/).
//
// EODHD tickers are SYMBOL.EXCHANGE, a symbol without exchange is looked up
// on US markets. Fundamentals and searches are cached on disk for the day.
package eodhd

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

	"github.com/etnz/sprout"
	"github.com/etnz/sprout/logger"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the EODHD api root.
const DefaultBaseURL = "https://eodhd.com/api"

// DemoKey is accepted by EODHD for a few tickers (AAPL.US, MCD.US, ...).
const DemoKey = "demo"

// Source is the name of this quote source.
const Source = "eodhd"

// Client is an EODHD client.
type Client struct {
	apiKey   string
	baseURL  string
	client   *http.Client // real time quotes
	cached   *http.Client // fundamentals and searches
	cacheDir string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL changes the api root.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") } }

// WithHTTPClient sets the http client used for real time quotes.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.client = h } }

// WithCacheDir sets the folder of the daily cache, it defaults to the
// temporary folder.
func WithCacheDir(dir string) Option {
	return func(c *Client) { c.cacheDir = dir }
}

// New creates a Client for apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cached = newDailyCachingClient(c.client.Transport, c.cacheDir)
	return c
}

// Ticker returns the EODHD ticker of symbol.
func Ticker(symbol string) string {
	symbol = sprout.NormalizeSymbol(symbol)
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + ".US"
}

// jwget performs an HTTP GET of path and unmarshals the JSON response body
// into data. HTTP failures are classified as QuoteError for symbol.
func (c *Client) jwget(ctx context.Context, client *http.Client, symbol, path string, data any) error {
	addr := fmt.Sprintf("%s/%s?fmt=json&api_token=%s", c.baseURL, path, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return sprout.NewQuoteError(symbol, sprout.QuoteNetworkError, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return sprout.NewQuoteError(symbol, sprout.QuoteNetworkError, err)
	}
	defer resp.Body.Close()
	logger.FromContext(ctx).Debugw("eodhd", "path", resp.Request.URL.Path, "status", resp.Status)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return sprout.NewQuoteError(symbol, sprout.QuoteNotFound, nil)
	case http.StatusTooManyRequests, http.StatusPaymentRequired:
		// 402 is the daily quota
		return sprout.NewQuoteError(symbol, sprout.QuoteRateLimited, fmt.Errorf("http %s", resp.Status))
	case http.StatusUnauthorized, http.StatusForbidden:
		return sprout.NewQuoteError(symbol, sprout.QuoteInvalidCredential, fmt.Errorf("http %s", resp.Status))
	default:
		return sprout.NewQuoteError(symbol, sprout.QuoteNetworkError, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status))
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return sprout.NewQuoteError(symbol, sprout.QuoteNetworkError, err)
	}
	if err := json.Unmarshal(buf.Bytes(), data); err != nil {
		return sprout.NewQuoteError(symbol, sprout.QuoteNetworkError, fmt.Errorf("invalid json: %w", err))
	}
	return nil
}

// number is a json number that EODHD may write as a string, "NA" or null
// when there is no value. Missing values are zero.
type number struct{ decimal.Decimal }

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	switch s {
	case "", "null", "NA", "None", "-":
		n.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", b, err)
	}
	n.Decimal = d
	return nil
}

// Quote returns the latest price of symbol (real-time endpoint, delayed
// by 15 minutes).
func (c *Client) Quote(ctx context.Context, symbol string) (sprout.Quote, error) {
	symbol = sprout.NormalizeSymbol(symbol)
	var info struct {
		Code      string `json:"code"`
		Timestamp number `json:"timestamp"`
		Close     number `json:"close"`
	}
	if err := c.jwget(ctx, c.client, symbol, "real-time/"+url.PathEscape(Ticker(symbol)), &info); err != nil {
		return sprout.Quote{}, err
	}
	if !info.Close.IsPositive() {
		return sprout.Quote{}, sprout.NewQuoteError(symbol, sprout.QuoteNotFound, fmt.Errorf("invalid price %s", info.Close))
	}
	q := sprout.Quote{Symbol: symbol, Price: info.Close.Decimal, Source: Source}
	if ts := info.Timestamp.IntPart(); ts > 0 {
		q.At = time.Unix(ts, 0).UTC()
	}
	return q, nil
}

// Overview returns the company overview of symbol (fundamentals endpoint).
func (c *Client) Overview(ctx context.Context, symbol string) (sprout.Overview, error) {
	symbol = sprout.NormalizeSymbol(symbol)
	var info struct {
		General struct {
			Code         string
			Name         string
			Description  string
			Exchange     string
			CurrencyCode string
			Sector       string
			Industry     string
		}
		Highlights struct {
			MarketCapitalization number
			PERatio              number
			DividendYield        number
		}
		Technicals struct {
			Week52High number `json:"52WeekHigh"`
			Week52Low  number `json:"52WeekLow"`
		}
	}
	if err := c.jwget(ctx, c.cached, symbol, "fundamentals/"+url.PathEscape(Ticker(symbol)), &info); err != nil {
		return sprout.Overview{}, err
	}
	if info.General.Name == "" {
		return sprout.Overview{}, sprout.NewQuoteError(symbol, sprout.QuoteNotFound, nil)
	}
	return sprout.Overview{
		Symbol:        symbol,
		Name:          info.General.Name,
		Description:   info.General.Description,
		Exchange:      info.General.Exchange,
		Currency:      info.General.CurrencyCode,
		Sector:        info.General.Sector,
		Industry:      info.General.Industry,
		MarketCap:     info.Highlights.MarketCapitalization.Decimal,
		PERatio:       info.Highlights.PERatio.Decimal,
		DividendYield: info.Highlights.DividendYield.Decimal,
		Week52High:    info.Technicals.Week52High.Decimal,
		Week52Low:     info.Technicals.Week52Low.Decimal,
	}, nil
}

// searchResult is a single item of the search endpoint response.
type searchResult struct {
	Code     string `json:"Code"`
	Exchange string `json:"Exchange"`
	Name     string `json:"Name"`
	Type     string `json:"Type"`
	Country  string `json:"Country"`
	Currency string `json:"Currency"`
	ISIN     string `json:"ISIN"`
}

// Search returns the tickers matching keywords, best first. EODHD gives no
// score, it is derived from the rank.
func (c *Client) Search(ctx context.Context, keywords string) ([]sprout.Match, error) {
	var results []searchResult
	if err := c.jwget(ctx, c.cached, keywords, "search/"+url.PathEscape(keywords), &results); err != nil {
		return nil, err
	}
	matches := make([]sprout.Match, 0, len(results))
	for i, r := range results {
		matches = append(matches, sprout.Match{
			Symbol:   r.Code + "." + r.Exchange,
			Name:     r.Name,
			Type:     r.Type,
			Region:   r.Country,
			Currency: r.Currency,
			Score:    1 / float64(i+1),
		})
	}
	return matches, nil
}
