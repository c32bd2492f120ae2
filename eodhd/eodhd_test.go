package eodhd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/etnz/sprout"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mcdRealTime = `{"code":"MCD.US","timestamp":1715371200,"gmtoffset":0,"open":273.1,"high":275.86,"low":272.62,"close":274.54,"volume":2391052,"previousClose":273.24,"change":1.3,"change_p":0.4758}`

const aaplFundamentals = `{
  "General": {
    "Code": "AAPL",
    "Type": "Common Stock",
    "Name": "Apple Inc",
    "Exchange": "NASDAQ",
    "CurrencyCode": "USD",
    "Sector": "Technology",
    "Industry": "Consumer Electronics",
    "Description": "Apple Inc. designs, manufactures, and markets smartphones."
  },
  "Highlights": {
    "MarketCapitalization": 2826146152448,
    "PERatio": 28.4,
    "DividendYield": 0.0054
  },
  "Technicals": {
    "52WeekHigh": 199.62,
    "52WeekLow": null
  }
}`

const appleSearch = `[
  {"Code":"AAPL","Exchange":"US","Name":"Apple Inc","Type":"Common Stock","Country":"USA","Currency":"USD","ISIN":"US0378331005","previousClose":183.05,"previousCloseDate":"2024-05-10"},
  {"Code":"APC","Exchange":"F","Name":"Apple Inc","Type":"Common Stock","Country":"Germany","Currency":"EUR","ISIN":"US0378331005","previousClose":170.2,"previousCloseDate":"2024-05-10"}
]`

// server returns a client to a test server answering body with status, and
// a pointer to the number of calls received.
func server(t *testing.T, status int, body string) (*Client, *int) {
	t.Helper()
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "test-key", r.URL.Query().Get("api_token"))
		assert.Equal(t, "json", r.URL.Query().Get("fmt"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return New("test-key", WithBaseURL(ts.URL), WithHTTPClient(ts.Client()), WithCacheDir(t.TempDir())), &calls
}

func TestTicker(t *testing.T) {
	for symbol, want := range map[string]string{
		"aapl":    "AAPL.US",
		" MCD ":   "MCD.US",
		"apc.f":   "APC.F",
		"TSCO.LS": "TSCO.LS",
	} {
		if got := Ticker(symbol); got != want {
			t.Errorf("Ticker(%q) = %q, want %q", symbol, got, want)
		}
	}
}

func TestClient_Quote(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(mcdRealTime))
	}))
	defer ts.Close()
	c := New("test-key", WithBaseURL(ts.URL+"/"))

	q, err := c.Quote(context.Background(), "mcd")
	require.NoError(t, err)
	assert.Equal(t, "/real-time/MCD.US", gotPath)
	assert.Equal(t, "MCD", q.Symbol)
	assert.True(t, q.Price.Equal(decimal.RequireFromString("274.54")), "price = %v", q.Price)
	assert.Equal(t, time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC), q.At)
	assert.Equal(t, Source, q.Source)
}

func TestClient_QuoteErrors(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		wantKind sprout.QuoteErrorKind
	}{
		{
			name:     "no price",
			status:   http.StatusOK,
			body:     `{"code":"XYZ.US","timestamp":"NA","close":"NA"}`,
			wantKind: sprout.QuoteNotFound,
		},
		{
			name:     "unknown ticker",
			status:   http.StatusNotFound,
			body:     `Ticker Not Found.`,
			wantKind: sprout.QuoteNotFound,
		},
		{
			name:     "daily quota",
			status:   http.StatusPaymentRequired,
			wantKind: sprout.QuoteRateLimited,
		},
		{
			name:     "too many requests",
			status:   http.StatusTooManyRequests,
			wantKind: sprout.QuoteRateLimited,
		},
		{
			name:     "invalid token",
			status:   http.StatusUnauthorized,
			wantKind: sprout.QuoteInvalidCredential,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			wantKind: sprout.QuoteNetworkError,
		},
		{
			name:     "not json",
			status:   http.StatusOK,
			body:     `<html>maintenance</html>`,
			wantKind: sprout.QuoteNetworkError,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := server(t, tc.status, tc.body)
			_, err := c.Quote(context.Background(), "XYZ")
			require.Error(t, err)
			assert.True(t, errors.Is(err, sprout.ErrQuoteUnavailable), "error %v is not a quote error", err)
			kind, ok := sprout.QuoteErrorKindOf(err)
			assert.True(t, ok)
			assert.Equal(t, tc.wantKind, kind, "error: %v", err)
		})
	}
}

func TestClient_Overview(t *testing.T) {
	c, calls := server(t, http.StatusOK, aaplFundamentals)

	o, err := c.Overview(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", o.Symbol)
	assert.Equal(t, "Apple Inc", o.Name)
	assert.Equal(t, "NASDAQ", o.Exchange)
	assert.Equal(t, "USD", o.Currency)
	assert.Equal(t, "Technology", o.Sector)
	assert.True(t, o.MarketCap.Equal(decimal.RequireFromString("2826146152448")))
	assert.True(t, o.PERatio.Equal(decimal.RequireFromString("28.4")))
	assert.True(t, o.DividendYield.Equal(decimal.RequireFromString("0.0054")))
	assert.True(t, o.Week52High.Equal(decimal.RequireFromString("199.62")))
	assert.True(t, o.Week52Low.IsZero())

	// the second call is served from the daily cache
	_, err = c.Overview(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
}

func TestClient_OverviewNotFound(t *testing.T) {
	c, _ := server(t, http.StatusOK, `{}`)
	_, err := c.Overview(context.Background(), "NOPE")
	kind, _ := sprout.QuoteErrorKindOf(err)
	assert.Equal(t, sprout.QuoteNotFound, kind)
}

func TestClient_Search(t *testing.T) {
	c, _ := server(t, http.StatusOK, appleSearch)
	matches, err := c.Search(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, sprout.Match{
		Symbol:   "AAPL.US",
		Name:     "Apple Inc",
		Type:     "Common Stock",
		Region:   "USA",
		Currency: "USD",
		Score:    1,
	}, matches[0])
	assert.Equal(t, "APC.F", matches[1].Symbol)
	assert.Equal(t, 0.5, matches[1].Score)
}

func TestDiskCache(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("hello"))
	}))
	defer ts.Close()

	dir := t.TempDir()
	day := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	client := newDailyCachingClient(nil, dir)
	client.Transport.(*diskCache).now = func() time.Time { return day }

	get := func(path string) int {
		t.Helper()
		resp, err := client.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	get("/ok")
	get("/ok")
	assert.Equal(t, 1, calls, "same day responses are cached")

	get("/fail")
	assert.Equal(t, http.StatusBadGateway, get("/fail"))
	assert.Equal(t, 3, calls, "failures are not cached")

	day = day.Add(24 * time.Hour)
	get("/ok")
	assert.Equal(t, 4, calls, "entries expire the next day")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestNew_OptionOrder(t *testing.T) {
	h := &http.Client{Transport: &http.Transport{}}
	for name, opts := range map[string][]Option{
		"client first": {WithHTTPClient(h), WithCacheDir(t.TempDir())},
		"cache first":  {WithCacheDir(t.TempDir()), WithHTTPClient(h)},
	} {
		t.Run(name, func(t *testing.T) {
			c := New("test-key", opts...)
			cache, ok := c.cached.Transport.(*diskCache)
			require.True(t, ok)
			assert.Same(t, h.Transport, cache.base)
		})
	}
}

func TestClient_ImplementsQuoteSource(t *testing.T) {
	var _ sprout.QuoteSource = New(DemoKey)
	var _ sprout.Searcher = New(DemoKey)
}
