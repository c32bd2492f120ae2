package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etnz/sprout"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ibmQuote = `{
    "Global Quote": {
        "01. symbol": "IBM",
        "02. open": "169.9500",
        "03. high": "172.2900",
        "04. low": "169.8400",
        "05. price": "172.0700",
        "06. volume": "2764456",
        "07. latest trading day": "2024-05-10",
        "08. previous close": "170.2900",
        "09. change": "1.7800",
        "10. change percent": "1.0453%"
    }
}`

const ibmOverview = `{
    "Symbol": "IBM",
    "AssetType": "Common Stock",
    "Name": "International Business Machines",
    "Description": "International Business Machines Corporation (IBM) is an American multinational technology company.",
    "Exchange": "NYSE",
    "Currency": "USD",
    "Country": "USA",
    "Sector": "TECHNOLOGY",
    "Industry": "COMPUTER & OFFICE EQUIPMENT",
    "MarketCapitalization": "156852609000",
    "PERatio": "19.12",
    "DividendYield": "0.0391",
    "52WeekHigh": "199.18",
    "52WeekLow": "124.36"
}`

const tescoSearch = `{
    "bestMatches": [
        {
            "1. symbol": "TSCO.LON",
            "2. name": "Tesco PLC",
            "3. type": "Equity",
            "4. region": "United Kingdom",
            "5. marketOpen": "08:00",
            "6. marketClose": "16:30",
            "7. timezone": "UTC+01",
            "8. currency": "GBX",
            "9. matchScore": "0.7273"
        },
        {
            "1. symbol": "TSCDF",
            "2. name": "Tesco plc",
            "3. type": "Equity",
            "4. region": "United States",
            "5. marketOpen": "09:30",
            "6. marketClose": "16:00",
            "7. timezone": "UTC-04",
            "8. currency": "USD",
            "9. matchScore": "0.7143"
        }
    ]
}`

// server returns a client to a test server answering body with status, and
// a pointer to the number of calls received.
func server(t *testing.T, status int, body string) (*Client, *int) {
	t.Helper()
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return New("test-key", WithBaseURL(ts.URL), WithHTTPClient(ts.Client())), &calls
}

func TestClient_Quote(t *testing.T) {
	var gotQuery map[string][]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(ibmQuote))
	}))
	defer ts.Close()
	c := New("test-key", WithBaseURL(ts.URL))

	q, err := c.Quote(context.Background(), " ibm")
	require.NoError(t, err)

	assert.Equal(t, "IBM", q.Symbol)
	assert.True(t, q.Price.Equal(decimal.RequireFromString("172.07")), "price = %v", q.Price)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), q.At)
	assert.Equal(t, Source, q.Source)
	assert.Equal(t, []string{"GLOBAL_QUOTE"}, gotQuery["function"])
	assert.Equal(t, []string{"IBM"}, gotQuery["symbol"])
}

func TestClient_QuoteErrors(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		wantKind sprout.QuoteErrorKind
	}{
		{
			name:     "unknown symbol",
			status:   http.StatusOK,
			body:     `{"Global Quote": {}}`,
			wantKind: sprout.QuoteNotFound,
		},
		{
			name:     "invalid call",
			status:   http.StatusOK,
			body:     `{"Error Message": "Invalid API call. Please retry or visit the documentation (https://www.alphavantage.co/documentation/) for GLOBAL_QUOTE."}`,
			wantKind: sprout.QuoteNotFound,
		},
		{
			name:     "zero price",
			status:   http.StatusOK,
			body:     `{"Global Quote": {"01. symbol": "XYZ", "05. price": "0.0000"}}`,
			wantKind: sprout.QuoteNotFound,
		},
		{
			name:     "per minute limit",
			status:   http.StatusOK,
			body:     `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute and 500 calls per day."}`,
			wantKind: sprout.QuoteRateLimited,
		},
		{
			name:     "daily limit",
			status:   http.StatusOK,
			body:     `{"Information": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`,
			wantKind: sprout.QuoteRateLimited,
		},
		{
			name:     "invalid key",
			status:   http.StatusOK,
			body:     `{"Error Message": "the parameter apikey is invalid or missing. Please claim your free API key on (https://www.alphavantage.co/support/#api-key)."}`,
			wantKind: sprout.QuoteInvalidCredential,
		},
		{
			name:     "too many requests",
			status:   http.StatusTooManyRequests,
			wantKind: sprout.QuoteRateLimited,
		},
		{
			name:     "forbidden",
			status:   http.StatusForbidden,
			wantKind: sprout.QuoteInvalidCredential,
		},
		{
			name:     "server error",
			status:   http.StatusBadGateway,
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

func TestClient_QuoteUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close() // nobody listens anymore
	c := New("test-key", WithBaseURL(ts.URL))

	_, err := c.Quote(context.Background(), "IBM")
	kind, ok := sprout.QuoteErrorKindOf(err)
	require.True(t, ok, "error: %v", err)
	assert.Equal(t, sprout.QuoteNetworkError, kind)
}

func TestClient_Overview(t *testing.T) {
	c, calls := server(t, http.StatusOK, ibmOverview)

	o, err := c.Overview(context.Background(), "ibm")
	require.NoError(t, err)
	assert.Equal(t, "IBM", o.Symbol)
	assert.Equal(t, "International Business Machines", o.Name)
	assert.Equal(t, "NYSE", o.Exchange)
	assert.Equal(t, "TECHNOLOGY", o.Sector)
	assert.True(t, o.MarketCap.Equal(decimal.RequireFromString("156852609000")))
	assert.True(t, o.PERatio.Equal(decimal.RequireFromString("19.12")))
	assert.True(t, o.DividendYield.Equal(decimal.RequireFromString("0.0391")))
	assert.True(t, o.Week52High.Equal(decimal.RequireFromString("199.18")))
	assert.True(t, o.Week52Low.Equal(decimal.RequireFromString("124.36")))

	// the second call is served from memory
	_, err = c.Overview(context.Background(), "IBM")
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
}

func TestClient_OverviewNoCache(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(ibmOverview))
	}))
	defer ts.Close()
	c := New("test-key", WithBaseURL(ts.URL), WithOverviewTTL(0))

	for i := 0; i < 2; i++ {
		_, err := c.Overview(context.Background(), "IBM")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls, "a zero ttl disables the overview cache")
}

func TestClient_OverviewMissingValues(t *testing.T) {
	c, _ := server(t, http.StatusOK, `{"Symbol": "NEWCO", "Name": "New Co", "PERatio": "None", "DividendYield": "-"}`)
	o, err := c.Overview(context.Background(), "NEWCO")
	require.NoError(t, err)
	assert.True(t, o.PERatio.IsZero())
	assert.True(t, o.DividendYield.IsZero())
	assert.True(t, o.MarketCap.IsZero())
}

func TestClient_OverviewNotFound(t *testing.T) {
	c, _ := server(t, http.StatusOK, `{}`)
	_, err := c.Overview(context.Background(), "NOPE")
	kind, _ := sprout.QuoteErrorKindOf(err)
	assert.Equal(t, sprout.QuoteNotFound, kind)
}

func TestClient_Search(t *testing.T) {
	c, _ := server(t, http.StatusOK, tescoSearch)
	matches, err := c.Search(context.Background(), "tesco")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, sprout.Match{
		Symbol:   "TSCO.LON",
		Name:     "Tesco PLC",
		Type:     "Equity",
		Region:   "United Kingdom",
		Currency: "GBX",
		Score:    0.7273,
	}, matches[0])
	assert.Equal(t, "TSCDF", matches[1].Symbol)
}

func TestClient_ImplementsQuoteSource(t *testing.T) {
	var _ sprout.QuoteSource = New(DemoKey)
	var _ sprout.Searcher = New(DemoKey)
}
