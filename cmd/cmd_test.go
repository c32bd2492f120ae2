package cmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/sprout"
	"github.com/etnz/sprout/config"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// fakeQuotes prices symbols from a map.
type fakeQuotes map[string]float64

func (f fakeQuotes) Quote(ctx context.Context, symbol string) (sprout.Quote, error) {
	symbol = sprout.NormalizeSymbol(symbol)
	p, ok := f[symbol]
	if !ok {
		return sprout.Quote{}, sprout.NewQuoteError(symbol, sprout.QuoteNotFound, nil)
	}
	return sprout.Quote{Symbol: symbol, Price: decimal.NewFromFloat(p), Source: "fake"}, nil
}

func (f fakeQuotes) Overview(ctx context.Context, symbol string) (sprout.Overview, error) {
	symbol = sprout.NormalizeSymbol(symbol)
	if _, ok := f[symbol]; !ok {
		return sprout.Overview{}, sprout.NewQuoteError(symbol, sprout.QuoteNotFound, nil)
	}
	return sprout.Overview{Symbol: symbol, Name: symbol + " Inc.", Currency: "USD", Sector: "TECHNOLOGY"}, nil
}

// app is a sprout command line working in a temporary data folder.
type app struct {
	t      *testing.T
	dir    string
	quotes fakeQuotes
	out    bytes.Buffer
	err    bytes.Buffer
}

func newApp(t *testing.T) *app {
	t.Helper()
	for _, name := range []string{"SPROUT_DATA_DIR", "SPROUT_PROVIDER", "SPROUT_API_KEY", "ALPHAVANTAGE_API_KEY", "SPROUT_CURRENCY", "SPROUT_LIMITER", "SPROUT_DELAY", "SPROUT_CALLS_PER_MINUTE", "SPROUT_OVERVIEW_TTL", "SPROUT_GEMINI_API_KEY", "GEMINI_API_KEY"} {
		t.Setenv(name, "")
	}
	a := &app{t: t, dir: t.TempDir(), quotes: fakeQuotes{"AAPL": 200, "MSFT": 300, "NVDA": 100, "IBM": 172.07}}

	oldQuotes, oldLimiter, oldInteractive := newQuoteSource, newLimiter, interactive
	newQuoteSource = func(config.Config) sprout.QuoteSource { return a.quotes }
	newLimiter = func(config.Config) sprout.Limiter { return sprout.NewFixedDelay(0) }
	interactive = func() bool { return false }
	stdout, stderr, stdin = &a.out, &a.err, strings.NewReader("")
	*dataDir = a.dir
	t.Cleanup(func() {
		newQuoteSource, newLimiter, interactive = oldQuotes, oldLimiter, oldInteractive
		stdout, stderr, stdin = os.Stdout, os.Stderr, os.Stdin
		*dataDir = ""
	})
	return a
}

// run executes a command line and returns its standard output.
func (a *app) run(want subcommands.ExitStatus, args ...string) string {
	a.t.Helper()
	top := flag.NewFlagSet("sprout", flag.ContinueOnError)
	commander := subcommands.NewCommander(top, "sprout")
	Register(commander)
	if err := top.Parse(args); err != nil {
		a.t.Fatal(err)
	}
	a.out.Reset()
	a.err.Reset()
	if got := commander.Execute(context.Background()); got != want {
		a.t.Fatalf("sprout %s = %v, want %v\nstdout:\n%s\nstderr:\n%s", strings.Join(args, " "), got, want, a.out.String(), a.err.String())
	}
	return a.out.String()
}

func (a *app) ledger() *sprout.Ledger {
	return sprout.OpenLedger(context.Background(), sprout.DirStore{Dir: a.dir}, sprout.DefaultSeed())
}

func (a *app) watchlist() *sprout.Watchlist {
	return sprout.OpenWatchlist(context.Background(), sprout.DirStore{Dir: a.dir}, "USD")
}

func assertContains(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("output does not contain %q:\n%s", w, got)
		}
	}
}

func TestSummary_Seed(t *testing.T) {
	a := newApp(t)
	out := a.run(subcommands.ExitSuccess, "summary")
	assertContains(t, out,
		"| Cash | $2.66 |",
		"| **Net Worth** | **$902.66** |",
		"| AAPL | 5 | $150.00 | $180.00 | $900.00 | +$150.00 | +20.00% |",
	)
}

func TestCash(t *testing.T) {
	a := newApp(t)
	assertContains(t, a.run(subcommands.ExitSuccess, "deposit", "-a", "1000 - 2.66"), "cash is now $1,000.00")
	assertContains(t, a.run(subcommands.ExitSuccess, "withdraw", "-a", "250"), "cash is now $750.00")

	a.run(subcommands.ExitFailure, "withdraw", "-a", "1000")
	assertContains(t, a.err.String(), "insufficient funds")

	a.run(subcommands.ExitUsageError, "deposit", "-a", "-5")
	a.run(subcommands.ExitUsageError, "deposit", "-a", "lots")

	if got := a.ledger().Cash(); !got.Equal(sprout.M(750, "USD")) {
		t.Errorf("cash = %v, want $750.00", got)
	}
}

func TestTrade(t *testing.T) {
	a := newApp(t)
	a.run(subcommands.ExitSuccess, "deposit", "-a", "1000")

	// without a price the quote is used
	assertContains(t, a.run(subcommands.ExitSuccess, "buy", "-s", "msft", "-q", "2"), "Bought 2 MSFT at $300.00")
	assertContains(t, a.run(subcommands.ExitSuccess, "buy", "-s", "AAPL", "-q", "1", "-p", "190"), "Bought 1 AAPL at $190.00")
	if got := a.ledger().Cash(); !got.Equal(sprout.M(212.66, "USD")) {
		t.Errorf("cash after buying = %v, want $212.66", got)
	}

	a.run(subcommands.ExitFailure, "buy", "-s", "MSFT", "-q", "10")
	assertContains(t, a.err.String(), "insufficient funds")
	a.run(subcommands.ExitUsageError, "buy", "-s", "MSFT", "-q", "0", "-p", "1")
	a.run(subcommands.ExitFailure, "buy", "-s", "NOPE", "-q", "1")
	assertContains(t, a.err.String(), "not found")
	a.run(subcommands.ExitUsageError, "buy", "-s", "MSFT")

	holdings := a.ledger().Holdings()
	if len(holdings) != 3 {
		t.Fatalf("got %d holdings, want 3", len(holdings))
	}
	msft := holdings[1]

	assertContains(t, a.run(subcommands.ExitSuccess, "edit", "-id", msft.ID[:8], "-p", "250"), "MSFT is now 2 shares bought at $250.00")
	if got := a.ledger().Cash(); !got.Equal(sprout.M(312.66, "USD")) {
		t.Errorf("cash after edit = %v, want $312.66", got)
	}

	assertContains(t, a.run(subcommands.ExitSuccess, "sell", msft.ID[:8]), "Sold 2 MSFT for $600.00")
	a.run(subcommands.ExitFailure, "sell", "zzzz")
	assertContains(t, a.err.String(), "not found")
	a.run(subcommands.ExitUsageError, "sell")

	if got := len(a.ledger().Holdings()); got != 2 {
		t.Errorf("got %d holdings after sale, want 2", got)
	}
}

func TestLiquidate(t *testing.T) {
	a := newApp(t)

	// no terminal, no -y: nothing happens
	assertContains(t, a.run(subcommands.ExitSuccess, "liquidate"), "Use -y")
	if got := len(a.ledger().Holdings()); got != 1 {
		t.Fatalf("liquidate without confirmation sold %d holdings", 1-got)
	}

	assertContains(t, a.run(subcommands.ExitSuccess, "liquidate", "-y"), "cash is now $902.66")
	assertContains(t, a.run(subcommands.ExitSuccess, "liquidate", "-y"), "Nothing to sell.")
}

func TestLiquidate_Interactive(t *testing.T) {
	a := newApp(t)
	interactive = func() bool { return true }
	stdin = strings.NewReader("y\n")
	assertContains(t, a.run(subcommands.ExitSuccess, "liquidate"), "[y/N]", "Sold everything for $900.00")
}

func TestRefresh(t *testing.T) {
	a := newApp(t)
	assertContains(t, a.run(subcommands.ExitSuccess, "refresh"), "cancelled")

	out := a.run(subcommands.ExitSuccess, "refresh", "-y")
	assertContains(t, out, "Refresh 1 holdings symbols?", "1 of 1 symbols refreshed")
	if got := a.ledger().Holdings()[0].CurrentPrice; !got.Equal(sprout.M(200, "USD")) {
		t.Errorf("AAPL current price = %v, want $200.00", got)
	}

	delete(a.quotes, "AAPL")
	assertContains(t, a.run(subcommands.ExitSuccess, "refresh", "-y"), "0 of 1 symbols refreshed", "| AAPL | not found |")
	assertContains(t, a.err.String(), "Cannot refresh AAPL")
}

func TestWatchlist(t *testing.T) {
	a := newApp(t)
	assertContains(t, a.run(subcommands.ExitSuccess, "watchlist"), "Nothing watched yet.")

	assertContains(t, a.run(subcommands.ExitSuccess, "watch", "nvda"), "Watching NVDA from $100.00")
	assertContains(t, a.run(subcommands.ExitSuccess, "watch", "-p", "280", "MSFT"), "Watching MSFT from $280.00")
	a.run(subcommands.ExitUsageError, "watch", "NVDA")
	assertContains(t, a.err.String(), "already watched")

	a.quotes["NVDA"] = 125
	assertContains(t, a.run(subcommands.ExitSuccess, "refresh", "-y", "-w"), "2 of 2 symbols refreshed")
	assertContains(t, a.run(subcommands.ExitSuccess, "watchlist"), "| NVDA |", "+25.00%", "+7.14%")

	assertContains(t, a.run(subcommands.ExitSuccess, "unwatch", "nvda"), "Stopped watching NVDA")
	items := a.watchlist().Items()
	if len(items) != 1 || items[0].Symbol != "MSFT" {
		t.Fatalf("watchlist = %v, want MSFT only", items)
	}
	assertContains(t, a.run(subcommands.ExitSuccess, "unwatch", items[0].ID[:8]), "Stopped watching MSFT")
	a.run(subcommands.ExitFailure, "unwatch", "MSFT")

	// the holdings are untouched
	if got := a.ledger().Cash(); !got.Equal(sprout.M(2.66, "USD")) {
		t.Errorf("cash = %v, the watchlist changed it", got)
	}
}

func TestQuoteAndResearch(t *testing.T) {
	a := newApp(t)
	assertContains(t, a.run(subcommands.ExitSuccess, "quote", "ibm"), "# IBM", "**$172.07**")
	a.run(subcommands.ExitFailure, "quote", "NOPE")

	assertContains(t, a.run(subcommands.ExitSuccess, "research", "IBM"), "## IBM Inc. (IBM)", "TECHNOLOGY")
	assertContains(t, a.run(subcommands.ExitSuccess, "research", "big", "blue"), "Nothing found for big blue.")
}

func TestSavings(t *testing.T) {
	a := newApp(t)
	out := a.run(subcommands.ExitSuccess, "savings", "-i", "1000", "-m", "100", "-y", "10", "-r", "7")
	assertContains(t, out, "**$19,318.14**", "| Total Contributions | $13,000.00 |")

	a.run(subcommands.ExitUsageError, "savings", "-y", "-1")
	a.run(subcommands.ExitUsageError, "savings", "-m", "-100")
}

func TestExport(t *testing.T) {
	a := newApp(t)
	out := a.run(subcommands.ExitSuccess, "export")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("export has %d lines, want a header and one holding:\n%s", len(lines), out)
	}
	if want := "id,symbol,shares,buy_price,current_price,market_value,gain_loss,gain_loss_percent,currency,acquired_at"; lines[0] != want {
		t.Errorf("export header = %q, want %q", lines[0], want)
	}
	assertContains(t, lines[1], ",AAPL,5,150,180,900,150,20.00,USD,")

	file := filepath.Join(t.TempDir(), "watch.csv")
	a.run(subcommands.ExitSuccess, "watch", "NVDA")
	a.run(subcommands.ExitSuccess, "export", "-w", "-o", file)
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, string(data), "id,symbol,added_price,current_price,change_percent,currency,added_at", ",NVDA,100,100,0.00,USD,")
}

// unflushedFile is an export file whose Close fails.
type unflushedFile struct{ bytes.Buffer }

func (*unflushedFile) Close() error { return errors.New("no space left on device") }

func TestExport_CloseError(t *testing.T) {
	a := newApp(t)
	old := createFile
	createFile = func(string) (io.WriteCloser, error) { return &unflushedFile{}, nil }
	t.Cleanup(func() { createFile = old })

	a.run(subcommands.ExitFailure, "export", "-o", "holdings.csv")
	assertContains(t, a.err.String(), "no space left on device")
	if strings.Contains(a.err.String(), "Exported to") {
		t.Errorf("export reported a success on a failed close:\n%s", a.err.String())
	}
}

func TestTopic(t *testing.T) {
	a := newApp(t)
	assertContains(t, a.run(subcommands.ExitSuccess, "topic"), "# Learn", "compound-interest")
	assertContains(t, a.run(subcommands.ExitSuccess, "topic", "stocks", "tips"), "# Stocks", "# Tips")
	a.run(subcommands.ExitFailure, "topic", "crypto")
}

func TestTutor_NoKey(t *testing.T) {
	a := newApp(t)
	a.run(subcommands.ExitFailure, "tutor")
	assertContains(t, a.err.String(), "GEMINI_API_KEY")
}

func TestGlobalFlags(t *testing.T) {
	a := newApp(t)
	*currency = "eur"
	t.Cleanup(func() { *currency = "" })
	assertContains(t, a.run(subcommands.ExitSuccess, "summary"), "€")

	*provider = "bloomberg"
	t.Cleanup(func() { *provider = "" })
	a.run(subcommands.ExitFailure, "summary")
	assertContains(t, a.err.String(), "unknown provider")
}

func TestResolveID(t *testing.T) {
	ids := []string{"0b6f1c2e-1", "0b6f9999-2", "a1"}
	testCases := []struct {
		prefix  string
		want    string
		wantErr error
	}{
		{prefix: "a1", want: "a1"},
		{prefix: "0b6f1", want: "0b6f1c2e-1"},
		{prefix: "0b6f9999-2", want: "0b6f9999-2"},
		{prefix: "0b6f", wantErr: sprout.ErrInvalidInput},
		{prefix: "ff", wantErr: sprout.ErrNotFound},
		{prefix: "", wantErr: sprout.ErrInvalidInput},
	}
	for _, tc := range testCases {
		got, err := resolveID(ids, tc.prefix)
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("resolveID(%q) error = %v, want %v", tc.prefix, err, tc.wantErr)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("resolveID(%q) = %q, %v, want %q", tc.prefix, got, err, tc.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		expr    string
		want    string
		wantErr bool
	}{
		{expr: "1000", want: "1000"},
		{expr: " 2.66 ", want: "2.66"},
		{expr: "10_000", want: "10000"},
		{expr: "12*150", want: "1800"},
		{expr: "1000 - 2.66", want: "997.34"},
		{expr: "(100 + 50) / 2", want: "75"},
		{expr: "", wantErr: true},
		{expr: "abc", wantErr: true},
		{expr: "1 +", wantErr: true},
		{expr: `"text"`, wantErr: true},
	}
	for _, tc := range testCases {
		got, err := parseAmount(tc.expr)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseAmount(%q) = %v, want an error", tc.expr, got)
			}
			continue
		}
		if err != nil || !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("parseAmount(%q) = %v, %v, want %s", tc.expr, got, err, tc.want)
		}
	}
}

func TestCompletion(t *testing.T) {
	c := Completion()
	for _, cmd := range Commands {
		sub, ok := c.Sub[cmd.Command.Name()]
		if !ok {
			t.Errorf("no completion for %s", cmd.Command.Name())
			continue
		}
		fs := flag.NewFlagSet(cmd.Command.Name(), flag.ContinueOnError)
		cmd.Command.SetFlags(fs)
		fs.VisitAll(func(f *flag.Flag) {
			if _, ok := sub.Flags[f.Name]; !ok {
				t.Errorf("no completion for %s -%s", cmd.Command.Name(), f.Name)
			}
		})
	}
	if c.Sub["topic"].Args == nil {
		t.Error("topic arguments are not completed")
	}
}
