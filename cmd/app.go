// Package cmd implements the sprout command line.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/sprout"
	"github.com/etnz/sprout/alphavantage"
	"github.com/etnz/sprout/config"
	"github.com/etnz/sprout/eodhd"
	"github.com/etnz/sprout/logger"
	"github.com/etnz/sprout/yahoo"
	"github.com/google/subcommands"
	"github.com/mattn/go-isatty"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	dataDir  = flag.String("data-dir", "", "Folder holding the portfolio, defaults to $SPROUT_DATA_DIR or ~/.sprout")
	verbose  = flag.Bool("v", false, "Print debug logs")
	provider = flag.String("provider", "", "Quote provider: alphavantage, yahoo or eodhd")
	currency = flag.String("currency", "", "Currency of a new portfolio")
)

// stdout, stderr and stdin are the streams of the commands.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
)

// Commands lists every command with its group.
var Commands = []struct {
	Command subcommands.Command
	Group   string
}{
	{&summaryCmd{}, "portfolio"},
	{&holdingsCmd{}, "portfolio"},
	{&depositCmd{}, "portfolio"},
	{&withdrawCmd{}, "portfolio"},
	{&buyCmd{}, "portfolio"},
	{&sellCmd{}, "portfolio"},
	{&editCmd{}, "portfolio"},
	{&liquidateCmd{}, "portfolio"},
	{&refreshCmd{}, "portfolio"},
	{&exportCmd{}, "portfolio"},

	{&watchCmd{}, "watchlist"},
	{&unwatchCmd{}, "watchlist"},
	{&watchlistCmd{}, "watchlist"},

	{&quoteCmd{}, "market"},
	{&researchCmd{}, "market"},

	{&savingsCmd{}, "learn"},
	{&topicCmd{}, "learn"},
	{&tutorCmd{}, "learn"},
}

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
	for _, cmd := range Commands {
		c.Register(cmd.Command, cmd.Group)
	}
}

// WithLogger returns ctx carrying the logger configured by the global flags.
func WithLogger(ctx context.Context) context.Context {
	return logger.WithContext(ctx, logger.New(*verbose))
}

// loadConfig returns the settings, global flags override the files and the environment.
func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, fmt.Errorf("cannot read .env: %w", err)
	}
	cfg, err := config.Load(*dataDir)
	if err != nil {
		return cfg, err
	}
	if *provider != "" {
		cfg.Provider = *provider
	}
	if *currency != "" {
		cfg.Currency = strings.ToUpper(*currency)
	}
	return cfg, cfg.Validate()
}

func store(cfg config.Config) sprout.Store { return sprout.DirStore{Dir: cfg.DataDir} }

func openLedger(ctx context.Context, cfg config.Config) *sprout.Ledger {
	return sprout.OpenLedger(ctx, store(cfg), cfg.Seed())
}

func openWatchlist(ctx context.Context, cfg config.Config) *sprout.Watchlist {
	return sprout.OpenWatchlist(ctx, store(cfg), cfg.Currency)
}

// newQuoteSource creates the configured quote provider.
var newQuoteSource = func(cfg config.Config) sprout.QuoteSource {
	switch cfg.Provider {
	case config.ProviderYahoo:
		return yahoo.New()
	case config.ProviderEODHD:
		key := cfg.APIKey
		if key == "" {
			key = eodhd.DemoKey
		}
		opts := []eodhd.Option{}
		if err := os.MkdirAll(cfg.CacheDir(), 0o755); err == nil {
			opts = append(opts, eodhd.WithCacheDir(cfg.CacheDir()))
		}
		return eodhd.New(key, opts...)
	default:
		key := cfg.APIKey
		if key == "" {
			key = alphavantage.DemoKey
		}
		return alphavantage.New(key, alphavantage.WithOverviewTTL(cfg.OverviewTTL()))
	}
}

// newLimiter creates the configured pacing of quote calls.
var newLimiter = func(cfg config.Config) sprout.Limiter {
	if cfg.Limiter == config.LimiterBudget {
		return sprout.NewBudget(cfg.CallsPerMinute, time.Minute)
	}
	return sprout.NewFixedDelay(cfg.Delay())
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// renderMarkdown styles md for the terminal, or returns it unchanged when
// stdout is not a terminal.
func renderMarkdown(md string) string {
	if !isTerminal(stdout) {
		return md
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func printMarkdown(md string) { fmt.Fprintln(stdout, renderMarkdown(md)) }

// failure prints err and returns the matching exit status.
func failure(err error) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if errors.Is(err, sprout.ErrInvalidInput) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// resolveID returns the id in ids that is or starts with prefix.
func resolveID(ids []string, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: missing id", sprout.ErrInvalidInput)
	}
	var found []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: no id starting with %q", sprout.ErrNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d ids", sprout.ErrInvalidInput, prefix, len(found))
	}
}
