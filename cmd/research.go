package cmd

import (
	"context"
	"errors"
	"flag"
	"strings"

	"github.com/etnz/sprout"
	"github.com/etnz/sprout/logger"
	"github.com/etnz/sprout/renderer"
	"github.com/google/subcommands"
)

// --- Quote Command ---

type quoteCmd struct{}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "show the latest price of a symbol" }
func (*quoteCmd) Usage() string {
	return `sprout quote <symbol>

  Shows the latest price of a symbol, without changing the portfolio.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}
	q, err := newQuoteSource(cfg).Quote(ctx, f.Arg(0))
	if err != nil {
		return failure(err)
	}
	printMarkdown(renderer.RenderQuote(renderer.NewQuote(q, cfg.Currency)))
	return subcommands.ExitSuccess
}

// --- Research Command ---

type researchCmd struct{}

func (*researchCmd) Name() string     { return "research" }
func (*researchCmd) Synopsis() string { return "learn about a company, or search for a symbol" }
func (*researchCmd) Usage() string {
	return `sprout research <symbol | keywords...>

  Shows the company overview of a symbol: sector, market capitalisation,
  P/E ratio, dividend yield and 52 week range. When the provider can search,
  the symbols matching the keywords are listed too.
`
}

func (c *researchCmd) SetFlags(f *flag.FlagSet) {}

func (c *researchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	query := strings.Join(f.Args(), " ")
	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}
	log := logger.FromContext(ctx)
	source := newQuoteSource(cfg)

	var overview *sprout.Overview
	if f.NArg() == 1 {
		o, err := source.Overview(ctx, query)
		switch kind, _ := sprout.QuoteErrorKindOf(err); {
		case err == nil:
			overview = &o
		case kind == sprout.QuoteNotFound || errors.Is(err, errors.ErrUnsupported):
			log.Debugw("no overview", "symbol", query, "error", err)
		default:
			return failure(err)
		}
	}

	var matches []sprout.Match
	if searcher, ok := source.(sprout.Searcher); ok {
		m, err := searcher.Search(ctx, query)
		if err != nil {
			log.Warnw("search failed", "keywords", query, "error", err)
		}
		matches = m
	}
	printMarkdown(renderer.RenderResearch(renderer.NewResearch(query, overview, matches)))
	return subcommands.ExitSuccess
}
