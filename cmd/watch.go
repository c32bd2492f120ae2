package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/sprout"
	"github.com/etnz/sprout/renderer"
	"github.com/google/subcommands"
)

// --- Watch Command ---

type watchCmd struct {
	price string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "follow a symbol without buying it" }
func (*watchCmd) Usage() string {
	return `sprout watch [-p <price>] <symbol>

  Adds a symbol to the watchlist, at its latest quote unless a price is given.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.price, "p", "", "Reference price, the latest quote if missing")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	symbol := sprout.NormalizeSymbol(f.Arg(0))
	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}
	w := openWatchlist(ctx, cfg)

	var price sprout.Money
	if c.price != "" {
		p, err := parseAmount(c.price)
		if err != nil {
			return failure(err)
		}
		price = sprout.M(p, cfg.Currency)
	} else {
		q, err := newQuoteSource(cfg).Quote(ctx, symbol)
		if err != nil {
			return failure(err)
		}
		price = sprout.M(q.Price, cfg.Currency)
	}
	id, err := w.Add(symbol, price)
	if err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "Watching %s from %s (%s)\n", symbol, price, renderer.ShortID(id))
	return subcommands.ExitSuccess
}

// --- Unwatch Command ---

type unwatchCmd struct{}

func (*unwatchCmd) Name() string     { return "unwatch" }
func (*unwatchCmd) Synopsis() string { return "stop following a symbol" }
func (*unwatchCmd) Usage() string {
	return `sprout unwatch <id|symbol>

  Removes an item from the watchlist, by id (or its first characters) or by
  symbol.
`
}

func (c *unwatchCmd) SetFlags(f *flag.FlagSet) {}

func (c *unwatchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}
	w := openWatchlist(ctx, cfg)

	var ids []string
	var item sprout.WatchItem
	for _, i := range w.Items() {
		if i.Symbol == sprout.NormalizeSymbol(f.Arg(0)) {
			item = i
		}
		ids = append(ids, i.ID)
	}
	if item.ID == "" {
		id, err := resolveID(ids, f.Arg(0))
		if err != nil {
			return failure(err)
		}
		for _, i := range w.Items() {
			if i.ID == id {
				item = i
			}
		}
	}
	if err := w.Remove(item.ID); err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "Stopped watching %s\n", item.Symbol)
	return subcommands.ExitSuccess
}

// --- Watchlist Command ---

type watchlistCmd struct{}

func (*watchlistCmd) Name() string     { return "watchlist" }
func (*watchlistCmd) Synopsis() string { return "list the watched symbols" }
func (*watchlistCmd) Usage() string {
	return `sprout watchlist

  Lists the watched symbols and their price change since added.
`
}

func (c *watchlistCmd) SetFlags(f *flag.FlagSet) {}

func (c *watchlistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}
	printMarkdown(renderer.RenderWatchlist(renderer.NewWatchlist(openWatchlist(ctx, cfg).Items())))
	return subcommands.ExitSuccess
}
