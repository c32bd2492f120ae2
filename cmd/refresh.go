package cmd

import (
	"context"
	"errors"
	"flag"

	"github.com/etnz/sprout"
	"github.com/etnz/sprout/renderer"
	"github.com/google/subcommands"
)

type refreshCmd struct {
	yes       bool
	watchlist bool
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "update the prices of the holdings or of the watchlist" }
func (*refreshCmd) Usage() string {
	return `sprout refresh [-y] [-w]

  Quotes every symbol of the holdings (or of the watchlist with -w), one
  after the other to respect the provider's rate limit. A symbol that cannot
  be quoted keeps its previous price. Interrupt with Ctrl+C to stop after the
  current symbol.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation")
	f.BoolVar(&c.watchlist, "w", false, "Refresh the watchlist instead of the holdings")
}

func (c *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}
	var target sprout.RefreshTarget
	if c.watchlist {
		target = openWatchlist(ctx, cfg).RefreshTarget()
	} else {
		target = openLedger(ctx, cfg).RefreshTarget()
	}

	r := sprout.NewRefresher(newQuoteSource(cfg), newLimiter(cfg), newPrompter(c.yes))
	report, err := r.Run(ctx, target)
	printMarkdown(renderer.RenderRefresh(renderer.NewRefresh(report)))
	switch {
	case errors.Is(err, context.Canceled):
		return failure(errors.New("refresh interrupted, remaining symbols keep their previous price"))
	case err != nil:
		return failure(err)
	}
	return subcommands.ExitSuccess
}
