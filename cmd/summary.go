package cmd

import (
	"context"
	"flag"

	"github.com/etnz/sprout/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio net worth and holdings" }
func (*summaryCmd) Usage() string {
	return `sprout summary

  Displays the cash, the stock value, the net worth, the gain or loss and
  every holding, at their last refreshed prices.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}
	l := openLedger(ctx, cfg)
	printMarkdown(renderer.RenderPortfolio(renderer.NewPortfolio(l.Cash(), l.Holdings())))
	return subcommands.ExitSuccess
}

type holdingsCmd struct{}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "list the holdings" }
func (*holdingsCmd) Usage() string {
	return `sprout holdings

  Lists every holding with its id, market value and gain or loss.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}
	l := openLedger(ctx, cfg)
	printMarkdown(renderer.RenderHoldings(renderer.NewPortfolio(l.Cash(), l.Holdings())))
	return subcommands.ExitSuccess
}
