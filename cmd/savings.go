package cmd

import (
	"context"
	"flag"

	"github.com/etnz/sprout"
	"github.com/etnz/sprout/renderer"
	"github.com/google/subcommands"
)

type savingsCmd struct {
	initial string
	monthly string
	years   int
	rate    string
}

func (*savingsCmd) Name() string     { return "savings" }
func (*savingsCmd) Synopsis() string { return "project savings with compound interest" }
func (*savingsCmd) Usage() string {
	return `sprout savings [-i <initial>] [-m <monthly>] [-y <years>] [-r <rate>]

  Projects the value of savings compounded monthly: an initial deposit, a
  contribution every month, for a number of years at a yearly rate in percent.

  $ sprout savings -i 1000 -m 100 -y 10 -r 7
`
}

func (c *savingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.initial, "i", "0", "Initial deposit")
	f.StringVar(&c.monthly, "m", "0", "Monthly contribution")
	f.IntVar(&c.years, "y", 10, "Number of years")
	f.StringVar(&c.rate, "r", "5", "Yearly interest rate in percent, can be negative")
}

func (c *savingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	plan := sprout.SavingsPlan{Years: c.years}
	var err error
	if plan.Initial, err = parseAmount(c.initial); err != nil {
		return failure(err)
	}
	if plan.Monthly, err = parseAmount(c.monthly); err != nil {
		return failure(err)
	}
	if plan.AnnualRatePercent, err = parseAmount(c.rate); err != nil {
		return failure(err)
	}
	if err := plan.Validate(); err != nil {
		return failure(err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}
	printMarkdown(renderer.RenderProjection(renderer.NewProjection(plan, sprout.Project(plan), cfg.Currency)))
	return subcommands.ExitSuccess
}
