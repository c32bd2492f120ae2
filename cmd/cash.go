package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/sprout"
	"github.com/google/subcommands"
)

// --- Deposit Command ---

type depositCmd struct {
	amount string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "add cash to the portfolio" }
func (*depositCmd) Usage() string {
	return `sprout deposit -a <amount>

  Adds simulated cash. The amount can be an expression like "12*100".
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Amount to deposit")
}

func (c *depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		return failure(err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}
	l := openLedger(ctx, cfg)
	cash, err := l.Deposit(sprout.M(amount, l.Currency()))
	if err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "Deposited %s, cash is now %s\n", sprout.M(amount, l.Currency()), cash)
	return subcommands.ExitSuccess
}

// --- Withdraw Command ---

type withdrawCmd struct {
	amount string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "take cash out of the portfolio" }
func (*withdrawCmd) Usage() string {
	return `sprout withdraw -a <amount>

  Removes simulated cash. It fails if there isn't enough cash.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Amount to withdraw")
}

func (c *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		return failure(err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}
	l := openLedger(ctx, cfg)
	cash, err := l.Withdraw(sprout.M(amount, l.Currency()))
	if err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "Withdrew %s, cash is now %s\n", sprout.M(amount, l.Currency()), cash)
	return subcommands.ExitSuccess
}
