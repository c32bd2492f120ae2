package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/sprout"
	"github.com/etnz/sprout/renderer"
	"github.com/google/subcommands"
)

func holdingIDs(l *sprout.Ledger) []string {
	var ids []string
	for _, h := range l.Holdings() {
		ids = append(ids, h.ID)
	}
	return ids
}

// --- Buy Command ---

type buyCmd struct {
	symbol   string
	quantity string
	price    string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares with the portfolio cash" }
func (*buyCmd) Usage() string {
	return `sprout buy -s <symbol> -q <quantity> [-p <price>]

  Purchases shares of a symbol. The cost is debited from the cash. Without a
  price, the latest quote is used.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol, like AAPL")
	f.StringVar(&c.quantity, "q", "", "Number of shares")
	f.StringVar(&c.price, "p", "", "Price per share, the latest quote if missing")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	shares, err := parseAmount(c.quantity)
	if err != nil {
		return failure(err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}
	l := openLedger(ctx, cfg)

	var price sprout.Money
	if c.price != "" {
		p, err := parseAmount(c.price)
		if err != nil {
			return failure(err)
		}
		price = sprout.M(p, l.Currency())
	} else {
		q, err := newQuoteSource(cfg).Quote(ctx, c.symbol)
		if err != nil {
			return failure(err)
		}
		price = sprout.M(q.Price, l.Currency())
	}

	id, err := l.Buy(c.symbol, sprout.Q(shares), price)
	if err != nil {
		return failure(err)
	}
	h, _ := l.Holding(id)
	fmt.Fprintf(stdout, "Bought %s %s at %s (%s), cash is now %s\n", h.Shares, h.Symbol, h.BuyPrice, renderer.ShortID(id), l.Cash())
	return subcommands.ExitSuccess
}

// --- Sell Command ---

type sellCmd struct{}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell a holding at its current price" }
func (*sellCmd) Usage() string {
	return `sprout sell <id>

  Sells every share of a holding at its current price, the proceeds are
  credited to the cash. The id can be shortened to its first characters.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}
	l := openLedger(ctx, cfg)
	id, err := resolveID(holdingIDs(l), f.Arg(0))
	if err != nil {
		return failure(err)
	}
	h, _ := l.Holding(id)
	credit, err := l.Sell(id)
	if err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "Sold %s %s for %s, cash is now %s\n", h.Shares, h.Symbol, credit, l.Cash())
	return subcommands.ExitSuccess
}

// --- Edit Command ---

type editCmd struct {
	id       string
	quantity string
	price    string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "correct the shares and buy price of a holding" }
func (*editCmd) Usage() string {
	return `sprout edit -id <id> [-q <quantity>] [-p <buy price>]

  Changes the shares and the buy price of a holding. The difference of cost is
  taken from, or given back to, the cash.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Holding id, or its first characters")
	f.StringVar(&c.quantity, "q", "", "New number of shares, unchanged if missing")
	f.StringVar(&c.price, "p", "", "New buy price, unchanged if missing")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" || (c.quantity == "" && c.price == "") {
		f.Usage()
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}
	l := openLedger(ctx, cfg)
	id, err := resolveID(holdingIDs(l), c.id)
	if err != nil {
		return failure(err)
	}
	h, _ := l.Holding(id)
	shares, price := h.Shares, h.BuyPrice
	if c.quantity != "" {
		q, err := parseAmount(c.quantity)
		if err != nil {
			return failure(err)
		}
		shares = sprout.Q(q)
	}
	if c.price != "" {
		p, err := parseAmount(c.price)
		if err != nil {
			return failure(err)
		}
		price = sprout.M(p, l.Currency())
	}
	if err := l.EditHolding(id, shares, price); err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "%s is now %s shares bought at %s, cash is now %s\n", h.Symbol, shares, price, l.Cash())
	return subcommands.ExitSuccess
}

// --- Liquidate Command ---

type liquidateCmd struct {
	yes bool
}

func (*liquidateCmd) Name() string     { return "liquidate" }
func (*liquidateCmd) Synopsis() string { return "sell every holding" }
func (*liquidateCmd) Usage() string {
	return `sprout liquidate [-y]

  Sells every holding at its current price.
`
}

func (c *liquidateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation")
}

func (c *liquidateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}
	l := openLedger(ctx, cfg)
	holdings := l.Holdings()
	if len(holdings) == 0 {
		fmt.Fprintln(stdout, "Nothing to sell.")
		return subcommands.ExitSuccess
	}
	msg := fmt.Sprintf("Sell %d holdings for %s?", len(holdings), sprout.TotalValue(holdings))
	if !newPrompter(c.yes).Confirm(msg) {
		return subcommands.ExitSuccess
	}
	credit, err := l.LiquidateAll()
	if err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "Sold everything for %s, cash is now %s\n", credit, l.Cash())
	return subcommands.ExitSuccess
}
