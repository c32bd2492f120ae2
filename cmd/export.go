package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/sprout"
	"github.com/etnz/sprout/config"
	"github.com/gocarina/gocsv"
	"github.com/google/subcommands"
)

// holdingRecord is a CSV line of the export.
type holdingRecord struct {
	ID              string `csv:"id"`
	Symbol          string `csv:"symbol"`
	Shares          string `csv:"shares"`
	BuyPrice        string `csv:"buy_price"`
	CurrentPrice    string `csv:"current_price"`
	MarketValue     string `csv:"market_value"`
	GainLoss        string `csv:"gain_loss"`
	GainLossPercent string `csv:"gain_loss_percent"`
	Currency        string `csv:"currency"`
	AcquiredAt      string `csv:"acquired_at"`
}

// watchRecord is a CSV line of the watchlist export.
type watchRecord struct {
	ID           string `csv:"id"`
	Symbol       string `csv:"symbol"`
	AddedPrice   string `csv:"added_price"`
	CurrentPrice string `csv:"current_price"`
	Change       string `csv:"change_percent"`
	Currency     string `csv:"currency"`
	AddedAt      string `csv:"added_at"`
}

func percent(p sprout.Percent) string {
	if p.IsNaN() {
		return ""
	}
	return fmt.Sprintf("%.2f", float64(p))
}

func holdingRecords(holdings []sprout.Holding) []*holdingRecord {
	records := make([]*holdingRecord, 0, len(holdings))
	for _, h := range holdings {
		r := &holdingRecord{
			ID:              h.ID,
			Symbol:          h.Symbol,
			Shares:          h.Shares.String(),
			BuyPrice:        h.BuyPrice.Decimal().String(),
			CurrentPrice:    h.CurrentPrice.Decimal().String(),
			MarketValue:     sprout.MarketValue(h).Decimal().String(),
			GainLoss:        sprout.GainLoss(h).Decimal().String(),
			GainLossPercent: percent(sprout.GainLossPercent(h)),
			Currency:        h.BuyPrice.Currency(),
		}
		if !h.AcquiredAt.IsZero() {
			r.AcquiredAt = h.AcquiredAt.UTC().Format("2006-01-02T15:04:05Z")
		}
		records = append(records, r)
	}
	return records
}

func watchRecords(items []sprout.WatchItem) []*watchRecord {
	records := make([]*watchRecord, 0, len(items))
	for _, i := range items {
		r := &watchRecord{
			ID:           i.ID,
			Symbol:       i.Symbol,
			AddedPrice:   i.AddedPrice.Decimal().String(),
			CurrentPrice: i.CurrentPrice.Decimal().String(),
			Change:       percent(i.Change()),
			Currency:     i.CurrentPrice.Currency(),
		}
		if !i.AddedAt.IsZero() {
			r.AddedAt = i.AddedAt.UTC().Format("2006-01-02T15:04:05Z")
		}
		records = append(records, r)
	}
	return records
}

type exportCmd struct {
	output    string
	watchlist bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the holdings or the watchlist as CSV" }
func (*exportCmd) Usage() string {
	return `sprout export [-o <file.csv>] [-w]

  Writes the holdings (or the watchlist with -w) as CSV, to be opened in a
  spreadsheet. It writes to the standard output without -o.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, standard output if missing")
	f.BoolVar(&c.watchlist, "w", false, "Export the watchlist instead of the holdings")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}

	if c.output == "" {
		if err := c.write(ctx, cfg, stdout); err != nil {
			return failure(err)
		}
		return subcommands.ExitSuccess
	}

	file, err := createFile(c.output)
	if err != nil {
		return failure(err)
	}
	if err := c.write(ctx, cfg, file); err != nil {
		file.Close()
		return failure(err)
	}
	if err := file.Close(); err != nil {
		return failure(fmt.Errorf("cannot write %s: %w", c.output, err))
	}
	fmt.Fprintf(stderr, "Exported to %s\n", c.output)
	return subcommands.ExitSuccess
}

// createFile creates the export file.
var createFile = func(name string) (io.WriteCloser, error) { return os.Create(name) }

// write writes the csv records to w.
func (c *exportCmd) write(ctx context.Context, cfg config.Config, w io.Writer) error {
	var err error
	if c.watchlist {
		err = gocsv.Marshal(watchRecords(openWatchlist(ctx, cfg).Items()), w)
	} else {
		err = gocsv.Marshal(holdingRecords(openLedger(ctx, cfg).Holdings()), w)
	}
	if err != nil {
		return fmt.Errorf("cannot write csv: %w", err)
	}
	return nil
}
