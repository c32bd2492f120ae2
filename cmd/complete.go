package cmd

import (
	"flag"

	"github.com/etnz/sprout/config"
	"github.com/etnz/sprout/learn"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of every command.
//
// Install it with COMP_INSTALL=1 sprout.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub: make(map[string]*complete.Command),
		Flags: map[string]complete.Predictor{
			"data-dir": predict.Dirs("*"),
			"v":        predict.Nothing,
			"provider": predict.Set{config.ProviderAlphaVantage, config.ProviderYahoo, config.ProviderEODHD},
			"currency": predict.Set{"USD", "EUR", "GBP", "CHF", "JPY", "CAD"},
		},
	}
	topics, _ := learn.GetAllTopics()
	args := map[string]complete.Predictor{
		"topic": predict.Set(topics),
	}

	for _, c := range Commands {
		fs := flag.NewFlagSet(c.Command.Name(), flag.ContinueOnError)
		c.Command.SetFlags(fs)
		sub := &complete.Command{Flags: make(map[string]complete.Predictor), Args: args[c.Command.Name()]}
		fs.VisitAll(func(f *flag.Flag) { sub.Flags[f.Name] = predictFlag(f) })
		root.Sub[c.Command.Name()] = sub
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}

func predictFlag(f *flag.Flag) complete.Predictor {
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	if f.Name == "o" {
		return predict.Files("*.csv")
	}
	return predict.Something
}
