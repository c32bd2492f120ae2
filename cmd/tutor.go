package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/sprout/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type tutorCmd struct{}

func (*tutorCmd) Name() string     { return "tutor" }
func (*tutorCmd) Synopsis() string { return "chat with an AI tutor about your portfolio" }
func (*tutorCmd) Usage() string {
	return `sprout tutor [<question>...]

  Starts a conversation with a Gemini tutor that can read your simulated
  portfolio, project savings and read the lessons. It needs a Gemini API key
  in $GEMINI_API_KEY or gemini_api_key in sprout.toml.
`
}

func (*tutorCmd) SetFlags(_ *flag.FlagSet) {}

func (c *tutorCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}
	if cfg.GeminiAPIKey == "" {
		return failure(fmt.Errorf("no Gemini API key, set GEMINI_API_KEY"))
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.GeminiAPIKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return failure(fmt.Errorf("cannot create the Gemini client: %w", err))
	}

	a := agent.New(stdout, stdin,
		agent.NewAccountant(openLedger(ctx, cfg), openWatchlist(ctx, cfg)),
		agent.NewPlanner(cfg.Currency),
		agent.NewLibrarian(),
		agent.NewTrader(),
	)
	a.Render = renderMarkdown

	if err := a.Run(ctx, client, strings.Join(f.Args(), " ")); err != nil {
		return failure(fmt.Errorf("tutor failed: %w", err))
	}
	return subcommands.ExitSuccess
}
