package cmd

import (
	"context"
	"flag"

	"github.com/etnz/sprout/learn"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read a lesson" }
func (*topicCmd) Usage() string {
	return `sprout topic [<topic>...]

  Shows lessons about stocks, saving and investing. Without a topic it lists
  them, '*' shows them all.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	doc, err := learn.GetTopics(topics...)
	if err != nil {
		return failure(err)
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
