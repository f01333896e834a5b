package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/matias9477/btc-investment-tracker/docs"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read a documentation topic" }
func (*topicCmd) Usage() string {
	return `btc topic [<topic>...]

  Prints documentation topics, the list of topics when none is given.

`
}

func (*topicCmd) SetFlags(*flag.FlagSet) {}

func (*topicCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	content, err := docs.GetTopics(topics...)
	if err != nil {
		return fail("%v", err)
	}
	printMarkdown(content)
	return subcommands.ExitSuccess
}
