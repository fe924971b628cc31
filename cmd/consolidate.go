package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/imperatriz/caixa/renderer"
)

type consolidateCmd struct {
	date string
}

func (*consolidateCmd) Name() string     { return "consolidate" }
func (*consolidateCmd) Synopsis() string { return "display the agency-wide consolidation of a day" }
func (*consolidateCmd) Usage() string {
	return `cxa consolidate [-d <date>]

  Aggregates every till and the vault into the agency-wide picture of a
  business day: totals, divergent tills and the vault final position.
`
}

func (c *consolidateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Business day (defaults to today).")
}

func (c *consolidateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(c.date)
	if err != nil {
		return fail(fmt.Errorf("parsing date: %w", err))
	}

	book, closer, err := openBook()
	if err != nil {
		return fail(err)
	}
	defer closer()

	summary, err := book.Consolidate(ctx, day)
	if err != nil {
		return fail(err)
	}

	printMarkdown(renderer.RenderConsolidation(renderer.NewConsolidation(summary)))
	return subcommands.ExitSuccess
}
