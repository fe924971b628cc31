package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/imperatriz/caixa/renderer"
)

type closeCmd struct {
	till int
	note string
	date string
}

func (*closeCmd) Name() string     { return "close" }
func (*closeCmd) Synopsis() string { return "close a till for the day" }
func (*closeCmd) Usage() string {
	return `cxa close -t <till> [-n <note>] [-d <date>]

  Closes a till for the business day and prints its reconciliation.
  Closing requires a machine count (see 'cxa count') and cannot be
  undone.
`
}

func (c *closeCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.till, "t", 1, "Till number.")
	f.StringVar(&c.note, "n", "", "Optional closing note.")
	f.StringVar(&c.date, "d", "", "Business day (defaults to today).")
}

func (c *closeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(c.date)
	if err != nil {
		return fail(fmt.Errorf("parsing date: %w", err))
	}

	book, closer, err := openBook()
	if err != nil {
		return fail(err)
	}
	defer closer()

	result, err := book.CloseTill(ctx, c.till, day, c.note, *operator)
	if err != nil {
		return fail(err)
	}

	movements, err := book.Movements(ctx, c.till, day, false)
	if err != nil {
		return fail(err)
	}

	printMarkdown(renderer.RenderReconciliation(renderer.NewReconciliation(result, movements, nil)))
	return subcommands.ExitSuccess
}
