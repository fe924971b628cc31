package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/imperatriz/caixa"
)

type checkCmd struct {
	movementFlags
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "record a check received at a till" }
func (*checkCmd) Usage() string {
	return `cxa check -t <till> -a <amount> [-n <note>] [-d <date>]

  Records a check received at a till. Checks are tracked for the day's
  consolidation but never enter the till's expected cash balance.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.till, "t", 1, "Till number.")
	f.StringVar(&c.amount, "a", "", "Check amount.")
	f.StringVar(&c.note, "n", "", "Optional note, e.g. the check number.")
	f.StringVar(&c.date, "d", "", "Business day (defaults to today).")
}

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return executeRecord(ctx, caixa.Check, c.movementFlags)
}
