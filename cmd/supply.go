package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/imperatriz/caixa"
)

type supplyCmd struct {
	movementFlags
}

func (*supplyCmd) Name() string     { return "supply" }
func (*supplyCmd) Synopsis() string { return "record a cash supply into a till" }
func (*supplyCmd) Usage() string {
	return `cxa supply -t <till> -a <amount> [-n <note>] [-d <date>]

  Records cash handed from the vault to a till. The amount increases the
  till's expected balance for the day.
`
}

func (c *supplyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.till, "t", 1, "Till number.")
	f.StringVar(&c.amount, "a", "", "Amount of cash supplied.")
	f.StringVar(&c.note, "n", "", "Optional note.")
	f.StringVar(&c.date, "d", "", "Business day (defaults to today).")
}

func (c *supplyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return executeRecord(ctx, caixa.Supply, c.movementFlags)
}
