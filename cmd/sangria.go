package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/imperatriz/caixa"
)

type sangriaCmd struct {
	movementFlags
}

func (*sangriaCmd) Name() string     { return "sangria" }
func (*sangriaCmd) Synopsis() string { return "record a cash withdrawal (sangria) from a till" }
func (*sangriaCmd) Usage() string {
	return `cxa sangria -t <till> -a <amount> [-n <note>] [-d <date>]

  Records cash pulled from a till back to the vault. The amount decreases
  the till's expected balance for the day.
`
}

func (c *sangriaCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.till, "t", 1, "Till number.")
	f.StringVar(&c.amount, "a", "", "Amount of cash withdrawn.")
	f.StringVar(&c.note, "n", "", "Optional note.")
	f.StringVar(&c.date, "d", "", "Business day (defaults to today).")
}

func (c *sangriaCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return executeRecord(ctx, caixa.Withdrawal, c.movementFlags)
}
