package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/imperatriz/caixa"
)

type countCmd struct {
	till   int
	amount string
	date   string
}

func (*countCmd) Name() string     { return "count" }
func (*countCmd) Synopsis() string { return "record the machine count of a till" }
func (*countCmd) Usage() string {
	return `cxa count -t <till> -a <amount> [-d <date>]

  Records the cash amount counted by the lottery machine at a till. A
  machine count is required before the till can be closed.
`
}

func (c *countCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.till, "t", 1, "Till number.")
	f.StringVar(&c.amount, "a", "", "Counted amount.")
	f.StringVar(&c.date, "d", "", "Business day (defaults to today).")
}

func (c *countCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(c.date)
	if err != nil {
		return fail(fmt.Errorf("parsing date: %w", err))
	}

	book, closer, err := openBook()
	if err != nil {
		return fail(err)
	}
	defer closer()

	amount, err := caixa.ParseMoney(c.amount, book.Currency())
	if err != nil {
		return fail(fmt.Errorf("parsing amount: %w", err))
	}

	if err := book.SetMachineCount(ctx, c.till, day, amount, *operator); err != nil {
		return fail(err)
	}

	fmt.Printf("Machine count of till %d on %s set to %s\n", c.till, day, amount)
	return subcommands.ExitSuccess
}
