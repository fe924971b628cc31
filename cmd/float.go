package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/imperatriz/caixa"
)

type floatCmd struct {
	till   int
	amount string
	date   string
}

func (*floatCmd) Name() string     { return "float" }
func (*floatCmd) Synopsis() string { return "set the opening float of a till" }
func (*floatCmd) Usage() string {
	return `cxa float -t <till> -a <amount> [-d <date>]

  Sets the opening float of a till for a business day: the cash already
  in the drawer when the day starts. Zero is a valid float.
`
}

func (c *floatCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.till, "t", 1, "Till number.")
	f.StringVar(&c.amount, "a", "", "Opening float amount.")
	f.StringVar(&c.date, "d", "", "Business day (defaults to today).")
}

func (c *floatCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if err := book.SetOpeningFloat(ctx, c.till, day, amount, *operator); err != nil {
		return fail(err)
	}

	fmt.Printf("Opening float of till %d on %s set to %s\n", c.till, day, amount)
	return subcommands.ExitSuccess
}
