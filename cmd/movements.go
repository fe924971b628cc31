package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type movementsCmd struct {
	till   int
	date   string
	voided bool
}

func (*movementsCmd) Name() string     { return "movements" }
func (*movementsCmd) Synopsis() string { return "list the movements of a till for one day" }
func (*movementsCmd) Usage() string {
	return `cxa movements -t <till> [-d <date>] [-voided]

  Lists the movements of a till for a business day, most recent first.
  Voided movements are hidden unless -voided is given.
`
}

func (c *movementsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.till, "t", 1, "Till number.")
	f.StringVar(&c.date, "d", "", "Business day (defaults to today).")
	f.BoolVar(&c.voided, "voided", false, "Include voided movements.")
}

func (c *movementsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(c.date)
	if err != nil {
		return fail(fmt.Errorf("parsing date: %w", err))
	}

	book, closer, err := openBook()
	if err != nil {
		return fail(err)
	}
	defer closer()

	movements, err := book.Movements(ctx, c.till, day, c.voided)
	if err != nil {
		return fail(err)
	}

	if len(movements) == 0 {
		fmt.Printf("No movements on till %d for %s.\n", c.till, day)
		return subcommands.ExitSuccess
	}

	for _, m := range movements {
		mark := " "
		if m.Voided {
			mark = "x"
		}
		fmt.Printf("%s %s  %-10s %12s  %s  %s\n", mark, m.CreatedAt.Format("15:04"), m.Kind, m.Amount, m.ID, m.Note)
	}
	return subcommands.ExitSuccess
}
