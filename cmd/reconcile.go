package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/imperatriz/caixa"
	"github.com/imperatriz/caixa/renderer"
)

type reconcileCmd struct {
	till int
	date string
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "display the reconciliation of a till" }
func (*reconcileCmd) Usage() string {
	return `cxa reconcile -t <till> [-d <date>]

  Computes and displays the reconciliation of a till for a business day:
  opening float, supplies, withdrawals, checks, expected balance and the
  divergence against the machine count when one was recorded.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.till, "t", 1, "Till number.")
	f.StringVar(&c.date, "d", "", "Business day (defaults to today).")
}

func (c *reconcileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(c.date)
	if err != nil {
		return fail(fmt.Errorf("parsing date: %w", err))
	}

	book, closer, err := openBook()
	if err != nil {
		return fail(err)
	}
	defer closer()

	result, err := book.Reconcile(ctx, c.till, day)
	if err != nil {
		return fail(err)
	}

	movements, err := book.Movements(ctx, c.till, day, false)
	if err != nil {
		return fail(err)
	}

	// When the till was closed, compare against the snapshot taken at
	// closing time so late edits are visible.
	var snapshot *caixa.ReconciliationResult
	reg, err := book.Register(ctx, c.till, day)
	if err != nil {
		return fail(err)
	}
	snapshot = reg.ClosingSnapshot

	printMarkdown(renderer.RenderReconciliation(renderer.NewReconciliation(result, movements, snapshot)))
	return subcommands.ExitSuccess
}
