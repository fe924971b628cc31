package cmd

import (
	"context"
	"fmt"

	"github.com/google/subcommands"
	"github.com/imperatriz/caixa"
)

// movementFlags are the flags shared by the supply, sangria and check
// subcommands.
type movementFlags struct {
	till   int
	amount string
	note   string
	date   string
}

// executeRecord records one movement of the given kind on the chosen till.
func executeRecord(ctx context.Context, kind caixa.MovementKind, flags movementFlags) subcommands.ExitStatus {
	day, err := parseDay(flags.date)
	if err != nil {
		return fail(fmt.Errorf("parsing date: %w", err))
	}

	book, closer, err := openBook()
	if err != nil {
		return fail(err)
	}
	defer closer()

	amount, err := caixa.ParseMoney(flags.amount, book.Currency())
	if err != nil {
		return fail(fmt.Errorf("parsing amount: %w", err))
	}

	m, err := book.RecordMovement(ctx, flags.till, kind, amount, flags.note, day, *operator)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("Recorded %s of %s on till %d (%s) id=%s\n", kind, m.Amount, m.Till, m.Day, m.ID)
	return subcommands.ExitSuccess
}
