package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type voidCmd struct {
	id           string
	confirmation string
}

func (*voidCmd) Name() string     { return "void" }
func (*voidCmd) Synopsis() string { return "void a recorded movement" }
func (*voidCmd) Usage() string {
	return `cxa void -id <movement_id> -confirm <phrase>

  Voids a movement. The movement stays in the ledger for audit but no
  longer counts toward any balance. Requires the agency confirmation
  phrase configured in caixa.toml.
`
}

func (c *voidCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Identifier of the movement to void.")
	f.StringVar(&c.confirmation, "confirm", "", "Agency confirmation phrase.")
}

func (c *voidCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		return fail(fmt.Errorf("missing -id"))
	}

	book, closer, err := openBook()
	if err != nil {
		return fail(err)
	}
	defer closer()

	if err := book.VoidMovement(ctx, c.id, *operator, c.confirmation); err != nil {
		return fail(err)
	}

	fmt.Printf("Voided movement %s\n", c.id)
	return subcommands.ExitSuccess
}
