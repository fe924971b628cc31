package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/imperatriz/caixa"
)

type importLegacyCmd struct {
	file string
}

func (*importLegacyCmd) Name() string     { return "import-legacy" }
func (*importLegacyCmd) Synopsis() string { return "import a legacy database export" }
func (*importLegacyCmd) Usage() string {
	return `cxa import-legacy -f <export.json>

  Imports a JSON export of the previous tracking system: movements,
  per-day till registers and the central vault ledger. Already imported
  movements are skipped.
`
}

func (c *importLegacyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Path to the legacy JSON export.")
}

func (c *importLegacyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		return fail(fmt.Errorf("missing -f"))
	}

	r, err := os.Open(c.file)
	if err != nil {
		return fail(err)
	}
	defer r.Close()

	book, closer, err := openBook()
	if err != nil {
		return fail(err)
	}
	defer closer()

	data, err := caixa.ImportLegacy(r, book.Currency())
	if err != nil {
		return fail(fmt.Errorf("parsing legacy export: %w", err))
	}

	if err := book.ImportLegacy(ctx, data); err != nil {
		return fail(err)
	}

	fmt.Printf("Imported %d movements, %d registers, %d vault ledgers.\n",
		len(data.Movements), len(data.Registers), len(data.Vaults))
	return subcommands.ExitSuccess
}
