package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/imperatriz/caixa"
)

type vaultCmd struct {
	date      string
	allotment string
	transport string
	final     string
	adjust    string
	note      string
}

func (*vaultCmd) Name() string     { return "vault" }
func (*vaultCmd) Synopsis() string { return "manage and display the central vault ledger" }
func (*vaultCmd) Usage() string {
	return `cxa vault [-d <date>] [-allotment <amount>] [-transport <amount>] [-final <amount>] [-adjust <amount> -n <reason>]

  Without flags, prints the vault ledger for the day. With flags, records
  the initial allotment, the armored transport pickup, the final count,
  or a signed manual adjustment (which requires a reason).
`
}

func (c *vaultCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Business day (defaults to today).")
	f.StringVar(&c.allotment, "allotment", "", "Initial cash allotment of the vault.")
	f.StringVar(&c.transport, "transport", "", "Amount picked up by armored transport.")
	f.StringVar(&c.final, "final", "", "Final counted amount in the vault.")
	f.StringVar(&c.adjust, "adjust", "", "Signed manual adjustment, e.g. -12.50.")
	f.StringVar(&c.note, "n", "", "Reason for a manual adjustment.")
}

func (c *vaultCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(c.date)
	if err != nil {
		return fail(fmt.Errorf("parsing date: %w", err))
	}

	book, closer, err := openBook()
	if err != nil {
		return fail(err)
	}
	defer closer()

	set := func(raw string, op func(context.Context, caixa.Date, caixa.Money, string) error) error {
		amount, err := caixa.ParseMoney(raw, book.Currency())
		if err != nil {
			return fmt.Errorf("parsing amount %q: %w", raw, err)
		}
		return op(ctx, day, amount, *operator)
	}

	changed := false
	if c.allotment != "" {
		if err := set(c.allotment, book.SetVaultAllotment); err != nil {
			return fail(err)
		}
		changed = true
	}
	if c.transport != "" {
		if err := set(c.transport, book.SetArmoredTransport); err != nil {
			return fail(err)
		}
		changed = true
	}
	if c.final != "" {
		if err := set(c.final, book.SetVaultFinalCount); err != nil {
			return fail(err)
		}
		changed = true
	}
	if c.adjust != "" {
		if c.note == "" {
			return fail(fmt.Errorf("a manual adjustment requires a reason (-n)"))
		}
		amount, err := caixa.ParseMoney(c.adjust, book.Currency())
		if err != nil {
			return fail(fmt.Errorf("parsing amount %q: %w", c.adjust, err))
		}
		if err := book.AddVaultAdjustment(ctx, day, amount, c.note, *operator); err != nil {
			return fail(err)
		}
		changed = true
	}

	vault, err := book.Vault(ctx, day)
	if err != nil {
		return fail(err)
	}

	if changed {
		fmt.Println("Vault ledger updated.")
	}
	fmt.Printf("Vault on %s\n", day)
	fmt.Printf("  initial allotment: %s\n", vault.InitialAllotment)
	fmt.Printf("  armored transport: %s\n", vault.ArmoredTransport)
	for _, a := range vault.Adjustments {
		fmt.Printf("  adjustment %s: %s (%s)\n", a.Amount.SignedString(), a.Note, a.RecordedBy)
	}
	fmt.Printf("  final position:    %s\n", vault.FinalPosition())
	if vault.HasFinalCount {
		fmt.Printf("  final count:       %s\n", vault.FinalCount)
	}
	return subcommands.ExitSuccess
}
