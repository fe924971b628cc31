// Package cmd implements the CLI application to manage the agency's cash
// registers.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/imperatriz/caixa"
	"github.com/imperatriz/caixa/sqlitestore"
)

// Commands is the list of subcommands registered by the main package.
var Commands = []subcommands.Command{
	&supplyCmd{},
	&sangriaCmd{},
	&checkCmd{},
	&voidCmd{},
	&movementsCmd{},
	&floatCmd{},
	&countCmd{},
	&closeCmd{},
	&reconcileCmd{},
	&consolidateCmd{},
	&vaultCmd{},
	&importLegacyCmd{},
	&assistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "caixa.toml", "Path to the agency configuration file (TOML)")
var operator = flag.String("u", "", "Operator name recorded on movements and closings")

// appConfig is the on-disk configuration of the agency.
type appConfig struct {
	LedgerDir          string `toml:"ledger_dir"`
	SQLitePath         string `toml:"sqlite_path"`
	TillCount          int    `toml:"till_count"`
	Currency           string `toml:"currency"`
	ConfirmationPhrase string `toml:"confirmation_phrase"`
	Tolerance          string `toml:"tolerance"`
}

func loadConfig() (appConfig, error) {
	var c appConfig
	_, err := toml.DecodeFile(*configFile, &c)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, config file does not exist, using defaults instead")
		err = nil
	}
	if err != nil {
		return c, fmt.Errorf("reading config %q: %w", *configFile, err)
	}
	if c.LedgerDir == "" && c.SQLitePath == "" {
		c.LedgerDir = "ledger"
	}
	return c, nil
}

// openBook is the central function to open the agency book. The returned
// closer must be called before the process exits, it flushes the remote sync
// queue when dual storage is configured.
func openBook() (book *caixa.Book, closer func() error, err error) {
	c, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	cfg := caixa.Config{
		TillCount:          c.TillCount,
		Currency:           c.Currency,
		ConfirmationPhrase: c.ConfirmationPhrase,
	}
	if c.Tolerance != "" {
		tol, err := caixa.ParseMoney(c.Tolerance, c.Currency)
		if err != nil {
			return nil, nil, fmt.Errorf("config tolerance: %w", err)
		}
		cfg.Tolerance = tol
	}

	closer = func() error { return nil }

	var store caixa.Store
	switch {
	case c.LedgerDir != "" && c.SQLitePath != "":
		primary, err := caixa.OpenFileStore(c.LedgerDir)
		if err != nil {
			return nil, nil, err
		}
		remote, err := sqlitestore.Open(c.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		dual := caixa.NewSyncStore(primary, remote, func(err error) {
			log.Println("warning:", err)
		})
		store = dual
		closer = func() error {
			dual.Close()
			return remote.Close()
		}
	case c.SQLitePath != "":
		remote, err := sqlitestore.Open(c.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		store = remote
		closer = remote.Close
	default:
		primary, err := caixa.OpenFileStore(c.LedgerDir)
		if err != nil {
			return nil, nil, err
		}
		store = primary
	}

	return caixa.NewBook(store, cfg), closer, nil
}

// printMarkdown renders markdown to the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// Fall back to raw markdown.
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

func parseDay(s string) (caixa.Date, error) {
	if s == "" || s == "0d" {
		return caixa.Today(), nil
	}
	return caixa.ParseDate(s)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
