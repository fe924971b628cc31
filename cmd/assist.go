package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/imperatriz/caixa/agent"
	"github.com/imperatriz/caixa/renderer"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct {
	date string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `cxa assist [-d <date>] [question...]

  Starts an interactive session with the AI assistant, seeded with the
  day's consolidation report. Requires Gemini credentials in the
  environment.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Business day (defaults to today).")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

	day, err := parseDay(c.date)
	if err != nil {
		return fail(fmt.Errorf("parsing date: %w", err))
	}

	book, closer, err := openBook()
	if err != nil {
		return fail(err)
	}
	defer closer()

	summary, err := book.Consolidate(ctx, day)
	if err != nil {
		return fail(err)
	}
	report := renderer.RenderConsolidation(renderer.NewConsolidation(summary))

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	a := agent.New(os.Stdout, os.Stdin, report)
	if initialPrompt != "" {
		err = a.Run(ctx, client, initialPrompt)
	} else {
		err = a.Run(ctx, client)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
