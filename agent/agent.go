// Package agent implements the interactive end-of-day assistant: a chat
// session seeded with the day's consolidation report, so the operator can ask
// about divergences in natural language.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Agent is the AI assistant that handles the chat session.
type Agent struct {
	w         io.Writer
	r         *bufio.Reader
	ModelName string
	report    string
	chat      *genai.Chat
}

// New creates a new Agent over the rendered daily report. It takes an
// io.Writer for the agent's output (e.g., os.Stdout) and an io.Reader for
// user input (e.g., os.Stdin).
func New(w io.Writer, r io.Reader, report string) *Agent {
	return &Agent{
		w:         w,
		r:         bufio.NewReader(r),
		ModelName: defaultModel,
		report:    report,
	}
}

func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: a.instruction()}},
		},
	}
	chat, err := client.Chats.Create(ctx, a.ModelName, config, nil)
	if err != nil {
		return err
	}
	a.chat = chat
	return nil
}

func (a *Agent) instruction() string {
	return "You are the back-office assistant of a lottery agency. " +
		"Answer questions about today's cash reconciliation using the report below. " +
		"Amounts are exact; never invent figures that are not in the report.\n\n" +
		a.report
}

// Ask sends one question and returns the assistant's text.
func (a *Agent) Ask(ctx context.Context, question string) (string, error) {
	resp, err := a.chat.Send(ctx, &genai.Part{Text: question})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from assistant")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

const prompt = "assist> "

// Run starts the interactive REPL session for the agent.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to cxa assist. Type 'bye' to exit.")

	// REPL loop
	for {
		fmt.Fprint(a.w, prompt)
		var input string

		// Flush prompts from the list and then ask for the user.
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil // Clean exit on Ctrl+D
				}
				return err
			}
		}

		if strings.TrimSpace(input) == "bye" {
			return nil
		}

		answer, err := a.Ask(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, answer)
	}
}
