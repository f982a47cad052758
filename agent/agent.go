// Package agent implements the AI assistant over the reconciled dataset.
//
// The assistant is a single analyst chat seeded with rendered reports: the
// fund registry and the current snapshots. It answers questions about the
// data, it never mutates it.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

const modelName = "gemini-2.5-flash"

const systemPrompt = `You are a fund portfolio analyst. You are given the
fund registry and current portfolio tables of a set of investment funds,
reconciled from custody and regulator disclosures. Answer questions about
holdings, sector compositions and overlap between funds, using only the
provided data. When the data does not cover a question, say so.`

// Analyst is the chat session with the assistant.
type Analyst struct {
	context []string
	chat    *genai.Chat
}

// NewAnalyst returns an analyst seeded with rendered report markdown.
func NewAnalyst(reports ...string) *Analyst {
	return &Analyst{context: reports}
}

// Start creates the underlying chat session.
func (a *Analyst) Start(ctx context.Context, client *genai.Client) error {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt + "\n\n" + strings.Join(a.context, "\n\n")}},
		},
	}
	chat, err := client.Chats.Create(ctx, modelName, config, nil)
	if err != nil {
		return err
	}
	a.chat = chat
	return nil
}

// Ask sends one question and returns the analyst's answer.
func (a *Analyst) Ask(ctx context.Context, question string) (string, error) {
	resp, err := a.chat.Send(ctx, &genai.Part{Text: question})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from the analyst")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

const prompt = "assist> "

// Run starts the interactive REPL session with the analyst. Initial prompts
// are consumed before reading from r; 'bye' or EOF exits cleanly.
func (a *Analyst) Run(ctx context.Context, client *genai.Client, w io.Writer, r io.Reader, prompts ...string) error {
	if a.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "Welcome to fsc fund assist. Type 'bye' to exit.")
	reader := bufio.NewReader(r)
	for {
		fmt.Fprint(w, prompt)

		var input string
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			fmt.Fprintln(w, input)
		} else {
			var err error
			input, err = reader.ReadString('\n')
			if err == io.EOF {
				return nil // clean exit on Ctrl+D
			}
			if err != nil {
				return err
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "bye" {
			fmt.Fprintln(w, "Goodbye.")
			return nil
		}

		answer, err := a.Ask(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, answer)
	}
}
