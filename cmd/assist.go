package cmd

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/etnz/fundscope/agent"
	"github.com/etnz/fundscope/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "chat with an AI analyst about the reconciled dataset" }
func (*assistCmd) Usage() string {
	return `fsc assist [<question>...]

  Starts an interactive chat with an analyst seeded with the fund registry
  and every fund's current portfolio. Arguments are asked as initial
  questions before the prompt. Requires GEMINI_API_KEY in the environment.
`
}
func (*assistCmd) SetFlags(f *flag.FlagSet) {}

func (p *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	reg, table, err := LoadAll()
	if err != nil {
		return fail(err)
	}

	// Seed the analyst with the same reports the query commands print.
	reports := []string{renderer.RegistryMarkdown(reg)}
	for _, id := range table.Funds() {
		rows, ok := table.Current(id)
		if !ok {
			continue
		}
		fund, _ := reg.Get(id)
		reports = append(reports, renderer.SnapshotMarkdown(fund, id, rows))
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return fail(err)
	}

	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}
	analyst := agent.NewAnalyst(reports...)
	if err := analyst.Run(ctx, client, os.Stdout, os.Stdin, prompts...); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
