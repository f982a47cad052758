package cmd

import (
	"context"
	"flag"

	"github.com/etnz/fundscope/renderer"
	"github.com/google/subcommands"
)

type fundsCmd struct{}

func (*fundsCmd) Name() string     { return "funds" }
func (*fundsCmd) Synopsis() string { return "list the registered funds" }
func (*fundsCmd) Usage() string {
	return `fsc funds

  Prints the fund registry: every registered fund with its name, category,
  tier and, for feeders, the master it invests into.
`
}
func (*fundsCmd) SetFlags(f *flag.FlagSet) {}

func (p *fundsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	reg, _, err := LoadAll()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RegistryMarkdown(reg))
	return subcommands.ExitSuccess
}
