package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/fundscope"
	"github.com/etnz/fundscope/renderer"
	"github.com/google/subcommands"
)

type commonCmd struct{}

func (*commonCmd) Name() string     { return "common" }
func (*commonCmd) Synopsis() string { return "list holdings shared by every given fund" }
func (*commonCmd) Usage() string {
	return `fsc common <fund> <fund> [<fund>...]

  Intersects each fund's current top holdings and prints every asset that
  appears in all of them, with each fund's weight.
`
}
func (*commonCmd) SetFlags(f *flag.FlagSet) {}

func (p *commonCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		return fail(fmt.Errorf("common needs at least two funds"))
	}
	reg, table, err := LoadAll()
	if err != nil {
		return fail(err)
	}

	funds := make([]fundscope.FundID, 0, f.NArg())
	names := make([]string, 0, f.NArg())
	for _, arg := range f.Args() {
		id, _, err := resolveFund(reg, arg)
		if err != nil {
			return fail(err)
		}
		funds = append(funds, id)
		names = append(names, displayName(reg, id))
	}

	holdings := table.CommonTopHoldings(funds)
	printMarkdown(renderer.CommonHoldingsMarkdown(funds, names, holdings))
	return subcommands.ExitSuccess
}
