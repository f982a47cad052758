package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/fundscope"
	"github.com/etnz/fundscope/renderer"
	"github.com/google/subcommands"
)

type overlapCmd struct {
	by      string
	history bool
}

func (*overlapCmd) Name() string     { return "overlap" }
func (*overlapCmd) Synopsis() string { return "compare the portfolio overlap of two or more funds" }
func (*overlapCmd) Usage() string {
	return `fsc overlap [-by <asset|sector>] [-history] <fund> <fund> [<fund>...]

  Prints the pairwise overlap matrix of the given funds, each pair scored at
  its most recent common disclosure date. With -history and exactly two
  funds, prints the overlap at every common date instead.
`
}

func (p *overlapCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.by, "by", "asset", "Aggregation axis: 'asset' or 'sector'")
	f.BoolVar(&p.history, "history", false, "Print the overlap series of a pair instead of the matrix")
}

func (p *overlapCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		return fail(fmt.Errorf("overlap needs at least two funds"))
	}
	by, ok := fundscope.ParsePivotBy(p.by)
	if !ok {
		return fail(fmt.Errorf("invalid -by value %q: want 'asset' or 'sector'", p.by))
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

	if p.history {
		if len(funds) != 2 {
			return fail(fmt.Errorf("-history needs exactly two funds"))
		}
		series := table.OverlapSeries(funds[0], funds[1], by)
		printMarkdown(renderer.OverlapSeriesMarkdown(names[0], names[1], series))
		return subcommands.ExitSuccess
	}

	matrix := table.OverlapMatrix(funds, by)
	printMarkdown(renderer.OverlapMatrixMarkdown(names, matrix))
	return subcommands.ExitSuccess
}
