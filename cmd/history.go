package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/fundscope"
	"github.com/etnz/fundscope/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	fund string
	by   string
	top  int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "print a fund's composition over time" }
func (*historyCmd) Usage() string {
	return `fsc history -f <fund> [-by <asset|sector>] [-top <n>]

  Prints the fund's weight composition at every disclosure date, one column
  per asset or per sector. With -top, only the n largest series are kept and
  the rest are summed into an "Other" column.
`
}

func (p *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.fund, "f", "", "Fund identifier")
	f.StringVar(&p.by, "by", "sector", "Aggregation axis: 'asset' or 'sector'")
	f.IntVar(&p.top, "top", 0, "Keep the n largest series, collapse the rest into 'Other' (0 keeps all)")
}

func (p *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.fund == "" {
		return fail(fmt.Errorf("missing -f fund argument"))
	}
	by, ok := fundscope.ParsePivotBy(p.by)
	if !ok {
		return fail(fmt.Errorf("invalid -by value %q: want 'asset' or 'sector'", p.by))
	}
	reg, table, err := LoadAll()
	if err != nil {
		return fail(err)
	}
	id, _, err := resolveFund(reg, p.fund)
	if err != nil {
		return fail(err)
	}

	pivot := table.Pivot(id, by)
	if p.top > 0 {
		pivot = pivot.CollapseTopN(p.top)
	}
	title := fmt.Sprintf("Composition of %s by %s", displayName(reg, id), p.by)
	printMarkdown(renderer.PivotMarkdown(title, pivot))
	return subcommands.ExitSuccess
}
