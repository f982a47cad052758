package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/fundscope/renderer"
	"github.com/google/subcommands"
)

type snapshotCmd struct {
	fund string
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "print a fund's current portfolio" }
func (*snapshotCmd) Usage() string {
	return `fsc snapshot -f <fund>

  Prints the fund's positions at its most recent disclosure date, sorted by
  weight, with value, sector and the source the row came from.
`
}

func (p *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.fund, "f", "", "Fund identifier (any punctuation accepted)")
}

func (p *snapshotCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.fund == "" {
		return fail(fmt.Errorf("missing -f fund argument"))
	}
	reg, table, err := LoadAll()
	if err != nil {
		return fail(err)
	}
	id, fund, err := resolveFund(reg, p.fund)
	if err != nil {
		return fail(err)
	}
	rows, _ := table.Current(id)
	printMarkdown(renderer.SnapshotMarkdown(fund, id, rows))
	return subcommands.ExitSuccess
}
