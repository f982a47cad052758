package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/fundscope/custody"
	"github.com/google/subcommands"
)

type custodyLoginCmd struct{}

func (*custodyLoginCmd) Name() string     { return "custody-login" }
func (*custodyLoginCmd) Synopsis() string { return "save the custody portal session headers" }
func (*custodyLoginCmd) Usage() string {
	return `fsc custody-login < headers.txt

  Reads raw HTTP request headers from stdin (one "Name: value" per line,
  copied from an authenticated browser session with the custody portal) and
  saves them for later 'fsc build' runs. End with Ctrl+D.
`
}
func (*custodyLoginCmd) SetFlags(f *flag.FlagSet) {}

func (p *custodyLoginCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Println("Paste the request headers of an authenticated custody portal session, end with Ctrl+D:")
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fail(fmt.Errorf("cannot read headers: %w", err))
	}
	if len(raw) == 0 {
		return fail(fmt.Errorf("no headers provided"))
	}
	if err := custody.SaveHeaders(string(raw)); err != nil {
		return fail(err)
	}
	fmt.Println("Custody session saved.")
	return subcommands.ExitSuccess
}
