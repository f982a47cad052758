// Package cmd implements the CLI application to build and query the
// consolidated fund-holding dataset.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/etnz/fundscope"
	"github.com/google/subcommands"
)

// As a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables for the app-wide flags.

var (
	configFile = flag.String("config", "fundscope.toml", "Path to the TOML configuration file")
	dataDir    = flag.String("data", "", "Path to the artifacts folder (overrides config)")
	Verbose    = flag.Bool("v", false, "Log step progress to stderr")
)

// Commands is the list a main package registers on its commander.
var Commands = []subcommands.Command{
	&buildCmd{},
	&fundsCmd{},
	&snapshotCmd{},
	&historyCmd{},
	&overlapCmd{},
	&commonCmd{},
	&assistCmd{},
	&custodyLoginCmd{},
}

// Setup applies the global flags. Call it after flag.Parse.
func Setup() {
	if !*Verbose {
		log.SetOutput(io.Discard)
	}
}

// AppConfig resolves the effective configuration for this invocation.
func AppConfig() (Config, error) {
	config, err := LoadConfig(*configFile)
	if err != nil {
		return config, err
	}
	if *dataDir != "" {
		config.Data.Dir = *dataDir
	}
	return config, nil
}

// LoadAll opens the read-only query surface. A missing snapshot artifact is
// fatal here: the caller must surface it, not render empty data.
func LoadAll() (*fundscope.Registry, *fundscope.Consolidated, error) {
	config, err := AppConfig()
	if err != nil {
		return nil, nil, err
	}
	loader := fundscope.NewLoader(config.Data.Dir, config.LoaderTTL())
	return loader.LoadAll()
}

// resolveFund normalizes a fund argument and returns its registry entry when
// it has one. Unregistered funds are legal: they resolve with a nil entry.
func resolveFund(reg *fundscope.Registry, arg string) (fundscope.FundID, *fundscope.Fund, error) {
	id, err := fundscope.NormalizeFundID(arg)
	if err != nil {
		return "", nil, fmt.Errorf("invalid fund argument %q: %w", arg, err)
	}
	fund, _ := reg.Get(id)
	return id, fund, nil
}

// displayName returns the short label used in report headers.
func displayName(reg *fundscope.Registry, id fundscope.FundID) string {
	if f, ok := reg.Get(id); ok && f.Name != "" {
		return f.Name
	}
	return string(id)
}

// fail prints the error and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
