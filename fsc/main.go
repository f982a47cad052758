package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/fundscope/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion: 'COMP_INSTALL=1 fsc' installs it. Complete returns
	// immediately when not running as a completion.
	subs := make(map[string]*complete.Command, len(cmd.Commands))
	for _, c := range cmd.Commands {
		subs[c.Name()] = &complete.Command{}
	}
	completion := &complete.Command{
		Sub: subs,
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
			"data":   predict.Dirs("*"),
			"v":      predict.Nothing,
		},
	}
	completion.Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	cmd.Setup()
	os.Exit(int(commander.Execute(context.Background())))
}
