package main

import (
	"github.com/spf13/cobra"

	"github.com/plexgen/plexgen/pkg/cliutil"
)

var argparserEnv = &cobra.Command{
	Use:   "env {[flags]|SUBCOMMAND...}",
	Short: "Inspect and run test environments",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,
}

func init() {
	argparser.AddCommand(argparserEnv)
}
