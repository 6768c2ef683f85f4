package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plexgen/plexgen/pkg/cliutil"
	"github.com/plexgen/plexgen/pkg/testenv"
)

func init() {
	var argConfig string
	cmd := &cobra.Command{
		Use:   "list [flags]",
		Short: "List the defined test environments",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := testenv.Load(argConfig)
			if err != nil {
				return err
			}

			inList := make(map[string]struct{}, len(cfg.Envlist))
			for _, name := range cfg.Envlist {
				inList[name] = struct{}{}
			}

			out := cmd.OutOrStdout()
			for _, name := range cfg.EnvNames() {
				env, err := cfg.Resolve(name)
				if err != nil {
					return err
				}
				marker := " "
				if _, ok := inList[name]; ok {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-12s %-12s %s\n",
					marker, name, env.Basepython, strings.Join(env.Commands, "; "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&argConfig, "config", "plexgen.yaml",
		"Read the environment matrix from `CONFIGFILE`")

	argparserEnv.AddCommand(cmd)
}
