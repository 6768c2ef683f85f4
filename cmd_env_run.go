package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/plexgen/plexgen/pkg/testenv"
)

func init() {
	var flags struct {
		Config string
		Envs   []string
	}
	cmd := &cobra.Command{
		Use:   "run [flags] [-- ARGS...]",
		Short: "Run test environments",
		Long: "Run the selected test environments in order; with no --env " +
			"selection, run the config's envlist.  Everything after \"--\" is " +
			"passed to the environments' commands as {posargs}.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := testenv.Load(flags.Config)
			if err != nil {
				return err
			}

			runner := &testenv.Runner{
				Config:  cfg,
				BaseDir: filepath.Dir(flags.Config),
				Posargs: args,
			}
			return runner.Run(cmd.Context(), flags.Envs)
		},
	}
	cmd.Flags().StringVar(&flags.Config, "config", "plexgen.yaml",
		"Read the environment matrix from `CONFIGFILE`")
	cmd.Flags().StringSliceVarP(&flags.Envs, "env", "e", nil,
		"Run `ENVS` instead of the config's envlist")

	argparserEnv.AddCommand(cmd)
}
