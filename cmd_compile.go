package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plexgen/plexgen/pkg/automaton"
	"github.com/plexgen/plexgen/pkg/cliutil"
	"github.com/plexgen/plexgen/pkg/lexspec"
)

func init() {
	var flags struct {
		Format string
		NFA    bool
	}
	cmd := &cobra.Command{
		Use:   "compile [flags] IN_SPECFILE >OUT_LISTING",
		Short: "Compile a lexer specification in to a state machine",
		Long: "Read a YAML lexer specification, build the non-deterministic " +
			"automaton from its rules, run subset construction, and write the " +
			"resulting machine to stdout.",
		Args: cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := lexspec.Load(args[0])
			if err != nil {
				return err
			}
			lexer, err := spec.Compile()
			if err != nil {
				return err
			}

			var mach *automaton.Machine
			if flags.NFA {
				mach = lexer.Machine
			} else {
				dfa, err := lexer.DFA()
				if err != nil {
					return err
				}
				mach = dfa.Machine
			}

			switch flags.Format {
			case "text":
				return lexspec.WriteListing(os.Stdout, spec.Name, mach)
			case "dot":
				return lexspec.WriteDOT(os.Stdout, spec.Name, mach)
			default:
				return fmt.Errorf("unknown output format %q", flags.Format)
			}
		},
	}
	cmd.Flags().StringVar(&flags.Format, "format", "text",
		"Output `FORMAT`: \"text\" or \"dot\"")
	cmd.Flags().BoolVar(&flags.NFA, "nfa", false,
		"Write the non-deterministic automaton instead of the DFA")

	argparser.AddCommand(cmd)
}
