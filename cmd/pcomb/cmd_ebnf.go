package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/pcomb/ebnf"
)

// errInvalidGrammar is returned once the problems of a grammar have been
// printed.
var errInvalidGrammar = errors.New("invalid grammar")

func newEbnfCmd(gs *globalState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ebnf",
		Short: "Go EBNF grammar tools",
	}

	cmd.AddCommand(newEbnfCheckCmd(gs))
	cmd.AddCommand(newEbnfExportCmd(gs))

	return cmd
}

func newEbnfCheckCmd(gs *globalState) *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse and verify a Go EBNF grammar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := ebnf.Load(args[0])
			if err != nil {
				if errs := ebnf.Errors(errors.Unwrap(err)); len(errs) > 1 {
					printErrors(gs.stderr, errs)
					return errInvalidGrammar
				}
				return err
			}

			if startProduction == "" {
				return nil
			}
			if errs := ebnf.Verify(g, startProduction); len(errs) > 0 {
				printErrors(gs.stderr, errs)
				return errInvalidGrammar
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}

func newEbnfExportCmd(gs *globalState) *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "export <grammar>",
		Short: "Print a BNF grammar in Go EBNF notation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrammar(gs.cfg.Grammar(args[0]), start)
			if err != nil {
				return err
			}
			if err := ebnf.Write(gs.stdout, g.Rules()); err != nil {
				return fmt.Errorf("export %s: %w", args[0], err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start rule (inferred when empty)")

	return cmd
}
