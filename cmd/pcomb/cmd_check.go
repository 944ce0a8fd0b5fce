package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/pcomb/ebnf"
)

func newCheckCmd(gs *globalState) *cobra.Command {
	var (
		start string
		lint  bool
	)

	cmd := &cobra.Command{
		Use:   "check <grammar>",
		Short: "Compile a grammar and print its rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("lint") {
				lint = gs.cfg.Lint
			}

			g, err := loadGrammar(gs.cfg.Grammar(args[0]), start)
			if err != nil {
				return err
			}

			fmt.Fprintf(gs.stdout, "start: <%s>\n", g.Start())
			for _, r := range g.Rules() {
				fmt.Fprintln(gs.stdout, r)
			}

			if lint {
				printWarnings(gs.stderr, ebnf.Lint(g.Rules(), g.Start()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start rule (inferred for BNF grammars when empty)")
	cmd.Flags().BoolVar(&lint, "lint", true, "verify the grammar as Go EBNF and print warnings")

	return cmd
}
