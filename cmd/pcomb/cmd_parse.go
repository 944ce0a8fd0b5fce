package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/pcomb/ebnf"
	"github.com/dhamidi/pcomb/format"
	"github.com/dhamidi/pcomb/grammar"
)

// errParseFailed is returned after a failed parse has been printed.
var errParseFailed = errors.New("parse failed")

func newParseCmd(gs *globalState) *cobra.Command {
	var (
		grammarName string
		start       string
		formatName  string
		inputFile   string
	)

	cmd := &cobra.Command{
		Use:   "parse -g <grammar> [text...]",
		Short: "Parse input with a grammar and print the parse tree",
		Long: `Parse input with a grammar and print the parse tree.

The input is taken from --file, from the arguments joined by spaces, or from
standard input, in that order. The whole input has to match the start rule.

Grammars ending in .ebnf are read as Go EBNF and need --start.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if formatName == "" {
				formatName = gs.cfg.Format
			}

			g, err := loadGrammar(gs.cfg.Grammar(grammarName), start)
			if err != nil {
				return err
			}

			text, err := readInput(gs.stdin, inputFile, args)
			if err != nil {
				return err
			}

			enc, err := format.New(formatName, gs.stdout, text)
			if err != nil {
				return err
			}

			node := g.Run(text)
			if err := enc.Encode(node); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if !node.Succeeded() {
				return errParseFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&grammarName, "grammar", "g", "", "grammar file or name from the config file")
	cmd.Flags().StringVar(&start, "start", "", "start rule (inferred for BNF grammars when empty)")
	cmd.Flags().StringVarP(&formatName, "format", "f", "", "output format: "+strings.Join(format.Names, ", "))
	cmd.Flags().StringVar(&inputFile, "file", "", "read the input from this file")
	_ = cmd.MarkFlagRequired("grammar")

	return cmd
}

// loadGrammar compiles the grammar file at path. Files with the .ebnf
// extension are imported from Go EBNF.
func loadGrammar(path, start string) (*grammar.Grammar, error) {
	if filepath.Ext(path) == ".ebnf" {
		if start == "" {
			return nil, fmt.Errorf("%s: Go EBNF grammars need --start", path)
		}
		return ebnf.ImportFile(path, start)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar: %w", err)
	}
	return grammar.Compile(string(data), grammar.WithFilename(path), grammar.WithStart(start))
}

func readInput(stdin io.Reader, filename string, args []string) (string, error) {
	switch {
	case filename != "":
		data, err := os.ReadFile(filename)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
