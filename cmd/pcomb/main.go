package main

import (
	"errors"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/pcomb/config"
	"github.com/dhamidi/pcomb/ebnf"
)

const version = "0.1.0"

// globalState is shared by all subcommands. Streams are replaced in tests.
type globalState struct {
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	stdoutTTY bool

	configPath string
	verbosity  int
	logFile    string
	color      string

	cfg config.Config
}

func newGlobalState() *globalState {
	return &globalState{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		stdoutTTY: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
		cfg:       config.Default(),
	}
}

func main() {
	gs := newGlobalState()
	rootCmd := newRootCmd(gs)

	if err := rootCmd.Execute(); err != nil {
		printError(gs.stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(gs *globalState) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pcomb",
		Short:         "Compile BNF grammars into parsers and run them",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return gs.configure(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&gs.configPath, "config", "", "config file (default $"+config.EnvPath+")")
	flags.CountVarP(&gs.verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	flags.StringVar(&gs.logFile, "log-file", "", "write logs to this file instead of stderr")
	flags.StringVar(&gs.color, "color", "", "colorize output: auto, always or never")

	rootCmd.SetIn(gs.stdin)
	rootCmd.SetOut(gs.stdout)
	rootCmd.SetErr(gs.stderr)

	rootCmd.AddCommand(newParseCmd(gs))
	rootCmd.AddCommand(newCheckCmd(gs))
	rootCmd.AddCommand(newEbnfCmd(gs))
	rootCmd.AddCommand(newLSPCmd())

	return rootCmd
}

// configure loads the config file and lets flags that were set override it.
func (gs *globalState) configure(cmd *cobra.Command) error {
	cfg, err := config.Load(gs.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbosity = gs.verbosity
	}
	if flags.Changed("log-file") {
		cfg.LogFile = gs.logFile
	}
	if flags.Changed("color") {
		cfg.Color = gs.color
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	gs.cfg = cfg

	var logFile *string
	if cfg.LogFile != "" {
		logFile = &cfg.LogFile
	}
	commonlog.Configure(cfg.Verbosity, logFile)

	switch cfg.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		color.NoColor = !gs.stdoutTTY
	}
	return nil
}

type hinter interface {
	Hint() string
}

func printError(w io.Writer, err error) {
	if errors.Is(err, errParseFailed) {
		return
	}
	color.New(color.FgRed).Fprintf(w, "error: %v\n", err)

	var h hinter
	if errors.As(err, &h) && h.Hint() != "" {
		color.New(color.Faint).Fprintf(w, "hint: %s\n", h.Hint())
	}
}

// printErrors prints one line per error, for tools that collect several.
func printErrors(w io.Writer, errs []error) {
	red := color.New(color.FgRed)
	for _, err := range errs {
		red.Fprintln(w, err)
	}
}

func printWarnings(w io.Writer, diagnostics []ebnf.Diagnostic) {
	yellow := color.New(color.FgYellow)
	for _, d := range diagnostics {
		yellow.Fprintf(w, "warning: %s\n", d)
	}
}
