// Package cli wires the optbench commands together.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	CodeOK      = 0
	CodeCleaned = 1
	CodeFailure = 2
)

// ExitError is an error that carries a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Execute runs the command line in args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return CodeOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" || exitErr.Err != nil {
			_, _ = fmt.Fprintln(stderr, exitErr.Error())
		}
		return exitErr.Code
	}
	_, _ = red.Fprintf(stderr, "Error: %v\n", err)
	return CodeFailure
}

// NewRootCommand builds the command tree writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}
	a := &app{out: stdout, errOut: stderr}

	root := &cobra.Command{
		Use:   "optbench",
		Short: "Benchmark a binary across combinations of compile-time options",
		Long: `optbench explores a space of compile-time feature flags.

It writes one configuration file per probed or randomly sampled combination,
builds the target once per configuration, runs a timed benchmark for a number
of cycles and consolidates every measurement into results.json and
results.xml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, flags)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.workDir, "workdir", "w", ".", "Working directory holding configurations, sources and reports")
	pf.StringVarP(&flags.configFile, "config", "c", "", "Project file (default <workdir>/"+configFileName+")")
	pf.StringVarP(&flags.optionsFile, "options", "o", "", "Option spec, JSON or .hcl (default <workdir>/"+defaultOptionsFile+")")
	pf.Uint64Var(&flags.seed, "seed", 0, "Seed for configuration sampling (0 = time based)")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	pf.StringVar(&flags.logFormat, "log-format", "text", "Log format: text or json")

	root.AddCommand(
		newGenerateCommand(a, flags),
		newRunCommand(a, flags),
		newAggregateCommand(a),
		newCleanCommand(a),
		newAllCommand(a, flags),
	)
	return root
}
