package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/utkarsh5026/optbench/internal/config"
	"github.com/utkarsh5026/optbench/internal/logging"
	"github.com/utkarsh5026/optbench/store"
)

const (
	configFileName     = config.FileName
	defaultOptionsFile = "compile-options.json"
)

type globalFlags struct {
	workDir     string
	configFile  string
	optionsFile string
	seed        uint64
	logLevel    string
	logFormat   string

	numRandom    int
	cycles       int
	skipMeasured bool
	pinCPU       int
}

// app is the state shared by all commands once flags are parsed.
type app struct {
	out    io.Writer
	errOut io.Writer

	cfg         config.Config
	store       *store.Store
	logger      *slog.Logger
	interactive bool
}

func (a *app) setup(cmd *cobra.Command, flags *globalFlags) error {
	cfg := config.Default(flags.workDir)

	path, required := flags.configFile, true
	if path == "" {
		path, required = filepath.Join(flags.workDir, configFileName), false
	}
	if err := config.LoadFile(path, required, &cfg); err != nil {
		return &ExitError{Code: CodeFailure, Err: err}
	}
	applyFlags(cmd, flags, &cfg)

	if err := cfg.Validate(); err != nil {
		return &ExitError{Code: CodeFailure, Err: err}
	}
	if err := cfg.Resolve(); err != nil {
		return &ExitError{Code: CodeFailure, Err: err}
	}
	if cfg.OptionsFile == "" {
		cfg.OptionsFile = filepath.Join(cfg.WorkDir, defaultOptionsFile)
	}

	a.cfg = cfg
	a.store = store.New(store.DefaultLayout(cfg.WorkDir))
	a.logger = logging.New(cfg.Log.Level, cfg.Log.Format, a.errOut)
	a.interactive = isTerminal(a.out)
	if !a.interactive {
		color.NoColor = true
	}

	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	a.logger.Debug("Configuration loaded", "workdir", cfg.WorkDir, "config", path, "options", cfg.OptionsFile)
	return nil
}

// applyFlags overrides file settings with the flags the user actually set.
func applyFlags(cmd *cobra.Command, flags *globalFlags, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("workdir") {
		cfg.WorkDir = flags.workDir
	}
	if changed("options") {
		cfg.OptionsFile = flags.optionsFile
	}
	if changed("seed") {
		cfg.Seed = flags.seed
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}
	if changed("num-random") {
		cfg.NumRandom = flags.numRandom
	}
	if changed("cycles") {
		cfg.Benchmark.Cycles = flags.cycles
	}
	if changed("skip-measured") {
		cfg.Benchmark.SkipMeasured = flags.skipMeasured
	}
	if changed("pin-cpu") {
		cfg.Benchmark.PinCPU = flags.pinCPU
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (a *app) context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return logging.WithLogger(context.Background(), a.logger)
}

func (a *app) printf(c *color.Color, format string, args ...any) {
	_, _ = c.Fprintf(a.out, format, args...)
}

func (a *app) println(c *color.Color, args ...any) {
	_, _ = c.Fprintln(a.out, args...)
}

func (a *app) header(title string) {
	a.println(bold, "╔════════════════════════════════════════════════════════════╗")
	a.printf(bold, "║       %-52s ║\n", title)
	a.println(bold, "╚════════════════════════════════════════════════════════════╝")
	_, _ = fmt.Fprintln(a.out)
}
