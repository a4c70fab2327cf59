// Package build compiles the target binary for one configuration.
//
// The compiler invocation is an opaque shell command line. The configuration
// is appended to it as preprocessor defines:
//
//	gcc -o sqlite3 shell.c sqlite3.c -lpthread -ldl -DSQLITE_OMIT_WAL -DSQLITE_TEMP_STORE=3
package build

import (
	"context"
	"io"
	"time"

	"github.com/utkarsh5026/optbench/internal/logging"
	"github.com/utkarsh5026/optbench/options"
)

// DefaultCommand is the base compiler command line.
const DefaultCommand = "gcc -o sqlite3 shell.c sqlite3.c -lpthread -ldl"

// Result describes one build.
type Result struct {
	Command  string
	ExitCode int
	Output   []byte
	Duration time.Duration
}

// OK reports whether the compiler exited with status 0.
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithDir sets the directory the compiler runs in.
func WithDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.dir = dir
	}
}

// WithExecutor replaces the shell executor, mostly for tests.
func WithExecutor(e Executor) RunnerOption {
	return func(r *Runner) {
		if e != nil {
			r.exec = e
		}
	}
}

// WithOutput streams compiler output to w as well as capturing it.
func WithOutput(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.output = w
	}
}

// Runner builds configurations with a fixed base command.
type Runner struct {
	base   string
	dir    string
	exec   Executor
	output io.Writer
}

// NewRunner returns a Runner for base. An empty base uses DefaultCommand.
func NewRunner(base string, opts ...RunnerOption) *Runner {
	if base == "" {
		base = DefaultCommand
	}
	r := &Runner{
		base: base,
		exec: ShellExecutor{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dir returns the directory the compiler runs in.
func (r *Runner) Dir() string {
	return r.dir
}

// Command returns the full command line for cfg.
func (r *Runner) Command(cfg options.Configuration) string {
	params := ParamString(cfg)
	if params == "" {
		return r.base
	}
	return r.base + " " + params
}

// Build compiles cfg once. A non-zero compiler status is returned in Result
// with a nil error; the error is only set when the compiler could not be
// launched.
func (r *Runner) Build(ctx context.Context, cfg options.Configuration) (Result, error) {
	logger := logging.FromContext(ctx)
	line := r.Command(cfg)
	logger.Info("Compiling", "command", line, "dir", r.dir)

	start := time.Now()
	out, err := r.exec.Execute(ctx, Cmd{
		Line:   line,
		Dir:    r.dir,
		CPU:    NoCPU,
		Output: r.output,
	})
	res := Result{
		Command:  line,
		ExitCode: out.ExitCode,
		Output:   out.Output,
		Duration: time.Since(start),
	}
	if err != nil {
		return res, err
	}

	if res.OK() {
		logger.Info("Finished compiling", "duration", res.Duration.Round(time.Millisecond))
	} else {
		logger.Warn("Compilation failed", "exit_code", res.ExitCode)
	}
	return res, nil
}
