// Package bench runs the timed benchmark cycles for one configuration record
// and persists each measurement as soon as it is taken.
package bench

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/utkarsh5026/optbench/build"
	"github.com/utkarsh5026/optbench/internal/logging"
	"github.com/utkarsh5026/optbench/store"
)

// DefaultCommand is the benchmark harness invocation.
const DefaultCommand = "python tpcc.py --reset --config=sqlite.config sqlite --debug"

var (
	// ErrPersist wraps failures to write a measurement back to the store.
	ErrPersist = errors.New("persist measurement")
	// ErrSetupFailed is returned when the harness setup command exits non-zero.
	ErrSetupFailed = errors.New("benchmark setup failed")
)

// Persister writes a record back to where it was loaded from.
type Persister interface {
	Update(path string, rec *store.Record) error
}

// Runner executes benchmark cycles.
type Runner struct {
	command string
	persist Persister
	cfg     runnerConfig
}

// NewRunner returns a Runner for command. An empty command uses
// DefaultCommand.
func NewRunner(command string, persist Persister, opts ...Option) *Runner {
	if command == "" {
		command = DefaultCommand
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Runner{command: command, persist: persist, cfg: cfg}
}

// Cycles returns the configured number of cycles per record.
func (r *Runner) Cycles() int {
	return r.cfg.cycles
}

// Run appends r.Cycles() measurements to rec, persisting rec to path after
// every cycle.
//
// Cycles run strictly one after another. ctx is checked between cycles only,
// so a running cycle always completes. The benchmark exit status does not
// affect the measurement. A persist failure stops the run and is returned
// wrapped in ErrPersist.
func (r *Runner) Run(ctx context.Context, path string, rec *store.Record) error {
	logger := logging.FromContext(ctx).With("record", filepath.Base(path))
	r.transition(path, NotStarted, 0)

	for i := range r.cfg.cycles {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.cfg.limiter != nil {
			if err := r.cfg.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		if r.cfg.beforeCycle != nil {
			r.cfg.beforeCycle(path, i)
		}

		r.transition(path, Running, i)
		start := r.cfg.clock.Now()
		logger.Debug("Cycle started", "cycle", i, "start_ms", int64(store.Millis(start)))

		out, err := r.cfg.exec.Execute(ctx, build.Cmd{
			Line:        r.command,
			Dir:         r.cfg.dir,
			Env:         r.cfg.env,
			PathPrepend: r.cfg.pathPrepend,
			CPU:         r.cfg.cpu,
			Output:      r.cfg.output,
		})
		if err != nil {
			return fmt.Errorf("cycle %d: %w", i, err)
		}
		finish := r.cfg.clock.Now()

		m := store.NewMeasurement(start, finish)
		rec.Measurements = append(rec.Measurements, m)
		if err := r.persist.Update(path, rec); err != nil {
			return fmt.Errorf("%w: cycle %d of %s: %w", ErrPersist, i, path, err)
		}
		r.transition(path, Persisted, i)

		logger.Info("Finished benchmark cycle",
			"cycle", i,
			"cost_in_seconds", m.CostInSeconds,
			"exit_code", out.ExitCode)
		if r.cfg.onCycleEnd != nil {
			r.cfg.onCycleEnd(path, i, m, out.ExitCode)
		}
	}

	r.transition(path, Done, r.cfg.cycles)
	return nil
}

func (r *Runner) transition(path string, s State, cycle int) {
	if r.cfg.onStateChange != nil {
		r.cfg.onStateChange(path, s, cycle)
	}
}

// Setup prepares the benchmark harness once before any record runs.
type Setup struct {
	// Command writes the harness configuration, e.g.
	// "python tpcc.py --print-config sqlite > sqlite.config".
	Command string
	// ConfigFile is the file Command produces, relative to the runner dir.
	ConfigFile string
	// Placeholder is replaced by Database throughout ConfigFile.
	Placeholder string
	Database    string
}

// Prepare runs s.Command and then points the generated harness
// configuration at s.Database. An empty Command skips the step.
func (r *Runner) Prepare(ctx context.Context, s Setup) error {
	if s.Command == "" {
		return nil
	}

	out, err := r.cfg.exec.Execute(ctx, build.Cmd{
		Line:        s.Command,
		Dir:         r.cfg.dir,
		Env:         r.cfg.env,
		PathPrepend: r.cfg.pathPrepend,
		CPU:         build.NoCPU,
	})
	if err != nil {
		return fmt.Errorf("benchmark setup: %w", err)
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("%w: exit code %d: %s", ErrSetupFailed, out.ExitCode, strings.TrimSpace(string(out.Output)))
	}

	if s.ConfigFile == "" || s.Placeholder == "" {
		return nil
	}
	path := s.ConfigFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.cfg.dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read harness config: %w", err)
	}
	data = []byte(strings.ReplaceAll(string(data), s.Placeholder, s.Database))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write harness config: %w", err)
	}

	logging.FromContext(ctx).Info("Prepared benchmark harness", "config", path, "database", s.Database)
	return nil
}
