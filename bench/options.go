package bench

import (
	"io"
	"time"

	"golang.org/x/time/rate"

	"github.com/utkarsh5026/optbench/build"
	"github.com/utkarsh5026/optbench/store"
)

// DefaultCycles is the number of timed runs per record.
const DefaultCycles = 3

// Clock supplies wall and monotonic time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures a Runner.
type Option func(*runnerConfig)

type runnerConfig struct {
	cycles      int
	dir         string
	env         []string
	pathPrepend []string
	cpu         int
	limiter     *rate.Limiter
	clock       Clock
	exec        build.Executor
	output      io.Writer

	onStateChange func(path string, state State, cycle int)
	beforeCycle   func(path string, cycle int)
	onCycleEnd    func(path string, cycle int, m store.Measurement, exitCode int)
}

func defaultConfig() runnerConfig {
	return runnerConfig{
		cycles: DefaultCycles,
		cpu:    build.NoCPU,
		clock:  systemClock{},
		exec:   build.ShellExecutor{},
	}
}

// WithCycles sets how many timed runs each record gets.
// If not specified, defaults to DefaultCycles.
func WithCycles(n int) Option {
	return func(cfg *runnerConfig) {
		if n > 0 {
			cfg.cycles = n
		}
	}
}

// WithDir sets the directory the benchmark command runs in.
func WithDir(dir string) Option {
	return func(cfg *runnerConfig) {
		cfg.dir = dir
	}
}

// WithEnv adds KEY=VALUE pairs to the benchmark environment.
func WithEnv(kv ...string) Option {
	return func(cfg *runnerConfig) {
		cfg.env = append(cfg.env, kv...)
	}
}

// WithPathPrepend puts dirs in front of PATH so the harness finds the freshly
// built binary before any installed one.
func WithPathPrepend(dirs ...string) Option {
	return func(cfg *runnerConfig) {
		cfg.pathPrepend = append(cfg.pathPrepend, dirs...)
	}
}

// WithPinCPU pins every benchmark process to one core. A negative id
// disables pinning.
func WithPinCPU(cpuID int) Option {
	return func(cfg *runnerConfig) {
		if cpuID < 0 {
			cfg.cpu = build.NoCPU
			return
		}
		cfg.cpu = cpuID
	}
}

// WithCycleRate limits how often cycles may start.
// cyclesPerSecond is the sustained rate and burst the number of cycles that
// may start back to back. If not specified, cycles start immediately.
//
// Example:
//
//	WithCycleRate(0.2, 1) // at most one cycle every five seconds
func WithCycleRate(cyclesPerSecond float64, burst int) Option {
	return func(cfg *runnerConfig) {
		if cyclesPerSecond > 0 && burst > 0 {
			cfg.limiter = rate.NewLimiter(rate.Limit(cyclesPerSecond), burst)
		}
	}
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(cfg *runnerConfig) {
		if c != nil {
			cfg.clock = c
		}
	}
}

// WithExecutor replaces the shell executor.
func WithExecutor(e build.Executor) Option {
	return func(cfg *runnerConfig) {
		if e != nil {
			cfg.exec = e
		}
	}
}

// WithOutput streams benchmark output to w. By default it is only captured.
func WithOutput(w io.Writer) Option {
	return func(cfg *runnerConfig) {
		cfg.output = w
	}
}

// WithOnStateChange registers a hook called on every lifecycle transition.
// cycle is zero-based and meaningless for NotStarted and Done.
func WithOnStateChange(fn func(path string, state State, cycle int)) Option {
	return func(cfg *runnerConfig) {
		cfg.onStateChange = fn
	}
}

// WithBeforeCycle registers a hook called right before a cycle starts.
func WithBeforeCycle(fn func(path string, cycle int)) Option {
	return func(cfg *runnerConfig) {
		cfg.beforeCycle = fn
	}
}

// WithOnCycleEnd registers a hook called after a cycle has been persisted.
func WithOnCycleEnd(fn func(path string, cycle int, m store.Measurement, exitCode int)) Option {
	return func(cfg *runnerConfig) {
		cfg.onCycleEnd = fn
	}
}
