// Package config holds the optbench settings: built-in defaults, overlaid
// by an optional optbench.yaml and then by command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/utkarsh5026/optbench/bench"
	"github.com/utkarsh5026/optbench/build"
)

// FileName is the project file looked up in the working directory.
const FileName = "optbench.yaml"

// DefaultNumRandom is how many random configurations generate writes.
const DefaultNumRandom = 30

// Config is the complete set of settings.
type Config struct {
	WorkDir     string    `yaml:"workdir" validate:"required"`
	OptionsFile string    `yaml:"options"`
	NumRandom   int       `yaml:"num_random" validate:"gte=0"`
	Seed        uint64    `yaml:"seed"`
	Build       Build     `yaml:"build"`
	Benchmark   Benchmark `yaml:"benchmark"`
	Log         Log       `yaml:"log"`
}

// Build configures the compiler invocation.
type Build struct {
	Command string `yaml:"command" validate:"required"`
	// Dir defaults to the source tree below WorkDir.
	Dir string `yaml:"dir"`
}

// Benchmark configures the harness invocation.
type Benchmark struct {
	Command string `yaml:"command" validate:"required"`
	// Dir defaults to benchmark/pytpcc below WorkDir.
	Dir          string  `yaml:"dir"`
	Cycles       int     `yaml:"cycles" validate:"gte=1"`
	SkipMeasured bool    `yaml:"skip_measured"`
	PinCPU       int     `yaml:"pin_cpu" validate:"gte=-1"`
	CycleRate    float64 `yaml:"cycle_rate" validate:"gte=0"`
	// PrependBuildDir puts the build directory first on PATH so the harness
	// picks up the freshly compiled binary.
	PrependBuildDir bool  `yaml:"prepend_build_dir"`
	Setup           Setup `yaml:"setup"`
}

// Setup prepares the harness configuration once per run.
type Setup struct {
	Command     string `yaml:"command"`
	ConfigFile  string `yaml:"config_file"`
	Placeholder string `yaml:"placeholder"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the built-in settings rooted at workDir.
func Default(workDir string) Config {
	return Config{
		WorkDir:   workDir,
		NumRandom: DefaultNumRandom,
		Build: Build{
			Command: build.DefaultCommand,
		},
		Benchmark: Benchmark{
			Command:         bench.DefaultCommand,
			Cycles:          bench.DefaultCycles,
			PinCPU:          build.NoCPU,
			PrependBuildDir: true,
			Setup: Setup{
				Command:     "python tpcc.py --print-config sqlite > sqlite.config",
				ConfigFile:  "sqlite.config",
				Placeholder: "/tmp/tpcc.db",
			},
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFile overlays the YAML file at path onto cfg. Keys missing from the
// file keep their current value. A missing file is only an error when
// required is set.
func LoadFile(path string, required bool, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read the config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

var validate = validator.New()

// Validate checks every field constraint.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (value %v): %w",
				first.Namespace(), first.Tag(), first.Value(), err)
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Resolve makes WorkDir absolute and fills in or anchors the build and
// benchmark directories below it.
func (c *Config) Resolve() error {
	abs, err := filepath.Abs(c.WorkDir)
	if err != nil {
		return fmt.Errorf("resolve workdir: %w", err)
	}
	c.WorkDir = abs
	c.Build.Dir = c.anchor(c.Build.Dir, "sqlite-source")
	c.Benchmark.Dir = c.anchor(c.Benchmark.Dir, filepath.Join("benchmark", "pytpcc"))
	return nil
}

func (c *Config) anchor(dir, fallback string) string {
	if dir == "" {
		dir = fallback
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.WorkDir, dir)
}
