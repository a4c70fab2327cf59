package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/optbench/bench"
	"github.com/utkarsh5026/optbench/build"
	"github.com/utkarsh5026/optbench/internal/pipeline"
	"github.com/utkarsh5026/optbench/store"
)

func newRunCommand(a *app, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build and benchmark every stored configuration",
		Long: `Builds the target once per stored configuration and, when the build succeeds,
runs the benchmark for --cycles timed cycles. Every measurement is written back
to the configuration file as soon as its cycle finishes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := a.run(a.context(cmd))
			return err
		},
	}
	addRunFlags(cmd, flags)
	return cmd
}

func addRunFlags(cmd *cobra.Command, flags *globalFlags) {
	cmd.Flags().IntVar(&flags.cycles, "cycles", bench.DefaultCycles, "Timed benchmark cycles per configuration")
	cmd.Flags().BoolVar(&flags.skipMeasured, "skip-measured", false, "Skip configurations that already have measurements")
	cmd.Flags().IntVar(&flags.pinCPU, "pin-cpu", build.NoCPU, "Pin the benchmark process to this CPU core (-1 = off)")
}

func (a *app) run(ctx context.Context) (pipeline.Summary, error) {
	a.header("BUILD AND BENCHMARK")
	cfg := a.cfg

	var bar *cycleProgress
	benchOpts := []bench.Option{
		bench.WithCycles(cfg.Benchmark.Cycles),
		bench.WithDir(cfg.Benchmark.Dir),
		bench.WithPinCPU(cfg.Benchmark.PinCPU),
		bench.WithCycleRate(cfg.Benchmark.CycleRate, 1),
		bench.WithOnCycleEnd(func(path string, cycle int, m store.Measurement, exitCode int) {
			if bar != nil {
				bar.cycleDone()
				return
			}
			a.printf(green, "    ✓ Cycle %d finished in %.1fs (exit %d)\n", cycle+1, m.CostInSeconds, exitCode)
		}),
	}
	if cfg.Benchmark.PrependBuildDir {
		benchOpts = append(benchOpts, bench.WithPathPrepend(cfg.Build.Dir))
	}

	builder := build.NewRunner(cfg.Build.Command, build.WithDir(cfg.Build.Dir))
	benchmarker := bench.NewRunner(cfg.Benchmark.Command, a.store, benchOpts...)

	setup := bench.Setup{
		Command:     cfg.Benchmark.Setup.Command,
		ConfigFile:  cfg.Benchmark.Setup.ConfigFile,
		Placeholder: cfg.Benchmark.Setup.Placeholder,
		Database:    a.store.Layout().Database,
	}

	p := pipeline.New(a.store, builder, benchmarker,
		pipeline.WithSkipMeasured(cfg.Benchmark.SkipMeasured),
		pipeline.WithPrepare(func(ctx context.Context) error {
			return benchmarker.Prepare(ctx, setup)
		}),
		pipeline.WithOnRecordStart(func(index, total int, path string) {
			if a.interactive {
				if bar == nil {
					bar = newCycleProgress(total, benchmarker.Cycles(), a.errOut)
				}
				bar.startRecord(index, fmt.Sprintf("[%d/%d] %s", index+1, total, filepath.Base(path)))
				return
			}
			a.printf(blue, "[%d/%d] ", index+1, total)
			a.printf(yellow, "%s\n", filepath.Base(path))
		}),
	)

	sum, err := p.Run(ctx)
	if bar != nil {
		bar.finish()
	}
	a.printRunSummary(sum)
	return sum, err
}

func (a *app) printRunSummary(sum pipeline.Summary) {
	_, _ = fmt.Fprintln(a.out)
	if len(sum.Failures) > 0 {
		a.println(red, "⚠️  Failed builds:")
		for _, f := range sum.Failures {
			a.printf(red, "  • %s: exit code %d\n", filepath.Base(f.Path), f.ExitCode)
		}
		_, _ = fmt.Fprintln(a.out)
	}
	a.printf(green, "✅ Benchmarked %d/%d configurations", sum.Measured, sum.Records)
	if sum.Skipped > 0 {
		a.printf(green, " (%d already measured)", sum.Skipped)
	}
	_, _ = fmt.Fprintln(a.out)
}
