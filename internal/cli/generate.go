package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/optbench/build"
	"github.com/utkarsh5026/optbench/generator"
	"github.com/utkarsh5026/optbench/internal/config"
	"github.com/utkarsh5026/optbench/options"
)

// randomSuffix tags randomly sampled configuration files.
const randomSuffix = "rnd"

func newGenerateCommand(a *app, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write one probe per option plus random configurations",
		Long: `Parses the option spec and writes a configuration file for every option set
to a non-default value, followed by --num-random random combinations. Finally
the compile flags of every stored configuration are written to all-in-one.cfg.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := a.generate(a.context(cmd))
			return err
		},
	}
	addGenerateFlags(cmd, flags)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command, flags *globalFlags) {
	cmd.Flags().IntVarP(&flags.numRandom, "num-random", "n", config.DefaultNumRandom, "Number of random configurations")
}

// generate returns the number of files written.
func (a *app) generate(ctx context.Context) (int, error) {
	a.header("GENERATE CONFIGURATIONS")

	space, diags, err := options.ParseFile(a.cfg.OptionsFile)
	if err != nil {
		return 0, &ExitError{Code: CodeFailure, Err: err}
	}
	for _, d := range diags {
		a.logger.Warn("Skipping option", "option", d.Option, "reason", d.Err)
	}
	a.printf(blue, "Parsed %d options from %s\n", space.Len(), a.cfg.OptionsFile)

	gen := generator.NewSeeded(a.cfg.Seed)

	probes, err := gen.BoundaryProbe(space)
	if err != nil {
		return 0, err
	}
	for _, p := range probes {
		path, err := a.store.Save(p.Config, p.Option)
		if err != nil {
			return 0, err
		}
		a.logger.Debug("Wrote probe", "option", p.Option, "path", path)
	}

	randoms, err := gen.RandomSet(space, a.cfg.NumRandom)
	if err != nil {
		return 0, err
	}
	for _, cfg := range randoms {
		path, err := a.store.Save(cfg, randomSuffix)
		if err != nil {
			return 0, err
		}
		a.logger.Debug("Wrote random configuration", "path", path)
	}

	if err := a.store.WriteAllInOne(ctx, build.ParamString); err != nil {
		return 0, fmt.Errorf("write all-in-one file: %w", err)
	}

	written := len(probes) + len(randoms)
	a.printf(green, "✅ Wrote %d probes and %d random configurations to %s\n",
		len(probes), len(randoms), a.store.Layout().ConfigDir)
	return written, nil
}
