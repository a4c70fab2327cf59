package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/optbench/aggregate"
)

func newAggregateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "aggregate",
		Short: "Consolidate measurements into results.json and results.xml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.aggregate(a.context(cmd))
		},
	}
}

func (a *app) aggregate(ctx context.Context) error {
	results, err := aggregate.New(a.store).Run(ctx)
	if err != nil {
		return err
	}
	if err := aggregate.RenderTable(a.out, aggregate.Summarize(results)); err != nil {
		return err
	}

	layout := a.store.Layout()
	a.printf(green, "\n✅ Wrote %d results to %s and %s\n", len(results), layout.ResultsJSON, layout.ResultsXML)
	return nil
}
