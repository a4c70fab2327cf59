package cli

import (
	"github.com/spf13/cobra"
)

func newAllCommand(a *app, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Generate, run and aggregate in one go",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := a.context(cmd)
			if _, err := a.generate(ctx); err != nil {
				return err
			}
			if _, err := a.run(ctx); err != nil {
				return err
			}
			return a.aggregate(ctx)
		},
	}
	addGenerateFlags(cmd, flags)
	addRunFlags(cmd, flags)
	return cmd
}
