package cli

import (
	"github.com/spf13/cobra"
)

func newCleanCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete configurations, build sources, benchmark files and reports",
		Long: `Removes everything optbench creates in the working directory. This cannot be
undone. The command always exits with status 1 to signal that nothing but
cleaning took place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.clean()
		},
	}
}

func (a *app) clean() error {
	if err := a.store.Reset(); err != nil {
		a.logger.Error("Could not delete every file", "error", err)
		a.println(red, "⚠️  Clean finished with errors")
	} else {
		a.printf(green, "✅ Cleaned %s\n", a.cfg.WorkDir)
	}
	return &ExitError{Code: CodeCleaned}
}
