package main

import (
	"github.com/spf13/cobra"

	"github.com/localedata/localemin/minifier"
	"github.com/localedata/localemin/report"
)

var minifyCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "minify",
		Short: "Minify every JSON file in the data directory",
		Long: `Minify rewrites every JSON file beneath the data directory in place.

Files are processed in lexicographic order of their path. Invalid JSON stops
the run with an error naming the file; files rewritten before it stay
rewritten. There is no backup.`,
		Args:    cobra.NoArgs,
		PreRunE: loadRunConfig,
		RunE:    runMinify,
	}
	flags := cmd.Flags()
	flags.AddFlagSet(runFlags)
	flags.BoolVarP(&flagDryRun, "dry-run", "n", false,
		"Report sizes without rewriting files")
	return cmd
}()

func runMinify(cmd *cobra.Command, _ []string) error {
	reporter := report.NewConsoleReporter(cmd.OutOrStdout(), runCfg.NoColor)
	_, err := minifier.NewMinifier(runCfg, reporter).MinifyAll(cmd.Context())
	return err
}
