package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/localedata/localemin/minifier"
	"github.com/localedata/localemin/report"
)

var checkCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "List JSON files that are not minified",
		Long: `Check reads every JSON file beneath the data directory and lists the ones
minify would change. It writes nothing and exits non-zero when any file is
pending, so it can guard a release.`,
		Args:    cobra.NoArgs,
		PreRunE: loadRunConfig,
		RunE:    runCheck,
	}
	cmd.Flags().AddFlagSet(runFlags)
	return cmd
}()

func runCheck(cmd *cobra.Command, _ []string) error {
	pending, err := minifier.NewMinifier(runCfg, nil).Check(cmd.Context())
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		report.NewConsoleReporter(cmd.OutOrStdout(), runCfg.NoColor).Pending(pending)
		return fmt.Errorf("%d files are not minified", len(pending))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All files are minified.")
	return nil
}
