package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/localedata/localemin"
)

// Revision is set at build time with -ldflags "-X main.Revision=..."
var Revision string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the localemin version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "localemin %s", localemin.Version)
		if Revision != "" {
			fmt.Fprintf(cmd.OutOrStdout(), " (%s)", Revision)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	},
}
