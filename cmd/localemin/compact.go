package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/localedata/localemin/minifier"
	"github.com/localedata/localemin/report"
)

var compactCmd = &cobra.Command{
	Use:   "compact <input.json> [output.json]",
	Short: "Compact a single JSON file",
	Long: `Compact writes the compact encoding of one JSON file to output.json, or to
stdout when no output is given. The input is never modified unless it is
also the output.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCompact,
}

func runCompact(cmd *cobra.Command, args []string) error {
	input := args[0]

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	compacted, err := minifier.Compact(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", input, err)
	}

	if len(args) == 1 {
		_, err := cmd.OutOrStdout().Write(compacted)
		return err
	}

	output := args[1]
	if err := os.WriteFile(output, compacted, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s -> %s: %s -> %s\n", input, output,
		report.FormatSize(int64(len(data))), report.FormatSize(int64(len(compacted))))
	return nil
}
