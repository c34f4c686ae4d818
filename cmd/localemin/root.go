package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/localedata/localemin/config"
	"github.com/localedata/localemin/log"
)

// Execute runs the root command and exits non-zero on any error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var (
	cfgFile string
	runCfg  = config.Default()

	// flag values, applied over the loaded config only when changed
	flagDataDir string
	flagPattern string
	flagExclude []string
	flagJobs    int
	flagDryRun  bool
	flagNoColor bool
)

// runFlags are shared by every command that walks the data tree
var runFlags = func() *flag.FlagSet {
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.StringVarP(&flagDataDir, "data-dir", "d", config.DefaultDataDir,
		"Root of the locale data tree")
	flags.StringVarP(&flagPattern, "pattern", "p", config.DefaultPattern,
		"Base-name glob of the files to minify")
	flags.StringSliceVarP(&flagExclude, "exclude", "x", nil,
		"Directory names to skip (repeatable)")
	flags.IntVarP(&flagJobs, "jobs", "j", 1,
		"Number of files to process concurrently")
	flags.BoolVar(&flagNoColor, "no-color", false, "Disable coloured output")
	return flags
}()

var rootCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "localemin",
		Short: "Minify JSON locale data",
		Long: `localemin rewrites the JSON locale data files of a fake-data library in
their most compact encoding.

Every *.json file beneath the data directory is parsed and written back
without insignificant whitespace. Non-ASCII text is kept as is. Sizes before
and after are printed for every file, followed by the total saved.

Configuration

Settings are read from .localemin.yaml in the working directory (or the
file given with --config), then from LOCALEMIN_DATA_DIR and LOCALEMIN_JOBS,
then from flags.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", config.DefaultConfigFile, "YAML config file")
	flags.BoolVar(&log.Debug, "debug", false, "Log debug output to stderr")

	cmd.AddCommand(minifyCmd, checkCmd, compactCmd, versionCmd)
	return cmd
}()

// loadRunConfig layers defaults, config file, environment and flags.
func loadRunConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = flagDataDir
	}
	if flags.Changed("pattern") {
		cfg.Pattern = flagPattern
	}
	if flags.Changed("exclude") {
		cfg.Exclude = flagExclude
	}
	if flags.Changed("jobs") {
		cfg.Jobs = flagJobs
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = flagDryRun
	}
	if flags.Changed("no-color") {
		cfg.NoColor = flagNoColor
	}

	if err := cfg.IsValid(); err != nil {
		return err
	}
	runCfg = cfg
	return nil
}
