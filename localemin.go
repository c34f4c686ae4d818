// Package localemin provides a minifier for the JSON locale data shipped
// with a fake-data library: it rewrites every data file in its most compact
// encoding and reports the bytes saved.
package localemin

import (
	"context"
	"io"

	"github.com/localedata/localemin/config"
	"github.com/localedata/localemin/loader"
	"github.com/localedata/localemin/minifier"
	"github.com/localedata/localemin/report"
	"github.com/localedata/localemin/types"
)

// Version of the localemin package
const Version = "v0.1.0"

// Quick constructor functions for common use cases

// NewMinifier creates a minifier for dataDir reporting to out
func NewMinifier(dataDir string, out io.Writer) *minifier.Minifier {
	cfg := config.Default()
	cfg.DataDir = dataDir
	return minifier.NewMinifier(cfg, report.NewConsoleReporter(out, false))
}

// Discover lists the JSON files beneath dataDir in lexicographic order
func Discover(dataDir string) ([]string, error) {
	return loader.Discover(dataDir, config.DefaultPattern)
}

// MinifyDir is a convenience function for the most common use case
func MinifyDir(ctx context.Context, dataDir string, out io.Writer) (types.RunResult, error) {
	return NewMinifier(dataDir, out).MinifyAll(ctx)
}

// MinifyFile rewrites a single file relative to dataDir
func MinifyFile(dataDir, rel string) (types.FileRecord, error) {
	return NewMinifier(dataDir, io.Discard).MinifyFile(rel)
}
