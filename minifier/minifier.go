// Package minifier rewrites locale JSON files in their most compact
// encoding and accounts for the bytes saved.
package minifier

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/localedata/localemin/config"
	"github.com/localedata/localemin/loader"
	"github.com/localedata/localemin/log"
	"github.com/localedata/localemin/types"
)

// Reporter observes a run. Implementations must not affect its outcome.
type Reporter interface {
	File(rec types.FileRecord)
	Summary(totals types.RunTotals)
}

// MinifyOptions controls how a run writes files
type MinifyOptions struct {
	Jobs   int  // files processed concurrently, <= 1 is sequential
	DryRun bool // compute sizes without rewriting files
}

// Minifier rewrites every data file found by its loader
type Minifier struct {
	Loader   *loader.DataLoader
	Options  MinifyOptions
	Reporter Reporter

	log log.Log
}

// NewMinifier creates a minifier for the data tree described by cfg.
// A nil reporter discards all output.
func NewMinifier(cfg config.Config, reporter Reporter) *Minifier {
	return &Minifier{
		Loader: loader.NewDataLoader(cfg.DataDir, cfg),
		Options: MinifyOptions{
			Jobs:   cfg.Jobs,
			DryRun: cfg.DryRun,
		},
		Reporter: reporter,
		log:      log.New("minifier"),
	}
}

// MinifyAll discovers and minifies every data file in lexicographic order.
// The first error aborts the run; files rewritten before it stay rewritten.
func (m *Minifier) MinifyAll(ctx context.Context) (types.RunResult, error) {
	result := types.RunResult{Root: m.Loader.DataRoot}

	paths, err := m.Loader.Discover()
	if err != nil {
		return result, err
	}
	m.log.WithField("root", m.Loader.DataRoot).Infof("minifying %d files", len(paths))

	if m.Options.Jobs > 1 {
		err = m.minifyParallel(ctx, paths, &result)
	} else {
		err = m.minifySequential(ctx, paths, &result)
	}
	if err != nil {
		return result, err
	}

	if m.Reporter != nil {
		m.Reporter.Summary(result.Totals)
	}
	return result, nil
}

func (m *Minifier) minifySequential(ctx context.Context, paths []string, result *types.RunResult) error {
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := m.MinifyFile(rel)
		if err != nil {
			return err
		}
		m.record(rec, result)
	}
	return nil
}

// minifyParallel processes distinct files concurrently. Writes never share
// a path, so only the totals need synchronising. Records are reported in
// discovery order once the group finishes.
func (m *Minifier) minifyParallel(ctx context.Context, paths []string, result *types.RunResult) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.Options.Jobs)

	records := make([]types.FileRecord, len(paths))
	done := make([]bool, len(paths))
	var totals types.SyncTotals

	for i, rel := range paths {
		i, rel := i, rel
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := m.MinifyFile(rel)
			if err != nil {
				return err
			}
			records[i] = rec
			done[i] = true
			totals.Add(rec)
			return nil
		})
	}
	err := g.Wait()

	for i, rec := range records {
		if !done[i] {
			continue
		}
		result.Records = append(result.Records, rec)
		m.reportFile(rec)
	}
	result.Totals = totals.Snapshot()
	return err
}

func (m *Minifier) record(rec types.FileRecord, result *types.RunResult) {
	result.Records = append(result.Records, rec)
	result.Totals.Add(rec)
	m.reportFile(rec)
}

func (m *Minifier) reportFile(rec types.FileRecord) {
	if m.Reporter != nil {
		m.Reporter.File(rec)
	}
}

// MinifyFile rewrites one data file, given relative to the data root, and
// returns its size before and after.
func (m *Minifier) MinifyFile(rel string) (types.FileRecord, error) {
	data, mode, err := m.Loader.ReadFile(rel)
	if err != nil {
		return types.FileRecord{}, err
	}

	compacted, err := Compact(data)
	if err != nil {
		return types.FileRecord{}, newParseError(rel, err)
	}

	rec := types.FileRecord{
		Path:       rel,
		SizeBefore: int64(len(data)),
		SizeAfter:  int64(len(compacted)),
	}
	if m.Options.DryRun {
		m.log.WithField("file", rel).Debug("dry run, not writing")
		return rec, nil
	}

	path := m.Loader.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return rec, &types.FileSystemError{Op: "mkdir", Path: rel, Err: err}
	}
	if err := writeFile(path, compacted, mode); err != nil {
		return rec, &types.FileSystemError{Op: "write", Path: rel, Err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return rec, &types.FileSystemError{Op: "stat", Path: rel, Err: err}
	}
	rec.SizeAfter = info.Size()

	m.log.WithFields(logrus.Fields{
		"file":   rel,
		"before": rec.SizeBefore,
		"after":  rec.SizeAfter,
	}).Debug("minified")
	return rec, nil
}

// Check lists the data files that are not yet minified without writing
// anything. Invalid JSON still aborts with a ParseError.
func (m *Minifier) Check(ctx context.Context) ([]string, error) {
	paths, err := m.Loader.Discover()
	if err != nil {
		return nil, err
	}

	var pending []string
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return pending, err
		}

		data, _, err := m.Loader.ReadFile(rel)
		if err != nil {
			return pending, err
		}
		compact, err := IsCompact(data)
		if err != nil {
			return pending, newParseError(rel, err)
		}
		if !compact {
			pending = append(pending, rel)
		}
	}

	return pending, nil
}

func writeFile(path string, data []byte, mode os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newParseError(rel string, err error) *types.ParseError {
	offset := int64(-1)
	var se *syntaxError
	if errors.As(err, &se) {
		offset = se.Offset
	}
	return &types.ParseError{Path: rel, Offset: offset, Err: err}
}
