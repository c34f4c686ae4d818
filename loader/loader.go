// Package loader discovers locale data files beneath a data root and
// reads them for minification.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/localedata/localemin/config"
	"github.com/localedata/localemin/log"
	"github.com/localedata/localemin/types"
)

// DataLoader walks a data root using the pattern and exclusions of a Config
type DataLoader struct {
	DataRoot string
	Config   config.Config

	log log.Log
}

// NewDataLoader creates a loader for the given data root
func NewDataLoader(dataRoot string, cfg config.Config) *DataLoader {
	return &DataLoader{
		DataRoot: dataRoot,
		Config:   cfg,
		log:      log.New("loader"),
	}
}

// Discover lists every file matching pattern beneath root, relative to root
// and sorted lexicographically by slash-separated path.
func Discover(root, pattern string) ([]string, error) {
	cfg := config.Default()
	cfg.Pattern = pattern
	cfg.Exclude = nil
	return NewDataLoader(root, cfg).Discover()
}

// Discover lists the loader's data files in lexicographic order
func (dl *DataLoader) Discover() ([]string, error) {
	info, err := os.Stat(dl.DataRoot)
	if err != nil {
		return nil, &types.FileSystemError{Op: "discover", Path: dl.DataRoot, Err: err}
	}
	if !info.IsDir() {
		return nil, &types.FileSystemError{
			Op:   "discover",
			Path: dl.DataRoot,
			Err:  errors.New("not a directory"),
		}
	}

	var paths []string
	err = filepath.WalkDir(dl.DataRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &types.FileSystemError{Op: "discover", Path: path, Err: err}
		}

		if d.IsDir() {
			if path != dl.DataRoot && dl.Config.IsExcluded(d.Name()) {
				dl.log.WithField("dir", path).Debug("skipping excluded directory")
				return filepath.SkipDir
			}
			return nil
		}

		matched, err := filepath.Match(dl.Config.Pattern, d.Name())
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", dl.Config.Pattern, err)
		}
		if !matched {
			return nil
		}

		rel, err := filepath.Rel(dl.DataRoot, path)
		if err != nil {
			return &types.FileSystemError{Op: "discover", Path: path, Err: err}
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	// WalkDir visits "a/b.json" before "a.json"; sort by the full relative path
	sort.Strings(paths)

	dl.log.WithField("root", dl.DataRoot).Debugf("discovered %d files", len(paths))
	return paths, nil
}

// Path resolves a discovered relative path against the data root
func (dl *DataLoader) Path(rel string) string {
	return filepath.Join(dl.DataRoot, filepath.FromSlash(rel))
}

// ReadFile reads a discovered file in full together with its mode
func (dl *DataLoader) ReadFile(rel string) ([]byte, fs.FileMode, error) {
	path := dl.Path(rel)

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, &types.FileSystemError{Op: "read", Path: rel, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, 0, &types.FileSystemError{Op: "stat", Path: rel, Err: err}
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, 0, &types.FileSystemError{Op: "read", Path: rel, Err: err}
	}

	return data, info.Mode().Perm(), nil
}
