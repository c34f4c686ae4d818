// Package types defines the records and totals produced while minifying
// a locale data tree.
package types

import "sync"

// FileRecord describes one JSON file processed during a run
type FileRecord struct {
	Path       string `json:"path"` // slash-separated, relative to the data root
	SizeBefore int64  `json:"size_before"`
	SizeAfter  int64  `json:"size_after"`
}

// Saved returns the number of bytes removed from the file
func (r FileRecord) Saved() int64 {
	return r.SizeBefore - r.SizeAfter
}

// Changed reports whether the rewrite altered the file size
func (r FileRecord) Changed() bool {
	return r.SizeBefore != r.SizeAfter
}

// RunTotals accumulates byte counts across all files of a run
type RunTotals struct {
	Files  int   `json:"files"`
	Before int64 `json:"before"`
	After  int64 `json:"after"`
}

// Add folds a processed file into the totals
func (t *RunTotals) Add(rec FileRecord) {
	t.Files++
	t.Before += rec.SizeBefore
	t.After += rec.SizeAfter
}

// Saved returns the aggregate number of bytes removed
func (t RunTotals) Saved() int64 {
	return t.Before - t.After
}

// SyncTotals is a RunTotals safe for use by concurrent workers.
// The zero value is ready to use.
type SyncTotals struct {
	mu     sync.Mutex
	totals RunTotals
}

// Add folds a processed file into the totals
func (s *SyncTotals) Add(rec FileRecord) {
	s.mu.Lock()
	s.totals.Add(rec)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current totals
func (s *SyncTotals) Snapshot() RunTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

// RunResult is the outcome of a complete minification run
type RunResult struct {
	Root    string       `json:"root"`
	Records []FileRecord `json:"records"`
	Totals  RunTotals    `json:"totals"`
}

// Changed returns the records whose content was rewritten to a smaller size
func (r RunResult) Changed() []FileRecord {
	var changed []FileRecord
	for _, rec := range r.Records {
		if rec.Changed() {
			changed = append(changed, rec)
		}
	}
	return changed
}
