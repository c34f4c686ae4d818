package types

import "fmt"

// FileSystemError reports a missing data root, an unreadable file or a
// failed write. It is always fatal for the run.
type FileSystemError struct {
	Op   string // "discover", "read", "write", "mkdir", "stat"
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error {
	return e.Err
}

// ParseError reports a file whose content is not valid JSON
type ParseError struct {
	Path   string
	Offset int64 // byte offset where decoding stopped, -1 if unknown
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("parse %s: offset %d: %v", e.Path, e.Offset, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
