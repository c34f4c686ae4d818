package types

import (
	"errors"
	"io/fs"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRecord_Saved(t *testing.T) {
	rec := FileRecord{Path: "en/address.json", SizeBefore: 35, SizeAfter: 30}

	assert.Equal(t, int64(5), rec.Saved())
	assert.True(t, rec.Changed())
	assert.False(t, FileRecord{SizeBefore: 30, SizeAfter: 30}.Changed())
}

func TestRunTotals_Add(t *testing.T) {
	var totals RunTotals
	totals.Add(FileRecord{Path: "a.json", SizeBefore: 100, SizeAfter: 60})
	totals.Add(FileRecord{Path: "b/c.json", SizeBefore: 50, SizeAfter: 50})

	assert.Equal(t, 2, totals.Files)
	assert.Equal(t, int64(150), totals.Before)
	assert.Equal(t, int64(110), totals.After)
	assert.Equal(t, int64(40), totals.Saved())
}

func TestSyncTotals_ConcurrentAdd(t *testing.T) {
	var totals SyncTotals
	var wg sync.WaitGroup

	const workers = 16
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			totals.Add(FileRecord{SizeBefore: 10, SizeAfter: 7})
		}()
	}
	wg.Wait()

	snap := totals.Snapshot()
	assert.Equal(t, workers, snap.Files)
	assert.Equal(t, int64(workers*10), snap.Before)
	assert.Equal(t, int64(workers*3), snap.Saved())
}

func TestRunResult_Changed(t *testing.T) {
	result := RunResult{
		Records: []FileRecord{
			{Path: "a.json", SizeBefore: 10, SizeAfter: 8},
			{Path: "b.json", SizeBefore: 8, SizeAfter: 8},
		},
	}

	changed := result.Changed()
	require.Len(t, changed, 1)
	assert.Equal(t, "a.json", changed[0].Path)
}

func TestErrors_Unwrap(t *testing.T) {
	fsErr := &FileSystemError{Op: "read", Path: "en/text.json", Err: fs.ErrPermission}
	assert.True(t, errors.Is(fsErr, fs.ErrPermission))
	assert.Equal(t, "read en/text.json: permission denied", fsErr.Error())

	cause := errors.New("invalid character '}' looking for beginning of value")
	parseErr := &ParseError{Path: "en/text.json", Offset: 8, Err: cause}
	assert.True(t, errors.Is(parseErr, cause))
	assert.Contains(t, parseErr.Error(), "offset 8")

	parseErr.Offset = -1
	assert.NotContains(t, parseErr.Error(), "offset")

	var target *ParseError
	assert.True(t, errors.As(error(parseErr), &target))
}
