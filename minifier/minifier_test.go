package minifier

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localedata/localemin/config"
	"github.com/localedata/localemin/log"
	"github.com/localedata/localemin/types"
)

func init() {
	log.Output = io.Discard
}

// recordingReporter keeps everything a run reports
type recordingReporter struct {
	files     []types.FileRecord
	summaries []types.RunTotals
}

func (r *recordingReporter) File(rec types.FileRecord) { r.files = append(r.files, rec) }
func (r *recordingReporter) Summary(totals types.RunTotals) { r.summaries = append(r.summaries, totals) }

// setupLocaleData writes files (relative path -> content) under a new root
func setupLocaleData(t *testing.T, files map[string]string) string {
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func newTestMinifier(root string, jobs int, reporter Reporter) *Minifier {
	cfg := config.Default()
	cfg.DataDir = root
	cfg.Jobs = jobs
	return NewMinifier(cfg, reporter)
}

func readFile(t *testing.T, root, rel string) string {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestMinifier_MinifyFile(t *testing.T) {
	root := setupLocaleData(t, map[string]string{
		"a.json": `{"key": "value", "list": [1, 2, 3]}`,
	})
	m := newTestMinifier(root, 1, nil)

	rec, err := m.MinifyFile("a.json")
	require.NoError(t, err)

	assert.Equal(t, types.FileRecord{Path: "a.json", SizeBefore: 35, SizeAfter: 30}, rec)
	assert.Equal(t, `{"key":"value","list":[1,2,3]}`, readFile(t, root, "a.json"))
}

func TestMinifier_MinifyFile_KeepsMode(t *testing.T) {
	root := setupLocaleData(t, map[string]string{"en/text.json": `[ 1 ]`})
	path := filepath.Join(root, "en", "text.json")
	require.NoError(t, os.Chmod(path, 0600))

	_, err := newTestMinifier(root, 1, nil).MinifyFile("en/text.json")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestMinifier_MinifyFile_ParseError(t *testing.T) {
	root := setupLocaleData(t, map[string]string{"en/broken.json": `{"key": }`})

	_, err := newTestMinifier(root, 1, nil).MinifyFile("en/broken.json")

	var parseErr *types.ParseError
	require.True(t, errors.As(err, &parseErr), "expected ParseError, got %v", err)
	assert.Equal(t, "en/broken.json", parseErr.Path)
	assert.Equal(t, `{"key": }`, readFile(t, root, "en/broken.json"))
}

func TestMinifier_MinifyAll(t *testing.T) {
	root := setupLocaleData(t, map[string]string{
		"en/person.json":         "{\n  \"names\": [\"Ann\", \"Bob\"]\n}\n",
		"de/person.json":         `{"names": ["Jürgen", "Grüße"]}`,
		"a.json":                 `{"key": "value", "list": [1, 2, 3]}`,
		"int/builtin/codes.json": `{"codes": {"x": 1}}`,
	})
	reporter := &recordingReporter{}

	result, err := newTestMinifier(root, 1, reporter).MinifyAll(context.Background())
	require.NoError(t, err)

	var paths []string
	for _, rec := range result.Records {
		paths = append(paths, rec.Path)
	}
	assert.Equal(t, []string{"a.json", "de/person.json", "en/person.json", "int/builtin/codes.json"}, paths)

	assert.Equal(t, `{"names":["Ann","Bob"]}`, readFile(t, root, "en/person.json"))
	assert.Equal(t, `{"names":["Jürgen","Grüße"]}`, readFile(t, root, "de/person.json"))
	assert.Equal(t, `{"codes":{"x":1}}`, readFile(t, root, "int/builtin/codes.json"))

	assert.Equal(t, 4, result.Totals.Files)
	var before, after int64
	for _, rec := range result.Records {
		before += rec.SizeBefore
		after += rec.SizeAfter
	}
	assert.Equal(t, before, result.Totals.Before)
	assert.Equal(t, after, result.Totals.After)

	assert.Equal(t, result.Records, reporter.files)
	require.Len(t, reporter.summaries, 1)
	assert.Equal(t, result.Totals, reporter.summaries[0])
}

func TestMinifier_MinifyAll_SingleFileSaved(t *testing.T) {
	root := setupLocaleData(t, map[string]string{
		"a.json": `{"key": "value", "list": [1, 2, 3]}`,
	})

	result, err := newTestMinifier(root, 1, nil).MinifyAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), result.Totals.Saved())
}

func TestMinifier_MinifyAll_Idempotent(t *testing.T) {
	root := setupLocaleData(t, map[string]string{
		"en/a.json": `{"b": [1, 2], "c": "é"}`,
		"en/b.json": `[ {"x": 1.0} ]`,
	})
	m := newTestMinifier(root, 1, nil)

	_, err := m.MinifyAll(context.Background())
	require.NoError(t, err)
	firstA, firstB := readFile(t, root, "en/a.json"), readFile(t, root, "en/b.json")

	result, err := m.MinifyAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, firstA, readFile(t, root, "en/a.json"))
	assert.Equal(t, firstB, readFile(t, root, "en/b.json"))
	assert.Equal(t, int64(0), result.Totals.Saved())
}

func TestMinifier_MinifyAll_StopsAtParseError(t *testing.T) {
	root := setupLocaleData(t, map[string]string{
		"a.json": `{"first": 1}`,
		"b.json": `{"key": }`,
		"c.json": `{"last": 3}`,
	})
	reporter := &recordingReporter{}

	result, err := newTestMinifier(root, 1, reporter).MinifyAll(context.Background())

	var parseErr *types.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "b.json", parseErr.Path)

	// Earlier files stay minified, later ones are untouched
	assert.Equal(t, `{"first":1}`, readFile(t, root, "a.json"))
	assert.Equal(t, `{"last": 3}`, readFile(t, root, "c.json"))
	require.Len(t, result.Records, 1)
	assert.Empty(t, reporter.summaries)
}

func TestMinifier_MinifyAll_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")

	_, err := newTestMinifier(root, 1, nil).MinifyAll(context.Background())

	var fsErr *types.FileSystemError
	assert.True(t, errors.As(err, &fsErr))
}

func TestMinifier_MinifyAll_Cancelled(t *testing.T) {
	root := setupLocaleData(t, map[string]string{"a.json": `{ }`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestMinifier(root, 1, nil).MinifyAll(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, `{ }`, readFile(t, root, "a.json"))
}

func TestMinifier_MinifyAll_DryRun(t *testing.T) {
	original := `{"key": "value", "list": [1, 2, 3]}`
	root := setupLocaleData(t, map[string]string{"a.json": original})
	m := newTestMinifier(root, 1, nil)
	m.Options.DryRun = true

	result, err := m.MinifyAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, original, readFile(t, root, "a.json"))
	assert.Equal(t, int64(5), result.Totals.Saved())
}

func TestMinifier_MinifyAll_Parallel(t *testing.T) {
	files := map[string]string{}
	for _, locale := range []string{"cs", "da", "de", "en", "es", "fi", "fr", "it", "ja", "ru"} {
		files[locale+"/person.json"] = `{"locale": "` + locale + `", "names": [ "a", "b" ]}`
		files[locale+"/text.json"] = `[ "x",  "y" ]`
	}
	sequentialRoot := setupLocaleData(t, files)
	parallelRoot := setupLocaleData(t, files)

	sequentialReporter := &recordingReporter{}
	parallelReporter := &recordingReporter{}

	sequential, err := newTestMinifier(sequentialRoot, 1, sequentialReporter).MinifyAll(context.Background())
	require.NoError(t, err)
	parallel, err := newTestMinifier(parallelRoot, 4, parallelReporter).MinifyAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sequential.Records, parallel.Records)
	assert.Equal(t, sequential.Totals, parallel.Totals)
	assert.Equal(t, sequentialReporter.files, parallelReporter.files)
	assert.Equal(t, `["x","y"]`, readFile(t, parallelRoot, "ja/text.json"))
}

func TestMinifier_MinifyAll_ParallelError(t *testing.T) {
	root := setupLocaleData(t, map[string]string{
		"a.json": `{"ok": 1}`,
		"b.json": `[1,`,
		"c.json": `{"ok": 3}`,
	})

	_, err := newTestMinifier(root, 3, nil).MinifyAll(context.Background())

	var parseErr *types.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "b.json", parseErr.Path)
}

func TestMinifier_Check(t *testing.T) {
	root := setupLocaleData(t, map[string]string{
		"en/done.json":    `{"a":1}`,
		"en/pending.json": `{"a": 1}`,
		"de/pending.json": "[\n1\n]",
	})
	m := newTestMinifier(root, 1, nil)

	pending, err := m.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"de/pending.json", "en/pending.json"}, pending)
	assert.Equal(t, `{"a": 1}`, readFile(t, root, "en/pending.json"))

	_, err = m.MinifyAll(context.Background())
	require.NoError(t, err)

	pending, err = m.Check(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestMinifier_Check_ParseError(t *testing.T) {
	root := setupLocaleData(t, map[string]string{"en/broken.json": `{`})

	_, err := newTestMinifier(root, 1, nil).Check(context.Background())

	var parseErr *types.ParseError
	assert.True(t, errors.As(err, &parseErr))
}
