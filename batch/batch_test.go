package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/rtftext"
)

const doc = `{\rtf1{\fonttbl{\f0\fnil Body;}}\f0\fs24 Hello batch\par}`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"vol2.rtf", "vol10.rtf", true},
		{"vol10.rtf", "vol2.rtf", false},
		{"a01", "a1", true},
		{"a1", "a01", false},
		{"abc", "abd", true},
		{"a", "ab", true},
		{"ab", "ab", false},
		{"page9/b.rtf", "page10/a.rtf", true},
		{"vol2/a.doc", "vol2/b.RTF", true},
		{"2", "a", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NaturalLess(tt.a, tt.b), "%q < %q", tt.a, tt.b)
	}
}

func TestSortNatural(t *testing.T) {
	paths := []string{"vol10.rtf", "vol1.rtf", "vol2.rtf", "index.rtf", "vol02.rtf"}
	SortNatural(paths)
	assert.Equal(t, []string{"index.rtf", "vol1.rtf", "vol2.rtf", "vol02.rtf", "vol10.rtf"}, paths)
}

func TestDiscover(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rtftext.batch")
	defer teardown()

	dir := writeFiles(t, map[string]string{
		"vol10/a.rtf": doc,
		"vol2/b.RTF":  doc,
		"vol2/a.doc":  doc,
		"vol2/c.txt":  "not included",
		"readme.md":   "not included",
	})

	paths, err := Discover(dir)
	require.NoError(t, err)
	var rel []string
	for _, p := range paths {
		r, err := filepath.Rel(dir, p)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"vol2/a.doc", "vol2/b.RTF", "vol10/a.rtf"}, rel)

	_, err = Discover(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rtftext.batch")
	defer teardown()

	dir := writeFiles(t, map[string]string{
		"1.rtf": doc,
		"2.rtf": `{\rtf1}`,
		"3.rtf": doc,
	})
	paths := []string{
		filepath.Join(dir, "1.rtf"),
		filepath.Join(dir, "2.rtf"),
		filepath.Join(dir, "missing.rtf"),
		filepath.Join(dir, "3.rtf"),
	}

	results := Runner{Workers: 2}.Run(context.Background(), paths)
	require.Len(t, results, 4)

	for i, res := range results {
		assert.Equal(t, paths[i], res.Path)
		assert.Equal(t, i, res.Index)
	}
	assert.True(t, results[0].OK())
	assert.Equal(t, "Hello batch\n", results[0].Output)
	assert.Len(t, results[0].SHA256, 64)
	require.NotNil(t, results[0].Summary)
	assert.Equal(t, 1, results[0].Summary.Paragraphs)

	assert.ErrorIs(t, results[1].Err, ErrNoContent)
	assert.Error(t, results[2].Err)
	assert.True(t, results[3].OK())

	rep := Summarize(results)
	assert.Equal(t, 4, rep.Total)
	assert.Equal(t, 2, rep.Succeeded)
	assert.Equal(t, 1, rep.Empty)
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, 0, rep.TimedOut)
	assert.Equal(t, 1, rep.Warnings[rtftext.WarningNoContent])
}

func TestRunFormatAndConfigure(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.rtf": `{\rtf1{\header Head}Body\par}`,
	})
	r := Runner{
		Workers: 1,
		Format:  rtftext.FormatMarkdown,
		Configure: func(e *rtftext.Extractor) *rtftext.Extractor {
			return e.ExcludeHeaders()
		},
	}

	results := r.Run(context.Background(), []string{filepath.Join(dir, "a.rtf")})
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "Body", results[0].Output)
}

func TestRunTimeout(t *testing.T) {
	dir := writeFiles(t, map[string]string{"slow.rtf": doc, "fast.rtf": doc})
	slow := Runner{
		Timeout: 20 * time.Millisecond,
		Configure: func(e *rtftext.Extractor) *rtftext.Extractor {
			time.Sleep(500 * time.Millisecond)
			return e
		},
	}

	results := slow.Run(context.Background(), []string{filepath.Join(dir, "slow.rtf")})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, ErrTimeout)
	assert.Equal(t, 1, Summarize(results).TimedOut)

	fast := Runner{Timeout: 5 * time.Second}
	results = fast.Run(context.Background(), []string{filepath.Join(dir, "fast.rtf")})
	assert.NoError(t, results[0].Err)
}

func TestRunCancelled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.rtf": doc})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Runner{}.Run(ctx, []string{filepath.Join(dir, "a.rtf")})
	require.Len(t, results, 1)
	assert.True(t, errors.Is(results[0].Err, context.Canceled))
}

func TestEach(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.rtf": doc, "b.rtf": doc})
	paths := []string{filepath.Join(dir, "a.rtf"), filepath.Join(dir, "b.rtf")}

	seen := make(map[int]bool)
	Runner{Workers: 1}.Each(context.Background(), paths, func(res Result) {
		assert.NoError(t, res.Err)
		seen[res.Index] = true
	})
	assert.Equal(t, map[int]bool{0: true, 1: true}, seen)
}
