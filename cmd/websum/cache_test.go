package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/websum"
	"github.com/fwojciec/websum/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCacheFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCacheStatsCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCacheFile(t, filepath.Join(dir, "url_cache.json"), `{
  "https://example.com/a": {"timestamp": "2024-01-02T03:04:05Z", "count": 2},
  "https://example.com/b": {"timestamp": "2024-01-02T03:04:05Z", "count": 1}
}`)
	var stdout, stderr bytes.Buffer

	err := newMain(nil).Run(context.Background(), []string{"cache", "stats", "-o", dir}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "URLs:   2")
	assert.Contains(t, stdout.String(), "Visits: 3")
}

func TestCacheStatsCmd_SQLite(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "cache.db")
	var stdout, stderr bytes.Buffer

	err := newMain(nil).Run(context.Background(), []string{"cache", "stats", "--cache-db", dbPath}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "URLs:   0")
}

func TestCacheMergeCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "target.json")
	other := filepath.Join(dir, "other.json")
	writeCacheFile(t, target, `{"https://example.com/a": {"timestamp": "2024-01-01T00:00:00Z", "count": 1}}`)
	writeCacheFile(t, other, `{
  "https://example.com/a": {"timestamp": "2024-02-01T00:00:00Z", "count": 2},
  "https://example.com/b": {"timestamp": "2024-02-01T00:00:00Z", "count": 1}
}`)
	var stdout, stderr bytes.Buffer

	err := newMain(nil).Run(context.Background(), []string{"cache", "merge", "--cache-file", target, other}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Merged 2 entries")

	entries, err := fs.ReadCacheFile(target)
	require.NoError(t, err)
	assert.Equal(t, 3, entries["https://example.com/a"].Count)
	assert.Equal(t, 1, entries["https://example.com/b"].Count)
}

func TestCacheMergeCmd_MissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	err := newMain(nil).Run(context.Background(), []string{"cache", "merge", "-o", dir, filepath.Join(dir, "missing.json")}, &stdout, &stderr)

	assert.Equal(t, websum.ENOTFOUND, websum.ErrorCode(err))
}
