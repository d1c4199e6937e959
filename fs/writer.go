// Package fs provides file-based knowledge-base and cache storage.
package fs

import (
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// writeFile writes data to path, creating parent directories on demand.
// It reports false without touching the file when the existing content
// hashes to the same value. Writes go through a temporary file in the
// same directory followed by a rename.
func writeFile(path string, data []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && xxhash.Sum64(existing) == xxhash.Sum64(data) {
		return false, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return false, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, err
	}
	return true, nil
}
