// Package jsonfile persists application state as JSON documents on disk.
// Every write lands in a temporary file first and is moved over the real file
// with os.Rename, so readers never observe a partially written document even
// when the process dies mid-write. The package assumes single-writer access.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// readJSONFile decodes the document at path into target. It returns fs.ErrNotExist
// when no file is present; callers decide whether that (or a corrupt document)
// means "empty state" or a hard failure.
func readJSONFile(path string, target any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return fs.ErrNotExist
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// isMissing reports whether err means the file does not exist yet.
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// writeJSONFileAtomic writes data as indented JSON to path via a temporary file
// and an atomic rename.
func writeJSONFileAtomic(path string, data any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
