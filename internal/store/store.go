// Package store persists user profiles, conversation sessions and
// learning-session records as JSON files on the local filesystem, one
// file per entity. Writes are atomic (temp file + rename) so a crash
// never leaves a half-written record behind.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid record id")
)

// idPattern restricts entity IDs to filename-safe characters. Anything
// else (path separators, dots, traversal sequences) is rejected before
// it reaches the filesystem.
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func validateID(id string) error {
	if id == "" || !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// readJSONFile loads and decodes a JSON record, mapping a missing file
// to ErrNotFound.
func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("reading record: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding record %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeJSONAtomic encodes v and writes it to path via a temp file and
// rename, so readers never observe a partial record.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp record: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming record: %w", err)
	}

	return nil
}

// ensureDir creates dir (and parents) if it does not exist.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}
