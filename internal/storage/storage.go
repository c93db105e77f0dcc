// Package storage provides atomic file operations for TOML documents.
//
// Documents are always replaced as a whole: writes go to a temp file next to
// the target and are renamed into place, so readers never observe a partially
// written file.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LoadTOML reads the TOML document at path into dest.
// A missing file is not an error: dest is left untouched so the caller's
// default value stands in for the absent document.
func LoadTOML(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	if err := toml.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// SaveTOML atomically writes data as TOML to path.
// It ensures the parent directory exists, writes to a temp file,
// then renames to the final path for atomic replacement.
func SaveTOML(path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(data); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // Clean up temp file on failure
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
