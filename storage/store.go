// Package storage persists the catalog, carts, users and orders as flat
// JSON documents, one file per collection. Every mutating operation is a
// read-modify-write of the whole document, serialized per store behind a
// mutex and written through a temp file + rename so a document is never
// observed half-written.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// jsonFile round-trips one whole JSON document on disk.
type jsonFile struct {
	path string
}

// load decodes the document into v. A missing file returns os.ErrNotExist
// so stores can fall back to an empty collection.
func (f jsonFile) load(v any) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", f.path, err)
	}
	return nil
}

// save writes the document atomically from a reader's perspective.
func (f jsonFile) save(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
