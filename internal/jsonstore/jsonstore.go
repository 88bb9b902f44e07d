// Package jsonstore is the persistence layer for the JSON-backed config and
// ledger files. Reads absorb every failure into a caller-supplied default;
// writes go through a temp file and an atomic rename so a reader never sees
// a partially written store.
package jsonstore

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Load reads path into out. Any failure (missing file, bad syntax, I/O
// error) leaves out untouched and returns false; callers pre-populate out
// with their default value.
func Load(path string, out interface{}) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false
	}
	return true
}

// LoadRaw reads path into an untyped JSON value for stores whose on-disk
// shape is not trusted. Returns nil on any failure.
func LoadRaw(path string) interface{} {
	var v interface{}
	if !Load(path, &v) {
		return nil
	}
	return v
}

// Save serializes v and atomically replaces path, creating parent
// directories as needed. A crash mid-write leaves the prior file intact.
func Save(path string, v interface{}) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
