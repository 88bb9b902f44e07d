// Package testutil holds shared test helpers.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"toollife/internal/database"
	"toollife/internal/masterdata"
	"toollife/internal/monthfile"
)

// SetupTestDB opens a throwaway sqlite database with the full schema.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TempRepo returns a master-data repo rooted in a fresh temp dir.
func TempRepo(t *testing.T) *masterdata.Repo {
	t.Helper()
	dir := t.TempDir()
	return &masterdata.Repo{
		PartsPath: filepath.Join(dir, "parts.json"),
		ToolsPath: filepath.Join(dir, "tool_config.json"),
		CostsPath: filepath.Join(dir, "cost_config.json"),
		UsersPath: filepath.Join(dir, "users.json"),
	}
}

// TempMonthStore returns a month-file store rooted in a fresh temp dir.
// now may be nil for wall-clock time.
func TempMonthStore(t *testing.T, now func() time.Time) *monthfile.Store {
	t.Helper()
	return &monthfile.Store{Dir: t.TempDir(), Now: now}
}

// FixedTime returns a clock stuck at the given time.
func FixedTime(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
