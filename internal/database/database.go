// Package database keeps a sqlite mirror of the master data (users, lines,
// parts, tools, scrap costs) plus the audit log. The JSON config stores
// stay the source of truth for the editing screens; the mirror exists for
// reporting queries and for the audit trail.
package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"toollife/internal/models"
)

// Open opens (or creates) the sqlite database at path and ensures the
// schema exists.
func Open(path string) (*sql.DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite", path+sep+"_journal_mode=WAL&_busy_timeout=10000&_foreign_keys=1")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			line TEXT NOT NULL DEFAULT 'Both',
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS lines (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS parts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			part_number TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS part_lines (
			part_id INTEGER NOT NULL,
			line_id INTEGER NOT NULL,
			PRIMARY KEY(part_id, line_id),
			FOREIGN KEY(part_id) REFERENCES parts(id) ON DELETE CASCADE,
			FOREIGN KEY(line_id) REFERENCES lines(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS tools (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tool_num TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			unit_cost REAL NOT NULL DEFAULT 0.0,
			stock INTEGER NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS part_costs (
			part_id INTEGER NOT NULL UNIQUE,
			scrap_cost REAL NOT NULL DEFAULT 0.0,
			updated_at TEXT NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY(part_id) REFERENCES parts(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT,
			action TEXT,
			module TEXT,
			record_id TEXT,
			summary TEXT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_parts_active ON parts(is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_tools_active ON tools(is_active)`,
	}
	for _, ddl := range tables {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	_, err := db.Exec("INSERT OR IGNORE INTO meta(key,value) VALUES('schema_version','1')")
	return err
}

// SeedDefaultUsers inserts any of the given users that do not exist yet.
func SeedDefaultUsers(db *sql.DB, defaults map[string]models.User) error {
	for username, u := range defaults {
		_, err := db.Exec(
			`INSERT OR IGNORE INTO users(username, password, role, name, line) VALUES(?,?,?,?,?)`,
			username, u.Password, u.Role, u.Name, u.Line)
		if err != nil {
			return err
		}
	}
	return nil
}

// EnsureLines inserts any missing production lines.
func EnsureLines(db *sql.DB, names []string) error {
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, err := db.Exec("INSERT OR IGNORE INTO lines(name) VALUES(?)", n); err != nil {
			return err
		}
	}
	return nil
}

// UpsertPart inserts or updates a part and rewrites its line assignments.
func UpsertPart(db *sql.DB, partNumber, name string, lines []string) error {
	if err := EnsureLines(db, lines); err != nil {
		return err
	}

	_, err := db.Exec(`
		INSERT INTO parts(part_number, name, is_active) VALUES(?, ?, 1)
		ON CONFLICT(part_number) DO UPDATE SET
		  name=excluded.name,
		  updated_at=datetime('now')`,
		partNumber, name)
	if err != nil {
		return err
	}

	var partID int64
	if err := db.QueryRow("SELECT id FROM parts WHERE part_number=?", partNumber).Scan(&partID); err != nil {
		return err
	}

	if _, err := db.Exec("DELETE FROM part_lines WHERE part_id=?", partID); err != nil {
		return err
	}
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		var lineID int64
		if err := db.QueryRow("SELECT id FROM lines WHERE name=?", ln).Scan(&lineID); err != nil {
			return err
		}
		if _, err := db.Exec("INSERT OR IGNORE INTO part_lines(part_id,line_id) VALUES(?,?)", partID, lineID); err != nil {
			return err
		}
	}
	return nil
}

// UpsertTool inserts or updates a tool's name, cost and stock.
func UpsertTool(db *sql.DB, toolNum, name string, unitCost float64, stock int) error {
	_, err := db.Exec(`
		INSERT INTO tools(tool_num, name, unit_cost, stock, is_active) VALUES(?, ?, ?, ?, 1)
		ON CONFLICT(tool_num) DO UPDATE SET
		  name=excluded.name,
		  unit_cost=excluded.unit_cost,
		  stock=excluded.stock,
		  updated_at=datetime('now')`,
		toolNum, name, unitCost, stock)
	return err
}

// SetScrapCost sets the scrap cost for a part, creating the part if needed.
func SetScrapCost(db *sql.DB, partNumber string, scrapCost float64) error {
	var partID int64
	err := db.QueryRow("SELECT id FROM parts WHERE part_number=?", partNumber).Scan(&partID)
	if err == sql.ErrNoRows {
		if _, err := db.Exec("INSERT INTO parts(part_number, name, is_active) VALUES(?, '', 1)", partNumber); err != nil {
			return err
		}
		if err := db.QueryRow("SELECT id FROM parts WHERE part_number=?", partNumber).Scan(&partID); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO part_costs(part_id, scrap_cost) VALUES(?, ?)
		ON CONFLICT(part_id) DO UPDATE SET
		  scrap_cost=excluded.scrap_cost,
		  updated_at=datetime('now')`,
		partID, scrapCost)
	return err
}

// PartWithLines is one row from ListPartsWithLines.
type PartWithLines struct {
	ID         int64
	PartNumber string
	Name       string
	Lines      []string
}

// ListPartsWithLines returns active parts with their line assignments,
// ordered by part number.
func ListPartsWithLines(db *sql.DB) ([]PartWithLines, error) {
	rows, err := db.Query("SELECT id, part_number, name FROM parts WHERE is_active=1 ORDER BY part_number")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PartWithLines
	for rows.Next() {
		var p PartWithLines
		if err := rows.Scan(&p.ID, &p.PartNumber, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		lineRows, err := db.Query(`
			SELECT l.name FROM part_lines pl
			JOIN lines l ON l.id = pl.line_id
			WHERE pl.part_id=? ORDER BY l.name`, out[i].ID)
		if err != nil {
			return nil, err
		}
		for lineRows.Next() {
			var name string
			if err := lineRows.Scan(&name); err != nil {
				lineRows.Close()
				return nil, err
			}
			out[i].Lines = append(out[i].Lines, name)
		}
		lineRows.Close()
	}
	return out, nil
}

// ToolRow is one row from ListTools.
type ToolRow struct {
	ToolNum  string
	Name     string
	UnitCost float64
	Stock    int
}

// ListTools returns active tools ordered by tool number.
func ListTools(db *sql.DB) ([]ToolRow, error) {
	rows, err := db.Query("SELECT tool_num, name, unit_cost, stock FROM tools WHERE is_active=1 ORDER BY tool_num")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ToolRow
	for rows.Next() {
		var t ToolRow
		if err := rows.Scan(&t.ToolNum, &t.Name, &t.UnitCost, &t.Stock); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ScrapCosts returns part number -> scrap cost for every configured part.
func ScrapCosts(db *sql.DB) (map[string]float64, error) {
	rows, err := db.Query(`
		SELECT p.part_number, pc.scrap_cost
		FROM part_costs pc
		JOIN parts p ON p.id = pc.part_id
		ORDER BY p.part_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]float64{}
	for rows.Next() {
		var pn string
		var cost float64
		if err := rows.Scan(&pn, &cost); err != nil {
			return nil, err
		}
		out[pn] = cost
	}
	return out, rows.Err()
}
