// Package audit writes the audit trail. Every state-changing operation
// (entries, approvals, overrides, ledger and master-data edits, logins)
// logs who did what to which record. Audit failures never block the
// operation being audited.
package audit

import (
	"database/sql"
	"log"
)

// Action terms used across the app.
const (
	ActionCreate   = "created"
	ActionUpdate   = "updated"
	ActionVerify   = "verified"
	ActionSign     = "signed"
	ActionOverride = "override"
	ActionLogin    = "login"
	ActionExport   = "export"
)

// Logger writes audit rows into the audit_log table.
type Logger struct {
	DB *sql.DB
}

// Log records one audit event. Errors are logged and swallowed.
func (l *Logger) Log(username, action, module, recordID, summary string) {
	if l == nil || l.DB == nil {
		return
	}
	_, err := l.DB.Exec(
		"INSERT INTO audit_log (username, action, module, record_id, summary) VALUES (?, ?, ?, ?, ?)",
		username, action, module, recordID, summary)
	if err != nil {
		log.Printf("audit log error: %v", err)
	}
}

// Event is one audit trail row.
type Event struct {
	ID       int64
	Username string
	Action   string
	Module   string
	RecordID string
	Summary  string
	Time     string
}

// Recent returns the latest audit events, newest first.
func (l *Logger) Recent(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := l.DB.Query(
		"SELECT id, COALESCE(username,''), COALESCE(action,''), COALESCE(module,''), COALESCE(record_id,''), COALESCE(summary,''), timestamp FROM audit_log ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Username, &e.Action, &e.Module, &e.RecordID, &e.Summary, &e.Time); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
