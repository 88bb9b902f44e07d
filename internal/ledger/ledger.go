// Package ledger is the keyed-list store for corrective actions and
// non-conformance records (NCRs). Each kind is one JSON array rewritten
// atomically on every mutation. Records are loose maps: an upsert shallow-
// merges the provided fields over the stored record, so fields a caller
// omits survive untouched. Callers relying on that contract include the
// action center screens, which post partial updates.
package ledger

import (
	"fmt"
	"time"

	"toollife/internal/jsonstore"
	"toollife/internal/validation"
)

// Record is one action or NCR as stored on disk.
type Record = map[string]interface{}

// Store reads and writes the action and NCR ledgers. Now is injectable for
// tests and defaults to time.Now.
type Store struct {
	ActionsPath string
	NCRsPath    string
	Now         func() time.Time
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Store) nowStamp() string {
	return s.now().Format("2006-01-02 15:04:05")
}

// NewID builds a ledger identifier: prefix plus a wall-clock timestamp,
// e.g. A-20260830-142250 or NCR-20260830-142250.
func (s *Store) NewID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, s.now().Format("20060102-150405"))
}

// ensureListStore coerces an arbitrary decoded value into
// {"version": 1, key: [...]}.
func ensureListStore(raw interface{}, key string) map[string]interface{} {
	store, ok := raw.(map[string]interface{})
	if !ok {
		store = map[string]interface{}{}
	}
	if _, ok := store["version"]; !ok {
		store["version"] = 1
	}
	if _, ok := store[key].([]interface{}); !ok {
		store[key] = []interface{}{}
	}
	return store
}

func records(store map[string]interface{}, key string) []Record {
	list, _ := store[key].([]interface{})
	out := make([]Record, 0, len(list))
	for _, item := range list {
		if rec, ok := item.(Record); ok {
			out = append(out, rec)
		}
	}
	return out
}

func (s *Store) loadActions() map[string]interface{} {
	return ensureListStore(jsonstore.LoadRaw(s.ActionsPath), "actions")
}

func (s *Store) loadNCRs() map[string]interface{} {
	return ensureListStore(jsonstore.LoadRaw(s.NCRsPath), "ncrs")
}

// Actions returns all action records.
func (s *Store) Actions() []Record {
	return records(s.loadActions(), "actions")
}

// NCRs returns all NCR records.
func (s *Store) NCRs() []Record {
	return records(s.loadNCRs(), "ncrs")
}

// UpsertAction inserts or updates an action. A record with no action_id
// gets a generated one. Matching an existing id merges the provided fields
// over the stored record and refreshes updated_at; otherwise the record is
// appended. The stored record is returned.
func (s *Store) UpsertAction(action Record) (Record, error) {
	ve := &validation.ValidationErrors{}
	validation.ValidateEnum(ve, "status", str(action["status"]), validation.ValidActionStatuses)
	validation.ValidateEnum(ve, "severity", str(action["severity"]), validation.ValidActionSeverities)
	if ve.HasErrors() {
		return nil, ve
	}

	store := s.loadActions()
	list, _ := store["actions"].([]interface{})

	if str(action["action_id"]) == "" {
		action["action_id"] = s.NewID("A")
	}

	merged, list := upsert(list, "action_id", action, s.nowStamp())
	// Defaults fill only after the merge: a partial update must not reset
	// stored fields the caller omitted.
	setDefault(merged, "type", "Action")
	setDefault(merged, "severity", "Medium")
	setDefault(merged, "status", "Open")
	setDefault(merged, "created_at", s.nowStamp())
	setDefault(merged, "notes", "")
	setDefault(merged, "related", map[string]interface{}{})
	store["actions"] = list
	if err := jsonstore.Save(s.ActionsPath, store); err != nil {
		return nil, err
	}
	return merged, nil
}

// SetActionStatus updates one action's status, stamping updated_at and, on
// Closed, closed_at plus the closing user. Unknown ids are a silent no-op.
func (s *Store) SetActionStatus(actionID, status, closedBy string) error {
	ve := &validation.ValidationErrors{}
	validation.ValidateEnum(ve, "status", status, validation.ValidActionStatuses)
	if ve.HasErrors() {
		return ve
	}

	store := s.loadActions()
	for _, rec := range records(store, "actions") {
		if str(rec["action_id"]) == actionID {
			rec["status"] = status
			rec["updated_at"] = s.nowStamp()
			if status == "Closed" {
				rec["closed_at"] = s.nowStamp()
				if closedBy != "" {
					rec["closed_by"] = closedBy
				}
			}
			break
		}
	}
	return jsonstore.Save(s.ActionsPath, store)
}

// UpsertNCR inserts or updates an NCR, with the same merge and identity
// semantics as UpsertAction.
func (s *Store) UpsertNCR(ncr Record) (Record, error) {
	ve := &validation.ValidationErrors{}
	validation.ValidateEnum(ve, "status", str(ncr["status"]), validation.ValidNCRStatuses)
	if ve.HasErrors() {
		return nil, ve
	}

	store := s.loadNCRs()
	list, _ := store["ncrs"].([]interface{})

	if str(ncr["ncr_id"]) == "" {
		ncr["ncr_id"] = s.NewID("NCR")
	}

	merged, list := upsert(list, "ncr_id", ncr, s.nowStamp())
	setDefault(merged, "status", "Open")
	setDefault(merged, "created_at", s.nowStamp())
	store["ncrs"] = list
	if err := jsonstore.Save(s.NCRsPath, store); err != nil {
		return nil, err
	}
	return merged, nil
}

// SetNCRStatus updates one NCR's status, stamping updated_at and, on
// Closed, a close_date. Unknown ids are a silent no-op.
func (s *Store) SetNCRStatus(ncrID, status string) error {
	ve := &validation.ValidationErrors{}
	validation.ValidateEnum(ve, "status", status, validation.ValidNCRStatuses)
	if ve.HasErrors() {
		return ve
	}

	store := s.loadNCRs()
	for _, rec := range records(store, "ncrs") {
		if str(rec["ncr_id"]) == ncrID {
			rec["status"] = status
			rec["updated_at"] = s.nowStamp()
			if status == "Closed" {
				rec["close_date"] = s.now().Format("2006-01-02")
			}
			break
		}
	}
	return jsonstore.Save(s.NCRsPath, store)
}

// upsert merges rec over the element matching rec[idKey] and refreshes
// updated_at; with no match it appends. Returns the stored record and the
// updated list.
func upsert(list []interface{}, idKey string, rec Record, stamp string) (Record, []interface{}) {
	id := str(rec[idKey])
	for i, item := range list {
		existing, ok := item.(Record)
		if !ok || str(existing[idKey]) != id {
			continue
		}
		merged := Record{}
		for k, v := range existing {
			merged[k] = v
		}
		for k, v := range rec {
			merged[k] = v
		}
		merged["updated_at"] = stamp
		list[i] = merged
		return merged, list
	}
	rec["updated_at"] = stamp
	return rec, append(list, rec)
}

func setDefault(rec Record, key string, value interface{}) {
	if _, ok := rec[key]; !ok {
		rec[key] = value
	}
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}
