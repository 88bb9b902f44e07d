package workflow

import (
	"errors"
	"testing"
	"time"

	"toollife/internal/models"
	"toollife/internal/testutil"
	"toollife/internal/validation"
)

var testClock = time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC)

type auditEntry struct {
	username, action, module, recordID, summary string
}

type recordingAudit struct {
	entries []auditEntry
}

func (r *recordingAudit) Log(username, action, module, recordID, summary string) {
	r.entries = append(r.entries, auditEntry{username, action, module, recordID, summary})
}

func testService(t *testing.T) (*Service, *recordingAudit) {
	t.Helper()
	rec := &recordingAudit{}
	clock := testutil.FixedTime(testClock)
	svc := &Service{
		Months: testutil.TempMonthStore(t, clock),
		Master: testutil.TempRepo(t),
		Audit:  rec,
		Now:    clock,
	}
	return svc, rec
}

func entryParams() EntryParams {
	return EntryParams{
		Line:         "U725",
		Shift:        "1st",
		Machine:      "Machine 3",
		PartNumber:   "PN1",
		ToolNum:      "12",
		Reason:       "Tool Worn",
		DowntimeMins: 15,
		User:         "changer1",
	}
}

func TestNewEntryInitializesApprovals(t *testing.T) {
	svc, _ := testService(t)

	id, err := svc.NewEntry(entryParams())
	if err != nil {
		t.Fatalf("new entry: %v", err)
	}

	table, _, err := svc.Months.Load("")
	if err != nil {
		t.Fatal(err)
	}
	row := table.Find(id)
	if row == nil {
		t.Fatalf("entry %s not persisted", id)
	}

	if row["Quality_Verified"] != "Pending" || row["Leader_Sign"] != "Pending" {
		t.Fatalf("approvals not Pending: %v", row)
	}
	for _, col := range []string{"Quality_User", "Quality_Time", "Leader_User", "Leader_Time"} {
		if row[col] != "" {
			t.Fatalf("%s should be empty, got %q", col, row[col])
		}
	}
	if row["Date"] != "2026-08-30" || row["Time"] != "09:15:00" {
		t.Fatalf("bad entry stamp: %v", row)
	}
	if row["Tool_Changer"] != "changer1" {
		t.Fatalf("submitting user not recorded: %v", row)
	}
}

func TestNewEntryValidation(t *testing.T) {
	svc, _ := testService(t)

	p := entryParams()
	p.Machine = ""
	p.Reason = " "
	_, err := svc.NewEntry(p)

	var ve *validation.ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if len(ve.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %v", ve)
	}

	// Nothing was written.
	table, _, err := svc.Months.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != 0 {
		t.Fatalf("validation failure must not write, got %d rows", len(table.Rows))
	}
}

func TestNewEntryConsumesToolStock(t *testing.T) {
	svc, _ := testService(t)
	err := svc.Master.SaveTools(models.ToolStore{Tools: map[string]models.Tool{
		"Tool 12": {Name: "Insert", Cost: 33.5, Stock: 2},
	}})
	if err != nil {
		t.Fatal(err)
	}

	id, err := svc.NewEntry(entryParams())
	if err != nil {
		t.Fatal(err)
	}

	table, _, _ := svc.Months.Load("")
	if got := table.Find(id)["Cost"]; got != "33.50" {
		t.Fatalf("cost not taken from tool config: %q", got)
	}
	if got := svc.Master.LoadTools().Tools["Tool 12"].Stock; got != 1 {
		t.Fatalf("stock not decremented: %d", got)
	}
}

func TestVerifyQualityStampsOnlyQuality(t *testing.T) {
	svc, rec := testService(t)
	id, err := svc.NewEntry(entryParams())
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.VerifyQuality("", id, "inspector1"); err != nil {
		t.Fatalf("verify: %v", err)
	}

	table, _, _ := svc.Months.Load("")
	row := table.Find(id)
	if row["Quality_Verified"] != "Yes" || row["Quality_User"] != "inspector1" {
		t.Fatalf("quality sub-record wrong: %v", row)
	}
	if _, err := time.Parse("2006-01-02 15:04:05", row["Quality_Time"]); err != nil {
		t.Fatalf("Quality_Time not parseable: %q", row["Quality_Time"])
	}
	if row["Leader_Sign"] != "Pending" || row["Leader_User"] != "" || row["Leader_Time"] != "" {
		t.Fatalf("leader sub-record touched: %v", row)
	}

	last := rec.entries[len(rec.entries)-1]
	if last.action != "verified" || last.recordID != id {
		t.Fatalf("audit entry wrong: %+v", last)
	}
}

func TestSignLeaderStampsOnlyLeader(t *testing.T) {
	svc, _ := testService(t)
	id, err := svc.NewEntry(entryParams())
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.SignLeader("", id, "leader1"); err != nil {
		t.Fatalf("sign: %v", err)
	}

	table, _, _ := svc.Months.Load("")
	row := table.Find(id)
	if row["Leader_Sign"] != "Yes" || row["Leader_User"] != "leader1" {
		t.Fatalf("leader sub-record wrong: %v", row)
	}
	if row["Quality_Verified"] != "Pending" {
		t.Fatalf("quality sub-record touched: %v", row)
	}
}

func TestApproveMissingRecord(t *testing.T) {
	svc, _ := testService(t)
	if _, err := svc.NewEntry(entryParams()); err != nil {
		t.Fatal(err)
	}

	err := svc.VerifyQuality("", "no-such-id", "inspector1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEditDefects(t *testing.T) {
	svc, _ := testService(t)
	id, err := svc.NewEntry(entryParams())
	if err != nil {
		t.Fatal(err)
	}

	update := DefectUpdate{DefectsPresent: "Yes", DefectQty: 3, SortDone: "No", DefectReason: " chipped edge "}
	if err := svc.EditDefects("", id, update, "inspector1"); err != nil {
		t.Fatalf("edit defects: %v", err)
	}

	table, _, _ := svc.Months.Load("")
	row := table.Find(id)
	if row["Defects_Present"] != "Yes" || row["Defect_Qty"] != "3" || row["Defect_Reason"] != "chipped edge" {
		t.Fatalf("defect fields wrong: %v", row)
	}
}

func TestOverrideBypassesStateMachine(t *testing.T) {
	svc, rec := testService(t)
	id, err := svc.NewEntry(entryParams())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.VerifyQuality("", id, "inspector1"); err != nil {
		t.Fatal(err)
	}

	fields := map[string]string{
		"Downtime_Mins":  "45",
		"Cost":           "99.00",
		"Serial_Numbers": "S1,S2",
	}
	if err := svc.Override("", id, fields, "super1"); err != nil {
		t.Fatalf("override: %v", err)
	}

	table, _, _ := svc.Months.Load("")
	row := table.Find(id)
	if row["Downtime_Mins"] != "45" || row["Serial_Numbers"] != "S1,S2" {
		t.Fatalf("override values not applied: %v", row)
	}
	// Approval stamps survive an override untouched.
	if row["Quality_Verified"] != "Yes" || row["Quality_User"] != "inspector1" {
		t.Fatalf("approval stamps lost: %v", row)
	}

	last := rec.entries[len(rec.entries)-1]
	if last.action != "override" || last.username != "super1" {
		t.Fatalf("override not audited: %+v", last)
	}
}

func TestOverrideMissingRecord(t *testing.T) {
	svc, _ := testService(t)
	err := svc.Override("", "ghost", map[string]string{"Cost": "1"}, "super1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPendingFilters(t *testing.T) {
	svc, _ := testService(t)
	first, err := svc.NewEntry(entryParams())
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.NewEntry(entryParams())
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatalf("duplicate ids: %s", first)
	}
	if err := svc.VerifyQuality("", first, "inspector1"); err != nil {
		t.Fatal(err)
	}

	pending, _, err := svc.PendingQuality("")
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0]["ID"] != second {
		t.Fatalf("pending quality wrong: %v", pending)
	}

	leaders, _, err := svc.PendingLeader("")
	if err != nil {
		t.Fatal(err)
	}
	if len(leaders) != 2 {
		t.Fatalf("pending leader wrong: %v", leaders)
	}
}

func TestEntryFromRow(t *testing.T) {
	svc, _ := testService(t)

	id, err := svc.NewEntry(entryParams())
	if err != nil {
		t.Fatal(err)
	}
	table, _, err := svc.Months.Load("")
	if err != nil {
		t.Fatal(err)
	}

	e := EntryFromRow(table.Find(id))
	if e.ID != id || e.Machine != "Machine 3" || e.ToolNum != "12" {
		t.Fatalf("typed view wrong: %+v", e)
	}
	if e.DowntimeMins != 15 {
		t.Errorf("downtime = %d, want 15", e.DowntimeMins)
	}
	if e.QualityVerified != models.ApprovalPending {
		t.Errorf("quality state = %q", e.QualityVerified)
	}

	// Hand-edited numeric cells degrade to zero rather than failing.
	e = EntryFromRow(map[string]string{"ID": "x", "Downtime_Mins": "n/a", "Cost": ""})
	if e.DowntimeMins != 0 || e.Cost != 0 {
		t.Errorf("bad numerics not zeroed: %+v", e)
	}
}
