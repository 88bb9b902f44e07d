// Package workflow advances tool-change records through the approval
// pipeline: entry, quality verification, leader sign-off, and the
// privileged override path. Every mutation reloads the month file from disk
// first, locates the record by ID, edits it in memory, and saves the whole
// file back; a record that has disappeared in the meantime is reported as
// not found and nothing is written.
package workflow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"toollife/internal/masterdata"
	"toollife/internal/models"
	"toollife/internal/monthfile"
	"toollife/internal/validation"
)

// ErrNotFound is returned when the targeted record no longer exists in the
// freshly loaded month file.
var ErrNotFound = errors.New("record not found")

// AuditLogger records who did what. A nil logger disables auditing.
type AuditLogger interface {
	Log(username, action, module, recordID, summary string)
}

// Service runs the approval workflows over a month-file store. Master is
// used at entry time for tool cost lookup and stock decrement. Now is
// injectable for tests and defaults to time.Now.
type Service struct {
	Months *monthfile.Store
	Master *masterdata.Repo
	Audit  AuditLogger
	Now    func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) audit(username, action, recordID, summary string) {
	if s.Audit != nil {
		s.Audit.Log(username, action, "tool_life", recordID, summary)
	}
}

// EntryParams are the inputs for a new tool-change entry.
type EntryParams struct {
	Line           string
	Shift          string
	Machine        string
	PartNumber     string
	ToolNum        string
	Reason         string
	DowntimeMins   int
	DefectsPresent bool
	DefectQty      int
	SortDone       bool
	DefectReason   string
	User           string
}

// NewEntry validates the submission, consumes one unit of tool stock when
// the tool is configured, and appends a record to the current month file
// with both approval sub-records Pending. This is the sole creation path;
// the new record's ID is returned.
func (s *Service) NewEntry(p EntryParams) (string, error) {
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "machine", p.Machine)
	validation.RequireField(ve, "tool_num", p.ToolNum)
	validation.RequireField(ve, "reason", p.Reason)
	validation.ValidateEnum(ve, "shift", p.Shift, validation.ValidShifts)
	validation.ValidateNonNegativeInt(ve, "downtime_mins", p.DowntimeMins)
	validation.ValidateNonNegativeInt(ve, "defect_qty", p.DefectQty)
	if ve.HasErrors() {
		return "", ve
	}

	var cost float64
	if s.Master != nil {
		tool, found, err := s.Master.ConsumeTool("Tool " + p.ToolNum)
		if err != nil {
			return "", fmt.Errorf("decrement tool stock: %w", err)
		}
		if found {
			cost = tool.Cost
		}
	}

	table, filename, err := s.Months.Load("")
	if err != nil {
		return "", err
	}

	now := s.now()
	defects := "No"
	sortDone := "No"
	defectQty := 0
	defectReason := ""
	if p.DefectsPresent {
		defects = "Yes"
		defectQty = p.DefectQty
		defectReason = strings.TrimSpace(p.DefectReason)
		if p.SortDone {
			sortDone = "Yes"
		}
	}

	id := s.Months.NextID(table)
	table.Append(monthfile.Row{
		"ID":               id,
		"Date":             now.Format("2006-01-02"),
		"Time":             now.Format("15:04:05"),
		"Shift":            p.Shift,
		"Line":             p.Line,
		"Machine":          p.Machine,
		"Part_Number":      p.PartNumber,
		"Tool_Num":         p.ToolNum,
		"Reason":           p.Reason,
		"Downtime_Mins":    strconv.Itoa(p.DowntimeMins),
		"Cost":             formatCost(cost),
		"Tool_Changer":     p.User,
		"Defects_Present":  defects,
		"Defect_Qty":       strconv.Itoa(defectQty),
		"Sort_Done":        sortDone,
		"Defect_Reason":    defectReason,
		"Quality_Verified": models.ApprovalPending,
		"Quality_User":     "",
		"Quality_Time":     "",
		"Leader_Sign":      models.ApprovalPending,
		"Leader_User":      "",
		"Leader_Time":      "",
		"Serial_Numbers":   "",
	})

	if err := s.Months.Save(table, filename); err != nil {
		return "", err
	}
	s.audit(p.User, "created", id, fmt.Sprintf("Tool change on %s %s, tool %s", p.Line, p.Machine, p.ToolNum))
	return id, nil
}

// VerifyQuality sets Quality_Verified to Yes on one record, stamping the
// acting user and time. The leader sub-record is untouched.
func (s *Service) VerifyQuality(identifier, id, user string) error {
	return s.approve(identifier, id, user, "Quality_Verified", "Quality_User", "Quality_Time", "verified")
}

// SignLeader sets Leader_Sign to Yes on one record, stamping the acting
// user and time. The quality sub-record is untouched.
func (s *Service) SignLeader(identifier, id, user string) error {
	return s.approve(identifier, id, user, "Leader_Sign", "Leader_User", "Leader_Time", "signed")
}

func (s *Service) approve(identifier, id, user, flagCol, userCol, timeCol, verb string) error {
	table, filename, err := s.Months.Load(identifier)
	if err != nil {
		return err
	}
	row := table.Find(id)
	if row == nil {
		return ErrNotFound
	}

	row[flagCol] = models.ApprovalYes
	row[userCol] = user
	row[timeCol] = s.now().Format("2006-01-02 15:04:05")

	if err := s.Months.Save(table, filename); err != nil {
		return err
	}
	s.audit(user, verb, id, fmt.Sprintf("%s set to Yes", flagCol))
	return nil
}

// DefectUpdate carries the quality-side defect field edit.
type DefectUpdate struct {
	DefectsPresent string
	DefectQty      int
	SortDone       string
	DefectReason   string
}

// EditDefects rewrites the defect fields of one record.
func (s *Service) EditDefects(identifier, id string, d DefectUpdate, user string) error {
	ve := &validation.ValidationErrors{}
	validation.ValidateEnum(ve, "defects_present", d.DefectsPresent, validation.ValidYesNo)
	validation.ValidateEnum(ve, "sort_done", d.SortDone, validation.ValidYesNo)
	validation.ValidateNonNegativeInt(ve, "defect_qty", d.DefectQty)
	if ve.HasErrors() {
		return ve
	}

	table, filename, err := s.Months.Load(identifier)
	if err != nil {
		return err
	}
	row := table.Find(id)
	if row == nil {
		return ErrNotFound
	}

	row["Defects_Present"] = d.DefectsPresent
	row["Defect_Qty"] = strconv.Itoa(d.DefectQty)
	row["Sort_Done"] = d.SortDone
	row["Defect_Reason"] = strings.TrimSpace(d.DefectReason)

	if err := s.Months.Save(table, filename); err != nil {
		return err
	}
	s.audit(user, "updated", id, "Defect fields edited")
	return nil
}

// Override sets arbitrary column values on one record, bypassing the
// approval state machine. Existing approval stamps are left untouched.
// Columns not yet in the file are added as extras. Privileged callers only;
// the caller is responsible for the permission check.
func (s *Service) Override(identifier, id string, fields map[string]string, user string) error {
	table, filename, err := s.Months.Load(identifier)
	if err != nil {
		return err
	}
	row := table.Find(id)
	if row == nil {
		return ErrNotFound
	}

	cols := make(map[string]bool, len(table.Columns))
	for _, c := range table.Columns {
		cols[c] = true
	}
	changed := make([]string, 0, len(fields))
	for col, value := range fields {
		if !cols[col] {
			table.Columns = append(table.Columns, col)
			cols[col] = true
		}
		row[col] = value
		changed = append(changed, col)
	}

	if err := s.Months.Save(table, filename); err != nil {
		return err
	}
	s.audit(user, "override", id, "Override edit: "+strings.Join(changed, ", "))
	return nil
}

// PendingQuality returns the records still awaiting quality verification,
// plus the identifier of the file they came from.
func (s *Service) PendingQuality(identifier string) ([]monthfile.Row, string, error) {
	return s.pending(identifier, "Quality_Verified")
}

// PendingLeader returns the records still awaiting leader sign-off.
func (s *Service) PendingLeader(identifier string) ([]monthfile.Row, string, error) {
	return s.pending(identifier, "Leader_Sign")
}

func (s *Service) pending(identifier, flagCol string) ([]monthfile.Row, string, error) {
	table, filename, err := s.Months.Load(identifier)
	if err != nil {
		return nil, "", err
	}
	rows := table.Filter(func(r monthfile.Row) bool {
		v := strings.TrimSpace(r[flagCol])
		return v == "" || strings.EqualFold(v, models.ApprovalPending)
	})
	return rows, filename, nil
}

func formatCost(cost float64) string {
	return strconv.FormatFloat(cost, 'f', 2, 64)
}

// EntryFromRow builds a typed view of one month-file row. Numeric cells
// that fail to parse come back zero; rows written by hand in a spreadsheet
// are not trusted to be well formed.
func EntryFromRow(r monthfile.Row) models.Entry {
	downtime, _ := strconv.Atoi(strings.TrimSpace(r["Downtime_Mins"]))
	cost, _ := strconv.ParseFloat(strings.TrimSpace(r["Cost"]), 64)
	defectQty, _ := strconv.Atoi(strings.TrimSpace(r["Defect_Qty"]))
	return models.Entry{
		ID:              r["ID"],
		Date:            r["Date"],
		Time:            r["Time"],
		Shift:           r["Shift"],
		Line:            r["Line"],
		Machine:         r["Machine"],
		PartNumber:      r["Part_Number"],
		ToolNum:         r["Tool_Num"],
		Reason:          r["Reason"],
		DowntimeMins:    downtime,
		Cost:            cost,
		ToolChanger:     r["Tool_Changer"],
		DefectsPresent:  r["Defects_Present"],
		DefectQty:       defectQty,
		SortDone:        r["Sort_Done"],
		DefectReason:    r["Defect_Reason"],
		QualityVerified: r["Quality_Verified"],
		QualityUser:     r["Quality_User"],
		QualityTime:     r["Quality_Time"],
		LeaderSign:      r["Leader_Sign"],
		LeaderUser:      r["Leader_User"],
		LeaderTime:      r["Leader_Time"],
		SerialNumbers:   r["Serial_Numbers"],
	}
}
