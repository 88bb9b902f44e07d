package monthfile

// Columns is the canonical ordered schema every month file must carry.
// Extra columns found in a file are preserved after these.
var Columns = []string{
	"ID",
	"Date",
	"Time",
	"Shift",
	"Line",
	"Machine",
	"Part_Number",
	"Tool_Num",
	"Reason",
	"Downtime_Mins",
	"Cost",
	"Tool_Changer",
	"Defects_Present",
	"Defect_Qty",
	"Sort_Done",
	"Defect_Reason",
	"Quality_Verified",
	"Quality_User",
	"Quality_Time",
	"Leader_Sign",
	"Leader_User",
	"Leader_Time",
	"Serial_Numbers",
}

// Row is one record keyed by column name. Cells are strings; the schema is
// spreadsheet-backed and several workflows write free text into the same
// columns.
type Row map[string]string

// Table is an in-memory month file: an ordered column set plus rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable returns an empty table carrying exactly the canonical schema.
func NewTable() *Table {
	cols := make([]string, len(Columns))
	copy(cols, Columns)
	return &Table{Columns: cols, Rows: []Row{}}
}

// EnsureSchema adds any missing canonical columns with empty-string fill
// and reorders so canonical columns come first in their fixed order, with
// pre-existing extras after them, values intact.
func (t *Table) EnsureSchema() {
	ordered := make([]string, 0, len(t.Columns)+len(Columns))
	ordered = append(ordered, Columns...)
	canonical := make(map[string]bool, len(Columns))
	for _, c := range Columns {
		canonical[c] = true
	}
	for _, c := range t.Columns {
		if !canonical[c] {
			ordered = append(ordered, c)
		}
	}
	t.Columns = ordered

	for _, row := range t.Rows {
		for _, c := range t.Columns {
			if _, ok := row[c]; !ok {
				row[c] = ""
			}
		}
	}
}

// Append adds a row, filling any column the row does not set.
func (t *Table) Append(row Row) {
	for _, c := range t.Columns {
		if _, ok := row[c]; !ok {
			row[c] = ""
		}
	}
	t.Rows = append(t.Rows, row)
}

// Find returns the row with the given ID, or nil.
func (t *Table) Find(id string) Row {
	for _, row := range t.Rows {
		if row["ID"] == id {
			return row
		}
	}
	return nil
}

// Filter returns the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) []Row {
	out := []Row{}
	for _, row := range t.Rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}
