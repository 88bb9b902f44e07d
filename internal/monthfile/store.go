// Package monthfile owns the per-month tool-change record files. Each
// calendar month gets one .xlsx file in the data directory; the column set
// is enforced to the canonical schema on every load and save.
package monthfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	filePrefix = "tool_life_data_"
	fileExt    = ".xlsx"
	sheetName  = "Sheet1"
)

// Store resolves month identifiers to files under Dir and performs all
// month-file I/O. Now is injectable for tests and defaults to time.Now.
type Store struct {
	Dir string
	Now func() time.Time
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// FileName returns the month file name for t, e.g. tool_life_data_2026_08.xlsx.
func FileName(t time.Time) string {
	return fmt.Sprintf("%s%04d_%02d%s", filePrefix, t.Year(), int(t.Month()), fileExt)
}

// Resolve maps an identifier (a month file basename) to its path. An empty
// identifier resolves to the current month.
func (s *Store) Resolve(identifier string) string {
	if identifier == "" {
		identifier = FileName(s.now())
	}
	return filepath.Join(s.Dir, identifier)
}

// Load reads a month file into a table, creating an empty schema-conformant
// file first if none exists. If the file exists but cannot be parsed it is
// left in place for manual recovery; a fresh timestamped rescue file is
// created alongside and returned instead, so the workflow is never blocked.
// The returned identifier is the basename actually backing the table, which
// is the rescue file's in the quarantine case.
func (s *Store) Load(identifier string) (*Table, string, error) {
	path := s.Resolve(identifier)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		table := NewTable()
		if err := s.write(path, table); err != nil {
			return nil, "", fmt.Errorf("create month file: %w", err)
		}
		return table, filepath.Base(path), nil
	}

	table, err := read(path)
	if err != nil {
		rescue := s.rescuePath(path)
		table = NewTable()
		if werr := s.write(rescue, table); werr != nil {
			return nil, "", fmt.Errorf("create rescue file: %w", werr)
		}
		return table, filepath.Base(rescue), nil
	}

	table.EnsureSchema()
	return table, filepath.Base(path), nil
}

// Save enforces the schema and writes the table to the file for identifier.
func (s *Store) Save(table *Table, identifier string) error {
	table.EnsureSchema()
	return s.write(s.Resolve(identifier), table)
}

// NextID generates an identifier for a new row: YYYYMMDD-HHMMSS plus a
// four-digit suffix from the current row count. Reasonably unique under the
// single-writer assumption; not guaranteed under concurrent writers.
func (s *Store) NextID(table *Table) string {
	ts := s.now().Format("20060102-150405")
	return fmt.Sprintf("%s-%04d", ts, len(table.Rows)%10000)
}

// ListMonthFiles returns the month file basenames in the data directory,
// newest first by name.
func (s *Store) ListMonthFiles() []string {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return []string{}
	}
	files := []string{}
	for _, e := range entries {
		name := e.Name()
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, filePrefix) && strings.HasSuffix(lower, fileExt) {
			files = append(files, name)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files
}

func (s *Store) rescuePath(path string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	stamp := s.now().Format("20060102_150405")
	return fmt.Sprintf("%s_RESCUE_%s%s", base, stamp, filepath.Ext(path))
}

func read(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no sheet in %s", filepath.Base(path))
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	table := &Table{Columns: []string{}, Rows: []Row{}}
	if len(rows) == 0 {
		return table, nil
	}

	table.Columns = append(table.Columns, rows[0]...)
	for _, cells := range rows[1:] {
		// Rows wider than the header keep their trailing cells under
		// synthesized column names, matching how a spreadsheet library
		// labels headerless columns.
		for len(table.Columns) < len(cells) {
			table.Columns = append(table.Columns, fmt.Sprintf("Unnamed: %d", len(table.Columns)))
		}
		row := Row{}
		for i, col := range table.Columns {
			if i < len(cells) {
				row[col] = cells[i]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func (s *Store) write(path string, table *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, col := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return err
		}
	}
	for r, row := range table.Rows {
		for i, col := range table.Columns {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, row[col]); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
