package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Table is an in-memory tabular file with named columns and string cells
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// New creates an empty table with the given header
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// ReadCSV parses a CSV stream whose first record is the header
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow ragged rows
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("reading CSV header: file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	t := New(trimHeader(header)...)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		t.Rows = append(t.Rows, t.pad(record))
	}

	return t, nil
}

// ReadFile loads a .csv or .xlsx file
func ReadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	t, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}

// trimHeader strips whitespace and a UTF-8 byte order mark from header names
func trimHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}

// pad makes a record exactly as wide as the header
func (t *Table) pad(record []string) []string {
	row := make([]string, len(t.Columns))
	copy(row, record)
	return row
}

// Len returns the number of data rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of a column, or -1 if absent
func (t *Table) Index(col string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Has reports whether a column exists
func (t *Table) Has(col string) bool {
	return t.Index(col) >= 0
}

// Rename renames a column. It does nothing if from is missing or to already exists.
func (t *Table) Rename(from, to string) bool {
	i := t.Index(from)
	if i < 0 || t.Has(to) {
		return false
	}
	t.Columns[i] = to
	return true
}

// Value returns the cell at row/col, or "" if the column is absent
func (t *Table) Value(row []string, col string) string {
	i := t.Index(col)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Column returns every value of a column in row order
func (t *Table) Column(col string) []string {
	i := t.Index(col)
	if i < 0 {
		return nil
	}
	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		values = append(values, row[i])
	}
	return values
}

// MapColumn rewrites every cell of a column in place
func (t *Table) MapColumn(col string, fn func(string) string) {
	i := t.Index(col)
	if i < 0 {
		return
	}
	for _, row := range t.Rows {
		row[i] = fn(row[i])
	}
}

// Filter returns a new table holding the rows for which keep returns true
func (t *Table) Filter(keep func(row []string) bool) *Table {
	out := New(t.Columns...)
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, append([]string(nil), row...))
		}
	}
	return out
}

// Where returns the rows whose column equals value
func (t *Table) Where(col, value string) *Table {
	i := t.Index(col)
	return t.Filter(func(row []string) bool {
		return i >= 0 && row[i] == value
	})
}

// Tail returns the last n rows
func (t *Table) Tail(n int) *Table {
	out := New(t.Columns...)
	start := len(t.Rows) - n
	if start < 0 {
		start = 0
	}
	for _, row := range t.Rows[start:] {
		out.Rows = append(out.Rows, append([]string(nil), row...))
	}
	return out
}

// Drop returns a copy without the named column
func (t *Table) Drop(col string) *Table {
	i := t.Index(col)
	if i < 0 {
		return t.Clone()
	}
	cols := append(append([]string(nil), t.Columns[:i]...), t.Columns[i+1:]...)
	out := New(cols...)
	for _, row := range t.Rows {
		r := append(append([]string(nil), row[:i]...), row[i+1:]...)
		out.Rows = append(out.Rows, r)
	}
	return out
}

// Clone deep-copies the table
func (t *Table) Clone() *Table {
	return t.Filter(func([]string) bool { return true })
}

// Records returns the rows as column-name keyed maps
func (t *Table) Records() []map[string]string {
	records := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Columns))
		for i, c := range t.Columns {
			rec[c] = row[i]
		}
		records = append(records, rec)
	}
	return records
}
