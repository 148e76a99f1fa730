package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX loads the first sheet of a workbook, treating its first row as the header
func ReadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}
	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	t := New(trimHeader(rows[0])...)
	for i, row := range rows[1:] {
		var rawRow []string
		if i+1 < len(raw) {
			rawRow = raw[i+1]
		}
		for j, cell := range row {
			if j < len(rawRow) {
				row[j] = cellValue(cell, rawRow[j], date1904)
			}
		}
		t.Rows = append(t.Rows, t.pad(row))
	}
	return t, nil
}

// cellValue picks the text for one cell. Date-formatted serials become ISO
// timestamps; other numbers keep their unformatted value.
func cellValue(formatted, raw string, date1904 bool) string {
	if formatted == raw {
		return formatted
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return formatted
	}
	if !looksLikeDate(formatted) {
		return raw
	}

	ts, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return formatted
	}
	ts = ts.Round(time.Second)
	if serial == math.Trunc(serial) {
		return ts.Format("2006-01-02")
	}
	return ts.Format("2006-01-02 15:04:05")
}

func looksLikeDate(s string) bool {
	s = strings.TrimSpace(s)
	return strings.ContainsAny(s, "/:") || strings.Contains(strings.TrimPrefix(s, "-"), "-")
}

// WriteXLSX writes tables to a workbook, one sheet per entry in order
func WriteXLSX(path string, sheets []string, tables []*Table) error {
	if len(sheets) != len(tables) {
		return fmt.Errorf("got %d sheet names for %d tables", len(sheets), len(tables))
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("naming sheet %s: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}

		t := tables[i]
		header := make([]interface{}, len(t.Columns))
		for j, c := range t.Columns {
			header[j] = c
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return fmt.Errorf("writing %s header: %w", name, err)
		}

		for r, row := range t.Rows {
			values := make([]interface{}, len(row))
			for j, cell := range row {
				if v, ok := plainNumber(cell); ok {
					values[j] = v
				} else {
					values[j] = cell
				}
			}
			cellRef, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return fmt.Errorf("addressing row %d: %w", r+2, err)
			}
			if err := f.SetSheetRow(name, cellRef, &values); err != nil {
				return fmt.Errorf("writing %s row %d: %w", name, r+2, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// plainNumber reports cells that survive a trip through a numeric cell.
// "007" or "12.50" stay text so identifiers keep their digits.
func plainNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, strconv.FormatFloat(v, 'f', -1, 64) == s
}
