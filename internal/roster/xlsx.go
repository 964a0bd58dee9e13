// Package roster loads the export spreadsheet and resolves its loosely-named
// headers into the logical fields the reconciliation engines work with.
package roster

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Table is a fully-loaded sheet: the header row plus every data row as
// string slices. It is an immutable snapshot for the duration of a run.
type Table struct {
	Columns []string
	Rows    [][]string
}

// XLSXOptions configures the spreadsheet reader.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// LoadXLSX reads one sheet of an XLSX file into a Table. The first row is
// taken as the header; remaining rows become data rows.
func LoadXLSX(path string, opts XLSXOptions) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "roster: open xlsx")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	t := &Table{}
	for i, row := range sheet.Rows {
		cells := rowToStrings(row)
		if i == 0 {
			t.Columns = cells
			continue
		}
		t.Rows = append(t.Rows, cells)
	}

	if len(t.Columns) == 0 {
		return nil, eris.Errorf("roster: sheet in %s has no header row", filepath.Base(path))
	}

	return t, nil
}

// FindWorkbook locates the input workbook in dir. Exactly one or two .xlsx
// files may be present (the export plus, at most, a previous cleaned copy);
// the first match wins. More than two is ambiguous and refused so the wrong
// export is never processed silently.
func FindWorkbook(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.xlsx"))
	if err != nil {
		return "", eris.Wrap(err, "roster: glob workbooks")
	}
	if len(matches) == 0 {
		return "", eris.Errorf("roster: no .xlsx file found in %s", dir)
	}
	if len(matches) > 2 {
		return "", eris.Errorf("roster: %d .xlsx files found in %s, maximum allowed is 2", len(matches), dir)
	}
	if _, err := os.Stat(matches[0]); err != nil {
		return "", eris.Wrap(err, "roster: stat workbook")
	}
	return matches[0], nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("roster: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("roster: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
