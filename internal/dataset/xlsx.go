package dataset

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// openWorkbook opens an XLSX file.
func openWorkbook(path string) (*xlsx.File, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open workbook %s", path)
	}
	return f, nil
}

// getSheet looks a sheet up by name.
func getSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	sheet, ok := f.Sheet[name]
	if !ok {
		return nil, eris.Wrapf(ErrMissingSheet, "dataset: sheet %q", name)
	}
	return sheet, nil
}

// sheetRow is one non-blank sheet row and its 1-based spreadsheet line.
type sheetRow struct {
	line  int
	cells []string
}

// sheetRows returns the raw cell values of a sheet with every all-blank
// row dropped, wherever it appears.
func sheetRows(sheet *xlsx.Sheet) []sheetRow {
	rows := make([]sheetRow, 0, len(sheet.Rows))
	for i, row := range sheet.Rows {
		if row == nil {
			continue
		}
		cells := rowToStrings(row)
		if blankRow(cells) {
			continue
		}
		rows = append(rows, sheetRow{line: i + 1, cells: cells})
	}
	return rows
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		if cell == nil {
			continue
		}
		cells[j] = strings.TrimSpace(cell.Value)
	}
	return cells
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
