package catalog

import (
	"fmt"

	"github.com/gmendonca/selo/internal/common"
	"github.com/xuri/excelize/v2"
)

// sheetName is the sheet read from and written to in XLSX catalogs.
const sheetName = "Sheet1"

// ReadXLSXFile parses the first sheet of a spreadsheet catalog using the
// same column-binding rules as the CSV reader.
func ReadXLSXFile(path string, cols Columns) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %q: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.ErrMissingHeader
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, common.ErrMissingHeader
	}
	return load(rows[0], rows[1:], cols), nil
}

// WriteXLSXFile writes the labeled table as a single-sheet spreadsheet.
// Numeric cells keep a period decimal separator; spreadsheet locales handle
// display formatting.
func WriteXLSXFile(path string, t *Table) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	writeRow := func(rowIdx int, cells []string) error {
		ref, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		values := make([]any, len(cells))
		for i, c := range cells {
			values[i] = c
		}
		return f.SetSheetRow(sheetName, ref, &values)
	}

	if err := writeRow(1, t.outputHeader()); err != nil {
		return fmt.Errorf("failed to write sheet header: %w", err)
	}
	for i, l := range t.Listings {
		if err := writeRow(i+2, t.cellsFor(l, false)); err != nil {
			return fmt.Errorf("failed to write sheet row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save output %q: %w", path, err)
	}
	return nil
}
