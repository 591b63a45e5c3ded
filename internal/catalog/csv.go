package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gmendonca/selo/internal/common"
)

// utf8BOM is prepended on write so spreadsheet tools detect the encoding,
// mirroring the conventions of the catalogs this tool exchanges data with.
const utf8BOM = "\xef\xbb\xbf"

// CSVOptions carry the delimiter and decimal-separator conventions for a run.
type CSVOptions struct {
	Delimiter    rune
	DecimalComma bool
}

// DefaultCSVOptions returns the source catalogs' conventions: semicolon
// fields, decimal comma on output.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ';', DecimalComma: true}
}

// ReadCSV parses a delimited catalog. The first row is the header; every
// recognized column may be absent. Malformed cells never fail the load, only
// a missing or empty header does.
func ReadCSV(r io.Reader, cols Columns, opts CSVOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = opts.Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(records) == 0 {
		return nil, common.ErrMissingHeader
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	return load(header, records[1:], cols), nil
}

// ReadCSVFile opens and parses a catalog file.
func ReadCSVFile(path string, cols Columns, opts CSVOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %q: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return ReadCSV(f, cols, opts)
}

// WriteCSV serializes the labeled table: raw columns as read, derived
// columns appended, decimal separator per the options, UTF-8 BOM first.
func WriteCSV(w io.Writer, t *Table, opts CSVOptions) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = opts.Delimiter

	if err := cw.Write(t.outputHeader()); err != nil {
		return fmt.Errorf("failed to write catalog header: %w", err)
	}
	for _, l := range t.Listings {
		if err := cw.Write(t.cellsFor(l, opts.DecimalComma)); err != nil {
			return fmt.Errorf("failed to write catalog row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the labeled table to path, creating or truncating it.
func WriteCSVFile(path string, t *Table, opts CSVOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output %q: %w", path, err)
	}
	if err := WriteCSV(f, t, opts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
