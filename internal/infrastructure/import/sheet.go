// Package tabular reads product sheets uploaded as CSV or XLSX into rows
// keyed by lower-cased header, and validates their fields.
package tabular

import (
	"io"
	"path/filepath"
	"strings"
)

// Format is a supported upload format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat derives the format from a file name
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", ErrUnsupportedFormat
}

// Sheet is a parsed upload: its headers and non-blank data rows
type Sheet struct {
	Headers []string
	Rows    []*Row
}

// HasHeader checks if a header exists
func (s *Sheet) HasHeader(name string) bool {
	for _, h := range s.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// MissingHeaders returns the required headers absent from the sheet
func (s *Sheet) MissingHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !s.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// Parse reads r according to the format implied by filename
func Parse(filename string, r io.Reader, maxRows int) (*Sheet, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	if format == FormatXLSX {
		return ParseXLSX(r, maxRows)
	}
	return ParseCSV(r, maxRows)
}

// sheetBuilder collects the data rows of an upload under its header
type sheetBuilder struct {
	sheet   *Sheet
	maxRows int
}

func newSheetBuilder(header []string, maxRows int) (*sheetBuilder, error) {
	headers := make([]string, len(header))
	named := 0
	for i, h := range header {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
		if headers[i] != "" {
			named++
		}
	}
	if named == 0 {
		return nil, ErrMissingHeader
	}
	return &sheetBuilder{sheet: &Sheet{Headers: headers}, maxRows: maxRows}, nil
}

// add appends record as the row on line, skipping blank rows. It fails
// with ErrTooManyRows once more than maxRows rows were kept; maxRows <= 0
// disables the limit.
func (b *sheetBuilder) add(line int, record []string) error {
	row := newRow(line, b.sheet.Headers, record)
	if row.IsEmpty() {
		return nil
	}
	b.sheet.Rows = append(b.sheet.Rows, row)
	if b.maxRows > 0 && len(b.sheet.Rows) > b.maxRows {
		return ErrTooManyRows
	}
	return nil
}

// Row represents a parsed row with its data and line number
type Row struct {
	LineNumber int
	Data       map[string]string
}

func newRow(line int, headers, record []string) *Row {
	row := &Row{
		LineNumber: line,
		Data:       make(map[string]string, len(headers)),
	}
	for i, header := range headers {
		if header == "" {
			continue
		}
		if i < len(record) {
			row.Data[header] = strings.TrimSpace(record[i])
		} else {
			row.Data[header] = ""
		}
	}
	return row
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// SplitList splits a multi-value cell on commas or pipes, dropping blanks
func SplitList(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '|' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
