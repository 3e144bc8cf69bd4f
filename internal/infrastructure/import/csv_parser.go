package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// encodingProbe is how much of an upload is checked for valid UTF-8
const encodingProbe = 4096

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOption adjusts the underlying csv.Reader
type CSVOption func(*csv.Reader)

// WithDelimiter sets the field delimiter; the default is a comma
func WithDelimiter(d rune) CSVOption {
	return func(r *csv.Reader) {
		r.Comma = d
	}
}

// ParseCSV reads a CSV upload. A UTF-8 byte order mark is skipped and the
// leading content must be valid UTF-8; spreadsheet tools often export in a
// legacy code page, which would otherwise import as garbage.
func ParseCSV(r io.Reader, maxRows int, opts ...CSVOption) (*Sheet, error) {
	br, err := openUTF8(r)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(br)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	for _, opt := range opts {
		opt(reader)
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	b, err := newSheetBuilder(header, maxRows)
	if err != nil {
		return nil, err
	}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return b.sheet, nil
		}
		if err != nil {
			return nil, fmt.Errorf("error reading row %d: %w", line, err)
		}
		if err := b.add(line, record); err != nil {
			return b.sheet, err
		}
	}
}

// openUTF8 strips a BOM and rejects empty or non UTF-8 content
func openUTF8(r io.Reader) (*bufio.Reader, error) {
	br := bufio.NewReaderSize(r, encodingProbe)
	head, err := br.Peek(encodingProbe)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if bytes.HasPrefix(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
		head = head[len(utf8BOM):]
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}

	// The probe may end inside a multi-byte rune
	if len(head) >= encodingProbe-len(utf8BOM) {
		for i := 0; i < utf8.UTFMax && !utf8.Valid(head); i++ {
			head = head[:len(head)-1]
		}
	}
	if !utf8.Valid(head) {
		return nil, ErrInvalidEncoding
	}
	return br, nil
}
