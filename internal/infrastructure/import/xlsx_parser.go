package tabular

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first worksheet of an XLSX upload. The first row is
// the header.
func ParseXLSX(r io.Reader, maxRows int) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer func() { _ = rows.Close() }()

	var b *sheetBuilder
	for line := 1; rows.Next(); line++ {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidWorkbook, line, err)
		}
		if b == nil {
			if b, err = newSheetBuilder(record, maxRows); err != nil {
				return nil, err
			}
			continue
		}
		if err := b.add(line, record); err != nil {
			return b.sheet, err
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	if b == nil {
		return nil, ErrEmptyFile
	}
	return b.sheet, nil
}
