package tabular

import (
	"errors"
	"fmt"

	"github.com/catalogue/backend/internal/domain/shared"
)

var (
	ErrEmptyFile         = errors.New("file is empty")
	ErrInvalidEncoding   = errors.New("invalid file encoding, expected UTF-8")
	ErrMissingHeader     = errors.New("file missing header row")
	ErrTooManyRows       = errors.New("file exceeds the maximum number of rows")
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .csv or .xlsx")
	ErrInvalidWorkbook   = errors.New("invalid xlsx workbook")
)

// RowError is a failure confined to one row of an upload. Code is the
// domain error code a single create would have answered with.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
	return fmt.Sprintf("row %d, %s: %s", e.Row, e.Field, e.Message)
}

// RowErrorFrom converts err raised while saving row. Errors that are not
// domain errors are reported without their text.
func RowErrorFrom(row int, field string, err error) RowError {
	e := RowError{Row: row, Field: field, Code: "INTERNAL_ERROR", Message: "row could not be saved"}
	var de *shared.DomainError
	if errors.As(err, &de) {
		e.Code, e.Message = de.Code, de.Message
	}
	return e
}

// defaultErrorLimit caps an ErrorLog created with a non-positive limit
const defaultErrorLimit = 100

// ErrorLog keeps the first row errors of an import and counts the rest
type ErrorLog struct {
	kept  []RowError
	limit int
	total int
}

// NewErrorLog returns a log keeping at most limit errors
func NewErrorLog(limit int) *ErrorLog {
	if limit <= 0 {
		limit = defaultErrorLimit
	}
	return &ErrorLog{kept: []RowError{}, limit: limit}
}

// Add records errs
func (l *ErrorLog) Add(errs ...RowError) {
	for _, e := range errs {
		l.total++
		if len(l.kept) < l.limit {
			l.kept = append(l.kept, e)
		}
	}
}

// Errors returns the kept errors in the order they were added
func (l *ErrorLog) Errors() []RowError { return l.kept }

// Total counts every error added, kept or not
func (l *ErrorLog) Total() int { return l.total }

// Truncated reports whether errors were dropped
func (l *ErrorLog) Truncated() bool { return l.total > len(l.kept) }
