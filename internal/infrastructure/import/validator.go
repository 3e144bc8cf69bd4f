package tabular

import (
	"fmt"
	"unicode/utf8"

	"github.com/catalogue/backend/internal/domain/shared"
)

// Column describes the constraints on one sheet column. Blank optional
// cells skip every other check.
type Column struct {
	Name     string
	Required bool
	// MaxLen counts runes; zero means unlimited
	MaxLen int
	// Distinct rejects a value already used by an earlier row of the file
	Distinct bool
	Check    func(value string) error
}

// RowChecker validates rows against a set of columns. It remembers the
// distinct values it has seen, so a checker serves a single upload.
type RowChecker struct {
	columns []Column
	seen    map[string]map[string]int
}

// NewRowChecker returns a checker for columns, applied in the order given
func NewRowChecker(columns ...Column) *RowChecker {
	return &RowChecker{
		columns: columns,
		seen:    make(map[string]map[string]int),
	}
}

// RequiredColumns names the columns a sheet must have
func (c *RowChecker) RequiredColumns() []string {
	var names []string
	for _, col := range c.columns {
		if col.Required {
			names = append(names, col.Name)
		}
	}
	return names
}

// Check returns one error per failing column of row; nil means the row
// passed. Values of a failing row are not remembered as distinct.
func (c *RowChecker) Check(row *Row) []RowError {
	var failed []RowError
	var claims []Column
	for _, col := range c.columns {
		value := row.Get(col.Name)
		if value == "" {
			if col.Required {
				failed = append(failed, RowError{
					Row: row.LineNumber, Field: col.Name,
					Code: shared.CodeInvalidArgument, Message: col.Name + " is required",
				})
			}
			continue
		}
		if err := c.checkValue(row.LineNumber, col, value); err != nil {
			failed = append(failed, *err)
			continue
		}
		if col.Distinct {
			claims = append(claims, col)
		}
	}

	if len(failed) > 0 {
		return failed
	}
	for _, col := range claims {
		if c.seen[col.Name] == nil {
			c.seen[col.Name] = make(map[string]int)
		}
		c.seen[col.Name][row.Get(col.Name)] = row.LineNumber
	}
	return nil
}

func (c *RowChecker) checkValue(line int, col Column, value string) *RowError {
	if col.MaxLen > 0 && utf8.RuneCountInString(value) > col.MaxLen {
		return &RowError{
			Row: line, Field: col.Name, Code: shared.CodeInvalidArgument, Value: value,
			Message: fmt.Sprintf("%s must be at most %d characters", col.Name, col.MaxLen),
		}
	}
	if col.Distinct {
		if first, dup := c.seen[col.Name][value]; dup {
			return &RowError{
				Row: line, Field: col.Name, Code: shared.CodeConflict, Value: value,
				Message: fmt.Sprintf("%s '%s' repeats row %d", col.Name, value, first),
			}
		}
	}
	if col.Check != nil {
		if err := col.Check(value); err != nil {
			e := RowErrorFrom(line, col.Name, err)
			e.Value = value
			return &e
		}
	}
	return nil
}
