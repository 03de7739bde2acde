package analysis

import (
	"fmt"
	"strings"
)

// SchemaError indicates a required column is absent from the table.
type SchemaError struct {
	Column    string
	Available []string
	Reason    string
}

func (e *SchemaError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("schema: column %q: %s", e.Column, e.Reason)
	}
	if len(e.Available) > 0 {
		return fmt.Sprintf("schema: missing column %q (have %s)", e.Column, strings.Join(e.Available, ", "))
	}
	return fmt.Sprintf("schema: missing column %q", e.Column)
}

// CriteriaError reports selections outside the valid domain: teams not present
// in the loaded season or positions outside the fixed enumeration.
type CriteriaError struct {
	Field   string // "team" or "position"
	Unknown []string
}

func (e *CriteriaError) Error() string {
	return fmt.Sprintf("invalid %s selection: %s", e.Field, strings.Join(e.Unknown, ", "))
}

// InsufficientDataError indicates a correlation was requested on too little data.
type InsufficientDataError struct {
	Rows           int
	NumericColumns int
}

func (e *InsufficientDataError) Error() string {
	if e.Rows < 2 {
		return fmt.Sprintf("insufficient data: correlation needs at least 2 rows, have %d", e.Rows)
	}
	return fmt.Sprintf("insufficient data: no numeric columns across %d rows", e.Rows)
}
