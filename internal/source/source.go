// Package source retrieves raw player tables for a season from a backing
// document store: basketball-reference over HTTP, or HTML files on disk.
package source

import (
	"context"
	"fmt"

	"github.com/KaramelBytes/nbastats-cli/internal/analysis"
)

// TableSource fetches the first table of a season's document.
type TableSource interface {
	Name() string
	Fetch(ctx context.Context, season int) (*analysis.RawTable, error)
}

// Func adapts a plain function to TableSource (used for fakes and fixtures).
type Func func(ctx context.Context, season int) (*analysis.RawTable, error)

func (Func) Name() string { return "func" }

func (f Func) Fetch(ctx context.Context, season int) (*analysis.RawTable, error) {
	return f(ctx, season)
}

// UnavailableError indicates the source document could not be retrieved:
// transport failure, timeout, non-2xx status, missing file or an open circuit.
type UnavailableError struct {
	Source     string
	Season     int
	Location   string
	StatusCode int
	Err        error
}

func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("source %s unavailable for season %d", e.Source, e.Season)
	if e.Location != "" {
		msg += " (" + e.Location + ")"
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// ParseError indicates a document was retrieved but holds no usable table.
type ParseError struct {
	Source string
	Season int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse %s document for season %d: %s", e.Source, e.Season, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }
