// Package explorer composes loading, filtering, export and correlation into
// the operations a presentation layer calls with plain parameters.
package explorer

import (
	"context"
	"fmt"

	"github.com/KaramelBytes/nbastats-cli/internal/analysis"
	"github.com/KaramelBytes/nbastats-cli/internal/loader"
)

// Query selects a season and the inclusion sets. A nil Teams or Positions
// slice means "every value"; an empty non-nil slice selects nothing.
type Query struct {
	Season    int
	Teams     []string
	Positions []string
}

// Result is a filtered table with its season.
type Result struct {
	Season   int
	Criteria analysis.Criteria
	Table    *analysis.Table
}

// Shape returns the filtered table's (rows, columns).
func (r *Result) Shape() (int, int) { return r.Table.Shape() }

// Explorer answers queries against season tables.
type Explorer struct {
	loader *loader.Loader
}

func New(l *loader.Loader) *Explorer {
	return &Explorer{loader: l}
}

// Loader returns the underlying loader.
func (e *Explorer) Loader() *loader.Loader { return e.loader }

// Teams returns the sorted team codes of season.
func (e *Explorer) Teams(ctx context.Context, season int) ([]string, error) {
	t, err := e.loader.Load(ctx, season)
	if err != nil {
		return nil, err
	}
	return analysis.DistinctTeams(t)
}

// Filter loads the season, validates the selection against it and filters.
// The season and positions are checked before any load; teams depend on the
// table.
func (e *Explorer) Filter(ctx context.Context, q Query) (*Result, error) {
	if err := e.loader.ValidateSeason(q.Season); err != nil {
		return nil, err
	}
	if err := analysis.ValidatePositions(q.Positions); err != nil {
		return nil, fmt.Errorf("season %d: %w", q.Season, err)
	}
	t, err := e.loader.Load(ctx, q.Season)
	if err != nil {
		return nil, err
	}
	c, err := criteria(t, q)
	if err != nil {
		return nil, err
	}
	if err := analysis.ValidateCriteria(t, c); err != nil {
		return nil, fmt.Errorf("season %d: %w", q.Season, err)
	}
	out, err := analysis.Filter(t, c)
	if err != nil {
		return nil, fmt.Errorf("season %d: filter: %w", q.Season, err)
	}
	return &Result{Season: q.Season, Criteria: c, Table: out}, nil
}

// CSV returns the filtered table serialized as CSV.
func (e *Explorer) CSV(ctx context.Context, q Query) ([]byte, error) {
	res, err := e.Filter(ctx, q)
	if err != nil {
		return nil, err
	}
	b, err := analysis.ToCSV(res.Table)
	if err != nil {
		return nil, fmt.Errorf("season %d: export: %w", q.Season, err)
	}
	return b, nil
}

// Correlation returns the correlation matrix of the filtered table.
func (e *Explorer) Correlation(ctx context.Context, q Query) (*analysis.CorrMatrix, error) {
	res, err := e.Filter(ctx, q)
	if err != nil {
		return nil, err
	}
	m, err := analysis.Correlation(res.Table)
	if err != nil {
		return nil, fmt.Errorf("season %d: correlation: %w", q.Season, err)
	}
	return m, nil
}

// Summary returns a markdown-ready report of the filtered table.
func (e *Explorer) Summary(ctx context.Context, q Query, sampleRows int) (*analysis.Report, error) {
	res, err := e.Filter(ctx, q)
	if err != nil {
		return nil, err
	}
	return analysis.Summarize(fmt.Sprintf("NBA %d per-game player stats", q.Season), res.Table, sampleRows), nil
}

func criteria(t *analysis.Table, q Query) (analysis.Criteria, error) {
	c := analysis.Criteria{Teams: q.Teams, Positions: q.Positions}
	if c.Teams == nil {
		all, err := analysis.DistinctTeams(t)
		if err != nil {
			return c, err
		}
		c.Teams = all
	}
	if c.Positions == nil {
		c.Positions = append([]string(nil), analysis.Positions...)
	}
	return c, nil
}
