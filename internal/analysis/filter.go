package analysis

import (
	"sort"
)

// Positions is the fixed position enumeration offered for selection:
// Center, Power Forward, Small Forward, Point Guard, Shooting Guard.
var Positions = []string{"C", "PF", "SF", "PG", "SG"}

var (
	teamColumns     = []string{"Tm", "Team"}
	positionColumns = []string{"Pos", "Position"}
)

// Criteria holds the inclusion sets used to subset a table. A nil or empty set
// selects nothing.
type Criteria struct {
	Teams     []string
	Positions []string
}

// AllOf returns criteria selecting every team in t and every position.
func AllOf(t *Table) (Criteria, error) {
	teams, err := DistinctTeams(t)
	if err != nil {
		return Criteria{}, err
	}
	return Criteria{Teams: teams, Positions: append([]string(nil), Positions...)}, nil
}

// TeamColumn resolves the team column name (Tm on older pages, Team on newer ones).
func TeamColumn(t *Table) (string, error) { return resolve(t, teamColumns) }

// PositionColumn resolves the position column name.
func PositionColumn(t *Table) (string, error) { return resolve(t, positionColumns) }

func resolve(t *Table, aliases []string) (string, error) {
	for _, a := range aliases {
		if _, ok := t.ColumnIndex(a); ok {
			return a, nil
		}
	}
	return "", &SchemaError{Column: aliases[0], Available: t.Columns}
}

// DistinctTeams returns the sorted set of team codes present in t.
func DistinctTeams(t *Table) ([]string, error) {
	col, err := TeamColumn(t)
	if err != nil {
		return nil, err
	}
	vals, _ := t.Column(col)
	seen := make(map[string]struct{}, 32)
	var out []string
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// ValidateCriteria checks that every selected team exists in t and every selected
// position belongs to Positions.
func ValidateCriteria(t *Table, c Criteria) error {
	teams, err := DistinctTeams(t)
	if err != nil {
		return err
	}
	if unknown := missingFrom(c.Teams, teams); len(unknown) > 0 {
		return &CriteriaError{Field: "team", Unknown: unknown}
	}
	return ValidatePositions(c.Positions)
}

// ValidatePositions checks positions against the fixed enumeration. It needs
// no table, so callers can reject a bad selection before loading anything.
func ValidatePositions(positions []string) error {
	if unknown := missingFrom(positions, Positions); len(unknown) > 0 {
		return &CriteriaError{Field: "position", Unknown: unknown}
	}
	return nil
}

func missingFrom(selected, domain []string) []string {
	set := toSet(domain)
	var out []string
	for _, s := range selected {
		if _, ok := set[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

func toSet(vals []string) map[string]struct{} {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return m
}

// Filter keeps the rows whose team is selected AND whose position is selected,
// preserving input order. The result shares no row storage with t.
func Filter(t *Table, c Criteria) (*Table, error) {
	teamCol, err := TeamColumn(t)
	if err != nil {
		return nil, err
	}
	posCol, err := PositionColumn(t)
	if err != nil {
		return nil, err
	}
	ti, _ := t.ColumnIndex(teamCol)
	pi, _ := t.ColumnIndex(posCol)

	out := &Table{Columns: append([]string(nil), t.Columns...)}
	out.reindex()
	if len(c.Teams) == 0 || len(c.Positions) == 0 {
		return out, nil
	}
	teams, positions := toSet(c.Teams), toSet(c.Positions)
	for _, r := range t.Rows {
		if _, ok := teams[r[ti]]; !ok {
			continue
		}
		if _, ok := positions[r[pi]]; !ok {
			continue
		}
		out.Rows = append(out.Rows, append([]string(nil), r...))
	}
	return out, nil
}
