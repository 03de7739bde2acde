package analysis

import (
	"errors"
	"reflect"
	"testing"
)

func scenarioTable() *Table {
	return NewTable(
		[]string{"Team", "Pos", "PTS"},
		[][]string{
			{"BOS", "PG", "20"},
			{"LAL", "C", "15"},
			{"BOS", "C", "10"},
		},
	)
}

func TestFilter_TeamAndPosition(t *testing.T) {
	out, err := Filter(scenarioTable(), Criteria{Teams: []string{"BOS"}, Positions: []string{"PG", "C"}})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	want := [][]string{{"BOS", "PG", "20"}, {"BOS", "C", "10"}}
	if !reflect.DeepEqual(out.Rows, want) {
		t.Fatalf("rows=%v, want %v", out.Rows, want)
	}
}

func TestFilter_EmptySelectionsYieldEmptyTable(t *testing.T) {
	tbl := scenarioTable()
	cases := []Criteria{
		{Teams: nil, Positions: Positions},
		{Teams: []string{"BOS", "LAL"}, Positions: []string{}},
		{},
	}
	for i, c := range cases {
		out, err := Filter(tbl, c)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		rows, cols := out.Shape()
		if rows != 0 || cols != 3 {
			t.Fatalf("case %d: shape=(%d,%d), want (0,3)", i, rows, cols)
		}
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	tbl := NewTable([]string{"Tm", "Pos", "Player"}, [][]string{
		{"MIA", "C", "a"}, {"BOS", "SG", "b"}, {"MIA", "PG", "c"}, {"BOS", "C", "d"}, {"MIA", "SF", "e"},
	})
	out, err := Filter(tbl, Criteria{Teams: []string{"MIA", "BOS"}, Positions: []string{"SF", "C", "PG"}})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	got, _ := out.Column("Player")
	if want := []string{"a", "c", "d", "e"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("players=%v, want %v", got, want)
	}
}

func TestFilter_DoesNotAliasInput(t *testing.T) {
	tbl := scenarioTable()
	out, err := Filter(tbl, Criteria{Teams: []string{"BOS"}, Positions: Positions})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	out.Rows[0][2] = "99"
	if tbl.Rows[0][2] != "20" {
		t.Fatalf("filter output shares storage with input")
	}
}

func TestFilter_ComboPositionsAreNotMatched(t *testing.T) {
	tbl := NewTable([]string{"Tm", "Pos"}, [][]string{{"BOS", "SF-SG"}, {"BOS", "SG"}})
	out, err := Filter(tbl, Criteria{Teams: []string{"BOS"}, Positions: Positions})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if rows, _ := out.Shape(); rows != 1 {
		t.Fatalf("rows=%d, want 1", rows)
	}
}

func TestFilter_MissingColumns(t *testing.T) {
	var se *SchemaError
	_, err := Filter(NewTable([]string{"Player", "Pos"}, nil), Criteria{})
	if !errors.As(err, &se) || se.Column != "Tm" {
		t.Fatalf("expected SchemaError for team column, got %v", err)
	}
	_, err = Filter(NewTable([]string{"Player", "Tm"}, nil), Criteria{})
	if !errors.As(err, &se) || se.Column != "Pos" {
		t.Fatalf("expected SchemaError for position column, got %v", err)
	}
}

func TestDistinctTeams(t *testing.T) {
	tbl := NewTable([]string{"Tm", "Pos"}, [][]string{{"MIA", "C"}, {"BOS", "C"}, {"TOT", "PG"}, {"MIA", "SF"}})
	got, err := DistinctTeams(tbl)
	if err != nil {
		t.Fatalf("DistinctTeams: %v", err)
	}
	if want := []string{"BOS", "MIA", "TOT"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("teams=%v, want %v", got, want)
	}
}

func TestValidateCriteria(t *testing.T) {
	tbl := scenarioTable()
	if err := ValidateCriteria(tbl, Criteria{Teams: []string{"BOS"}, Positions: []string{"C"}}); err != nil {
		t.Fatalf("valid criteria rejected: %v", err)
	}
	var ce *CriteriaError
	err := ValidateCriteria(tbl, Criteria{Teams: []string{"BOS", "NYK"}, Positions: []string{"C"}})
	if !errors.As(err, &ce) || ce.Field != "team" || !reflect.DeepEqual(ce.Unknown, []string{"NYK"}) {
		t.Fatalf("expected team CriteriaError, got %v", err)
	}
	err = ValidateCriteria(tbl, Criteria{Teams: []string{"BOS"}, Positions: []string{"G"}})
	if !errors.As(err, &ce) || ce.Field != "position" {
		t.Fatalf("expected position CriteriaError, got %v", err)
	}
}

func TestAllOf(t *testing.T) {
	c, err := AllOf(scenarioTable())
	if err != nil {
		t.Fatalf("AllOf: %v", err)
	}
	out, err := Filter(scenarioTable(), c)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if rows, _ := out.Shape(); rows != 3 {
		t.Fatalf("rows=%d, want 3", rows)
	}
}

func TestValidatePositions(t *testing.T) {
	if err := ValidatePositions(nil); err != nil {
		t.Fatalf("nil selection rejected: %v", err)
	}
	if err := ValidatePositions([]string{"PG", "C"}); err != nil {
		t.Fatalf("valid positions rejected: %v", err)
	}
	var ce *CriteriaError
	err := ValidatePositions([]string{"C", "PF-SF", "G"})
	if !errors.As(err, &ce) || !reflect.DeepEqual(ce.Unknown, []string{"PF-SF", "G"}) {
		t.Fatalf("expected position CriteriaError, got %v", err)
	}
}
