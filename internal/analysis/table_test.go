package analysis

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func rawSeason() *RawTable {
	return &RawTable{
		Header: []string{"Rk", "Player", "Pos", "Age", "Tm", "G", "PTS", "3P%"},
		Rows: [][]string{
			{"1", "Precious Achiuwa", "PF", "21", "MIA", "61", "5.0", ".000"},
			{"2", "Jaylen Adams", "PG", "24", "MIL", "7", "0.3", ""},
			{"Rk", "Player", "Pos", "Age", "Tm", "G", "PTS", "3P%"},
			{"3", "Steven Adams", "C", "27", "NOP", "58", "7.6", ".000"},
			{"4", "Bam Adebayo", "C", "23", "MIA", "64"},
			{"Rk", "Player", "Pos", "Age", "Tm", "G", "PTS", "3P%"},
		},
	}
}

func TestNormalize_RemovesHeaderBands(t *testing.T) {
	raw := rawSeason()
	tbl, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	rows, cols := tbl.Shape()
	if rows != len(raw.Rows)-2 {
		t.Fatalf("rows=%d, want %d", rows, len(raw.Rows)-2)
	}
	if cols != len(raw.Header)-1 {
		t.Fatalf("cols=%d, want %d", cols, len(raw.Header)-1)
	}
	ages, _ := tbl.Column("Age")
	for i, a := range ages {
		if a == "Age" {
			t.Fatalf("row %d is a header duplicate", i)
		}
	}
}

func TestNormalize_DropsIndexAndFillsMissing(t *testing.T) {
	tbl, err := Normalize(rawSeason())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if _, ok := tbl.ColumnIndex("Rk"); ok {
		t.Fatalf("Rk column should be dropped: %v", tbl.Columns)
	}
	want := []string{"Player", "Pos", "Age", "Tm", "G", "PTS", "3P%"}
	if !reflect.DeepEqual(tbl.Columns, want) {
		t.Fatalf("columns=%v, want %v", tbl.Columns, want)
	}
	if got := tbl.Value(1, "3P%"); got != Missing {
		t.Fatalf("empty cell not filled: %q", got)
	}
	// Short row is padded to the full column set.
	if got := tbl.Value(3, "PTS"); got != Missing {
		t.Fatalf("short row not padded: %q", got)
	}
	for i, r := range tbl.Rows {
		if len(r) != len(tbl.Columns) {
			t.Fatalf("row %d has %d cells, want %d", i, len(r), len(tbl.Columns))
		}
	}
}

func TestNormalize_WithoutIndexColumn(t *testing.T) {
	raw := &RawTable{
		Header: []string{"Player", "Age", "Tm"},
		Rows:   [][]string{{"A", "20", "BOS"}, {"Player", "Age", "Tm"}},
	}
	tbl, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rows, cols := tbl.Shape(); rows != 1 || cols != 3 {
		t.Fatalf("shape=(%d,%d), want (1,3)", rows, cols)
	}
}

func TestNormalize_MissingAgeIsSchemaError(t *testing.T) {
	_, err := Normalize(&RawTable{Header: []string{"Player", "Tm"}, Rows: [][]string{{"A", "BOS"}}})
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Column != "Age" || !strings.Contains(se.Error(), "Tm") {
		t.Fatalf("unexpected schema error: %v", se)
	}
	if _, err := Normalize(&RawTable{}); !errors.As(err, &se) {
		t.Fatalf("empty header should be a SchemaError, got %v", err)
	}
}

func TestNormalize_UniqueHeaderNames(t *testing.T) {
	raw := &RawTable{
		Header: []string{"Player", "Age", "", "FG", "FG", "FG.1"},
		Rows:   [][]string{{"A", "20", "x", "1", "2", "3"}},
	}
	tbl, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []string{"Player", "Age", "Unnamed: 2", "FG", "FG.1", "FG.1.1"}
	if !reflect.DeepEqual(tbl.Columns, want) {
		t.Fatalf("columns=%v, want %v", tbl.Columns, want)
	}
	if got := tbl.Value(0, "FG.1"); got != "2" {
		t.Fatalf("FG.1=%q, want 2", got)
	}
}

func TestNumericColumns(t *testing.T) {
	tbl, err := Normalize(rawSeason())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []string{"Age", "G", "PTS", "3P%"}
	if got := tbl.NumericColumns(); !reflect.DeepEqual(got, want) {
		t.Fatalf("numeric=%v, want %v", got, want)
	}
	if got := NewTable([]string{"A"}, nil).NumericColumns(); got != nil {
		t.Fatalf("empty table should have no numeric columns, got %v", got)
	}
}

func TestSummarizeMarkdown(t *testing.T) {
	tbl, err := Normalize(rawSeason())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	md := Summarize("NBA 2021", tbl, 2).Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"Dataset: NBA 2021",
		"Data Dimension: 4 rows and 7 columns",
		"- Tm: categorical (top: MIA(2), MIL(1), NOP(1))",
		"- G: numeric",
		"[CORRELATIONS]",
		"[SAMPLE ROWS]",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}
