package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// AgeColumn identifies repeated header bands: a row whose Age cell reads "Age".
	AgeColumn = "Age"
	// IndexColumn is the source's row-rank column, dropped during normalization.
	IndexColumn = "Rk"
	// Missing is the sentinel written into absent cells.
	Missing = "0"
)

// RawTable is the first tabular structure extracted from a source document.
// Header is the first row; Rows holds everything after it, including any
// repeated header bands. A short row or an empty cell means the value is missing.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Table is a normalized, rectangular table of player records.
// Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// NewTable builds a Table, padding or truncating rows to the column count.
func NewTable(columns []string, rows [][]string) *Table {
	t := &Table{Columns: append([]string(nil), columns...)}
	t.Rows = make([][]string, 0, len(rows))
	for _, r := range rows {
		t.Rows = append(t.Rows, fitRow(r, len(columns), ""))
	}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// Shape returns (rows, columns).
func (t *Table) Shape() (int, int) {
	if t == nil {
		return 0, 0
	}
	return len(t.Rows), len(t.Columns)
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t.index == nil {
		t.reindex()
	}
	i, ok := t.index[name]
	return i, ok
}

// Value returns the cell at row i in the named column, or "" when the column is absent.
func (t *Table) Value(i int, column string) string {
	j, ok := t.ColumnIndex(column)
	if !ok || i < 0 || i >= len(t.Rows) {
		return ""
	}
	return t.Rows[i][j]
}

// Column returns a copy of every cell in the named column.
func (t *Table) Column(name string) ([]string, bool) {
	j, ok := t.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[j]
	}
	return out, true
}

// Record returns row i as a column-name keyed map.
func (t *Table) Record(i int) map[string]string {
	rec := make(map[string]string, len(t.Columns))
	for j, c := range t.Columns {
		rec[c] = t.Rows[i][j]
	}
	return rec
}

// NumericColumns lists, in table order, the columns whose every cell parses as a number.
// An empty table has no numeric columns.
func (t *Table) NumericColumns() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	var out []string
	for j, c := range t.Columns {
		numeric := true
		for _, r := range t.Rows {
			if _, ok := parseNumeric(r[j]); !ok {
				numeric = false
				break
			}
		}
		if numeric {
			out = append(out, c)
		}
	}
	return out
}

// Normalize cleans a RawTable: rows whose Age equals "Age" are removed, missing
// cells are filled with "0" and the Rk index column is dropped. Blank or
// duplicated header names are made unique first.
func Normalize(raw *RawTable) (*Table, error) {
	if raw == nil || len(raw.Header) == 0 {
		return nil, &SchemaError{Column: AgeColumn, Reason: "table has no header row"}
	}
	header := uniqueHeader(raw.Header)
	ageIdx := -1
	for i, h := range header {
		if h == AgeColumn {
			ageIdx = i
			break
		}
	}
	if ageIdx < 0 {
		return nil, &SchemaError{Column: AgeColumn, Available: header}
	}

	rows := make([][]string, 0, len(raw.Rows))
	for _, r := range raw.Rows {
		if ageIdx < len(r) && strings.TrimSpace(r[ageIdx]) == AgeColumn {
			continue
		}
		rows = append(rows, fitRow(r, len(header), Missing))
	}

	t := NewTable(header, rows)
	if j, ok := t.ColumnIndex(IndexColumn); ok {
		t.dropColumn(j)
	}
	return t, nil
}

func (t *Table) dropColumn(j int) {
	t.Columns = append(t.Columns[:j:j], t.Columns[j+1:]...)
	for i, r := range t.Rows {
		t.Rows[i] = append(r[:j:j], r[j+1:]...)
	}
	t.reindex()
}

// fitRow trims cells and pads or truncates to n, replacing empty cells with fill.
// lineBreaks folds CR and CRLF to LF so cells survive a CSV round trip.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func fitRow(r []string, n int, fill string) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		v := ""
		if i < len(r) {
			v = lineBreaks.Replace(strings.TrimSpace(r[i]))
		}
		if v == "" {
			v = fill
		}
		out[i] = v
	}
	return out
}

func uniqueHeader(h []string) []string {
	out := make([]string, len(h))
	seen := make(map[string]bool, len(h))
	suffix := make(map[string]int)
	for i, name := range h {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for seen[name] {
			suffix[base]++
			name = fmt.Sprintf("%s.%d", base, suffix[base])
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

func parseNumeric(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
