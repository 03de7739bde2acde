package analysis

import (
	"encoding/json"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
// Rows and columns of a zero-variance column are NaN.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// Correlation computes pairwise Pearson correlation over the numeric columns of t.
// It fails with InsufficientDataError when t has fewer than two rows or no
// numeric column.
func Correlation(t *Table) (*CorrMatrix, error) {
	rows, _ := t.Shape()
	if rows < 2 {
		return nil, &InsufficientDataError{Rows: rows}
	}
	names := t.NumericColumns()
	if len(names) == 0 {
		return nil, &InsufficientDataError{Rows: rows}
	}

	n := len(names)
	data := make([]float64, 0, rows*n)
	idx := make([]int, n)
	for k, name := range names {
		idx[k], _ = t.ColumnIndex(name)
	}
	for _, r := range t.Rows {
		for _, j := range idx {
			x, _ := parseNumeric(r[j])
			data = append(data, x)
		}
	}
	x := mat.NewDense(rows, n, data)

	corr := mat.NewSymDense(n, nil)
	stat.CorrelationMatrix(corr, x, nil)

	flat := make([]bool, n)
	for k := 0; k < n; k++ {
		flat[k] = stat.Variance(mat.Col(nil, k, x), nil) == 0
	}

	values := make([][]float64, n)
	for a := 0; a < n; a++ {
		values[a] = make([]float64, n)
		for b := 0; b < n; b++ {
			switch {
			case flat[a] || flat[b]:
				values[a][b] = math.NaN()
			case a == b:
				values[a][b] = 1
			default:
				values[a][b] = clamp(corr.At(a, b))
			}
		}
	}
	return &CorrMatrix{Columns: names, Values: values}, nil
}

func clamp(r float64) float64 {
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}

// At returns the coefficient for the named pair.
func (m *CorrMatrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, c := range m.Columns {
		if c == a {
			i = k
		}
		if c == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// TopPairs returns up to limit off-diagonal pairs ordered by |r| descending.
// Undefined coefficients are skipped.
func (m *CorrMatrix) TopPairs(limit int) []PairCorr {
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: r})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

// MarshalJSON encodes undefined coefficients as null.
func (m *CorrMatrix) MarshalJSON() ([]byte, error) {
	vals := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		vals[i] = make([]*float64, len(row))
		for j := range row {
			if math.IsNaN(row[j]) {
				continue
			}
			v := row[j]
			vals[i][j] = &v
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Columns, vals})
}
