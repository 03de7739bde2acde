package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Report is a markdown-friendly summary of a (filtered) player table.
type Report struct {
	Name    string
	Rows    int
	Cols    []ColumnSummary
	Samples [][]string
	Corr    *CorrMatrix
	Notes   []string
}

// ColumnSummary captures inferred kind and statistics per column.
type ColumnSummary struct {
	Name string
	Kind string // numeric|categorical
	// Numeric stats
	Min, Max, Mean, Std float64
	// Categorical top values
	TopValues []CategoryCount
	Unique    int
}

type CategoryCount struct {
	Value string
	Count int
}

// Summarize builds a Report for t. Correlations are attached when they can be
// computed; otherwise the reason is kept as a note.
func Summarize(name string, t *Table, sampleRows int) *Report {
	rows, _ := t.Shape()
	rep := &Report{Name: name, Rows: rows}
	numeric := toSet(t.NumericColumns())
	for _, c := range t.Columns {
		vals, _ := t.Column(c)
		s := ColumnSummary{Name: c}
		if _, ok := numeric[c]; ok {
			s.Kind = "numeric"
			xs := make([]float64, len(vals))
			for i, v := range vals {
				xs[i], _ = parseNumeric(v)
			}
			s.Min, s.Max = xs[0], xs[0]
			for _, x := range xs {
				s.Min = math.Min(s.Min, x)
				s.Max = math.Max(s.Max, x)
			}
			s.Mean = stat.Mean(xs, nil)
			if len(xs) > 1 {
				s.Std = stat.StdDev(xs, nil)
			}
		} else {
			s.Kind = "categorical"
			counts := map[string]int{}
			for _, v := range vals {
				counts[v]++
			}
			tops := make([]CategoryCount, 0, len(counts))
			for k, v := range counts {
				tops = append(tops, CategoryCount{Value: k, Count: v})
			}
			sort.Slice(tops, func(i, j int) bool {
				if tops[i].Count == tops[j].Count {
					return tops[i].Value < tops[j].Value
				}
				return tops[i].Count > tops[j].Count
			})
			if len(tops) > 5 {
				tops = tops[:5]
			}
			s.TopValues = tops
			s.Unique = len(counts)
		}
		rep.Cols = append(rep.Cols, s)
	}
	if sampleRows <= 0 {
		sampleRows = 5
	}
	for i := 0; i < rows && i < sampleRows; i++ {
		rep.Samples = append(rep.Samples, t.Rows[i])
	}
	if m, err := Correlation(t); err == nil {
		rep.Corr = m
	} else {
		rep.Notes = append(rep.Notes, err.Error())
	}
	return rep
}

// Markdown renders a compact report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("Dataset: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Data Dimension: %d rows and %d columns\n\n", r.Rows, len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		b.WriteString(fmt.Sprintf("- %s: %s", safeName(c.Name), c.Kind))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(" (min %.4g, max %.4g, mean %.4g, std %.4g)", c.Min, c.Max, c.Mean, c.Std))
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(" (top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
				b.WriteString(")")
			}
		}
		b.WriteString("\n")
	}
	if r.Corr != nil {
		if pairs := r.Corr.TopPairs(10); len(pairs) > 0 {
			b.WriteString("\n[CORRELATIONS]\n")
			for _, p := range pairs {
				b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
			}
		}
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[SAMPLE ROWS]\n| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n|")
		for range r.Cols {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range r.Notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
