// Package heatmap draws a correlation matrix as an SVG intercorrelation heatmap.
package heatmap

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/KaramelBytes/nbastats-cli/internal/analysis"
)

// Options controls the rendered geometry.
type Options struct {
	Cell  int    // cell side in pixels
	Title string // optional caption above the grid
	// ShowUpper disables the upper-triangle mask (diagonal included).
	ShowUpper bool
}

const (
	defaultCell = 48
	labelSpace  = 110
	legendWidth = 24
	nanFill     = "#d9d9d9"
)

// vmap maps one range into another
func vmap(value, low1, high1, low2, high2 float64) float64 {
	return low2 + (high2-low2)*(value-low1)/(high1-low1)
}

// Color maps r in [-1, 1] onto a blue-white-red diverging scale. NaN is grey.
func Color(r float64) string {
	if math.IsNaN(r) {
		return nanFill
	}
	r = math.Max(-1, math.Min(1, r))
	var red, green, blue float64
	if r < 0 {
		// -1 -> (59,76,192), 0 -> white
		red = vmap(r, -1, 0, 59, 255)
		green = vmap(r, -1, 0, 76, 255)
		blue = vmap(r, -1, 0, 192, 255)
	} else {
		// 0 -> white, 1 -> (180,4,38)
		red = vmap(r, 0, 1, 255, 180)
		green = vmap(r, 0, 1, 255, 4)
		blue = vmap(r, 0, 1, 255, 38)
	}
	return fmt.Sprintf("rgb(%d,%d,%d)", int(math.Round(red)), int(math.Round(green)), int(math.Round(blue)))
}

// Masked reports whether cell (i, j) is hidden: the upper triangle including
// the diagonal, so each pair is drawn once.
func Masked(i, j int) bool { return j >= i }

// Render writes m as a standalone SVG document.
func Render(w io.Writer, m *analysis.CorrMatrix, opts Options) error {
	if m == nil || len(m.Columns) == 0 {
		return fmt.Errorf("heatmap: empty correlation matrix")
	}
	cell := opts.Cell
	if cell <= 0 {
		cell = defaultCell
	}
	n := len(m.Columns)
	top := 20
	if opts.Title != "" {
		top = 50
	}
	grid := n * cell
	width := labelSpace + grid + 3*legendWidth + 40
	height := top + grid + labelSpace

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")
	canvas.Gstyle("font-family:Helvetica,Arial,sans-serif;font-size:12px")
	if opts.Title != "" {
		canvas.Text(width/2, 30, opts.Title, "text-anchor:middle;font-size:16px;fill:#333")
	}

	for i := 0; i < n; i++ {
		y := top + i*cell
		for j := 0; j < n; j++ {
			if !opts.ShowUpper && Masked(i, j) {
				continue
			}
			x := labelSpace + j*cell
			v := m.Values[i][j]
			canvas.Rect(x, y, cell, cell, "stroke:white;stroke-width:1;fill:"+Color(v))
			canvas.Text(x+cell/2, y+cell/2+4, cellLabel(v), "text-anchor:middle;font-size:10px;fill:"+textColor(v))
		}
		canvas.Text(labelSpace-6, y+cell/2+4, m.Columns[i], "text-anchor:end;fill:#333")
	}
	for j := 0; j < n; j++ {
		x := labelSpace + j*cell + cell/2
		y := top + grid + 8
		canvas.TranslateRotate(x, y, -60)
		canvas.Text(0, 0, m.Columns[j], "text-anchor:end;fill:#333")
		canvas.Gend()
	}
	legend(canvas, labelSpace+grid+legendWidth, top, grid)

	canvas.Gend()
	canvas.End()
	return nil
}

func legend(canvas *svg.SVG, x, y, h int) {
	const steps = 20
	step := float64(h) / steps
	for k := 0; k < steps; k++ {
		r := vmap(float64(k)+0.5, 0, steps, 1, -1)
		canvas.Rect(x, y+int(float64(k)*step), legendWidth, int(math.Ceil(step)), "stroke:none;fill:"+Color(r))
	}
	canvas.Text(x+legendWidth+4, y+10, "1.0", "fill:#333")
	canvas.Text(x+legendWidth+4, y+h/2+4, "0.0", "fill:#333")
	canvas.Text(x+legendWidth+4, y+h, "-1.0", "fill:#333")
}

func cellLabel(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func textColor(v float64) string {
	if !math.IsNaN(v) && math.Abs(v) > 0.6 {
		return "white"
	}
	return "#222"
}
