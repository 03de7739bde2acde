package heatmap

import (
	"bytes"
	"encoding/xml"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/nbastats-cli/internal/analysis"
)

func sample() *analysis.CorrMatrix {
	return &analysis.CorrMatrix{
		Columns: []string{"Age", "MP", "PTS"},
		Values: [][]float64{
			{1, 0.25, math.NaN()},
			{0.25, 1, -0.75},
			{math.NaN(), -0.75, 1},
		},
	}
}

func countRects(t *testing.T, doc []byte) int {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(doc))
	n := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return n
		}
		require.NoError(t, err)
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "rect" {
			n++
		}
	}
}

func TestRender_MasksUpperTriangle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sample(), Options{Title: "Intercorrelation"}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<?xml"))
	assert.Contains(t, out, "Intercorrelation")
	assert.Contains(t, out, "-0.75")
	assert.Contains(t, out, "n/a")
	assert.Contains(t, out, "0.25")
	assert.NotContains(t, out, "1.00", "diagonal is masked")
	// background + 3 lower cells + 20 legend steps
	assert.Equal(t, 1+3+20, countRects(t, buf.Bytes()))
}

func TestRender_ShowUpper(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sample(), Options{ShowUpper: true, Cell: 30}))
	assert.Equal(t, 1+9+20, countRects(t, buf.Bytes()))
	assert.Contains(t, buf.String(), "1.00")
}

func TestRender_Empty(t *testing.T) {
	assert.Error(t, Render(io.Discard, &analysis.CorrMatrix{}, Options{}))
	assert.Error(t, Render(io.Discard, nil, Options{}))
}

func TestColor(t *testing.T) {
	assert.Equal(t, "rgb(255,255,255)", Color(0))
	assert.Equal(t, "rgb(180,4,38)", Color(1))
	assert.Equal(t, "rgb(59,76,192)", Color(-1))
	assert.Equal(t, Color(1), Color(3))
	assert.Equal(t, nanFill, Color(math.NaN()))
}

func TestMasked(t *testing.T) {
	assert.True(t, Masked(0, 0))
	assert.True(t, Masked(0, 2))
	assert.False(t, Masked(2, 0))
}
