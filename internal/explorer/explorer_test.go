package explorer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/nbastats-cli/internal/analysis"
	"github.com/KaramelBytes/nbastats-cli/internal/loader"
	"github.com/KaramelBytes/nbastats-cli/internal/source"
)

func newExplorer(t *testing.T) *Explorer {
	t.Helper()
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return New(loader.New(source.FileSource{Dir: "../source/testdata"}, loader.Options{Logger: l}))
}

func TestTeams(t *testing.T) {
	teams, err := newExplorer(t).Teams(context.Background(), 2021)
	require.NoError(t, err)
	assert.Equal(t, []string{"MEM", "MIA", "MIL", "NOP", "PHO", "SAS", "TOT"}, teams)
}

func TestFilter_DefaultsSelectEverythingWithKnownPosition(t *testing.T) {
	res, err := newExplorer(t).Filter(context.Background(), Query{Season: 2021})
	require.NoError(t, err)
	rows, cols := res.Shape()
	// Aminu plays "PF-SF", which is not one of the five positions.
	assert.Equal(t, 10, rows)
	assert.Equal(t, 11, cols)
}

func TestFilter_Selection(t *testing.T) {
	res, err := newExplorer(t).Filter(context.Background(), Query{Season: 2021, Teams: []string{"MIA", "NOP"}, Positions: []string{"C"}})
	require.NoError(t, err)
	players, _ := res.Table.Column("Player")
	assert.Equal(t, []string{"Steven Adams", "Bam Adebayo"}, players)
}

func TestFilter_EmptySelection(t *testing.T) {
	ex := newExplorer(t)
	res, err := ex.Filter(context.Background(), Query{Season: 2021, Teams: []string{}})
	require.NoError(t, err)
	rows, _ := res.Shape()
	assert.Zero(t, rows)

	res, err = ex.Filter(context.Background(), Query{Season: 2021, Positions: []string{}})
	require.NoError(t, err)
	rows, _ = res.Shape()
	assert.Zero(t, rows)
}

func TestFilter_RejectsUnknownSelections(t *testing.T) {
	ex := newExplorer(t)
	var ce *analysis.CriteriaError
	_, err := ex.Filter(context.Background(), Query{Season: 2021, Teams: []string{"BOS"}})
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "team", ce.Field)
	assert.Contains(t, err.Error(), "season 2021")

	_, err = ex.Filter(context.Background(), Query{Season: 2021, Positions: []string{"PF-SF"}})
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "position", ce.Field)
}

func TestFilter_RejectsPositionsBeforeLoading(t *testing.T) {
	var calls int
	src := source.Func(func(context.Context, int) (*analysis.RawTable, error) {
		calls++
		return nil, errors.New("should not be fetched")
	})
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	ex := New(loader.New(src, loader.Options{Logger: log}))

	_, err := ex.Filter(context.Background(), Query{Season: 2021, Positions: []string{"G", "C"}})
	var ce *analysis.CriteriaError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "position", ce.Field)
	assert.Equal(t, []string{"G"}, ce.Unknown)

	_, err = ex.Correlation(context.Background(), Query{Season: 2021, Positions: []string{"F"}})
	require.ErrorAs(t, err, &ce)
	assert.Zero(t, calls, "no fetch for a selection that cannot match")
}

func TestFilter_InvalidSeason(t *testing.T) {
	_, err := newExplorer(t).Filter(context.Background(), Query{Season: 1900})
	var ise *loader.InvalidSeasonError
	require.ErrorAs(t, err, &ise)
}

func TestFilter_MissingSeasonFile(t *testing.T) {
	_, err := newExplorer(t).Filter(context.Background(), Query{Season: 1990})
	var ue *source.UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 1990, ue.Season)
}

func TestCSV(t *testing.T) {
	b, err := newExplorer(t).CSV(context.Background(), Query{Season: 2021, Teams: []string{"MIA"}})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Player,Pos,Age,Tm,G,MP,FG%,3P%,TRB,AST,PTS", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Precious Achiuwa,PF,21,MIA"))
}

func TestCorrelation(t *testing.T) {
	ex := newExplorer(t)
	m, err := ex.Correlation(context.Background(), Query{Season: 2021})
	require.NoError(t, err)
	assert.Equal(t, []string{"Age", "G", "MP", "FG%", "3P%", "TRB", "AST", "PTS"}, m.Columns)
	for i := range m.Columns {
		assert.Equal(t, 1.0, m.Values[i][i])
		for j := range m.Columns {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
		}
	}

	_, err = ex.Correlation(context.Background(), Query{Season: 2021, Teams: []string{}})
	var ide *analysis.InsufficientDataError
	require.ErrorAs(t, err, &ide)
	assert.True(t, errors.As(err, &ide))
}

func TestSummary(t *testing.T) {
	rep, err := newExplorer(t).Summary(context.Background(), Query{Season: 2021, Teams: []string{"TOT"}}, 3)
	require.NoError(t, err)
	md := rep.Markdown()
	assert.Contains(t, md, "NBA 2021 per-game player stats")
	assert.Contains(t, md, "Data Dimension: 2 rows and 11 columns")
}
