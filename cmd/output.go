package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/nbastats-cli/internal/analysis"
	"github.com/KaramelBytes/nbastats-cli/internal/explorer"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

func printOK(w io.Writer, format string, args ...any) {
	okColor.Fprint(w, "✓ ")
	fmt.Fprintf(w, format+"\n", args...)
}

func printWarn(w io.Writer, format string, args ...any) {
	warnColor.Fprint(w, "⚠ ")
	fmt.Fprintf(w, format+"\n", args...)
}

// selectionFlags binds --team/--pos on a command.
type selectionFlags struct {
	teams     []string
	positions []string
}

func (s *selectionFlags) bind(c *cobra.Command) {
	c.Flags().StringSliceVar(&s.teams, "team", nil, "team code to include (repeatable or comma-separated; default all)")
	c.Flags().StringSliceVar(&s.positions, "pos", nil, "position to include: C, PF, SF, PG, SG (repeatable; default all)")
}

// query builds an explorer query. An unset flag selects every value; a flag set
// to "" selects nothing.
func (s *selectionFlags) query(c *cobra.Command, season int) explorer.Query {
	q := explorer.Query{Season: season}
	if c.Flags().Changed("team") {
		q.Teams = append([]string{}, s.teams...)
	}
	if c.Flags().Changed("pos") {
		q.Positions = append([]string{}, s.positions...)
	}
	return q
}

// renderTable writes t with tablewriter, truncated to limit rows when limit > 0.
func renderTable(w io.Writer, t *analysis.Table, limit int) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for i, r := range t.Rows {
		if limit > 0 && i >= limit {
			break
		}
		table.Append(r)
	}
	table.Render()
}
