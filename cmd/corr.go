package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/nbastats-cli/internal/heatmap"
	"github.com/KaramelBytes/nbastats-cli/internal/utils"
)

var (
	corrSel        selectionFlags
	corrJSON       bool
	corrSVG        string
	corrSampleRows int
)

var corrCmd = &cobra.Command{
	Use:   "corr <season>",
	Short: "Compute the intercorrelation matrix of the filtered stats",
	Long: `Compute pairwise Pearson correlation across the numeric columns of the
filtered table. Prints a Markdown summary by default, the matrix as JSON with
--json, and writes an SVG heatmap with --svg.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		season, err := parseSeason(args[0])
		if err != nil {
			return err
		}
		ex, _, err := newExplorer()
		if err != nil {
			return err
		}
		q := corrSel.query(cmd, season)
		m, err := ex.Correlation(cmd.Context(), q)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if corrSVG != "" {
			var buf bytes.Buffer
			title := fmt.Sprintf("Intercorrelation Matrix, %d", season)
			if err := heatmap.Render(&buf, m, heatmap.Options{Title: title}); err != nil {
				return err
			}
			if err := utils.EnsureParentDir(corrSVG); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(corrSVG, buf.Bytes()); err != nil {
				return err
			}
			printOK(out, "Wrote heatmap to %s", corrSVG)
		}
		if corrJSON {
			b, err := utils.PrettyJSON(m)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		if corrSVG != "" {
			return nil
		}

		rep, err := ex.Summary(cmd.Context(), q, corrSampleRows)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, rep.Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(corrCmd)
	corrSel.bind(corrCmd)
	corrCmd.Flags().BoolVar(&corrJSON, "json", false, "print the correlation matrix as JSON")
	corrCmd.Flags().StringVar(&corrSVG, "svg", "", "write an SVG heatmap to this path")
	corrCmd.Flags().IntVar(&corrSampleRows, "sample-rows", 5, "sample rows in the Markdown summary")
}
