package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	playersSel   selectionFlags
	playersLimit int
)

var playersCmd = &cobra.Command{
	Use:   "players <season>",
	Short: "Show the season's player stats filtered by team and position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		season, err := parseSeason(args[0])
		if err != nil {
			return err
		}
		ex, _, err := newExplorer()
		if err != nil {
			return err
		}
		res, err := ex.Filter(cmd.Context(), playersSel.query(cmd, season))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		rows, cols := res.Shape()
		fmt.Fprintf(out, "Data Dimension: %d rows and %d columns.\n", rows, cols)
		if rows == 0 {
			printWarn(out, "No players match the selected teams and positions")
			return nil
		}
		renderTable(out, res.Table, playersLimit)
		if playersLimit > 0 && rows > playersLimit {
			fmt.Fprintf(out, "… %d more rows (use --limit 0 to show all)\n", rows-playersLimit)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playersCmd)
	playersSel.bind(playersCmd)
	playersCmd.Flags().IntVar(&playersLimit, "limit", 0, "maximum rows to display (0 = all)")
}
