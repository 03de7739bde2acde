package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/nbastats-cli/internal/analysis"
)

var teamsCmd = &cobra.Command{
	Use:   "teams <season>",
	Short: "List the team codes present in a season",
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
		teams, err := ex.Teams(cmd.Context(), season)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Teams (%d): %s\n", len(teams), strings.Join(teams, " "))
		fmt.Fprintf(out, "Positions: %s\n", strings.Join(analysis.Positions, " "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(teamsCmd)
}
