package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/nbastats-cli/internal/analysis"
	"github.com/KaramelBytes/nbastats-cli/internal/utils"
)

var (
	exportSel     selectionFlags
	exportOutput  string
	exportDataURI bool
	exportName    string
)

var exportCmd = &cobra.Command{
	Use:   "export <season>",
	Short: "Export the filtered player stats as CSV",
	Long: `Export the filtered player stats as CSV: to stdout, to a file (-o), or as an
HTML download link carrying the CSV as a base64 data URI (--data-uri).`,
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
		q := exportSel.query(cmd, season)
		b, err := ex.CSV(cmd.Context(), q)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		written := false
		if exportOutput != "" {
			if err := utils.EnsureParentDir(exportOutput); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(exportOutput, b); err != nil {
				return err
			}
			printOK(out, "Wrote CSV to %s", exportOutput)
			written = true
		}
		if exportDataURI {
			fmt.Fprintln(out, analysis.DownloadLink(b, exportName))
			written = true
		}
		if !written {
			_, err = out.Write(b)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportSel.bind(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write CSV to this path")
	exportCmd.Flags().BoolVar(&exportDataURI, "data-uri", false, "print an HTML download link embedding the CSV")
	exportCmd.Flags().StringVar(&exportName, "filename", "playerstats.csv", "download file name used with --data-uri")
}
