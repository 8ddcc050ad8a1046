package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	scanPosition int
	scanTerms    int
)

var scanCmd = &cobra.Command{
	Use:   "scan <clause>",
	Short: "Browse index terms",
	Long: `Browse the terms of an index around a starting point, e.g. for
exploring name spellings:

  swb scan 'pica.per=Goe'`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().IntVar(&scanPosition, "position", 0, "position of the start term in the response (default 1)")
	scanCmd.Flags().IntVarP(&scanTerms, "terms", "t", 0, "maximum number of terms (default 20)")
}

func runScan(cmd *cobra.Command, args []string) error {
	defer client.Close()

	resp, err := client.Scan(cmd.Context(), args[0], scanPosition, scanTerms)
	if err != nil {
		return err
	}

	fmt.Printf("Terms for %s:\n\n", resp.ScanClause)
	for _, t := range resp.Terms {
		label := t.Value
		if t.DisplayTerm != "" && t.DisplayTerm != t.Value {
			label = fmt.Sprintf("%s (%s)", t.DisplayTerm, t.Value)
		}
		fmt.Printf("  %-40s %d record(s)\n", label, t.NumberOfRecords)
	}
	if len(resp.Terms) == 0 {
		fmt.Println("  (no terms)")
	}
	return nil
}
