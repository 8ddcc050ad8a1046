package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Show server capabilities",
	Long: `Fetch the server's explain record and show the searchable indices and
record schemas the endpoint advertises.`,
	Args: cobra.NoArgs,
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	defer client.Close()

	resp, err := client.Explain(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Server: %s", resp.Server.Host)
	if resp.Server.Port > 0 {
		fmt.Printf(":%d", resp.Server.Port)
	}
	if resp.Server.Database != "" {
		fmt.Printf(" (database %s)", resp.Server.Database)
	}
	fmt.Println()

	if resp.Database.Title != "" {
		fmt.Printf("Catalog: %s\n", resp.Database.Title)
	}
	if resp.Database.Description != "" {
		fmt.Printf("  %s\n", resp.Database.Description)
	}
	if resp.Database.Contact != "" {
		fmt.Printf("  Contact: %s\n", resp.Database.Contact)
	}

	if len(resp.Indices) > 0 {
		fmt.Printf("\nIndices (%d):\n", len(resp.Indices))
		for _, idx := range resp.Indices {
			fmt.Printf("  %-24s %s\n", idx.Name, idx.Title)
		}
	}

	if len(resp.Schemas) > 0 {
		fmt.Printf("\nRecord schemas (%d):\n", len(resp.Schemas))
		for _, s := range resp.Schemas {
			title := s.Title
			if title == "" {
				title = s.Identifier
			}
			fmt.Printf("  %-24s %s\n", s.Name, title)
		}
	}

	return nil
}
