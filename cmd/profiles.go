package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jvanvinkenroye/swb/profiles"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the known catalog profiles",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%-10s %-45s %s\n", "NAME", "CATALOG", "SRU 2.0")
		for _, p := range profiles.List() {
			sru20 := "no"
			if p.SRU20 {
				sru20 = "yes"
			}
			marker := " "
			if p.Name == profiles.DefaultProfile {
				marker = "*"
			}
			fmt.Printf("%-10s %-45s %s %s\n", p.Name, p.DisplayName, sru20, marker)
		}
		fmt.Println("\n* default profile")
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
