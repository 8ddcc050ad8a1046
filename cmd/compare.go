package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jvanvinkenroye/swb/profiles"
	"github.com/jvanvinkenroye/swb/sru"
)

var compareProfiles []string

var compareCmd = &cobra.Command{
	Use:   "compare <query>",
	Short: "Run one query against several catalogs",
	Long: `Run the same query against several catalogs concurrently and compare
hit counts. Without --profiles all known catalogs are queried.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringSliceVar(&compareProfiles, "profiles", nil, "profiles to query (default: all)")
	compareCmd.Flags().StringVarP(&searchIndex, "index", "i", "title", "search index (title, author, subject, isbn, issn, publisher, year, all, keyword, cql)")
	compareCmd.Flags().IntVarP(&searchMax, "max", "m", 0, "maximum number of records per catalog")
}

func runCompare(cmd *cobra.Command, args []string) error {
	endpoints, err := compareEndpoints()
	if err != nil {
		return err
	}

	opts, err := searchOptionsFromFlags()
	if err != nil {
		return err
	}
	// Facets make no sense across mixed-capability endpoints.
	opts.Facets = nil

	logger.Info().
		Int("catalogs", len(endpoints)).
		Str("query", args[0]).
		Msg("Comparing catalogs")

	results := sru.SearchAll(cmd.Context(), endpoints, args[0], opts, logger)

	fmt.Printf("%-10s %-12s %s\n", "CATALOG", "HITS", "STATUS")
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Printf("%-10s %-12s %s\n", r.Endpoint.Name, "-", "error: "+r.Err.Error())
		default:
			fmt.Printf("%-10s %-12d %s\n", r.Endpoint.Name, r.Response.TotalResults, "ok")
		}
	}
	return nil
}

// compareEndpoints resolves the --profiles selection into endpoints.
func compareEndpoints() ([]sru.Endpoint, error) {
	var selected []profiles.Profile
	if len(compareProfiles) == 0 {
		selected = profiles.List()
	} else {
		for _, name := range compareProfiles {
			p, err := profiles.Get(strings.TrimSpace(name))
			if err != nil {
				return nil, err
			}
			selected = append(selected, p)
		}
	}

	endpoints := make([]sru.Endpoint, 0, len(selected))
	for _, p := range selected {
		endpoints = append(endpoints, sru.Endpoint{
			Name:    p.Name,
			BaseURL: p.URL,
			SRU20:   p.SRU20,
		})
	}
	return endpoints, nil
}
