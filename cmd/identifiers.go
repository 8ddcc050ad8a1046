package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jvanvinkenroye/swb/sru"
)

var isbnCmd = &cobra.Command{
	Use:   "isbn <isbn>",
	Short: "Look up records by ISBN",
	Long: `Look up records by ISBN. Hyphens and spaces in the number are ignored,
so both 978-3-518-46800-6 and 9783518468006 work.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIdentifierSearch(cmd, args[0], func(ctx context.Context, id string, opts sru.SearchOptions) (*sru.SearchResponse, error) {
			return client.SearchByISBN(ctx, id, opts)
		})
	},
}

var issnCmd = &cobra.Command{
	Use:   "issn <issn>",
	Short: "Look up periodicals by ISSN",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIdentifierSearch(cmd, args[0], func(ctx context.Context, id string, opts sru.SearchOptions) (*sru.SearchResponse, error) {
			return client.SearchByISSN(ctx, id, opts)
		})
	},
}

func init() {
	rootCmd.AddCommand(isbnCmd)
	rootCmd.AddCommand(issnCmd)

	for _, c := range []*cobra.Command{isbnCmd, issnCmd} {
		c.Flags().StringVarP(&searchFormat, "format", "f", "", "record schema (marcxml, turbomarc, mods, picaxml, dc, isbd, mads)")
		c.Flags().IntVarP(&searchMax, "max", "m", 0, "maximum number of records")
		c.Flags().BoolVar(&searchRaw, "raw", false, "print raw record XML instead of parsed fields")
		c.Flags().BoolVar(&searchHoldings, "holdings", false, "show library holdings per record")
	}
}

func runIdentifierSearch(cmd *cobra.Command, id string, search func(context.Context, string, sru.SearchOptions) (*sru.SearchResponse, error)) error {
	defer client.Close()

	opts, err := searchOptionsFromFlags()
	if err != nil {
		return err
	}
	opts.Index = ""

	resp, err := search(cmd.Context(), id, opts)
	if err != nil {
		return err
	}

	printSearchResponse(resp)
	return nil
}
