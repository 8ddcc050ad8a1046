package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jvanvinkenroye/swb/filter"
	"github.com/jvanvinkenroye/swb/sru"
)

var (
	searchIndex      string
	searchFormat     string
	searchMax        int
	searchStart      int
	searchSort       string
	searchOrder      string
	searchPacking    string
	searchFacets     []string
	searchFacetLimit int
	searchFilter     string
	searchRaw        bool
	searchHoldings   bool
)

// friendlyIndices maps command-line index names to CQL index keys.
var friendlyIndices = map[string]sru.SearchIndex{
	"title":     sru.IndexTitle,
	"author":    sru.IndexAuthor,
	"subject":   sru.IndexSubject,
	"isbn":      sru.IndexISBN,
	"issn":      sru.IndexISSN,
	"publisher": sru.IndexPublisher,
	"year":      sru.IndexYear,
	"all":       sru.IndexAll,
	"keyword":   sru.IndexKeyword,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog",
	Long: `Search the catalog with a simple term or a raw CQL query.

By default the query is matched against the title index. Use --index to
search a different index, or --index cql to pass the query through as raw
CQL (e.g. 'pica.per="Goethe" and pica.ejr="1808"').`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchIndex, "index", "i", "title", "search index (title, author, subject, isbn, issn, publisher, year, all, keyword, cql)")
	searchCmd.Flags().StringVarP(&searchFormat, "format", "f", "", "record schema (marcxml, turbomarc, mods, picaxml, dc, isbd, mads)")
	searchCmd.Flags().IntVarP(&searchMax, "max", "m", 0, "maximum number of records")
	searchCmd.Flags().IntVar(&searchStart, "start", 0, "1-based position of the first record")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "sort key (relevance, year, author, title)")
	searchCmd.Flags().StringVar(&searchOrder, "order", "", "sort order (ascending, descending)")
	searchCmd.Flags().StringVar(&searchPacking, "packing", "", "record packing (xml, string)")
	searchCmd.Flags().StringSliceVar(&searchFacets, "facet", nil, "facet field to request (repeatable, needs an SRU 2.0 endpoint)")
	searchCmd.Flags().IntVar(&searchFacetLimit, "facet-limit", 0, "maximum values per facet field")
	searchCmd.Flags().StringVar(&searchFilter, "filter", "", "expression to filter results client-side, e.g. 'Year >= \"2020\"'")
	searchCmd.Flags().BoolVar(&searchRaw, "raw", false, "print raw record XML instead of parsed fields")
	searchCmd.Flags().BoolVar(&searchHoldings, "holdings", false, "show library holdings per record")
}

func runSearch(cmd *cobra.Command, args []string) error {
	defer client.Close()

	opts, err := searchOptionsFromFlags()
	if err != nil {
		return err
	}

	var compiled filter.CompiledFilter
	if searchFilter != "" {
		compiled, err = filter.Compile(searchFilter)
		if err != nil {
			return err
		}
	}

	resp, err := client.Search(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}

	if compiled != nil {
		before := len(resp.Results)
		resp.Results = filter.Apply(compiled, resp.Results)
		logger.Info().
			Int("before", before).
			Int("after", len(resp.Results)).
			Str("filter", compiled.Expression()).
			Msg("Applied result filter")
	}

	printSearchResponse(resp)
	return nil
}

// searchOptionsFromFlags assembles search options from flags and config
// defaults.
func searchOptionsFromFlags() (sru.SearchOptions, error) {
	opts := sru.SearchOptions{
		Format:         sru.RecordFormat(cfg.Search.Format),
		StartRecord:    searchStart,
		MaximumRecords: cfg.Search.MaxRecords,
		SortBy:         sru.SortBy(searchSort),
		SortOrder:      sru.SortOrder(searchOrder),
		Packing:        sru.RecordPacking(searchPacking),
		Facets:         searchFacets,
		FacetLimit:     searchFacetLimit,
	}
	if searchFormat != "" {
		opts.Format = sru.RecordFormat(searchFormat)
	}
	if searchMax > 0 {
		opts.MaximumRecords = searchMax
	}

	switch searchIndex {
	case "", "cql", "raw":
		// Raw CQL pass-through
	default:
		idx, ok := friendlyIndices[strings.ToLower(searchIndex)]
		if !ok {
			return sru.SearchOptions{}, fmt.Errorf("unknown index %q (available: title, author, subject, isbn, issn, publisher, year, all, keyword, cql)", searchIndex)
		}
		opts.Index = idx
	}

	return opts, nil
}

// printSearchResponse renders a search response to stdout.
func printSearchResponse(resp *sru.SearchResponse) {
	for _, w := range resp.Warnings {
		logger.Warn().Msg(w)
	}

	fmt.Printf("Found %d result(s) for %s\n", resp.TotalResults, resp.Query)

	for i, r := range resp.Results {
		fmt.Println()
		if searchRaw || (r.Title == "" && r.Author == "" && r.RecordID == "") {
			fmt.Printf("--- Record %d ---\n%s\n", i+1, r.RawData)
			continue
		}
		printResult(i+1, r)
	}

	printFacets(resp.Facets)

	if resp.HasMore() {
		fmt.Printf("\nMore results available, continue with --start %d\n", resp.NextRecord)
	}
}

func printResult(position int, r sru.SearchResult) {
	fmt.Printf("%d. %s\n", position, valueOr(r.Title, "(no title)"))
	if r.Author != "" {
		fmt.Printf("   Author:    %s\n", r.Author)
	}
	if r.Year != "" {
		fmt.Printf("   Year:      %s\n", r.Year)
	}
	if r.Publisher != "" {
		fmt.Printf("   Publisher: %s\n", r.Publisher)
	}
	if r.ISBN != "" {
		fmt.Printf("   ISBN:      %s\n", r.ISBN)
	}
	if r.RecordID != "" {
		fmt.Printf("   PPN:       %s\n", r.RecordID)
	}

	if searchHoldings && len(r.Holdings) > 0 {
		fmt.Printf("   Holdings (%d):\n", len(r.Holdings))
		for _, h := range r.Holdings {
			line := h.LibraryCode
			if h.LibraryName != "" {
				line += " - " + h.LibraryName
			}
			fmt.Printf("     %s\n", line)
			if h.AccessURL != "" {
				fmt.Printf("       URL: %s\n", h.AccessURL)
			}
			if h.AccessNote != "" {
				fmt.Printf("       Note: %s\n", h.AccessNote)
			}
		}
	}
}

func printFacets(facets []sru.Facet) {
	if len(facets) == 0 {
		return
	}
	fmt.Println("\nFacets:")
	for _, f := range facets {
		fmt.Printf("  %s:\n", f.Name)
		for _, v := range f.Values {
			fmt.Printf("    %-30s %d\n", v.Value, v.Count)
		}
	}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
