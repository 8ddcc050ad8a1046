package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jvanvinkenroye/swb/sru"
)

var (
	relatedRelation  string
	relatedAuthority bool
)

var relatedCmd = &cobra.Command{
	Use:   "related <ppn>",
	Short: "Find records related to a PPN",
	Long: `Find records related to the given PPN, e.g. the volumes of a
multi-volume work:

  swb related 267838395 --relation child

Relations: family (all related records), parent, child, related, thesaurus.`,
	Args: cobra.ExactArgs(1),
	RunE: runRelated,
}

// relationNames maps command-line relation names to relation types.
var relationNames = map[string]sru.RelationType{
	"family":    sru.RelationFamily,
	"parent":    sru.RelationParent,
	"child":     sru.RelationChild,
	"related":   sru.RelationRelated,
	"thesaurus": sru.RelationThesaurus,
}

func init() {
	rootCmd.AddCommand(relatedCmd)

	relatedCmd.Flags().StringVarP(&relatedRelation, "relation", "r", "family", "relation type (family, parent, child, related, thesaurus)")
	relatedCmd.Flags().BoolVar(&relatedAuthority, "authority", false, "search authority records instead of title records")
	relatedCmd.Flags().StringVarP(&searchFormat, "format", "f", "", "record schema (marcxml, turbomarc, mods, picaxml, dc, isbd, mads)")
	relatedCmd.Flags().IntVarP(&searchMax, "max", "m", 0, "maximum number of records")
	relatedCmd.Flags().BoolVar(&searchRaw, "raw", false, "print raw record XML instead of parsed fields")
}

func runRelated(cmd *cobra.Command, args []string) error {
	defer client.Close()

	relation, ok := relationNames[relatedRelation]
	if !ok {
		// Accept the wire form too (fam, rel-nt, ...)
		relation = sru.RelationType(relatedRelation)
	}

	recordType := sru.RecordBibliographic
	if relatedAuthority {
		recordType = sru.RecordAuthority
	}

	opts, err := searchOptionsFromFlags()
	if err != nil {
		return err
	}

	resp, err := client.SearchRelated(cmd.Context(), args[0], relation, recordType, opts)
	if err != nil {
		return err
	}

	printSearchResponse(resp)
	return nil
}
