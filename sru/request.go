package sru

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// SRU protocol versions. Version selection is a pure function of the
// requested features and the endpoint capability: plain operations speak 1.1,
// faceted searches upgrade to 2.0 when the endpoint supports it.
const (
	version11 = "1.1"
	version20 = "2.0"
)

// Request defaults and limits.
const (
	// DefaultMaximumRecords is used when no record count is requested.
	DefaultMaximumRecords = 10
	// DefaultFacetLimit caps facet values per field unless overridden.
	DefaultFacetLimit = 10
	// LargeRequestThreshold is the record count above which a request is
	// considered oversized. Oversized requests are allowed but produce an
	// advisory warning, since they risk server-side throttling.
	LargeRequestThreshold = 100
)

// SearchOptions carries the optional parameters of a search operation. The
// zero value requests the first ten records in MARCXML with XML packing.
type SearchOptions struct {
	// Format selects the record schema. Defaults to FormatMARCXML, the most
	// widely supported schema.
	Format RecordFormat
	// Index wraps the query into an index-scoped CQL clause. When empty the
	// query is passed through as raw CQL.
	Index SearchIndex
	// StartRecord is the 1-based position of the first record. Defaults to 1.
	StartRecord int
	// MaximumRecords caps the number of returned records. Defaults to
	// DefaultMaximumRecords.
	MaximumRecords int
	// SortBy selects a sort key. Empty means server-side default ordering.
	SortBy SortBy
	// SortOrder applies when SortBy is set. Defaults to SortDescending so
	// that year sorts read newest-first.
	SortOrder SortOrder
	// Packing selects the record packing mode. Defaults to PackingXML.
	Packing RecordPacking
	// Facets lists facet fields to request. Requires an SRU 2.0 endpoint;
	// silently omitted otherwise.
	Facets []string
	// FacetLimit caps facet values per field. Defaults to DefaultFacetLimit.
	FacetLimit int
}

// searchRequest is a fully built, protocol-valid search request.
type searchRequest struct {
	params url.Values
	// cql is the effective CQL query, echoed into the response.
	cql string
	// facets reports whether facet directives were included.
	facets bool
	// warnings carries non-fatal advisories raised while building.
	warnings []string
}

// normalize applies defaults and validates the options.
func (o *SearchOptions) normalize() error {
	if o.Format == "" {
		o.Format = FormatMARCXML
	} else if !o.Format.Valid() {
		return &ValidationError{Param: "format", Value: o.Format, Reason: "unknown record format"}
	}
	if o.Index != "" && !o.Index.Valid() {
		return &ValidationError{Param: "index", Value: o.Index, Reason: "unknown search index"}
	}
	if o.StartRecord == 0 {
		o.StartRecord = 1
	} else if o.StartRecord < 1 {
		return &ValidationError{Param: "startRecord", Value: o.StartRecord, Reason: "must be at least 1"}
	}
	if o.MaximumRecords == 0 {
		o.MaximumRecords = DefaultMaximumRecords
	} else if o.MaximumRecords < 0 {
		return &ValidationError{Param: "maximumRecords", Value: o.MaximumRecords, Reason: "must be positive"}
	}
	if o.SortBy != "" && !o.SortBy.Valid() {
		return &ValidationError{Param: "sortBy", Value: o.SortBy, Reason: "unknown sort key"}
	}
	if o.SortOrder == "" {
		o.SortOrder = SortDescending
	} else if !o.SortOrder.Valid() {
		return &ValidationError{Param: "sortOrder", Value: o.SortOrder, Reason: "unknown sort order"}
	}
	if o.Packing == "" {
		o.Packing = PackingXML
	} else if !o.Packing.Valid() {
		return &ValidationError{Param: "recordPacking", Value: o.Packing, Reason: `must be "xml" or "string"`}
	}
	if o.FacetLimit == 0 {
		o.FacetLimit = DefaultFacetLimit
	} else if o.FacetLimit < 0 {
		return &ValidationError{Param: "facetLimit", Value: o.FacetLimit, Reason: "must be positive"}
	}
	return nil
}

// buildSearchRequest assembles the parameter set for a searchRetrieve
// operation. sru20 states whether the target endpoint supports SRU 2.0;
// facet directives are only emitted against capable endpoints, never sent on
// the off chance the server ignores them.
func buildSearchRequest(query string, opts SearchOptions, sru20 bool) (*searchRequest, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Param: "query", Value: query, Reason: "must not be empty"}
	}
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	cql := query
	if opts.Index != "" {
		cql = fmt.Sprintf("%s=%q", opts.Index, query)
	}

	wantFacets := len(opts.Facets) > 0 && sru20
	version := version11
	if wantFacets {
		version = version20
	}

	params := url.Values{}
	params.Set("version", version)
	params.Set("operation", "searchRetrieve")
	params.Set("query", cql)
	params.Set("recordSchema", opts.Format.String())
	params.Set("startRecord", strconv.Itoa(opts.StartRecord))
	params.Set("maximumRecords", strconv.Itoa(opts.MaximumRecords))
	params.Set("recordPacking", opts.Packing.String())

	// sortKeys format: <field>,,<order> with 0=descending, 1=ascending.
	if opts.SortBy != "" {
		order := "0"
		if opts.SortOrder == SortAscending {
			order = "1"
		}
		params.Set("sortKeys", fmt.Sprintf("%s,,%s", opts.SortBy, order))
	}

	if wantFacets {
		params.Set("facets", strings.Join(opts.Facets, ","))
		params.Set("facetLimit", strconv.Itoa(opts.FacetLimit))
	}

	req := &searchRequest{params: params, cql: cql, facets: wantFacets}
	if opts.MaximumRecords > LargeRequestThreshold {
		req.warnings = append(req.warnings, fmt.Sprintf(
			"requested %d records exceeds the advisory threshold of %d; large requests may be throttled by the server",
			opts.MaximumRecords, LargeRequestThreshold))
	}
	return req, nil
}

// buildScanRequest assembles the parameter set for a scan operation. The
// clause's internal CQL syntax is not validated here; an invalid clause
// surfaces as a server diagnostic.
func buildScanRequest(scanClause string, responsePosition, maximumTerms int) (url.Values, error) {
	if strings.TrimSpace(scanClause) == "" {
		return nil, &ValidationError{Param: "scanClause", Value: scanClause, Reason: "must not be empty"}
	}
	if responsePosition == 0 {
		responsePosition = 1
	} else if responsePosition < 1 {
		return nil, &ValidationError{Param: "responsePosition", Value: responsePosition, Reason: "must be at least 1"}
	}
	if maximumTerms == 0 {
		maximumTerms = 20
	} else if maximumTerms < 0 {
		return nil, &ValidationError{Param: "maximumTerms", Value: maximumTerms, Reason: "must be positive"}
	}

	params := url.Values{}
	params.Set("version", version11)
	params.Set("operation", "scan")
	params.Set("scanClause", scanClause)
	params.Set("responsePosition", strconv.Itoa(responsePosition))
	params.Set("maximumTerms", strconv.Itoa(maximumTerms))
	return params, nil
}

// buildExplainRequest assembles the parameter set for an explain operation.
func buildExplainRequest() url.Values {
	params := url.Values{}
	params.Set("version", version11)
	params.Set("operation", "explain")
	return params
}

// K10plus relation-search indices: pica.1049 links on the control number
// (PPN), pica.1045 carries the relation type, pica.1001 the record class.
const (
	relationPPNIndex  = "pica.1049"
	relationTypeIndex = "pica.1045"
	recordTypeIndex   = "pica.1001"
)

// buildRelatedQuery constructs the CQL clause that finds records related to
// the given PPN.
func buildRelatedQuery(ppn string, relation RelationType, recordType RecordType) (string, error) {
	if strings.TrimSpace(ppn) == "" {
		return "", &ValidationError{Param: "ppn", Value: ppn, Reason: "must not be empty"}
	}
	if !relation.Valid() {
		return "", &ValidationError{Param: "relationType", Value: relation, Reason: "unknown relation type"}
	}
	if recordType == "" {
		recordType = RecordBibliographic
	} else if !recordType.Valid() {
		return "", &ValidationError{Param: "recordType", Value: recordType, Reason: "unknown record type"}
	}
	return fmt.Sprintf("%s=%q and %s=%q and %s=%q",
		relationPPNIndex, ppn,
		relationTypeIndex, relation.String(),
		recordTypeIndex, recordType.String()), nil
}

// normalizeIdentifier strips separators from ISBN/ISSN input. The pica.isb
// and pica.iss indices store bare digits.
func normalizeIdentifier(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	return strings.ReplaceAll(id, " ", "")
}
