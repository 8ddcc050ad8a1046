package sru

// RecordFormat identifies the record schema requested from, and returned by,
// an SRU endpoint.
type RecordFormat string

// Supported record formats.
const (
	FormatMARCXML       RecordFormat = "marcxml"
	FormatMARCXMLLegacy RecordFormat = "marcxml-legacy"
	FormatTurboMARC     RecordFormat = "turbomarc"
	FormatMODS          RecordFormat = "mods"
	FormatMODS36        RecordFormat = "mods36"
	FormatPICA          RecordFormat = "picaxml"
	FormatDublinCore    RecordFormat = "dc"
	FormatISBD          RecordFormat = "isbd"
	FormatMADS          RecordFormat = "mads"
)

// Formats lists every supported record format in a stable order.
func Formats() []RecordFormat {
	return []RecordFormat{
		FormatMARCXML,
		FormatMARCXMLLegacy,
		FormatTurboMARC,
		FormatMODS,
		FormatMODS36,
		FormatPICA,
		FormatDublinCore,
		FormatISBD,
		FormatMADS,
	}
}

// Valid reports whether the format is one of the supported schemas.
func (f RecordFormat) Valid() bool {
	for _, known := range Formats() {
		if f == known {
			return true
		}
	}
	return false
}

func (f RecordFormat) String() string { return string(f) }

// SearchIndex is a CQL index selector for simple keyword searches.
type SearchIndex string

// Available search indices (PICA index set of the K10plus endpoints).
const (
	IndexTitle     SearchIndex = "pica.tit"
	IndexAuthor    SearchIndex = "pica.per"
	IndexSubject   SearchIndex = "pica.sub"
	IndexISBN      SearchIndex = "pica.isb"
	IndexISSN      SearchIndex = "pica.iss"
	IndexPublisher SearchIndex = "pica.vlg"
	IndexYear      SearchIndex = "pica.ejr"
	IndexAll       SearchIndex = "pica.all"
	IndexKeyword   SearchIndex = "pica.woe"
)

// Indices lists every predefined search index in a stable order.
func Indices() []SearchIndex {
	return []SearchIndex{
		IndexTitle,
		IndexAuthor,
		IndexSubject,
		IndexISBN,
		IndexISSN,
		IndexPublisher,
		IndexYear,
		IndexAll,
		IndexKeyword,
	}
}

// Valid reports whether the index is one of the predefined indices.
func (i SearchIndex) Valid() bool {
	for _, known := range Indices() {
		if i == known {
			return true
		}
	}
	return false
}

func (i SearchIndex) String() string { return string(i) }

// SortBy selects the sort key for search results.
type SortBy string

// Available sort keys.
const (
	SortRelevance SortBy = "relevance"
	SortYear      SortBy = "year"
	SortAuthor    SortBy = "author"
	SortTitle     SortBy = "title"
)

// Valid reports whether the sort key is supported.
func (s SortBy) Valid() bool {
	switch s {
	case SortRelevance, SortYear, SortAuthor, SortTitle:
		return true
	}
	return false
}

func (s SortBy) String() string { return string(s) }

// SortOrder selects ascending or descending ordering.
type SortOrder string

// Sort orders. Descending is the default so that year sorts read
// newest-first, which is what catalog users expect.
const (
	SortAscending  SortOrder = "ascending"
	SortDescending SortOrder = "descending"
)

// Valid reports whether the sort order is supported.
func (s SortOrder) Valid() bool {
	return s == SortAscending || s == SortDescending
}

func (s SortOrder) String() string { return string(s) }

// RecordPacking controls how records are embedded in the response envelope.
type RecordPacking string

// Record packing modes.
const (
	// PackingXML embeds records as XML child nodes (the default).
	PackingXML RecordPacking = "xml"
	// PackingString delivers each record as an escaped XML string. Records
	// received this way keep their raw payload but no structured fields are
	// extracted.
	PackingString RecordPacking = "string"
)

// Valid reports whether the packing mode is supported.
func (p RecordPacking) Valid() bool {
	return p == PackingXML || p == PackingString
}

func (p RecordPacking) String() string { return string(p) }

// RelationType identifies a bibliographic relationship for related-record
// searches in multi-volume works and series.
type RelationType string

// Relation types understood by the K10plus relation index.
const (
	// RelationFamily finds the entire family of related records.
	RelationFamily RelationType = "fam"
	// RelationParent finds parent records (broader term).
	RelationParent RelationType = "rel-bt"
	// RelationChild finds child records (narrower term).
	RelationChild RelationType = "rel-nt"
	// RelationRelated finds non-hierarchical related records.
	RelationRelated RelationType = "rel-rt"
	// RelationThesaurus finds thesaurus-related records.
	RelationThesaurus RelationType = "rel-tt"
)

// Valid reports whether the relation type is supported.
func (r RelationType) Valid() bool {
	switch r {
	case RelationFamily, RelationParent, RelationChild, RelationRelated, RelationThesaurus:
		return true
	}
	return false
}

func (r RelationType) String() string { return string(r) }

// RecordType filters related-record searches by record class.
type RecordType string

// Record types.
const (
	// RecordBibliographic selects title records.
	RecordBibliographic RecordType = "b"
	// RecordAuthority selects authority records (names, subjects).
	RecordAuthority RecordType = "n"
)

// Valid reports whether the record type is supported.
func (r RecordType) Valid() bool {
	return r == RecordBibliographic || r == RecordAuthority
}

func (r RecordType) String() string { return string(r) }

// LibraryHolding describes one local holding attached to a record.
type LibraryHolding struct {
	// LibraryCode is the ISIL-style library identifier (e.g. DE-21).
	LibraryCode string
	// LibraryName is a human-readable name resolved from the code.
	LibraryName string
	// AccessURL points at the resource at this library, if any.
	AccessURL string
	// AccessNote carries access restrictions or usage notes.
	AccessNote string
	// Collection names the collection or database holding the item.
	Collection string
}

// SearchResult is a single parsed record. Structured fields are best-effort:
// any of them may be empty when the source record lacks the field or the
// fragment could not be interpreted. RawData always carries the original XML
// fragment regardless of how field extraction fared.
type SearchResult struct {
	RecordID  string
	Title     string
	Author    string
	Year      string
	Publisher string
	ISBN      string
	RawData   string
	Format    RecordFormat
	Holdings  []LibraryHolding
}

// FacetValue is one value/count pair inside a facet field.
type FacetValue struct {
	Value string
	Count int
}

// Facet is a server-computed distribution of result values for one field.
type Facet struct {
	Name   string
	Values []FacetValue
}

// SearchResponse is the parsed result of a searchRetrieve operation.
type SearchResponse struct {
	// TotalResults is the server-declared hit count, which may exceed
	// len(Results).
	TotalResults int
	// Results holds the parsed records in server order. Never re-sorted.
	Results []SearchResult
	// NextRecord is the 1-based position of the next record, or 0 when the
	// server signalled no further results.
	NextRecord int
	// Query echoes the CQL query that produced this response.
	Query string
	// Format echoes the requested record schema.
	Format RecordFormat
	// Facets holds faceted results when they were requested and the server
	// honoured the request (SRU 2.0 only). Never fabricated: nil when the
	// server sent none.
	Facets []Facet
	// Warnings collects non-fatal inconsistencies observed while parsing,
	// e.g. a declared total without a record container.
	Warnings []string
}

// HasMore reports whether further results can be fetched with NextRecord.
func (r *SearchResponse) HasMore() bool {
	return r.NextRecord > 0 && r.NextRecord <= r.TotalResults
}

// ScanTerm is one term returned by a scan (index browse) operation.
type ScanTerm struct {
	Value           string
	NumberOfRecords int
	DisplayTerm     string
	ExtraData       string
}

// ScanResponse is the parsed result of a scan operation.
type ScanResponse struct {
	Terms            []ScanTerm
	ScanClause       string
	ResponsePosition int
}

// IndexInfo describes one searchable index advertised by the server.
type IndexInfo struct {
	Title string
	// Name is the full CQL index key, set and name joined with a dot
	// (e.g. "pica.tit").
	Name        string
	Description string
}

// SchemaInfo describes one record schema advertised by the server.
type SchemaInfo struct {
	Identifier string
	Name       string
	Title      string
}

// ServerInfo carries host details from an explain response.
type ServerInfo struct {
	Host     string
	Port     int
	Database string
}

// DatabaseInfo carries database details from an explain response.
type DatabaseInfo struct {
	Title       string
	Description string
	Contact     string
}

// ExplainResponse is the parsed result of an explain operation.
type ExplainResponse struct {
	Server   ServerInfo
	Database DatabaseInfo
	Indices  []IndexInfo
	Schemas  []SchemaInfo
}
