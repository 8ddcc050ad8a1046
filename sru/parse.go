package sru

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// xmlNode is a generic XML tree node. Schema-specific field extraction walks
// this tree by local element name, which keeps the parser tolerant of
// namespace prefix variation across servers.
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Nodes   []xmlNode  `xml:",any"`
}

// attr returns the value of the named attribute, ignoring namespaces.
func (n *xmlNode) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// child returns the first direct child with the given local name.
func (n *xmlNode) child(local string) *xmlNode {
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == local {
			return &n.Nodes[i]
		}
	}
	return nil
}

// text returns the trimmed character data of the first direct child with the
// given local name, or "" when absent.
func (n *xmlNode) childText(local string) string {
	if c := n.child(local); c != nil {
		return strings.TrimSpace(c.Text)
	}
	return ""
}

// find returns the first descendant (depth-first) with the given local name.
func (n *xmlNode) find(local string) *xmlNode {
	for i := range n.Nodes {
		c := &n.Nodes[i]
		if c.XMLName.Local == local {
			return c
		}
		if found := c.find(local); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns all descendants (depth-first) with the given local name.
func (n *xmlNode) findAll(local string) []*xmlNode {
	var out []*xmlNode
	for i := range n.Nodes {
		c := &n.Nodes[i]
		if c.XMLName.Local == local {
			out = append(out, c)
		}
		out = append(out, c.findAll(local)...)
	}
	return out
}

// Envelope structures for searchRetrieve responses. Element names are
// matched by local name only; servers vary in prefix and, between protocol
// versions, in namespace URI.
type searchEnvelope struct {
	XMLName         xml.Name
	NumberOfRecords string           `xml:"numberOfRecords"`
	NextRecord      string           `xml:"nextRecordPosition"`
	Records         []recordEnvelope `xml:"records>record"`
	Diagnostics     []diagnosticNode `xml:"diagnostics>diagnostic"`
	FacetedResults  *xmlNode         `xml:"facetedResults"`
}

type recordEnvelope struct {
	Schema  string     `xml:"recordSchema"`
	Packing string     `xml:"recordPacking"`
	Data    recordData `xml:"recordData"`
}

// recordData captures the payload three ways at once: the verbatim inner XML
// (retained as RawData), the parsed element children (for field extraction)
// and the character data (the unescaped record when string packing is in
// use).
type recordData struct {
	Inner string    `xml:",innerxml"`
	Text  string    `xml:",chardata"`
	Nodes []xmlNode `xml:",any"`
}

type diagnosticNode struct {
	URI     string `xml:"uri"`
	Message string `xml:"message"`
	Details string `xml:"details"`
}

type scanEnvelope struct {
	XMLName     xml.Name
	Terms       []scanTermNode   `xml:"terms>term"`
	Diagnostics []diagnosticNode `xml:"diagnostics>diagnostic"`
}

type scanTermNode struct {
	Value           string `xml:"value"`
	NumberOfRecords string `xml:"numberOfRecords"`
	DisplayTerm     string `xml:"displayTerm"`
	ExtraTermData   string `xml:"extraTermData"`
}

// decodeBody decodes an XML response body into v. It applies the uniform
// precedence shared by every operation: empty bodies are a distinct failure,
// malformed XML never escapes as a raw decoder error. The charset reader
// honours the encoding declared in the XML prolog over whatever the
// transport claimed.
func decodeBody(op, body string, v any) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}
	dec := xml.NewDecoder(strings.NewReader(body))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(v); err != nil {
		return &ParseError{Op: op, Snippet: snippet(body), Err: err}
	}
	return nil
}

// diagnosticError converts the first protocol diagnostic into an error, or
// returns nil when the response carried none.
func diagnosticError(diags []diagnosticNode) error {
	for _, d := range diags {
		uri := strings.TrimSpace(d.URI)
		msg := strings.TrimSpace(d.Message)
		if uri == "" && msg == "" {
			continue
		}
		if uri == "" {
			uri = "unknown"
		}
		if msg == "" {
			msg = "unknown error"
		}
		return &DiagnosticError{URI: uri, Message: msg, Details: strings.TrimSpace(d.Details)}
	}
	return nil
}

// parseSearchResponse parses a searchRetrieve response body. query and
// format echo the originating request; wantFacets states whether facet
// directives were sent, so that facet containers are only interpreted when
// they were asked for.
func parseSearchResponse(body, query string, format RecordFormat, wantFacets bool) (*SearchResponse, error) {
	var env searchEnvelope
	if err := decodeBody("search", body, &env); err != nil {
		return nil, err
	}
	if err := diagnosticError(env.Diagnostics); err != nil {
		return nil, err
	}

	resp := &SearchResponse{Query: query, Format: format}

	if t := strings.TrimSpace(env.NumberOfRecords); t == "" {
		resp.Warnings = append(resp.Warnings, "response did not declare a result count")
	} else if total, err := strconv.Atoi(t); err != nil || total < 0 {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("unreadable result count %q", t))
	} else {
		resp.TotalResults = total
	}

	if t := strings.TrimSpace(env.NextRecord); t != "" {
		if next, err := strconv.Atoi(t); err == nil && next > 0 {
			resp.NextRecord = next
		}
	}

	if len(env.Records) == 0 && resp.TotalResults > 0 {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf(
			"server declared %d results but returned no record container", resp.TotalResults))
	}

	for i, rec := range env.Records {
		result, ok, warn := parseRecord(rec, format)
		if warn != "" {
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("record %d: %s", i+1, warn))
		}
		if ok {
			resp.Results = append(resp.Results, result)
		}
	}

	if wantFacets && env.FacetedResults != nil {
		resp.Facets = parseFacets(env.FacetedResults)
	}

	return resp, nil
}

// parseRecord turns one record envelope into a SearchResult. Extraction
// failures degrade to a raw-data-only result; they never abort the
// surrounding response. The returned warning, when non-empty, describes a
// structural oddity worth surfacing.
func parseRecord(rec recordEnvelope, requested RecordFormat) (SearchResult, bool, string) {
	format := requested
	if declared := RecordFormat(strings.TrimSpace(rec.Schema)); declared.Valid() {
		format = declared
	}

	// String-packed record: the payload is character data holding the
	// already-unescaped record XML. No structured fields are extracted in
	// this mode.
	if len(rec.Data.Nodes) == 0 {
		if text := strings.TrimSpace(rec.Data.Text); text != "" {
			return SearchResult{RawData: text, Format: format}, true, ""
		}
		return SearchResult{}, false, "record without payload"
	}

	result := SearchResult{
		RawData: strings.TrimSpace(rec.Data.Inner),
		Format:  format,
	}
	extractorFor(format)(&rec.Data.Nodes[0], &result)
	return result, true, ""
}

// parseFacets extracts the SRU 2.0 faceted results container. A requested
// facet field the server did not honour simply yields no entry.
func parseFacets(container *xmlNode) []Facet {
	var facets []Facet
	for _, field := range container.findAll("facet") {
		index := field.find("index")
		if index == nil || strings.TrimSpace(index.Text) == "" {
			continue
		}
		facet := Facet{Name: strings.TrimSpace(index.Text)}
		for _, term := range field.findAll("term") {
			value := term.find("actualTerm")
			if value == nil || strings.TrimSpace(value.Text) == "" {
				value = term.find("value")
			}
			if value == nil || strings.TrimSpace(value.Text) == "" {
				continue
			}
			count := 0
			if c := term.find("count"); c != nil {
				count, _ = strconv.Atoi(strings.TrimSpace(c.Text))
			}
			facet.Values = append(facet.Values, FacetValue{
				Value: strings.TrimSpace(value.Text),
				Count: count,
			})
		}
		if len(facet.Values) > 0 {
			facets = append(facets, facet)
		}
	}
	return facets
}

// parseScanResponse parses a scan response body.
func parseScanResponse(body, scanClause string, responsePosition int) (*ScanResponse, error) {
	var env scanEnvelope
	if err := decodeBody("scan", body, &env); err != nil {
		return nil, err
	}
	if err := diagnosticError(env.Diagnostics); err != nil {
		return nil, err
	}

	resp := &ScanResponse{ScanClause: scanClause, ResponsePosition: responsePosition}
	for _, t := range env.Terms {
		value := strings.TrimSpace(t.Value)
		if value == "" {
			continue
		}
		count, _ := strconv.Atoi(strings.TrimSpace(t.NumberOfRecords))
		resp.Terms = append(resp.Terms, ScanTerm{
			Value:           value,
			NumberOfRecords: count,
			DisplayTerm:     strings.TrimSpace(t.DisplayTerm),
			ExtraData:       strings.TrimSpace(t.ExtraTermData),
		})
	}
	return resp, nil
}

// parseExplainResponse parses an explain response body. The explain record
// nests a zr:explain document inside the SRU envelope; both the 2.0 and 2.1
// explain namespaces are accepted since traversal goes by local name.
func parseExplainResponse(body string) (*ExplainResponse, error) {
	var root xmlNode
	if err := decodeBody("explain", body, &root); err != nil {
		return nil, err
	}

	var diags []diagnosticNode
	for _, d := range root.findAll("diagnostic") {
		diags = append(diags, diagnosticNode{
			URI:     d.childText("uri"),
			Message: d.childText("message"),
			Details: d.childText("details"),
		})
	}
	if err := diagnosticError(diags); err != nil {
		return nil, err
	}

	resp := &ExplainResponse{
		Server:   ServerInfo{Host: "unknown"},
		Database: DatabaseInfo{Title: "Unknown"},
	}

	if server := root.find("serverInfo"); server != nil {
		if host := server.childText("host"); host != "" {
			resp.Server.Host = host
		}
		if port := server.childText("port"); port != "" {
			resp.Server.Port, _ = strconv.Atoi(port)
		}
		resp.Server.Database = server.childText("database")
	}

	if db := root.find("databaseInfo"); db != nil {
		if title := db.childText("title"); title != "" {
			resp.Database.Title = title
		}
		resp.Database.Description = db.childText("description")
		resp.Database.Contact = db.childText("contact")
	}

	if indexInfo := root.find("indexInfo"); indexInfo != nil {
		for _, idx := range indexInfo.findAll("index") {
			title := idx.childText("title")
			m := idx.find("map")
			if m == nil {
				continue
			}
			name := m.child("name")
			if title == "" || name == nil {
				continue
			}
			full := strings.TrimSpace(name.Text)
			if set := name.attr("set"); set != "" {
				full = set + "." + full
			}
			resp.Indices = append(resp.Indices, IndexInfo{
				Title:       title,
				Name:        full,
				Description: idx.childText("description"),
			})
		}
	}

	if schemaInfo := root.find("schemaInfo"); schemaInfo != nil {
		for _, s := range schemaInfo.findAll("schema") {
			identifier := s.attr("identifier")
			name := s.attr("name")
			if identifier == "" {
				identifier = name
			}
			if identifier == "" {
				continue
			}
			if name == "" {
				name = identifier
			}
			resp.Schemas = append(resp.Schemas, SchemaInfo{
				Identifier: identifier,
				Name:       name,
				Title:      s.childText("title"),
			})
		}
	}

	return resp, nil
}
