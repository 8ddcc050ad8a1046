package sru

import "strings"

// fieldExtractor pulls the structured fields out of one record node. Each
// supported schema has its own extractor; dispatch happens once per record
// via extractorFor. Extractors only fill what they can find; absent fields
// stay empty, they are never defaulted.
type fieldExtractor func(n *xmlNode, result *SearchResult)

// extractorFor selects the extractor for a record schema. Formats without a
// structured mapping fall back to keeping the raw payload only.
func extractorFor(format RecordFormat) fieldExtractor {
	switch format {
	case FormatMARCXML, FormatMARCXMLLegacy:
		return extractMARC
	case FormatTurboMARC:
		return extractTurboMARC
	case FormatMODS, FormatMODS36:
		return extractMODS
	case FormatPICA:
		return extractPICA
	case FormatDublinCore:
		return extractDublinCore
	case FormatMADS:
		return extractMADS
	default:
		// ISBD carries a formatted display string, not addressable fields.
		return extractRawOnly
	}
}

func extractRawOnly(n *xmlNode, result *SearchResult) {}

// marcControlfield returns the text of the control field with the given tag.
func marcControlfield(n *xmlNode, tag string) string {
	for _, f := range n.findAll("controlfield") {
		if f.attr("tag") == tag {
			return strings.TrimSpace(f.Text)
		}
	}
	return ""
}

// marcDatafields returns all data fields with the given tag.
func marcDatafields(n *xmlNode, tag string) []*xmlNode {
	var out []*xmlNode
	for _, f := range n.findAll("datafield") {
		if f.attr("tag") == tag {
			out = append(out, f)
		}
	}
	return out
}

// marcSubfield returns the text of the first subfield with the given code.
func marcSubfield(field *xmlNode, code string) string {
	for i := range field.Nodes {
		sub := &field.Nodes[i]
		if sub.XMLName.Local == "subfield" && sub.attr("code") == code {
			return strings.TrimSpace(sub.Text)
		}
	}
	return ""
}

// marcFirstSubfield returns the first non-empty subfield text across a list
// of (tag, code) paths, tried in order.
func marcFirstSubfield(n *xmlNode, paths ...[2]string) string {
	for _, p := range paths {
		for _, field := range marcDatafields(n, p[0]) {
			if v := marcSubfield(field, p[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

// extractMARC handles MARCXML (and the legacy variant, which shares the
// structure). Field paths: 001 record id, 245$a title, 100$a/700$a author,
// 264$c/260$c year, 264$b/260$b publisher, 020$a ISBN, 924 holdings.
func extractMARC(n *xmlNode, result *SearchResult) {
	result.RecordID = marcControlfield(n, "001")
	result.Title = marcFirstSubfield(n, [2]string{"245", "a"})
	result.Author = marcFirstSubfield(n, [2]string{"100", "a"}, [2]string{"700", "a"})
	result.Year = marcFirstSubfield(n, [2]string{"264", "c"}, [2]string{"260", "c"})
	result.Publisher = marcFirstSubfield(n, [2]string{"264", "b"}, [2]string{"260", "b"})
	result.ISBN = marcFirstSubfield(n, [2]string{"020", "a"})
	result.Holdings = extractHoldings(n)
}

// turboSubfield returns the text of the first <s{code}> child of the first
// <d{tag}> field.
func turboSubfield(n *xmlNode, tag, code string) string {
	if field := n.find("d" + tag); field != nil {
		if sub := field.child("s" + code); sub != nil {
			return strings.TrimSpace(sub.Text)
		}
	}
	return ""
}

func turboFirst(n *xmlNode, paths ...[2]string) string {
	for _, p := range paths {
		if v := turboSubfield(n, p[0], p[1]); v != "" {
			return v
		}
	}
	return ""
}

// extractTurboMARC handles TurboMARC, the XSLT-friendly MARC encoding where
// tags and subfield codes are element names (<c001>, <d245><sa>).
func extractTurboMARC(n *xmlNode, result *SearchResult) {
	if cf := n.find("c001"); cf != nil {
		result.RecordID = strings.TrimSpace(cf.Text)
	}
	result.Title = turboFirst(n, [2]string{"245", "a"})
	result.Author = turboFirst(n, [2]string{"100", "a"}, [2]string{"700", "a"})
	result.Year = turboFirst(n, [2]string{"264", "c"}, [2]string{"260", "c"})
	result.Publisher = turboFirst(n, [2]string{"264", "b"}, [2]string{"260", "b"})
	result.ISBN = turboFirst(n, [2]string{"020", "a"})
}

// extractMODS handles MODS and MODS 3.6, which share element paths.
func extractMODS(n *xmlNode, result *SearchResult) {
	if ti := n.find("titleInfo"); ti != nil {
		result.Title = ti.childText("title")
	}
	for _, name := range n.findAll("name") {
		if name.attr("type") == "personal" {
			if part := name.child("namePart"); part != nil {
				result.Author = strings.TrimSpace(part.Text)
				break
			}
		}
	}
	if oi := n.find("originInfo"); oi != nil {
		result.Year = oi.childText("dateIssued")
		result.Publisher = oi.childText("publisher")
	}
	for _, id := range n.findAll("identifier") {
		if id.attr("type") == "isbn" {
			result.ISBN = strings.TrimSpace(id.Text)
			break
		}
	}
	if rid := n.find("recordIdentifier"); rid != nil {
		result.RecordID = strings.TrimSpace(rid.Text)
	}
}

// picaSubfield returns the first subfield text for a PICA field tag.
func picaSubfield(n *xmlNode, tag, code string) string {
	for _, f := range n.findAll("datafield") {
		if f.attr("tag") != tag {
			continue
		}
		for i := range f.Nodes {
			sub := &f.Nodes[i]
			if sub.XMLName.Local == "subfield" && sub.attr("code") == code {
				return strings.TrimSpace(sub.Text)
			}
		}
	}
	return ""
}

// extractPICA handles PICA-XML. Field paths: 003@$0 record id (PPN),
// 021A$a title, 028A$a/$d author, 011@$a year, 033A$n publisher, 004A$0
// ISBN.
func extractPICA(n *xmlNode, result *SearchResult) {
	result.RecordID = picaSubfield(n, "003@", "0")
	result.Title = picaSubfield(n, "021A", "a")
	surname := picaSubfield(n, "028A", "a")
	forename := picaSubfield(n, "028A", "d")
	switch {
	case surname != "" && forename != "":
		result.Author = surname + ", " + forename
	case surname != "":
		result.Author = surname
	}
	result.Year = picaSubfield(n, "011@", "a")
	result.Publisher = picaSubfield(n, "033A", "n")
	result.ISBN = picaSubfield(n, "004A", "0")
}

// extractDublinCore handles simple Dublin Core records.
func extractDublinCore(n *xmlNode, result *SearchResult) {
	get := func(local string) string {
		if c := n.find(local); c != nil {
			return strings.TrimSpace(c.Text)
		}
		return ""
	}
	result.Title = get("title")
	result.Author = get("creator")
	result.Year = get("date")
	result.Publisher = get("publisher")
	result.ISBN = get("identifier")
}

// extractMADS handles MADS authority records; the authoritative label stands
// in for the title.
func extractMADS(n *xmlNode, result *SearchResult) {
	if auth := n.find("authority"); auth != nil {
		if label := auth.find("authoritativeLabel"); label != nil {
			result.Title = strings.TrimSpace(label.Text)
		}
	}
	if rid := n.find("recordIdentifier"); rid != nil {
		result.RecordID = strings.TrimSpace(rid.Text)
	}
}
