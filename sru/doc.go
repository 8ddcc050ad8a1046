// Package sru implements a client for SRU (Search/Retrieve via URL), the
// HTTP GET based search protocol spoken by German library union catalogs
// such as SWB, K10plus and GVK.
//
// The package covers the SRU operations searchRetrieve, scan and explain,
// plus the K10plus related-record search, and parses the XML responses into
// typed results.
//
// # Usage
//
// Create a client for an endpoint and search:
//
//	logger := zerolog.New(os.Stderr)
//	client, err := sru.NewClient(sru.DefaultBaseURL, logger,
//		sru.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	resp, err := client.Search(ctx, "Goethe", sru.SearchOptions{
//		Index:          sru.IndexAuthor,
//		MaximumRecords: 20,
//		SortBy:         sru.SortYear,
//	})
//
// # Record schemas
//
// Results can be requested in several schemas (MARCXML, TurboMARC, MODS,
// PICA-XML, Dublin Core, ISBD, MADS). Structured fields (title, author,
// year, publisher, ISBN) are extracted per schema on a best-effort basis;
// the raw XML fragment of every record is always retained in
// SearchResult.RawData, even when field extraction finds nothing.
//
// # Error handling
//
// Failures are classified into a small taxonomy so that callers handle one
// surface regardless of where a failure originated:
//
//   - ValidationError: bad parameters, raised before any network call
//   - TransportError: connection or timeout failures (wraps ErrTimeout)
//   - StatusError: non-2xx HTTP responses, with access-denied guidance
//   - ErrEmptyResponse: zero-length or whitespace-only body
//   - ParseError: body is not well-formed XML
//   - DiagnosticError: the protocol's own error envelope
//
// Internally inconsistent but readable responses are not errors: the parser
// returns what it could extract and notes the gaps in
// SearchResponse.Warnings. No failure is retried automatically; retry policy
// belongs to the caller.
package sru
