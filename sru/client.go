package sru

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the official SWB SRU endpoint.
const DefaultBaseURL = "https://sru.k10plus.de/swb"

const defaultUserAgent = "swb-go-client/1.0 (+https://github.com/jvanvinkenroye/swb)"

// Client talks to one SRU endpoint. It reuses a single HTTP session across
// sequential calls; it is not safe for unsynchronized concurrent use, so
// concurrent callers should use separate clients.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
	sru20      bool

	closeOnce sync.Once
}

// NewClient creates a client for the given SRU endpoint. An empty baseURL
// selects the default SWB endpoint.
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &ValidationError{Param: "baseURL", Value: baseURL, Reason: "must be a valid http(s) URL"}
	}

	options := &clientOptions{
		timeout:   30 * time.Second,
		userAgent: defaultUserAgent,
		sru20:     true,
	}
	for _, opt := range opts {
		opt(options)
	}

	client := &Client{
		baseURL:    baseURL,
		apiKey:     options.apiKey,
		userAgent:  options.userAgent,
		httpClient: options.httpClient,
		logger:     logger,
		sru20:      options.sru20,
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: options.timeout}
	}
	if options.rateLimit > 0 {
		client.limiter = rate.NewLimiter(rate.Limit(options.rateLimit), 1)
	}

	return client, nil
}

// BaseURL returns the endpoint this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// SupportsSRU20 reports whether the endpoint accepts SRU 2.0 requests.
func (c *Client) SupportsSRU20() bool { return c.sru20 }

// Search queries the catalog with CQL syntax. When opts.Index is set the
// query is wrapped into an index-scoped clause; otherwise it is passed
// through uninterpreted.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error) {
	req, err := buildSearchRequest(query, opts, c.sru20)
	if err != nil {
		return nil, err
	}

	if len(opts.Facets) > 0 && !c.sru20 {
		c.logger.Debug().
			Strs("facets", opts.Facets).
			Msg("Endpoint does not support SRU 2.0, omitting facet request")
	}
	for _, w := range req.warnings {
		c.logger.Warn().Msg(w)
	}

	c.logger.Info().Str("query", req.cql).Msg("Searching catalog")

	body, err := c.get(ctx, "search", req.params)
	if err != nil {
		return nil, err
	}

	resp, err := parseSearchResponse(body, req.cql, opts.Format.orDefault(), req.facets)
	if err != nil {
		return nil, err
	}
	resp.Warnings = append(req.warnings, resp.Warnings...)

	c.logger.Debug().
		Int("total", resp.TotalResults).
		Int("returned", len(resp.Results)).
		Msg("Parsed search response")
	return resp, nil
}

// orDefault resolves the zero value to the default schema, mirroring what
// request building does, so the response echo matches the effective request.
func (f RecordFormat) orDefault() RecordFormat {
	if f == "" {
		return FormatMARCXML
	}
	return f
}

// SearchByISBN looks up records by ISBN. Hyphens and spaces are stripped
// before the query is built; the ISBN index stores bare digits.
func (c *Client) SearchByISBN(ctx context.Context, isbn string, opts SearchOptions) (*SearchResponse, error) {
	id := normalizeIdentifier(isbn)
	if id == "" {
		return nil, &ValidationError{Param: "isbn", Value: isbn, Reason: "must not be empty"}
	}
	opts.Index = IndexISBN
	return c.Search(ctx, id, opts)
}

// SearchByISSN looks up periodicals by ISSN. Formatting separators are
// stripped the same way as for ISBN lookups.
func (c *Client) SearchByISSN(ctx context.Context, issn string, opts SearchOptions) (*SearchResponse, error) {
	id := normalizeIdentifier(issn)
	if id == "" {
		return nil, &ValidationError{Param: "issn", Value: issn, Reason: "must not be empty"}
	}
	opts.Index = IndexISSN
	return c.Search(ctx, id, opts)
}

// SearchRelated finds records related to the given PPN: volumes of a
// multi-volume work, parent records, or thesaurus links, depending on the
// relation type. recordType defaults to bibliographic records.
func (c *Client) SearchRelated(ctx context.Context, ppn string, relation RelationType, recordType RecordType, opts SearchOptions) (*SearchResponse, error) {
	cql, err := buildRelatedQuery(ppn, relation, recordType)
	if err != nil {
		return nil, err
	}
	// The relation clause is complete CQL already.
	opts.Index = ""

	c.logger.Info().
		Str("ppn", ppn).
		Str("relation", relation.String()).
		Msg("Searching for related records")
	return c.Search(ctx, cql, opts)
}

// Scan browses index terms, e.g. for auto-completion. The clause follows an
// index=value shape such as "pica.per=Goe".
func (c *Client) Scan(ctx context.Context, scanClause string, responsePosition, maximumTerms int) (*ScanResponse, error) {
	params, err := buildScanRequest(scanClause, responsePosition, maximumTerms)
	if err != nil {
		return nil, err
	}
	if responsePosition < 1 {
		responsePosition = 1
	}

	c.logger.Info().Str("clause", scanClause).Msg("Scanning index")

	body, err := c.get(ctx, "scan", params)
	if err != nil {
		return nil, err
	}
	return parseScanResponse(body, scanClause, responsePosition)
}

// Explain retrieves the server's capability record: available indices and
// supported record schemas.
func (c *Client) Explain(ctx context.Context) (*ExplainResponse, error) {
	c.logger.Info().Msg("Fetching server explain record")

	body, err := c.get(ctx, "explain", buildExplainRequest())
	if err != nil {
		return nil, err
	}
	return parseExplainResponse(body)
}

// get performs one HTTP GET round-trip and returns the raw body. Transport
// and HTTP-status failures are classified here so that callers see the same
// error taxonomy regardless of where a failure originated.
func (c *Client) get(ctx context.Context, op string, params url.Values) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &TransportError{Op: op, URL: c.baseURL, Err: err}
		}
	}

	requestURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", &TransportError{Op: op, URL: c.baseURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/xml")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug().Str("url", requestURL).Msg("Issuing SRU request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Op: op, URL: c.baseURL, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Op: op, URL: c.baseURL, Timeout: isTimeout(err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{
			StatusCode: resp.StatusCode,
			URL:        c.baseURL,
			Body:       snippet(string(body)),
		}
		switch {
		case statusErr.IsAccessDenied():
			statusErr.Suggestion = fmt.Sprintf(
				"access denied by %s; the server may require authentication or block your network, try another catalog profile (e.g. --profile k10plus or --profile dnb)",
				c.baseURL)
		case statusErr.IsServerError():
			statusErr.Suggestion = "server-side error, likely transient"
		}
		c.logger.Error().Int("status", resp.StatusCode).Str("op", op).Msg("SRU request failed")
		return "", statusErr
	}

	return string(body), nil
}

// isTimeout reports whether a transport error was caused by a deadline.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Close releases the underlying HTTP session. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.httpClient.CloseIdleConnections()
	})
}
