package sru

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout    time.Duration
	httpClient *http.Client
	apiKey     string
	userAgent  string
	rateLimit  float64
	sru20      bool
}

// WithTimeout sets the per-request timeout ceiling.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHTTPClient supplies a custom HTTP client, replacing the default one.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithAPIKey sets a bearer token for endpoints that require authentication.
func WithAPIKey(key string) Option {
	return func(o *clientOptions) {
		o.apiKey = key
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithRateLimit caps outgoing requests to the given number per second.
// Zero (the default) disables rate limiting.
func WithRateLimit(requestsPerSecond float64) Option {
	return func(o *clientOptions) {
		o.rateLimit = requestsPerSecond
	}
}

// WithSRU20 declares whether the endpoint supports SRU 2.0. Facet requests
// are only sent to endpoints that do; against a 1.1-only endpoint they are
// omitted rather than sent and ignored.
func WithSRU20(supported bool) Option {
	return func(o *clientOptions) {
		o.sru20 = supported
	}
}
