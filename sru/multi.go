package sru

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// maxCatalogConcurrency bounds parallel requests when fanning out one query
// across several catalogs.
const maxCatalogConcurrency = 4

// Endpoint identifies one catalog endpoint for a fan-out search.
type Endpoint struct {
	// Name is a short label used in results (e.g. a profile name).
	Name string
	// BaseURL is the SRU endpoint URL.
	BaseURL string
	// SRU20 states whether the endpoint supports SRU 2.0.
	SRU20 bool
}

// CatalogResult is the outcome of one catalog in a fan-out search. Either
// Response or Err is set.
type CatalogResult struct {
	Endpoint Endpoint
	Response *SearchResponse
	Err      error
}

// SearchAll runs the same query against several catalogs concurrently and
// returns one result per endpoint, in input order. A failing catalog does
// not abort the others; its failure is recorded in its result slot.
func SearchAll(ctx context.Context, endpoints []Endpoint, query string, opts SearchOptions, logger zerolog.Logger) []CatalogResult {
	results := make([]CatalogResult, len(endpoints))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxCatalogConcurrency)

	for i, ep := range endpoints {
		i, ep := i, ep
		results[i].Endpoint = ep

		g.Go(func() error {
			client, err := NewClient(ep.BaseURL, logger, WithSRU20(ep.SRU20))
			if err != nil {
				results[i].Err = err
				return nil
			}
			defer client.Close()

			resp, err := client.Search(ctx, query, opts)
			if err != nil {
				logger.Warn().Err(err).Str("catalog", ep.Name).Msg("Catalog search failed")
				results[i].Err = err
				return nil
			}
			results[i].Response = resp
			return nil
		})
	}

	// Goroutines never return errors; Wait only synchronizes.
	_ = g.Wait()
	return results
}
