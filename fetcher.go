package sitemapper

import "context"

// Fetcher performs plain HTTP requests against target sites.
type Fetcher interface {
	// Exists reports whether url answers with a success (2xx) status.
	// The response body is not read. A transport failure is returned as
	// an error and should be treated as absence by callers that probe.
	Exists(ctx context.Context, url string) (bool, error)

	// Fetch returns the body of url as text.
	// Non-success statuses are returned as EUNAVAILABLE errors.
	Fetch(ctx context.Context, url string) (string, error)
}

// DomainLimiter provides per-domain rate limiting of outbound requests.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
