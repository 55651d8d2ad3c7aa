package discover

import (
	"context"

	"github.com/fwojciec/sitemapper"
)

// Ensure Service implements sitemapper.SitemapLocator.
var _ sitemapper.SitemapLocator = (*Service)(nil)

// Service locates sitemaps by probing well-known paths and falling back to
// the Sitemap directive in robots.txt.
type Service struct {
	Fetcher sitemapper.Fetcher

	// CandidatePaths are probed in order. Defaults to
	// sitemapper.DefaultCandidatePaths() when nil.
	CandidatePaths []string
}

// NewService creates a Service that probes the default candidate paths.
func NewService(fetcher sitemapper.Fetcher) *Service {
	return &Service{
		Fetcher:        fetcher,
		CandidatePaths: sitemapper.DefaultCandidatePaths(),
	}
}

// LocateSitemap returns the sitemap URL for domain.
//
// Decision flow:
//   - Malformed domain → EINVALID, no request is made
//   - A candidate path answers 2xx → that candidate
//   - robots.txt unreachable or non-2xx → EUNAVAILABLE
//   - robots.txt has no Sitemap directive → ENOTFOUND
//   - Otherwise → the URL named by robots.txt
func (s *Service) LocateSitemap(ctx context.Context, domain string) (string, error) {
	if err := sitemapper.ValidateDomain(domain); err != nil {
		return "", err
	}

	paths := s.CandidatePaths
	if paths == nil {
		paths = sitemapper.DefaultCandidatePaths()
	}

	found, err := Probe(ctx, s.Fetcher, sitemapper.CandidateURLs(domain, paths))
	if err == nil {
		return found, nil
	}
	if sitemapper.ErrorCode(err) != sitemapper.ENOTFOUND {
		return "", err
	}

	robots, err := s.Fetcher.Fetch(ctx, sitemapper.RobotsURL(domain))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", sitemapper.Errorf(sitemapper.EUNAVAILABLE, "Failed to fetch robots.txt from %s: %v", domain, err)
	}

	sitemapURL := sitemapper.ExtractSitemapURL(robots)
	if sitemapURL == "" {
		return "", sitemapper.Errorf(sitemapper.ENOTFOUND, "no Sitemap directive in robots.txt of %s", domain)
	}
	return sitemapURL, nil
}
