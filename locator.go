package sitemapper

import "context"

// SitemapLocator finds the sitemap of a site when only its domain is known.
type SitemapLocator interface {
	// LocateSitemap returns the URL of the sitemap for domain.
	//
	// Well-known sitemap paths are tried first, in priority order, then the
	// Sitemap directive of the site's robots.txt. Returns EINVALID if domain
	// is malformed (no request is made), EUNAVAILABLE if robots.txt cannot
	// be fetched and ENOTFOUND if robots.txt names no sitemap.
	LocateSitemap(ctx context.Context, domain string) (string, error)
}
