package mock

import (
	"context"

	"github.com/fwojciec/sitemapper"
)

var _ sitemapper.SitemapLocator = (*SitemapLocator)(nil)

// SitemapLocator is a mock implementation of sitemapper.SitemapLocator.
type SitemapLocator struct {
	LocateSitemapFn func(ctx context.Context, domain string) (string, error)
}

func (l *SitemapLocator) LocateSitemap(ctx context.Context, domain string) (string, error) {
	return l.LocateSitemapFn(ctx, domain)
}
