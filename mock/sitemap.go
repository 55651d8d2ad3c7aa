package mock

import (
	"context"

	"github.com/fwojciec/sitemapper"
)

var _ sitemapper.SitemapDownloader = (*SitemapDownloader)(nil)

// SitemapDownloader is a mock implementation of sitemapper.SitemapDownloader.
type SitemapDownloader struct {
	DownloadFn func(ctx context.Context, sitemapURL string) (*sitemapper.Sitemap, error)
}

func (d *SitemapDownloader) Download(ctx context.Context, sitemapURL string) (*sitemapper.Sitemap, error) {
	return d.DownloadFn(ctx, sitemapURL)
}
