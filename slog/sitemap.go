package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitemapper"
)

// Ensure LoggingSitemapLocator implements sitemapper.SitemapLocator.
var _ sitemapper.SitemapLocator = (*LoggingSitemapLocator)(nil)

// LoggingSitemapLocator wraps a SitemapLocator with logging.
type LoggingSitemapLocator struct {
	next   sitemapper.SitemapLocator
	logger *slog.Logger
}

// NewLoggingSitemapLocator creates a new LoggingSitemapLocator.
func NewLoggingSitemapLocator(next sitemapper.SitemapLocator, logger *slog.Logger) *LoggingSitemapLocator {
	return &LoggingSitemapLocator{next: next, logger: logger}
}

// LocateSitemap delegates to the wrapped locator and logs the operation.
func (l *LoggingSitemapLocator) LocateSitemap(ctx context.Context, domain string) (sitemapURL string, err error) {
	defer func(begin time.Time) {
		l.logger.Info("sitemap discovery",
			"domain", domain,
			"url", sitemapURL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.LocateSitemap(ctx, domain)
}

// Ensure LoggingSitemapDownloader implements sitemapper.SitemapDownloader.
var _ sitemapper.SitemapDownloader = (*LoggingSitemapDownloader)(nil)

// LoggingSitemapDownloader wraps a SitemapDownloader with logging.
type LoggingSitemapDownloader struct {
	next   sitemapper.SitemapDownloader
	logger *slog.Logger
}

// NewLoggingSitemapDownloader creates a new LoggingSitemapDownloader.
func NewLoggingSitemapDownloader(next sitemapper.SitemapDownloader, logger *slog.Logger) *LoggingSitemapDownloader {
	return &LoggingSitemapDownloader{next: next, logger: logger}
}

// Download delegates to the wrapped downloader and logs the operation.
func (d *LoggingSitemapDownloader) Download(ctx context.Context, sitemapURL string) (sm *sitemapper.Sitemap, err error) {
	defer func(begin time.Time) {
		var sites, failures int
		if sm != nil {
			sites, failures = len(sm.Sites), len(sm.Errors)
		}
		d.logger.Info("sitemap download",
			"url", sitemapURL,
			"count", sites,
			"errors", failures,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Download(ctx, sitemapURL)
}
