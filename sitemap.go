package sitemapper

import (
	"context"
	"strings"
	"time"
)

// DefaultUserAgent is sent with every sitemap download request.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36"

// Sitemap error types reported in SitemapError.Type.
const (
	SitemapErrorHTTP               = "HTTPError"
	SitemapErrorNetwork            = "NetworkError"
	SitemapErrorInvalidContentType = "InvalidContentType"
	SitemapErrorParse              = "ParseError"
	SitemapErrorUnknownRoot        = "UnknownRoot"
	SitemapErrorMaxDepth           = "MaxDepthExceeded"
)

// Sitemap is the flattened result of downloading a sitemap and every
// sitemap it references.
type Sitemap struct {
	URL    string         `json:"url"`
	Sites  []string       `json:"sites"`
	Errors []SitemapError `json:"errors"`
}

// SitemapError records a sitemap document that could not be downloaded
// or parsed. Such failures do not abort the rest of the download.
type SitemapError struct {
	Type    string `json:"type"`
	URL     string `json:"url"`
	Retries int    `json:"retries"`
}

// DownloadOptions configures a SitemapDownloader.
type DownloadOptions struct {
	// RejectInvalidContentType treats responses whose media type is neither
	// XML, text nor gzip as failures.
	RejectInvalidContentType bool

	// UserAgent is sent with every request.
	UserAgent string

	// MaxRetries is the number of extra attempts per document.
	MaxRetries int

	// MaxDepth bounds how many sitemap index levels are followed.
	MaxDepth int

	// Timeout applies to each request attempt.
	Timeout time.Duration

	// Concurrency bounds how many child sitemaps of an index are
	// downloaded at once.
	Concurrency int

	// Debug enables per-document debug logging.
	Debug bool
}

// DefaultDownloadOptions returns the fixed configuration used by the API.
func DefaultDownloadOptions() DownloadOptions {
	return DownloadOptions{
		RejectInvalidContentType: true,
		UserAgent:                DefaultUserAgent,
		MaxRetries:               3,
		MaxDepth:                 5,
		Timeout:                  5000 * time.Millisecond,
		Concurrency:              4,
		Debug:                    false,
	}
}

// SitemapDownloader downloads and parses sitemaps.
type SitemapDownloader interface {
	// Download fetches the sitemap at sitemapURL, follows nested sitemap
	// indexes and returns every page URL found.
	//
	// Per-document failures are reported in Sitemap.Errors. An error is
	// returned only if sitemapURL is invalid (EINVALID) or ctx ends.
	Download(ctx context.Context, sitemapURL string) (*Sitemap, error)
}

// ValidateSitemapURL returns an EINVALID error unless v is a string that
// starts with "http".
func ValidateSitemapURL(v any) error {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(s, "http") {
		return Errorf(EINVALID, "Not a valid URL")
	}
	return nil
}
