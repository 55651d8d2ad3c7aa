// Package http implements sitemap discovery probes, the recursive sitemap
// downloader and the JSON API on top of net/http.
package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/sitemapper"
)

const (
	// MaxFetchBytes caps bodies returned by Fetch. It matches the robots.txt
	// size limit Google applies; content past it is ignored.
	MaxFetchBytes = 500 << 10

	// maxDrainBytes is read from an unused probe body so the connection can
	// be reused for the next candidate.
	maxDrainBytes = 4 << 10
)

// Ensure Fetcher implements sitemapper.Fetcher at compile time.
var _ sitemapper.Fetcher = (*Fetcher)(nil)

// Fetcher issues plain GET requests to target sites.
// By default no timeout is applied; see WithTimeout.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	limiter   sitemapper.DomainLimiter
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithLimiter throttles requests per host.
func WithLimiter(l sitemapper.DomainLimiter) Option {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// WithClient sets the underlying HTTP client. The timeout option is ignored
// when a client is supplied.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// Exists reports whether url answers a GET with a 2xx status.
// The body is discarded unread.
func (f *Fetcher) Exists(ctx context.Context, url string) (bool, error) {
	resp, err := f.get(ctx, url)
	if err != nil {
		return false, err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
	resp.Body.Close()

	return isSuccess(resp.StatusCode), nil
}

// Fetch returns the body of url as text, truncated to MaxFetchBytes.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", sitemapper.Errorf(sitemapper.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchBytes))
	if err != nil {
		return "", err
	}

	return string(body), nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := waitForHost(ctx, f.limiter, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	return f.client.Do(req)
}

// waitForHost blocks on the limiter for the host of rawURL.
// A nil limiter never blocks.
func waitForHost(ctx context.Context, limiter sitemapper.DomainLimiter, rawURL string) error {
	if limiter == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	return limiter.Wait(ctx, u.Host)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
