package http

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/sitemapper"
	"github.com/fwojciec/sitemapper/bloom"
	"golang.org/x/net/html/charset"
	"golang.org/x/sync/errgroup"
)

// Ensure SitemapDownloader implements sitemapper.SitemapDownloader.
var _ sitemapper.SitemapDownloader = (*SitemapDownloader)(nil)

const (
	// maxSitemapBytes is the uncompressed size cap from the sitemaps.org protocol.
	maxSitemapBytes = 50 << 20

	visitedCapacity = 10000
	visitedFPRate   = 0.0001
)

// DefaultRetryDelay is the pause between attempts on the same document.
const DefaultRetryDelay = 250 * time.Millisecond

// SitemapDownloader downloads sitemaps over HTTP and resolves sitemap
// indexes recursively.
type SitemapDownloader struct {
	client *http.Client
	opts   sitemapper.DownloadOptions

	// Limiter throttles requests per host. Optional.
	Limiter sitemapper.DomainLimiter

	// Logger receives per-document records when DownloadOptions.Debug is set.
	Logger *slog.Logger

	// RetryDelay is waited between attempts on the same document.
	// Defaults to DefaultRetryDelay.
	RetryDelay time.Duration
}

// NewSitemapDownloader creates a new SitemapDownloader with the given HTTP
// client and options. If client is nil, http.DefaultClient is used.
func NewSitemapDownloader(client *http.Client, opts sitemapper.DownloadOptions) *SitemapDownloader {
	if client == nil {
		client = http.DefaultClient
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &SitemapDownloader{client: client, opts: opts, RetryDelay: DefaultRetryDelay}
}

// Download fetches the sitemap at sitemapURL and every sitemap it references.
// Sites are returned in document order, depth first.
func (d *SitemapDownloader) Download(ctx context.Context, sitemapURL string) (*sitemapper.Sitemap, error) {
	if err := sitemapper.ValidateSitemapURL(sitemapURL); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	visited := bloom.NewSet(visitedCapacity, visitedFPRate)
	result := d.crawl(ctx, sitemapURL, 0, visited)

	// A canceled download is a fault, not a partial result.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sm := &sitemapper.Sitemap{
		URL:    sitemapURL,
		Sites:  result.sites,
		Errors: result.errors,
	}
	if sm.Sites == nil {
		sm.Sites = []string{}
	}
	if sm.Errors == nil {
		sm.Errors = []sitemapper.SitemapError{}
	}
	return sm, nil
}

// crawlResult accumulates the outcome of one sitemap subtree.
type crawlResult struct {
	sites  []string
	errors []sitemapper.SitemapError
}

func (r *crawlResult) merge(other crawlResult) {
	r.sites = append(r.sites, other.sites...)
	r.errors = append(r.errors, other.errors...)
}

// crawl downloads loc and, if it is an index, its children at depth+1.
func (d *SitemapDownloader) crawl(ctx context.Context, loc string, depth int, visited *bloom.Set) crawlResult {
	if !visited.Visit(loc) {
		return crawlResult{}
	}

	var doc *document
	retries, err := retry(ctx, d.opts.MaxRetries, d.RetryDelay, isRetryable, func(ctx context.Context) error {
		var err error
		doc, err = d.fetchDocument(ctx, loc)
		return err
	})
	d.debug("sitemap document", loc, depth, doc, retries, visited.Len(), err)
	if err != nil {
		return crawlResult{errors: []sitemapper.SitemapError{{
			Type:    errorType(err),
			URL:     loc,
			Retries: retries,
		}}}
	}

	if doc.kind == documentIndex {
		return d.crawlChildren(ctx, doc.locs, depth+1, visited)
	}
	return crawlResult{sites: doc.locs}
}

// crawlChildren downloads the sitemaps of an index concurrently and merges
// their results in document order.
func (d *SitemapDownloader) crawlChildren(ctx context.Context, locs []string, depth int, visited *bloom.Set) crawlResult {
	var result crawlResult

	if depth > d.opts.MaxDepth {
		for _, loc := range locs {
			result.errors = append(result.errors, sitemapper.SitemapError{
				Type: sitemapper.SitemapErrorMaxDepth,
				URL:  loc,
			})
		}
		return result
	}

	results := make([]crawlResult, len(locs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Concurrency)
	for i, loc := range locs {
		g.Go(func() error {
			results[i] = d.crawl(gctx, loc, depth, visited)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		result.merge(r)
	}
	return result
}

type documentKind int

const (
	documentURLSet documentKind = iota
	documentIndex
)

// document is a parsed sitemap: page URLs for a urlset or text sitemap,
// child sitemap URLs for an index.
type document struct {
	kind documentKind
	locs []string
}

// fetchDocument performs a single attempt at downloading and parsing loc.
func (d *SitemapDownloader) fetchDocument(ctx context.Context, loc string) (*document, error) {
	if err := waitForHost(ctx, d.Limiter, loc); err != nil {
		return nil, &downloadError{kind: sitemapper.SitemapErrorNetwork, err: err}
	}

	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, &downloadError{kind: sitemapper.SitemapErrorNetwork, err: err}
	}
	if d.opts.UserAgent != "" {
		req.Header.Set("User-Agent", d.opts.UserAgent)
	}
	req.Header.Set("Accept", "application/xml, text/xml, text/plain;q=0.9, */*;q=0.8")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &downloadError{kind: sitemapper.SitemapErrorNetwork, err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, &downloadError{
			kind:   sitemapper.SitemapErrorHTTP,
			status: resp.StatusCode,
			err:    fmt.Errorf("HTTP %d for %s", resp.StatusCode, loc),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if d.opts.RejectInvalidContentType && !acceptableContentType(contentType, loc) {
		return nil, &downloadError{
			kind: sitemapper.SitemapErrorInvalidContentType,
			err:  fmt.Errorf("content type %q for %s", contentType, loc),
		}
	}

	body, err := readBody(resp.Body)
	if err != nil {
		return nil, &downloadError{kind: sitemapper.SitemapErrorNetwork, err: err}
	}

	return parseDocument(body)
}

// acceptableContentType reports whether a response may hold a sitemap.
// A missing header is accepted and left to the parser.
func acceptableContentType(contentType, loc string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch {
	case strings.Contains(mediaType, "xml"),
		strings.HasPrefix(mediaType, "text/"),
		strings.Contains(mediaType, "gzip"):
		return true
	case mediaType == "application/octet-stream":
		return strings.HasSuffix(strings.ToLower(loc), ".gz")
	}
	return false
}

// readBody reads at most maxSitemapBytes, transparently inflating gzip
// payloads that the transport did not already decode.
func readBody(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(io.LimitReader(r, maxSitemapBytes))
	magic, _ := br.Peek(2)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(io.LimitReader(zr, maxSitemapBytes))
	}
	return io.ReadAll(br)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// parseDocument parses an XML urlset or sitemapindex, or a plain-text
// sitemap listing one URL per line.
func parseDocument(body []byte) (*document, error) {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(body, utf8BOM), " \t\r\n")
	if len(trimmed) == 0 {
		return nil, &downloadError{kind: sitemapper.SitemapErrorParse, err: errors.New("empty sitemap")}
	}
	if trimmed[0] != '<' {
		return parseTextSitemap(trimmed), nil
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(trimmed); err != nil {
		return nil, &downloadError{kind: sitemapper.SitemapErrorParse, err: fmt.Errorf("parsing sitemap XML: %w", err)}
	}

	root := doc.Root()
	if root == nil {
		return nil, &downloadError{kind: sitemapper.SitemapErrorParse, err: errors.New("empty sitemap XML")}
	}

	switch root.Tag {
	case "urlset":
		return &document{kind: documentURLSet, locs: childLocs(root, "url")}, nil
	case "sitemapindex":
		return &document{kind: documentIndex, locs: childLocs(root, "sitemap")}, nil
	default:
		return nil, &downloadError{
			kind: sitemapper.SitemapErrorUnknownRoot,
			err:  fmt.Errorf("unknown sitemap root element <%s>", root.Tag),
		}
	}
}

// childLocs returns the trimmed, non-empty <loc> text of each tag child.
func childLocs(root *etree.Element, tag string) []string {
	var locs []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		u := strings.TrimSpace(loc.Text())
		if u != "" {
			locs = append(locs, u)
		}
	}
	return locs
}

// parseTextSitemap reads one absolute URL per line. Other lines are ignored.
func parseTextSitemap(body []byte) *document {
	doc := &document{kind: documentURLSet}
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			doc.locs = append(doc.locs, line)
		}
	}
	return doc
}

func (d *SitemapDownloader) debug(msg, loc string, depth int, doc *document, retries, visited int, err error) {
	if !d.opts.Debug || d.Logger == nil {
		return
	}
	count := 0
	if doc != nil {
		count = len(doc.locs)
	}
	d.Logger.Debug(msg,
		"url", loc,
		"depth", depth,
		"count", count,
		"retries", retries,
		"visited", visited,
		"err", err,
	)
}

// downloadError classifies a failed document attempt by SitemapError type.
type downloadError struct {
	kind   string
	status int // HTTP status for SitemapErrorHTTP
	err    error
}

func (e *downloadError) Error() string {
	return e.kind + ": " + e.err.Error()
}

func (e *downloadError) Unwrap() error {
	return e.err
}

// isRetryable reports whether another attempt could change the outcome:
// transport failures, 429 and 5xx responses. Parse and content-type
// failures are deterministic.
func isRetryable(err error) bool {
	var de *downloadError
	if !errors.As(err, &de) {
		return true
	}
	switch de.kind {
	case sitemapper.SitemapErrorNetwork:
		return true
	case sitemapper.SitemapErrorHTTP:
		return de.status == http.StatusTooManyRequests || de.status >= 500
	}
	return false
}

func errorType(err error) string {
	var de *downloadError
	if errors.As(err, &de) {
		return de.kind
	}
	return sitemapper.SitemapErrorNetwork
}
