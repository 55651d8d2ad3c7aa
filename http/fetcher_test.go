package http_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/sitemapper"
	sitemapperhttp "github.com/fwojciec/sitemapper/http"
	"github.com/fwojciec/sitemapper/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Exists(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			_, _ = w.Write([]byte("<urlset/>"))
		case "/created":
			w.WriteHeader(http.StatusNoContent)
		case "/moved":
			http.Redirect(w, r, "/sitemap.xml", http.StatusMovedPermanently)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	fetcher := sitemapperhttp.NewFetcher(sitemapperhttp.WithClient(srv.Client()))

	t.Run("true for 200", func(t *testing.T) {
		t.Parallel()

		ok, err := fetcher.Exists(context.Background(), srv.URL+"/sitemap.xml")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("true for other 2xx", func(t *testing.T) {
		t.Parallel()

		ok, err := fetcher.Exists(context.Background(), srv.URL+"/created")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("follows redirects", func(t *testing.T) {
		t.Parallel()

		ok, err := fetcher.Exists(context.Background(), srv.URL+"/moved")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("false for 404", func(t *testing.T) {
		t.Parallel()

		ok, err := fetcher.Exists(context.Background(), srv.URL+"/missing.xml")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("error for non-existent host", func(t *testing.T) {
		t.Parallel()

		f := sitemapperhttp.NewFetcher(sitemapperhttp.WithTimeout(100 * time.Millisecond))
		_, err := f.Exists(context.Background(), "http://non-existent-host.invalid/sitemap.xml")
		require.Error(t, err)
	})
}

func TestFetcher_Exists_ReusesConnection(t *testing.T) {
	t.Parallel()

	var dials atomic.Int64
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/sitemap.xml" {
			_, _ = w.Write([]byte(strings.Repeat("<url/>", 100)))
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	}))
	srv.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateNew {
			dials.Add(1)
		}
	}
	srv.Start()
	t.Cleanup(srv.Close)

	fetcher := sitemapperhttp.NewFetcher(sitemapperhttp.WithClient(srv.Client()))

	const probes = 10
	for i := 0; i < probes; i++ {
		path := "/missing.xml"
		if i%2 == 0 {
			path = "/sitemap.xml"
		}
		_, err := fetcher.Exists(context.Background(), srv.URL+path)
		require.NoError(t, err)
	}

	assert.Less(t, dials.Load(), int64(probes), "drained responses leave the connection reusable")
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("truncates oversized bodies", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			chunk := []byte(strings.Repeat("Disallow: /private/\n", 1024))
			for written := 0; written < 4*sitemapperhttp.MaxFetchBytes; written += len(chunk) {
				if _, err := w.Write(chunk); err != nil {
					return
				}
			}
		}))
		t.Cleanup(srv.Close)

		fetcher := sitemapperhttp.NewFetcher()
		body, err := fetcher.Fetch(context.Background(), srv.URL+"/robots.txt")

		require.NoError(t, err)
		assert.Len(t, body, sitemapperhttp.MaxFetchBytes)
		assert.True(t, strings.HasPrefix(body, "Disallow: /private/\n"))
	})

	t.Run("returns body from server", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("User-agent: *\nSitemap: https://example.com/s.xml\n"))
		}))
		defer srv.Close()

		fetcher := sitemapperhttp.NewFetcher()
		body, err := fetcher.Fetch(context.Background(), srv.URL+"/robots.txt")

		require.NoError(t, err)
		assert.Equal(t, "User-agent: *\nSitemap: https://example.com/s.xml\n", body)
	})

	t.Run("returns EUNAVAILABLE for non-success status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		fetcher := sitemapperhttp.NewFetcher()
		_, err := fetcher.Fetch(context.Background(), srv.URL+"/robots.txt")

		require.Error(t, err)
		assert.Equal(t, sitemapper.EUNAVAILABLE, sitemapper.ErrorCode(err))
		assert.Contains(t, sitemapper.ErrorMessage(err), "HTTP 404")
	})

	t.Run("sends configured user agent", func(t *testing.T) {
		t.Parallel()

		got := make(chan string, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got <- r.UserAgent()
		}))
		defer srv.Close()

		fetcher := sitemapperhttp.NewFetcher(sitemapperhttp.WithUserAgent("sitemapper-test/1.0"))
		_, err := fetcher.Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "sitemapper-test/1.0", <-got)
	})

	t.Run("waits on limiter with request host", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		var hosts []string
		limiter := &mock.DomainLimiter{
			WaitFn: func(ctx context.Context, domain string) error {
				hosts = append(hosts, domain)
				return nil
			},
		}

		fetcher := sitemapperhttp.NewFetcher(sitemapperhttp.WithLimiter(limiter))
		_, err := fetcher.Fetch(context.Background(), srv.URL+"/robots.txt")

		require.NoError(t, err)
		assert.Equal(t, []string{strings.TrimPrefix(srv.URL, "http://")}, hosts)
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer srv.Close()

		fetcher := sitemapperhttp.NewFetcher(sitemapperhttp.WithTimeout(10 * time.Millisecond))
		_, err := fetcher.Fetch(context.Background(), srv.URL)

		require.Error(t, err)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("response"))
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		fetcher := sitemapperhttp.NewFetcher()
		_, err := fetcher.Fetch(ctx, srv.URL)

		require.ErrorIs(t, err, context.Canceled)
	})
}
