package sitemapper_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/sitemapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidDomain(t *testing.T) {
	t.Parallel()

	t.Run("accepts well-formed domains", func(t *testing.T) {
		t.Parallel()

		for _, domain := range []string{
			"example.com",
			"sub.example.co.uk",
			"a.io",
			"my-site.example.org",
			"xn--bcher-kva.example",
			"123.example.com",
		} {
			assert.True(t, sitemapper.IsValidDomain(domain), domain)
		}
	})

	t.Run("rejects malformed domains", func(t *testing.T) {
		t.Parallel()

		for _, domain := range []string{
			"",
			"localhost",
			"example",
			"exa mple.com",
			"example..com",
			"-example.com",
			"example-.com",
			".example.com",
			"example.com.",
			"example.c",
			"example.c0m",
			"https://example.com",
			"example.com/sitemap.xml",
			"127.0.0.1",
		} {
			assert.False(t, sitemapper.IsValidDomain(domain), domain)
		}
	})

	t.Run("enforces 63 character label limit", func(t *testing.T) {
		t.Parallel()

		assert.True(t, sitemapper.IsValidDomain(strings.Repeat("a", 63)+".com"))
		assert.False(t, sitemapper.IsValidDomain(strings.Repeat("a", 64)+".com"))
	})

	t.Run("rejects non-string values", func(t *testing.T) {
		t.Parallel()

		for _, v := range []any{nil, 42, 3.14, true, []string{"example.com"}, map[string]any{"domain": "example.com"}} {
			assert.False(t, sitemapper.IsValidDomain(v))
		}
	})
}

func TestValidateDomain(t *testing.T) {
	t.Parallel()

	t.Run("returns nil for valid domain", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, sitemapper.ValidateDomain("example.com"))
	})

	t.Run("returns EINVALID for malformed domain", func(t *testing.T) {
		t.Parallel()

		err := sitemapper.ValidateDomain("not a domain")

		require.Error(t, err)
		assert.Equal(t, sitemapper.EINVALID, sitemapper.ErrorCode(err))
		assert.Contains(t, sitemapper.ErrorMessage(err), "not a domain")
	})
}
