package sitemapper_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/sitemapper"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := sitemapper.Errorf(sitemapper.ENOTFOUND, "no sitemap for %q", "example.com")

	assert.Equal(t, sitemapper.ENOTFOUND, sitemapper.ErrorCode(err))
	assert.Equal(t, "no sitemap for \"example.com\"", sitemapper.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitemapper.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitemapper.ErrorMessage(nil))
}

func TestErrorCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("locate: %w", sitemapper.Errorf(sitemapper.EUNAVAILABLE, "robots.txt unreachable"))

	assert.Equal(t, sitemapper.EUNAVAILABLE, sitemapper.ErrorCode(err))
	assert.Equal(t, "robots.txt unreachable", sitemapper.ErrorMessage(err))
}

func TestErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, sitemapper.EINTERNAL, sitemapper.ErrorCode(err))
	assert.Equal(t, "Internal error.", sitemapper.ErrorMessage(err))
}
