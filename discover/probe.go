// Package discover locates a site's sitemap from its bare domain name.
package discover

import (
	"context"

	"github.com/fwojciec/sitemapper"
)

// Check is a lazily evaluated attempt that reports whether it succeeded.
type Check[T any] func(ctx context.Context) (T, bool)

// FirstSuccess evaluates checks one at a time, in order, and returns the
// value of the first one that succeeds. Checks after it are never run.
//
// The bool result is false if no check succeeded. If ctx ends, evaluation
// stops and ctx.Err() is returned.
func FirstSuccess[T any](ctx context.Context, checks []Check[T]) (T, bool, error) {
	var zero T
	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			return zero, false, err
		}
		if v, ok := check(ctx); ok {
			return v, true, nil
		}
	}
	return zero, false, ctx.Err()
}

// Probe requests each candidate URL in order and returns the first one that
// answers with a success status. A transport failure on a candidate counts
// as absence and the probe moves on without retrying.
//
// Returns ENOTFOUND if every candidate fails.
func Probe(ctx context.Context, fetcher sitemapper.Fetcher, urls []string) (string, error) {
	checks := make([]Check[string], len(urls))
	for i, u := range urls {
		checks[i] = func(ctx context.Context) (string, bool) {
			ok, err := fetcher.Exists(ctx, u)
			return u, err == nil && ok
		}
	}

	found, ok, err := FirstSuccess(ctx, checks)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", sitemapper.Errorf(sitemapper.ENOTFOUND, "no sitemap at %d candidate locations", len(urls))
	}
	return found, nil
}
