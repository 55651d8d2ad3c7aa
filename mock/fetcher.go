package mock

import (
	"context"

	"github.com/fwojciec/sitemapper"
)

var _ sitemapper.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of sitemapper.Fetcher.
type Fetcher struct {
	ExistsFn func(ctx context.Context, url string) (bool, error)
	FetchFn  func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Exists(ctx context.Context, url string) (bool, error) {
	return f.ExistsFn(ctx, url)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}
