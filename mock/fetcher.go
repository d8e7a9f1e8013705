package mock

import (
	"context"

	"github.com/fwojciec/sitecorpus"
)

var _ sitecorpus.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of sitecorpus.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*sitecorpus.Page, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*sitecorpus.Page, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
