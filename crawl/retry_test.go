package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noDelays = []time.Duration{0, 0, 0}

func unavailable() error {
	return sitecorpus.Errorf(sitecorpus.EUNAVAILABLE, "connection reset")
}

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	t.Run("succeeds on first attempt", func(t *testing.T) {
		t.Parallel()

		var attempts int
		fetch := func(ctx context.Context, url string) (*sitecorpus.Page, error) {
			attempts++
			return &sitecorpus.Page{URL: url, StatusCode: 200}, nil
		}

		page, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, noDelays)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", page.URL)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries transport failures and succeeds", func(t *testing.T) {
		t.Parallel()

		var attempts int
		fetch := func(ctx context.Context, url string) (*sitecorpus.Page, error) {
			attempts++
			if attempts < 4 {
				return nil, unavailable()
			}
			return &sitecorpus.Page{URL: url, StatusCode: 200}, nil
		}

		page, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, noDelays)

		require.NoError(t, err)
		assert.Equal(t, 200, page.StatusCode)
		assert.Equal(t, 4, attempts)
	})

	t.Run("returns error after max retries", func(t *testing.T) {
		t.Parallel()

		var attempts int
		fetch := func(ctx context.Context, url string) (*sitecorpus.Page, error) {
			attempts++
			return nil, unavailable()
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, noDelays)

		require.Error(t, err)
		assert.Equal(t, sitecorpus.EUNAVAILABLE, sitecorpus.ErrorCode(err))
		assert.Equal(t, 4, attempts)
	})

	t.Run("does not retry non-transport errors", func(t *testing.T) {
		t.Parallel()

		var attempts int
		fetch := func(ctx context.Context, url string) (*sitecorpus.Page, error) {
			attempts++
			return nil, errors.New("bad document")
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, noDelays)

		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("no delays means a single attempt", func(t *testing.T) {
		t.Parallel()

		var attempts int
		fetch := func(ctx context.Context, url string) (*sitecorpus.Page, error) {
			attempts++
			return nil, unavailable()
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, nil)

		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())

		var attempts int
		fetch := func(ctx context.Context, url string) (*sitecorpus.Page, error) {
			attempts++
			cancel()
			return nil, unavailable()
		}

		_, err := crawl.FetchWithRetryDelays(ctx, "https://example.com", fetch, nil, []time.Duration{time.Hour})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	})

	t.Run("logs retry attempts", func(t *testing.T) {
		t.Parallel()

		var attempts int
		fetch := func(ctx context.Context, url string) (*sitecorpus.Page, error) {
			attempts++
			if attempts < 4 {
				return nil, unavailable()
			}
			return &sitecorpus.Page{URL: url}, nil
		}

		var logs []string
		logger := func(format string, args ...any) {
			logs = append(logs, format)
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com/page", fetch, logger, noDelays)

		require.NoError(t, err)
		assert.Len(t, logs, 3, "should log 3 retries")
	})
}

func TestRetryDelays(t *testing.T) {
	t.Parallel()

	assert.Nil(t, crawl.RetryDelays(0, time.Second))
	assert.Equal(t,
		[]time.Duration{time.Second, 2 * time.Second, 4 * time.Second},
		crawl.RetryDelays(3, time.Second))
}
