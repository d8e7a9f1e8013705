package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/sitecorpus"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (*sitecorpus.Page, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// RetryDelays returns n exponential backoff delays starting at base
// (base, 2*base, 4*base, ...). Zero n means a single attempt.
func RetryDelays(n int, base time.Duration) []time.Duration {
	if n <= 0 {
		return nil
	}
	delays := make([]time.Duration, n)
	d := base
	for i := range delays {
		delays[i] = d
		d *= 2
	}
	return delays
}

// Retryable reports whether err is a transport failure worth retrying.
// Pages that were received, whatever their status, are never retried.
func Retryable(err error) bool {
	return sitecorpus.ErrorCode(err) == sitecorpus.EUNAVAILABLE
}

// FetchWithRetryDelays calls fetch, retrying retryable failures once per
// entry in delays after waiting that long. The logger, if provided, is
// called for each retry attempt.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (*sitecorpus.Page, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		page, err := fetch(ctx, url)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || !Retryable(err) {
			break
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
