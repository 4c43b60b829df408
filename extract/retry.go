package extract

import (
	"context"
	"time"

	"github.com/fwojciec/markscrape"
)

// FetchFunc fetches the markup at url.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc receives printf-style progress messages.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the waits between fetch attempts: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry calls fetch until it succeeds, waiting delays[i] before
// attempt i+2, so there are at most len(delays)+1 attempts. A nil delays
// slice uses DefaultRetryDelays. Only ENETWORK failures are retried; any
// other error is returned at once. logf, if non-nil, is told about every
// retry.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logf LogFunc, delays []time.Duration) (string, error) {
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	for attempt := 0; ; attempt++ {
		markup, err := fetch(ctx, url)
		switch {
		case err == nil:
			return markup, nil
		case attempt == len(delays), markscrape.ErrorCode(err) != markscrape.ENETWORK:
			return "", err
		case ctx.Err() != nil:
			return "", ctx.Err()
		}

		if logf != nil {
			logf("retry %s (attempt %d): %v", url, attempt+2, markscrape.ErrorMessage(err))
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}
