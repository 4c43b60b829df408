package markscrape

import "context"

// Fetcher retrieves raw markup from URLs.
type Fetcher interface {
	// Fetch returns the markup served at url. Failures are reported as
	// ENETWORK. The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (markup string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
