// Package rod provides a markscrape.Fetcher that renders pages in headless
// Chrome, for sites that build their markup with JavaScript.
package rod

import (
	"context"
	"time"

	"github.com/fwojciec/markscrape"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements markscrape.Fetcher at compile time.
var _ markscrape.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page render timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called when
// the Fetcher is no longer needed.
//
// Returns ENETWORK if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	// Launch browser using rod's launcher (finds or downloads Chrome)
	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, markscrape.Errorf(markscrape.ENETWORK, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill() // Clean up launched process on connection failure
		return nil, markscrape.Errorf(markscrape.ENETWORK, "connecting to browser: %v", err)
	}

	f.browser = browser
	f.launcher = l
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", markscrape.Errorf(markscrape.ENETWORK, "open page: %v", err)
	}
	defer func() { _ = page.Close() }()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", f.fail(ctx, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", f.fail(ctx, url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", f.fail(ctx, url, err)
	}
	return html, nil
}

// fail keeps caller cancellation visible to errors.Is and reports
// everything else as ENETWORK.
func (f *Fetcher) fail(ctx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr == context.Canceled {
		return ctxErr
	}
	return markscrape.Errorf(markscrape.ENETWORK, "render %s: %v", url, err)
}

// LauncherPID returns the process id of the launched browser.
func (f *Fetcher) LauncherPID() int {
	return f.launcher.PID()
}

// Close releases browser resources and stops the browser process.
func (f *Fetcher) Close() error {
	err := f.browser.Close()
	f.launcher.Kill()
	return err
}
