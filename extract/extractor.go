package extract

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/markscrape"
)

// Stdin is the source name that reads markup from standard input.
const Stdin = "-"

// Extractor resolves a source to markup, parses it and serializes the
// matching nodes.
type Extractor struct {
	Fetcher markscrape.Fetcher
	Parser  markscrape.Parser

	// Stdin is read when the source is "-".
	Stdin io.Reader

	// RetryDelays between fetch attempts. Nil uses DefaultRetryDelays.
	RetryDelays []time.Duration

	// Logf, if set, reports fetch retries.
	Logf LogFunc
}

// IsURL reports whether source is fetched over HTTP rather than read from
// disk.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load returns the raw markup of source: an http(s) URL, a file path or "-"
// for stdin.
func (e *Extractor) Load(ctx context.Context, source string) (string, error) {
	switch {
	case source == "":
		return "", markscrape.Errorf(markscrape.EINVALID, "source required")

	case source == Stdin:
		if e.Stdin == nil {
			return "", markscrape.Errorf(markscrape.EINVALID, "stdin not available")
		}
		b, err := io.ReadAll(e.Stdin)
		if err != nil {
			return "", markscrape.Errorf(markscrape.EIO, "read stdin: %v", err)
		}
		return string(b), nil

	case IsURL(source):
		if e.Fetcher == nil {
			return "", markscrape.Errorf(markscrape.EINVALID, "no fetcher configured for %s", source)
		}
		return FetchWithRetry(ctx, source, e.Fetcher.Fetch, e.Logf, e.RetryDelays)
	}

	b, err := os.ReadFile(source)
	if errors.Is(err, fs.ErrNotExist) {
		return "", markscrape.Errorf(markscrape.ENOTFOUND, "file not found: %s", source)
	} else if err != nil {
		return "", markscrape.Errorf(markscrape.EIO, "read %s: %v", source, err)
	}
	return string(b), nil
}

// Extract loads source, parses it and returns the lazy chunk stream for
// spec and cfg. Configuration is validated before anything is loaded.
func (e *Extractor) Extract(ctx context.Context, source string, spec *markscrape.SelectionSpec, cfg markscrape.OutputConfig) (*markscrape.Stream, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	markup, err := e.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	doc, err := e.Parser.Parse(markup)
	if err != nil {
		return nil, err
	}
	return ExtractAndSerialize(doc, spec, cfg)
}
