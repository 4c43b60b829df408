package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/markscrape"
	"github.com/fwojciec/markscrape/extract"
	"github.com/fwojciec/markscrape/goquery"
	mshttp "github.com/fwojciec/markscrape/http"
	"github.com/fwojciec/markscrape/rod"
	msslog "github.com/fwojciec/markscrape/slog"
	"github.com/fwojciec/markscrape/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Stdin is read when the extract source is "-".
	Stdin io.Reader

	// SQLite database used by the run archive.
	DB *sqlite.DB

	// Fetcher overrides the HTTP fetcher, for end-to-end testing.
	Fetcher markscrape.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("markscrape"),
		kong.Description("Select elements from HTML and serialize them as plain, CSV, JSON, XML or YAML."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'markscrape --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := kongCtx.Selected().Name

	deps.Logger = slog.New(slog.DiscardHandler)
	if cli.Verbose {
		deps.Logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	if cmd != "extract" || cli.Extract.Archive {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set MARKSCRAPE_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()
		deps.Runs = msslog.NewLoggingRunService(sqlite.NewRunService(m.DB), deps.Logger)
	}

	if cmd == "extract" {
		fetcher, err := m.newFetcher(&cli.Extract, stderr)
		if err != nil {
			return err
		}
		defer fetcher.Close()

		deps.Extractor = &extract.Extractor{
			Fetcher: msslog.NewLoggingFetcher(fetcher, deps.Logger),
			Parser:  msslog.NewLoggingParser(goquery.NewParser(), deps.Logger),
			Stdin:   m.Stdin,
			Logf: func(format string, args ...any) {
				deps.Logger.Warn(fmt.Sprintf(format, args...))
			},
		}
	}

	return kongCtx.Run(deps)
}

func (m *Main) newFetcher(c *ExtractCmd, stderr io.Writer) (markscrape.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}
	if c.Render {
		fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(c.Timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return fetcher, nil
	}
	return mshttp.NewFetcher(mshttp.WithTimeout(c.Timeout)), nil
}

func defaultDBPath() string {
	if path := os.Getenv("MARKSCRAPE_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "markscrape.db"
	}
	dir := filepath.Join(home, ".markscrape")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "markscrape.db")
}
