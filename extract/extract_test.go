package extract_test

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/fwojciec/markscrape"
	"github.com/fwojciec/markscrape/extract"
	"github.com/fwojciec/markscrape/goquery"
	"github.com/fwojciec/markscrape/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<div class="test" id="div1" data-role="main">hello world</div>
<span class="test" id="span1" data-role="secondary">hello rust</span>
<div class="test" id="div2" data-role="main">goodbye world</div>
<div class="example" id="div3" data-role="main">hello universe</div>
<span class="example" id="span2" data-role="secondary">goodbye rust</span>
</body></html>`

func parse(t *testing.T) markscrape.Document {
	t.Helper()
	doc, err := goquery.NewParser().Parse(page)
	require.NoError(t, err)
	return doc
}

func testSpec() *markscrape.SelectionSpec {
	return &markscrape.SelectionSpec{
		Tags:  []string{"div", "span"},
		Class: &markscrape.ClassFilter{Classes: []string{"test"}},
	}
}

func testConfig(format markscrape.Format) markscrape.OutputConfig {
	cfg := markscrape.DefaultOutputConfig()
	cfg.Format = format
	cfg.IncludeTagContent = true
	cfg.IncludeAttributes = []string{"class", "id", "data-role"}
	return cfg
}

func TestNewEncoder(t *testing.T) {
	t.Parallel()

	t.Run("returns an encoder for every format", func(t *testing.T) {
		t.Parallel()

		for _, f := range markscrape.Formats() {
			enc, err := extract.NewEncoder(testConfig(f))
			require.NoError(t, err, f)
			assert.NotNil(t, enc, f)
		}
	})

	t.Run("rejects an unknown format", func(t *testing.T) {
		t.Parallel()

		_, err := extract.NewEncoder(testConfig("toml"))

		assert.Equal(t, markscrape.EINVALID, markscrape.ErrorCode(err))
	})
}

func TestExtractAndSerialize(t *testing.T) {
	t.Parallel()

	t.Run("renders matched nodes as csv", func(t *testing.T) {
		t.Parallel()

		s, err := extract.ExtractAndSerialize(parse(t), testSpec(), testConfig(markscrape.FormatCSV))
		require.NoError(t, err)

		assert.Equal(t, []string{
			"tag,class,id,data-role,text\n",
			"div,test,div1,main,hello world\n",
			"span,test,span1,secondary,hello rust\n",
			"div,test,div2,main,goodbye world\n",
		}, slices.Collect(s.Chunks()))
	})

	t.Run("renders matched nodes as json", func(t *testing.T) {
		t.Parallel()

		s, err := extract.ExtractAndSerialize(parse(t), testSpec(), testConfig(markscrape.FormatJSON))
		require.NoError(t, err)

		got := slices.Collect(s.Chunks())
		require.Len(t, got, 5)
		assert.Equal(t, `{"tag":"div","class":["test"],"id":"div1","data-role":"main","text":"hello world"}`, got[1])
		assert.Equal(t, `,{"tag":"div","class":["test"],"id":"div2","data-role":"main","text":"goodbye world"}`, got[3])
		assert.Equal(t, "]", got[4])
	})

	t.Run("passes source markup through in plain format", func(t *testing.T) {
		t.Parallel()

		s, err := extract.ExtractAndSerialize(parse(t), testSpec(), testConfig(markscrape.FormatPlain))
		require.NoError(t, err)

		got := slices.Collect(s.Chunks())
		require.Len(t, got, 3)
		assert.Equal(t, `<div class="test" id="div1" data-role="main">hello world</div>`, got[0])
	})

	t.Run("returns plain records exactly as written in the input", func(t *testing.T) {
		t.Parallel()

		markup := `<div class='test' id='div1'>hello <br> world</div>`
		doc, err := goquery.NewParser().Parse(markup)
		require.NoError(t, err)

		s, err := extract.ExtractAndSerialize(doc, &markscrape.SelectionSpec{Tags: []string{"div"}}, markscrape.DefaultOutputConfig())
		require.NoError(t, err)

		assert.Equal(t, []string{markup}, slices.Collect(s.Chunks()))
	})

	t.Run("produces identical output on repeated runs", func(t *testing.T) {
		t.Parallel()

		doc := parse(t)
		cfg := testConfig(markscrape.FormatYAML)
		cfg.IncludeAttributes = nil

		var outputs [][]string
		for range 2 {
			s, err := extract.ExtractAndSerialize(doc, testSpec(), cfg)
			require.NoError(t, err)
			outputs = append(outputs, slices.Collect(s.Chunks()))
		}

		assert.Equal(t, outputs[0], outputs[1])
	})

	t.Run("matches nothing for an empty tag set", func(t *testing.T) {
		t.Parallel()

		spec := testSpec()
		spec.Tags = nil

		s, err := extract.ExtractAndSerialize(parse(t), spec, testConfig(markscrape.FormatJSON))
		require.NoError(t, err)

		assert.Equal(t, []string{"[", "]"}, slices.Collect(s.Chunks()))
	})

	t.Run("rejects an empty csv delimiter before selecting", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(markscrape.FormatCSV)
		cfg.Delimiter = ""
		doc := &mockDocument{}

		_, err := extract.ExtractAndSerialize(doc, testSpec(), cfg)

		assert.Equal(t, markscrape.EINVALID, markscrape.ErrorCode(err))
		assert.False(t, doc.visited)
	})

	t.Run("rejects an invalid filter mode", func(t *testing.T) {
		t.Parallel()

		spec := testSpec()
		spec.Class.Mode = "xor"

		_, err := extract.ExtractAndSerialize(parse(t), spec, testConfig(markscrape.FormatCSV))

		assert.Equal(t, markscrape.EINVALID, markscrape.ErrorCode(err))
	})
}

type mockDocument struct {
	visited bool
}

func (d *mockDocument) Elements() iter.Seq[markscrape.Element] {
	return func(func(markscrape.Element) bool) { d.visited = true }
}

func TestExtractor_Load(t *testing.T) {
	t.Parallel()

	t.Run("reads a file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "page.html")
		require.NoError(t, os.WriteFile(path, []byte("<p>x</p>"), 0o644))

		got, err := (&extract.Extractor{}).Load(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, "<p>x</p>", got)
	})

	t.Run("returns ENOTFOUND for a missing file", func(t *testing.T) {
		t.Parallel()

		_, err := (&extract.Extractor{}).Load(context.Background(), filepath.Join(t.TempDir(), "missing.html"))

		assert.Equal(t, markscrape.ENOTFOUND, markscrape.ErrorCode(err))
	})

	t.Run("reads stdin", func(t *testing.T) {
		t.Parallel()

		e := &extract.Extractor{Stdin: strings.NewReader("<p>stdin</p>")}

		got, err := e.Load(context.Background(), extract.Stdin)

		require.NoError(t, err)
		assert.Equal(t, "<p>stdin</p>", got)
	})

	t.Run("fetches urls with retry", func(t *testing.T) {
		t.Parallel()

		var attempts int
		e := &extract.Extractor{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					attempts++
					if attempts == 1 {
						return "", networkErr("HTTP 503")
					}
					return "<p>" + url + "</p>", nil
				},
			},
			RetryDelays: noDelays,
		}

		got, err := e.Load(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "<p>https://example.com</p>", got)
		assert.Equal(t, 2, attempts)
	})

	t.Run("rejects an empty source", func(t *testing.T) {
		t.Parallel()

		_, err := (&extract.Extractor{}).Load(context.Background(), "")

		assert.Equal(t, markscrape.EINVALID, markscrape.ErrorCode(err))
	})
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("loads, parses and serializes a source", func(t *testing.T) {
		t.Parallel()

		e := &extract.Extractor{
			Parser: goquery.NewParser(),
			Stdin:  strings.NewReader(page),
		}
		spec := &markscrape.SelectionSpec{
			Tags:        []string{"div", "span"},
			TextInclude: &markscrape.TextFilter{Substrings: []string{"hello"}, Mode: markscrape.ModeOr},
		}
		cfg := markscrape.DefaultOutputConfig()
		cfg.Format = markscrape.FormatCSV

		s, err := e.Extract(context.Background(), extract.Stdin, spec, cfg)
		require.NoError(t, err)

		assert.Equal(t, []string{"text\n", "hello world\n", "hello rust\n", "hello universe\n"}, slices.Collect(s.Chunks()))
	})

	t.Run("returns parse errors", func(t *testing.T) {
		t.Parallel()

		e := &extract.Extractor{
			Parser: &mock.Parser{
				ParseFn: func(string) (markscrape.Document, error) {
					return nil, markscrape.Errorf(markscrape.EPARSE, "broken")
				},
			},
			Stdin: strings.NewReader("<"),
		}

		_, err := e.Extract(context.Background(), extract.Stdin, testSpec(), testConfig(markscrape.FormatCSV))

		assert.Equal(t, markscrape.EPARSE, markscrape.ErrorCode(err))
	})

	t.Run("validates configuration before loading", func(t *testing.T) {
		t.Parallel()

		e := &extract.Extractor{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					t.Fatal("fetch should not be called")
					return "", nil
				},
			},
		}

		_, err := e.Extract(context.Background(), "https://example.com", testSpec(), testConfig("toml"))

		assert.Equal(t, markscrape.EINVALID, markscrape.ErrorCode(err))
	})
}
