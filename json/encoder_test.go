package json_test

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/fwojciec/markscrape"
	mjson "github.com/fwojciec/markscrape/json"
	"github.com/fwojciec/markscrape/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func node(tag, id, role, text string) *markscrape.Node {
	n := &markscrape.Node{Tag: tag, Classes: []string{"test"}, Text: text}
	if id != "" {
		n.ID = ptr(id)
	}
	if role != "" {
		n.Attributes = []markscrape.Attribute{{Name: "data-role", Value: role}}
	}
	return n
}

func threeNodes() []*markscrape.Node {
	return []*markscrape.Node{
		node("div", "div1", "main", "hello world"),
		node("span", "span1", "secondary", "hello rust"),
		node("div", "div2", "main", "goodbye world"),
	}
}

func jsonConfig(pretty bool) markscrape.OutputConfig {
	cfg := markscrape.DefaultOutputConfig()
	cfg.Format = markscrape.FormatJSON
	cfg.IncludeTagContent = true
	cfg.IncludeAttributes = []string{"class", "id", "data-role"}
	cfg.PrettyPrint = pretty
	return cfg
}

func emit(nodes []*markscrape.Node, cfg markscrape.OutputConfig) []string {
	e := markscrape.NewEmitter(mjson.NewEncoder(cfg.PrettyPrint), nodes, cfg)
	return slices.Collect(markscrape.NewStream(e).Chunks())
}

func TestEncoder(t *testing.T) {
	t.Parallel()

	t.Run("renders compact records with commas between them", func(t *testing.T) {
		t.Parallel()

		got := emit(threeNodes(), jsonConfig(false))

		assert.Equal(t, []string{
			"[",
			`{"tag":"div","class":["test"],"id":"div1","data-role":"main","text":"hello world"}`,
			`,{"tag":"span","class":["test"],"id":"span1","data-role":"secondary","text":"hello rust"}`,
			`,{"tag":"div","class":["test"],"id":"div2","data-role":"main","text":"goodbye world"}`,
			"]",
		}, got)
	})

	t.Run("omits absent fields", func(t *testing.T) {
		t.Parallel()

		nodes := threeNodes()
		nodes[0].ID = nil

		got := emit(nodes, jsonConfig(false))

		assert.Equal(t, `{"tag":"div","class":["test"],"data-role":"main","text":"hello world"}`, got[1])
		assert.NotContains(t, got[1], `"id"`)
	})

	t.Run("renders pretty records", func(t *testing.T) {
		t.Parallel()

		nodes := threeNodes()[:2]
		nodes[0].Classes = []string{"test", "wide"}

		got := strings.Join(emit(nodes, jsonConfig(true)), "")

		want := "[" +
			"\n  {" +
			"\n    \"tag\":\"div\"," +
			"\n    \"class\":[\"test\", \"wide\"]," +
			"\n    \"id\":\"div1\"," +
			"\n    \"data-role\":\"main\"," +
			"\n    \"text\":\"hello world\"" +
			"\n  }," +
			"\n  {" +
			"\n    \"tag\":\"span\"," +
			"\n    \"class\":[\"test\"]," +
			"\n    \"id\":\"span1\"," +
			"\n    \"data-role\":\"secondary\"," +
			"\n    \"text\":\"hello rust\"" +
			"\n  }" +
			"\n]"
		assert.Equal(t, want, got)
	})

	t.Run("pretty output omits commas of skipped fields", func(t *testing.T) {
		t.Parallel()

		nodes := threeNodes()[:1]
		nodes[0].ID = nil
		nodes[0].Attributes = nil

		got := emit(nodes, jsonConfig(true))

		assert.Equal(t, "\n  {\n    \"tag\":\"div\",\n    \"class\":[\"test\"],\n    \"text\":\"hello world\"\n  }", got[1])
	})

	t.Run("stays valid when the first or last record fails", func(t *testing.T) {
		t.Parallel()

		enc := mjson.NewEncoder(false)
		failing := &mock.Encoder{
			PreambleFn: enc.Preamble,
			RecordFn: func(schema markscrape.Schema, n *markscrape.Node, pos markscrape.Position) (string, error) {
				if n.Tag == "bad" {
					return "", markscrape.Errorf(markscrape.EMALFORMED, "bad node")
				}
				return enc.Record(schema, n, pos)
			},
			ClosingFn: enc.Closing,
		}
		nodes := []*markscrape.Node{{Tag: "bad"}, {Tag: "p", Text: "a"}, {Tag: "p", Text: "b"}, {Tag: "bad"}}
		cfg := markscrape.DefaultOutputConfig()
		cfg.Format = markscrape.FormatJSON

		s := markscrape.NewStream(markscrape.NewEmitter(failing, nodes, cfg))
		out := strings.Join(slices.Collect(s.Chunks()), "")

		assert.Equal(t, `[{"text":"a"},{"text":"b"}]`, out)
		assert.Len(t, s.Errors(), 2)
	})

	t.Run("renders an empty array for no records", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"[", "]"}, emit(nil, jsonConfig(false)))
	})

	t.Run("renders only text without tag content", func(t *testing.T) {
		t.Parallel()

		cfg := markscrape.DefaultOutputConfig()
		cfg.Format = markscrape.FormatJSON

		got := emit(threeNodes()[:1], cfg)

		assert.Equal(t, []string{"[", `{"text":"hello world"}`, "]"}, got)
	})

	t.Run("produces a valid document with escaped values", func(t *testing.T) {
		t.Parallel()

		nodes := []*markscrape.Node{
			{Tag: "p", Text: `a "quoted" <b> & \ line` + "\n" + "break"},
			{Tag: "a", Attributes: []markscrape.Attribute{{Name: "hidden"}}},
		}
		cfg := jsonConfig(true)
		cfg.IncludeAttributes = nil

		out := strings.Join(emit(nodes, cfg), "")

		var records []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &records))
		require.Len(t, records, 2)
		assert.Equal(t, "a \"quoted\" <b> & \\ line\nbreak", records[0]["text"])
		assert.Contains(t, out, "<b> &")
		assert.Equal(t, "", records[1]["hidden"])
		assert.NotContains(t, records[0], "hidden")
	})
}
