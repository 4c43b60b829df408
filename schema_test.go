package markscrape_test

import (
	"testing"

	"github.com/fwojciec/markscrape"
	"github.com/stretchr/testify/assert"
)

func TestInferSchema(t *testing.T) {
	t.Parallel()

	content := func() markscrape.OutputConfig {
		cfg := markscrape.DefaultOutputConfig()
		cfg.IncludeTagContent = true
		return cfg
	}

	t.Run("is only text without tag content", func(t *testing.T) {
		t.Parallel()

		cfg := markscrape.DefaultOutputConfig()
		cfg.IncludeAttributes = []string{"id", "href"}

		schema := markscrape.InferSchema(fiveSiblings(), cfg)

		assert.Equal(t, markscrape.Schema{"text"}, schema)
	})

	t.Run("uses the explicit attribute list verbatim", func(t *testing.T) {
		t.Parallel()

		cfg := content()
		cfg.IncludeAttributes = []string{"class", "id", "data-role"}

		schema := markscrape.InferSchema(fiveSiblings(), cfg)

		assert.Equal(t, markscrape.Schema{"tag", "class", "id", "data-role", "text"}, schema)
	})

	t.Run("keeps fields that occur on no node", func(t *testing.T) {
		t.Parallel()

		cfg := content()
		cfg.IncludeAttributes = []string{"href"}

		schema := markscrape.InferSchema(fiveSiblings(), cfg)

		assert.Equal(t, markscrape.Schema{"tag", "href", "text"}, schema)
	})

	t.Run("infers fields in first-seen order", func(t *testing.T) {
		t.Parallel()

		nodes := []*markscrape.Node{
			{Tag: "a", Attributes: []markscrape.Attribute{{Name: "href", Value: "/"}}},
			{Tag: "a", ID: ptr("x"), Attributes: []markscrape.Attribute{{Name: "rel", Value: "next"}, {Name: "href", Value: "/2"}}},
			{Tag: "a", Classes: []string{"btn"}, Attributes: []markscrape.Attribute{{Name: "target", Value: "_blank"}}},
		}

		schema := markscrape.InferSchema(nodes, content())

		assert.Equal(t, markscrape.Schema{"tag", "href", "id", "rel", "class", "target", "text"}, schema)
	})

	t.Run("follows the attribute order of the markup", func(t *testing.T) {
		t.Parallel()

		nodes := []*markscrape.Node{
			{Tag: "div", ID: ptr("d"), Classes: []string{"test"}, Order: []string{"class", "data-role", "id"},
				Attributes: []markscrape.Attribute{{Name: "data-role", Value: "main"}}},
			{Tag: "a", ID: ptr("x"), Order: []string{"href", "id"},
				Attributes: []markscrape.Attribute{{Name: "href", Value: "/"}}},
		}

		schema := markscrape.InferSchema(nodes, content())

		assert.Equal(t, markscrape.Schema{"tag", "class", "data-role", "id", "href", "text"}, schema)
	})

	t.Run("omits tag when tag names are off", func(t *testing.T) {
		t.Parallel()

		cfg := content()
		cfg.IncludeTagNames = false

		schema := markscrape.InferSchema(fiveSiblings(), cfg)

		assert.Equal(t, markscrape.Schema{"id", "class", "data-role", "text"}, schema)
	})

	t.Run("keeps text last when listed explicitly", func(t *testing.T) {
		t.Parallel()

		cfg := content()
		cfg.IncludeAttributes = []string{"text", "id"}

		schema := markscrape.InferSchema(fiveSiblings(), cfg)

		assert.Equal(t, markscrape.Schema{"tag", "id", "text"}, schema)
	})

	t.Run("is deterministic across runs", func(t *testing.T) {
		t.Parallel()

		first := markscrape.InferSchema(fiveSiblings(), content())
		for range 20 {
			assert.Equal(t, first, markscrape.InferSchema(fiveSiblings(), content()))
		}
	})

	t.Run("is tag and text for no nodes", func(t *testing.T) {
		t.Parallel()

		schema := markscrape.InferSchema(nil, content())

		assert.Equal(t, markscrape.Schema{"tag", "text"}, schema)
	})
}
