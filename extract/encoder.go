// Package extract wires parsing, selection and encoding into a single
// extraction pipeline.
package extract

import (
	"github.com/fwojciec/markscrape"
	"github.com/fwojciec/markscrape/csv"
	"github.com/fwojciec/markscrape/etree"
	"github.com/fwojciec/markscrape/json"
	"github.com/fwojciec/markscrape/yaml"
)

// NewEncoder returns the encoder for cfg.Format.
func NewEncoder(cfg markscrape.OutputConfig) (markscrape.Encoder, error) {
	switch cfg.Format {
	case markscrape.FormatPlain:
		return markscrape.PlainEncoder{}, nil
	case markscrape.FormatCSV:
		return csv.NewEncoder(cfg.Delimiter), nil
	case markscrape.FormatJSON:
		return json.NewEncoder(cfg.PrettyPrint), nil
	case markscrape.FormatXML:
		return etree.NewEncoder(cfg.PrettyPrint), nil
	case markscrape.FormatYAML:
		return yaml.NewEncoder(), nil
	}
	return nil, markscrape.Errorf(markscrape.EINVALID, "unknown format %q", string(cfg.Format))
}

// ExtractAndSerialize selects the nodes of doc matching spec and returns a
// lazy stream of encoded chunks. Invalid configuration is reported before
// any node is visited.
func ExtractAndSerialize(doc markscrape.Document, spec *markscrape.SelectionSpec, cfg markscrape.OutputConfig) (*markscrape.Stream, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	enc, err := NewEncoder(cfg)
	if err != nil {
		return nil, err
	}

	nodes := markscrape.Select(doc, spec)
	return markscrape.NewStream(markscrape.NewEmitter(enc, nodes, cfg)), nil
}
