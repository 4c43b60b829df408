package markscrape

// Ensure PlainEncoder implements Encoder at compile time.
var _ Encoder = PlainEncoder{}

// PlainEncoder passes each matched element's original markup through
// unchanged. It ignores the schema and has no preamble or closing.
type PlainEncoder struct{}

// Preamble implements Encoder.
func (PlainEncoder) Preamble(Schema) (string, bool) { return "", false }

// Record returns the node's source markup.
func (PlainEncoder) Record(_ Schema, node *Node, _ Position) (string, error) {
	return node.Source, nil
}

// Closing implements Encoder.
func (PlainEncoder) Closing(Schema, int) (string, bool) { return "", false }
