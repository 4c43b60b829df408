// Package csv encodes matched nodes as delimiter-separated rows.
package csv

import (
	"strings"

	"github.com/fwojciec/markscrape"
)

// Ensure Encoder implements markscrape.Encoder at compile time.
var _ markscrape.Encoder = (*Encoder)(nil)

// Encoder renders a header row followed by one row per node. Every row has
// exactly one cell per schema field; absent fields leave an empty cell.
type Encoder struct {
	delimiter string
}

// NewEncoder returns an Encoder separating cells with delimiter.
// An empty delimiter falls back to markscrape.DefaultDelimiter.
func NewEncoder(delimiter string) *Encoder {
	if delimiter == "" {
		delimiter = markscrape.DefaultDelimiter
	}
	return &Encoder{delimiter: delimiter}
}

// Preamble returns the header row.
func (e *Encoder) Preamble(schema markscrape.Schema) (string, bool) {
	return e.row(schema), true
}

// Record returns the row for node. Classes share one cell, space separated.
func (e *Encoder) Record(schema markscrape.Schema, node *markscrape.Node, _ markscrape.Position) (string, error) {
	cells := make([]string, len(schema))
	for i, field := range schema {
		// Absent fields keep their slot.
		v, _ := node.Value(field)
		cells[i] = v
	}
	return e.row(cells), nil
}

// Closing implements markscrape.Encoder. CSV has no footer.
func (e *Encoder) Closing(markscrape.Schema, int) (string, bool) {
	return "", false
}

func (e *Encoder) row(cells []string) string {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteString(e.delimiter)
		}
		b.WriteString(e.quote(c))
	}
	b.WriteByte('\n')
	return b.String()
}

// quote wraps a cell in double quotes when it contains the delimiter, a
// quote or a line break, doubling inner quotes.
func (e *Encoder) quote(cell string) string {
	if !strings.Contains(cell, e.delimiter) && !strings.ContainsAny(cell, "\"\r\n") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}
