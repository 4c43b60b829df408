package markscrape

import "strings"

// Format identifies an output encoding.
type Format string

// Supported output formats.
const (
	FormatPlain Format = "plain"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatXML   Format = "xml"
	FormatYAML  Format = "yaml"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatPlain, FormatCSV, FormatJSON, FormatXML, FormatYAML}
}

// ParseFormat parses a format name (case-insensitive). "txt" is accepted as
// an alias of plain.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "txt" {
		return FormatPlain, nil
	}
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", Errorf(EINVALID, "unknown format %q", s)
}

// DefaultDelimiter separates CSV cells unless configured otherwise.
const DefaultDelimiter = ","

// OutputConfig controls schema inference and encoding. Use
// DefaultOutputConfig to get the documented defaults.
type OutputConfig struct {
	// IncludeTagContent enables tag, id, class and attribute fields.
	// When false the schema is exactly ["text"].
	IncludeTagContent bool

	// IncludeTagNames adds the "tag" field.
	IncludeTagNames bool

	// IncludeAttributes, when non-nil, lists the fields between "tag" and
	// "text" verbatim instead of inferring them from the matched nodes.
	IncludeAttributes []string

	// IncludeText is kept for compatibility. The "text" field is always
	// the last field of the schema.
	IncludeText bool

	// PrettyPrint indents JSON and XML output.
	PrettyPrint bool

	// Delimiter separates CSV cells.
	Delimiter string

	Format Format
}

// DefaultOutputConfig returns the default configuration: plain format,
// tag names and text on, tag content off, comma delimiter.
func DefaultOutputConfig() OutputConfig {
	return OutputConfig{
		IncludeTagNames: true,
		IncludeText:     true,
		Delimiter:       DefaultDelimiter,
		Format:          FormatPlain,
	}
}

// Validate returns an error if the configuration cannot drive a run.
func (c *OutputConfig) Validate() error {
	if _, err := ParseFormat(string(c.Format)); err != nil {
		return err
	}
	if c.Format == FormatCSV && c.Delimiter == "" {
		return Errorf(EINVALID, "csv delimiter required")
	}
	seen := make(map[string]bool, len(c.IncludeAttributes))
	for _, name := range c.IncludeAttributes {
		if strings.TrimSpace(name) == "" {
			return Errorf(EINVALID, "field name required")
		}
		if seen[name] {
			return Errorf(EINVALID, "duplicate field %q", name)
		}
		seen[name] = true
	}
	return nil
}
