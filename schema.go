package markscrape

// Schema is the ordered list of field names shared by the preamble and
// every record of one run.
type Schema []string

// fieldSet is an insertion-ordered set of field names.
type fieldSet struct {
	names []string
	seen  map[string]bool
}

func newFieldSet() *fieldSet {
	return &fieldSet{seen: make(map[string]bool)}
}

func (s *fieldSet) add(name string) {
	if s.seen[name] {
		return
	}
	s.seen[name] = true
	s.names = append(s.names, name)
}

// InferSchema computes the field list for nodes under cfg.
//
// Without tag content the schema is ["text"]. Otherwise it is "tag" (when
// tag names are on), then either the explicit IncludeAttributes list or the
// attribute names observed across nodes in first-seen order (each node's
// attributes in document order, id and class included), then "text". The result depends only on the input order,
// so repeated runs over the same nodes yield the same schema.
func InferSchema(nodes []*Node, cfg OutputConfig) Schema {
	if !cfg.IncludeTagContent {
		return Schema{FieldText}
	}

	fields := newFieldSet()
	if cfg.IncludeTagNames {
		fields.add(FieldTag)
	}

	if cfg.IncludeAttributes != nil {
		for _, name := range cfg.IncludeAttributes {
			if name == FieldText {
				continue
			}
			fields.add(name)
		}
	} else {
		for _, n := range nodes {
			for _, name := range n.AttributeNames() {
				if name == FieldText {
					continue
				}
				fields.add(name)
			}
		}
	}

	fields.add(FieldText)
	return Schema(fields.names)
}
