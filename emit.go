package markscrape

import (
	"context"
	"iter"
)

// Position locates a record within its run.
type Position struct {
	Index int
	Total int

	// Emitted counts the records written before this one. Records that
	// failed to encode are not counted.
	Emitted int
}

// First reports whether no record has been written before this one.
func (p Position) First() bool { return p.Emitted == 0 }

// Last reports whether the record is the last of the run.
func (p Position) Last() bool { return p.Index == p.Total-1 }

// Encoder renders one output format. Implementations are stateless: all
// positional context is passed in, so one Encoder may serve many runs.
type Encoder interface {
	// Preamble returns the chunk emitted before any record, if the format
	// has one.
	Preamble(schema Schema) (string, bool)

	// Record renders node using exactly the fields of schema, in order.
	// An error fails this record only.
	Record(schema Schema, node *Node, pos Position) (string, error)

	// Closing returns the chunk emitted after the last record, if the
	// format has one. emitted counts the records actually written.
	Closing(schema Schema, emitted int) (string, bool)
}

type emitPhase int

const (
	phasePreamble emitPhase = iota
	phaseRecords
	phaseClosing
	phaseDone
)

// EmitterState is the position of an emission run. It is a value: Step
// returns the next state instead of mutating the current one.
type EmitterState struct {
	phase   emitPhase
	cursor  int
	emitted int
}

// Done reports whether the run is exhausted.
func (s EmitterState) Done() bool { return s.phase == phaseDone }

// Cursor returns the index of the next record to emit.
func (s EmitterState) Cursor() int { return s.cursor }

// Emitter pairs an encoder with the matched nodes and the schema of one run.
// It never mutates its inputs.
type Emitter struct {
	encoder Encoder
	nodes   []*Node
	schema  Schema
}

// NewEmitter returns an Emitter over nodes. The schema is computed once,
// here, and shared by every step.
func NewEmitter(enc Encoder, nodes []*Node, cfg OutputConfig) *Emitter {
	return &Emitter{
		encoder: enc,
		nodes:   nodes,
		schema:  InferSchema(nodes, cfg),
	}
}

// Schema returns the field list of the run.
func (e *Emitter) Schema() Schema { return e.schema }

// Len returns the number of records in the run.
func (e *Emitter) Len() int { return len(e.nodes) }

// Start returns the initial state.
func (e *Emitter) Start() EmitterState {
	return EmitterState{phase: phasePreamble}
}

// Step performs at most one unit of output (the preamble, one record or the
// closing chunk) and returns the following state. chunk is empty when the
// unit produced nothing. A record that fails to encode returns a
// *RecordError and the state still advances past it. Stepping a done state
// returns it unchanged.
func (e *Emitter) Step(s EmitterState) (next EmitterState, chunk string, err error) {
	switch s.phase {
	case phasePreamble:
		next = EmitterState{phase: phaseRecords}
		if out, ok := e.encoder.Preamble(e.schema); ok {
			chunk = out
		}
		return next, chunk, nil

	case phaseRecords:
		if s.cursor >= len(e.nodes) {
			return e.Step(EmitterState{phase: phaseClosing, cursor: s.cursor, emitted: s.emitted})
		}
		next = EmitterState{phase: phaseRecords, cursor: s.cursor + 1, emitted: s.emitted}
		pos := Position{Index: s.cursor, Total: len(e.nodes), Emitted: s.emitted}
		out, err := e.encoder.Record(e.schema, e.nodes[s.cursor], pos)
		if err != nil {
			return next, "", &RecordError{Index: s.cursor, Err: err}
		}
		next.emitted++
		return next, out, nil

	case phaseClosing:
		next = EmitterState{phase: phaseDone, cursor: s.cursor, emitted: s.emitted}
		if out, ok := e.encoder.Closing(e.schema, s.emitted); ok {
			chunk = out
		}
		return next, chunk, nil
	}
	return s, "", nil
}

// Stream is a pull-based, single-use sequence of chunks over an Emitter.
// Failed records are skipped and collected in Errors.
type Stream struct {
	emitter *Emitter
	state   EmitterState
	errs    []*RecordError
}

// NewStream returns a Stream positioned before the preamble.
func NewStream(e *Emitter) *Stream {
	return &Stream{emitter: e, state: e.Start()}
}

// Schema returns the field list of the run.
func (s *Stream) Schema() Schema { return s.emitter.Schema() }

// Len returns the number of matched records, including any that fail to
// encode.
func (s *Stream) Len() int { return s.emitter.Len() }

// Next returns the next non-empty chunk, or false once the stream is
// exhausted. It must not be called again after returning false.
func (s *Stream) Next() (string, bool) {
	for !s.state.Done() {
		next, chunk, err := s.emitter.Step(s.state)
		s.state = next
		if err != nil {
			if re, ok := err.(*RecordError); ok {
				s.errs = append(s.errs, re)
			}
			continue
		}
		if chunk != "" {
			return chunk, true
		}
	}
	return "", false
}

// Chunks adapts the stream to a range-over-func sequence. Breaking out of
// the loop stops emission; no cleanup is needed.
func (s *Stream) Chunks() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			chunk, ok := s.Next()
			if !ok || !yield(chunk) {
				return
			}
		}
	}
}

// Errors returns the records that failed so far.
func (s *Stream) Errors() []*RecordError {
	return s.errs
}

// Sink persists a finished sequence of chunks.
type Sink interface {
	// Write consumes chunks in order. Returns EIO if the destination
	// cannot be written.
	Write(ctx context.Context, chunks iter.Seq[string]) error
}

// FuncSink hands every chunk to a callback and produces no file. Use
// EachRecord to receive exactly one raw record per call.
type FuncSink func(chunk string)

// Write implements Sink.
func (f FuncSink) Write(ctx context.Context, chunks iter.Seq[string]) error {
	for chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		f(chunk)
	}
	return nil
}

// EachRecord selects the elements of doc matching spec and hands the source
// text of each one to fn, in document order. No output format applies: fn
// sees one record per call and nothing else.
func EachRecord(ctx context.Context, doc Document, spec *SelectionSpec, fn func(record string)) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	e := NewEmitter(PlainEncoder{}, Select(doc, spec), DefaultOutputConfig())
	return FuncSink(fn).Write(ctx, NewStream(e).Chunks())
}
