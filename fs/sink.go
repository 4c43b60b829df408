// Package fs provides file-based sinks for serialized output.
package fs

import (
	"bufio"
	"context"
	"io"
	"iter"
	"os"
	"path/filepath"

	"github.com/fwojciec/markscrape"
)

// Extension returns the conventional file extension for format.
func Extension(format markscrape.Format) string {
	if format == markscrape.FormatPlain {
		return "txt"
	}
	return string(format)
}

// DefaultBaseName names the output file written into a directory.
const DefaultBaseName = "markscrape"

// OutputPath resolves an output destination. When path is an existing
// directory the file is DefaultBaseName with the format's extension inside
// it; otherwise path is returned unchanged.
func OutputPath(path string, format markscrape.Format) string {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return filepath.Join(path, DefaultBaseName+"."+Extension(format))
	}
	return path
}

// Ensure FileSink implements markscrape.Sink at compile time.
var _ markscrape.Sink = (*FileSink)(nil)

// FileSink writes chunks to a file with atomic update semantics. Chunks go
// to a temporary file next to the destination, which is renamed into place
// only after every chunk was written. On failure the destination is left
// untouched and the temporary file is removed.
type FileSink struct {
	path string
}

// NewFileSink creates a FileSink writing to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Path returns the destination path.
func (s *FileSink) Path() string { return s.path }

// Write implements markscrape.Sink. Returns EIO if the file cannot be
// written.
func (s *FileSink) Write(ctx context.Context, chunks iter.Seq[string]) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return markscrape.Errorf(markscrape.EIO, "create directory %s: %v", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return markscrape.Errorf(markscrape.EIO, "create temp file: %v", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := writeChunks(ctx, tmp, chunks); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return markscrape.Errorf(markscrape.EIO, "sync %s: %v", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return markscrape.Errorf(markscrape.EIO, "close %s: %v", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return markscrape.Errorf(markscrape.EIO, "rename to %s: %v", s.path, err)
	}
	return nil
}

// Ensure WriterSink implements markscrape.Sink at compile time.
var _ markscrape.Sink = (*WriterSink)(nil)

// WriterSink streams chunks to an io.Writer such as stdout.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a WriterSink over w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Write implements markscrape.Sink.
func (s *WriterSink) Write(ctx context.Context, chunks iter.Seq[string]) error {
	return writeChunks(ctx, s.w, chunks)
}

func writeChunks(ctx context.Context, w io.Writer, chunks iter.Seq[string]) error {
	bw := bufio.NewWriter(w)
	for chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := bw.WriteString(chunk); err != nil {
			return markscrape.Errorf(markscrape.EIO, "write: %v", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return markscrape.Errorf(markscrape.EIO, "write: %v", err)
	}
	return nil
}
