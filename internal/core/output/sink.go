// Package output mirrors the canonical document to an external consumer.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/colonyops/linedit/internal/core/document"
	"github.com/colonyops/linedit/pkg/iojson"
)

// Sink receives the full current document after every structural or text
// change. Each push is a complete replacement, never a diff.
type Sink interface {
	Push(doc document.Document) error
}

// WriterSink serializes pushed documents to an io.Writer.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a sink that writes to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Push(doc document.Document) error {
	return iojson.WriteTo(s.w, doc)
}

// FileSink mirrors pushed documents into a JSON file. Writes go through a
// temp file in the same directory and a rename, so a crashed push never
// leaves a half-written document behind.
type FileSink struct {
	path string
}

// NewFileSink creates a sink writing to the given path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Push(doc document.Document) error {
	data, err := iojson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".linedit-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
