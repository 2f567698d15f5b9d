// Package document holds the canonical ordered line model edited by the TUI.
package document

import (
	"errors"
	"strings"
)

// ErrIndexOutOfRange is returned when a structural operation targets a row
// that does not exist in the current document.
var ErrIndexOutOfRange = errors.New("line index out of range")

// ErrEmptyDocument is returned when a delete is requested on an empty document.
var ErrEmptyDocument = errors.New("document has no lines")

// Line is one row of text with its 1-based display position. LineNumber is
// derived from the current order, not a stable identity; it is recomputed
// after every structural change so LineNumber == index+1 always holds.
type Line struct {
	LineNumber int    `json:"lineNumber"`
	Text       string `json:"text"`
}

// Document is the full ordered collection of lines. It is the single source
// of truth for the editor; views render from it and never mutate it directly.
type Document struct {
	Lines []Line `json:"lines"`
}

// New builds a document from the given lines. Incoming line numbers are not
// trusted and are overwritten by the first renumber pass.
func New(lines []Line) *Document {
	d := &Document{Lines: append([]Line(nil), lines...)}
	d.renumber()
	return d
}

// ParseText splits plain text into one line per row. An empty input yields an
// empty document; a trailing newline does not produce a phantom last line.
func ParseText(text string) *Document {
	if text == "" {
		return New(nil)
	}
	text = strings.TrimSuffix(text, "\n")
	parts := strings.Split(text, "\n")
	lines := make([]Line, len(parts))
	for i, p := range parts {
		lines[i] = Line{Text: strings.TrimSuffix(p, "\r")}
	}
	return New(lines)
}

// Len returns the number of lines.
func (d *Document) Len() int {
	return len(d.Lines)
}

// InsertBlankAt inserts an empty line at index (0..Len inclusive) and
// renumbers. Indices outside that range are clamped.
func (d *Document) InsertBlankAt(index int) {
	if index < 0 {
		index = 0
	}
	if index > len(d.Lines) {
		index = len(d.Lines)
	}

	d.Lines = append(d.Lines, Line{})
	copy(d.Lines[index+1:], d.Lines[index:])
	d.Lines[index] = Line{}
	d.renumber()
}

// DeleteAt removes the line at index and renumbers. It is a no-op, reported
// via error, when the document is empty or the index is out of range.
func (d *Document) DeleteAt(index int) error {
	if len(d.Lines) == 0 {
		return ErrEmptyDocument
	}
	if index < 0 || index >= len(d.Lines) {
		return ErrIndexOutOfRange
	}

	d.Lines = append(d.Lines[:index], d.Lines[index+1:]...)
	d.renumber()
	return nil
}

// SetText replaces the text of the line at index. Out-of-range indices are
// ignored; flushing view state must never fail the whole document.
func (d *Document) SetText(index int, text string) {
	if index < 0 || index >= len(d.Lines) {
		return
	}
	d.Lines[index].Text = text
}

// ReplaceAll swaps in a wholesale new ordering, used after a drag commit or
// a text-sync pass, and renumbers.
func (d *Document) ReplaceAll(lines []Line) {
	d.Lines = append(d.Lines[:0:0], lines...)
	d.renumber()
}

// Snapshot returns a deep, independent copy of the current document. Lines
// is never nil so an empty document still mirrors as {"lines": []}.
func (d *Document) Snapshot() Document {
	lines := make([]Line, len(d.Lines))
	copy(lines, d.Lines)
	return Document{Lines: lines}
}

// Text joins all lines back into plain text, one row per line.
func (d *Document) Text() string {
	var b strings.Builder
	for i, ln := range d.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(ln.Text)
	}
	return b.String()
}

// renumber rewrites line numbers to the contiguous run 1..N.
func (d *Document) renumber() {
	for i := range d.Lines {
		d.Lines[i].LineNumber = i + 1
	}
}
