package editor

import (
	"github.com/rs/zerolog/log"

	"github.com/colonyops/linedit/internal/core/document"
	"github.com/colonyops/linedit/internal/core/output"
	"github.com/colonyops/linedit/internal/core/selection"
)

// noPending marks the idle state of the delete confirmation machine.
const noPending = -1

// RowText is one row's live editable text as reported by the view. OK is
// false when the row's editable element is stale or missing, in which case
// the row is skipped during a flush rather than failing the whole pass.
type RowText struct {
	Index int
	Text  string
	OK    bool
}

// RowSource exposes the view's live row text. The controller reconciles the
// document from it lazily, at flush time, so in-flight edits are never lost
// to a re-render.
type RowSource interface {
	RowTexts() []RowText
}

// Controller owns the document, the selection tracker, and the pending
// delete state. It contains pure data logic with no Bubble Tea dependencies;
// the view reports normalized intents and re-renders from the controller
// after every operation.
type Controller struct {
	doc     *document.Document
	sel     *selection.Tracker
	pending int
	rows    RowSource
	sink    output.Sink
	dirty   bool
}

// NewController creates a controller around the given document. sink may be
// nil, which disables output mirroring.
func NewController(doc *document.Document, sink output.Sink) *Controller {
	return &Controller{
		doc:     doc,
		sel:     selection.NewTracker(),
		pending: noPending,
		sink:    sink,
	}
}

// SetRowSource wires the view's live row text into the controller.
func (c *Controller) SetRowSource(rows RowSource) {
	c.rows = rows
}

// Doc returns the canonical document.
func (c *Controller) Doc() *document.Document {
	return c.doc
}

// Lines returns the current ordered lines for rendering.
func (c *Controller) Lines() []document.Line {
	return c.doc.Lines
}

// Selection returns the selection tracker.
func (c *Controller) Selection() *selection.Tracker {
	return c.sel
}

// PendingDelete returns the row index awaiting confirmation, or -1 when the
// confirmation machine is idle.
func (c *Controller) PendingDelete() int {
	return c.pending
}

// Dirty reports whether the document changed since construction or the last
// MarkClean.
func (c *Controller) Dirty() bool {
	return c.dirty
}

// MarkClean resets the dirty flag, called after the caller persists the
// document.
func (c *Controller) MarkClean() {
	c.dirty = false
}

// ToggleRow flips the selection mark on a row.
func (c *Controller) ToggleRow(index int) {
	if index < 0 || index >= c.doc.Len() {
		return
	}
	c.sel.Toggle(index)
}

// DragBlock resolves which rows move together when a drag starts on the
// given row: the whole selection when the row is part of it, otherwise just
// that row (any stale selection is irrelevant to the drag).
func (c *Controller) DragBlock(index int) []int {
	if c.sel.IsMarked(index) {
		return c.sel.Marked()
	}
	return []int{index}
}

// InsertAt flushes pending edits and inserts a blank line at index. Returns
// the index of the new row so the view can focus it after the next render.
func (c *Controller) InsertAt(index int) int {
	c.Flush()
	if index < 0 {
		index = 0
	}
	if index > c.doc.Len() {
		index = c.doc.Len()
	}
	c.doc.InsertBlankAt(index)
	c.resetTransient()
	c.dirty = true
	c.syncOutput()
	return index
}

// RequestDelete flushes pending edits and arms the confirmation prompt for
// the given row. A second request silently replaces any prior pending one.
func (c *Controller) RequestDelete(index int) {
	if index < 0 || index >= c.doc.Len() {
		log.Debug().Int("index", index).Msg("delete request out of range")
		return
	}
	c.Flush()
	c.pending = index
}

// ConfirmDelete deletes the pending row and returns the machine to idle.
// A no-op when nothing is pending.
func (c *Controller) ConfirmDelete() {
	if c.pending == noPending {
		return
	}
	index := c.pending
	c.pending = noPending
	c.DeleteNow(index)
}

// CancelDelete discards the pending request. The model is untouched; only
// the view changes.
func (c *Controller) CancelDelete() {
	c.pending = noPending
}

// DeleteNow removes a row without the confirmation step. Out-of-range
// requests are defensive no-ops.
func (c *Controller) DeleteNow(index int) {
	c.Flush()
	if err := c.doc.DeleteAt(index); err != nil {
		log.Debug().Err(err).Int("index", index).Msg("delete skipped")
		return
	}
	c.resetTransient()
	c.dirty = true
	c.syncOutput()
}

// TextChanged handles an in-place edit keystroke. The model is reconciled
// from the view and the output mirror updated; no structural change occurs.
func (c *Controller) TextChanged() {
	c.Flush()
	c.dirty = true
	c.syncOutput()
}

// CommitDrag applies the final visual order after a drop. order holds model
// indices in their new sequence; text is taken from the live view so
// in-flight edits on dragged or displaced rows are preserved. Dropping a
// block back at its original position is an order no-op but still resyncs.
func (c *Controller) CommitDrag(order []int) {
	live := c.liveTexts()

	lines := make([]document.Line, 0, len(order))
	for _, idx := range order {
		if idx < 0 || idx >= c.doc.Len() {
			log.Debug().Int("index", idx).Msg("drag order references unknown row, skipping")
			continue
		}
		text := c.doc.Lines[idx].Text
		if lt, ok := live[idx]; ok {
			text = lt
		}
		lines = append(lines, document.Line{Text: text})
	}

	c.doc.ReplaceAll(lines)
	c.resetTransient()
	c.dirty = true
	c.syncOutput()
}

// Flush reconciles unsaved view text into the document. Stale rows are
// skipped one by one so a single malformed row cannot block the rest of the
// document from being captured.
func (c *Controller) Flush() {
	if c.rows == nil {
		return
	}
	for _, rt := range c.rows.RowTexts() {
		if !rt.OK {
			log.Debug().Int("index", rt.Index).Msg("skipping stale row during flush")
			continue
		}
		c.doc.SetText(rt.Index, rt.Text)
	}
}

// resetTransient clears selection and any pending delete. Every structural
// change triggers a full re-render, which rebuilds both from scratch.
func (c *Controller) resetTransient() {
	c.sel.Clear()
	c.pending = noPending
}

func (c *Controller) liveTexts() map[int]string {
	live := make(map[int]string)
	if c.rows == nil {
		return live
	}
	for _, rt := range c.rows.RowTexts() {
		if rt.OK {
			live[rt.Index] = rt.Text
		}
	}
	return live
}

func (c *Controller) syncOutput() {
	if c.sink == nil {
		return
	}
	if err := c.sink.Push(c.doc.Snapshot()); err != nil {
		log.Warn().Err(err).Msg("failed to push document to output sink")
	}
}
