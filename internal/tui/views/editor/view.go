package editor

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/linedit/internal/core/document"
	"github.com/colonyops/linedit/internal/core/reorder"
	"github.com/colonyops/linedit/internal/core/styles"
)

// noRow marks "no row" for cursor, press, and edit state.
const noRow = -1

// gutterWidth covers the line number, mark glyph, and drag handle columns.
// Clicks left of this boundary toggle the row mark; clicks right of it start
// an in-place edit.
const gutterWidth = 8

// focusInsertedMsg focuses a freshly inserted row. It is delivered as a
// message rather than applied inline so focus lands after the view has been
// rebuilt from the updated model.
type focusInsertedMsg struct {
	index int
}

// rowBuffer mirrors the live editable text of every row. It is the
// controller's RowSource: flushes read from here, so the buffer must always
// reflect what the user currently sees.
type rowBuffer struct {
	texts []RowText
}

func (b *rowBuffer) RowTexts() []RowText { return b.texts }

// View renders the controller's document as interactive rows and insert
// dividers, and reports gestures back as controller operations. It holds no
// authoritative state; everything here can be rebuilt from the model.
type View struct {
	ctrl          *Controller
	rows          *rowBuffer
	input         textinput.Model
	confirmDelete bool

	cursor  int // keyboard cursor, row index
	editing int // row being edited in place, noRow when none

	width   int
	height  int
	offsetY int // first frame line occupied by the editor

	// Drag state. A press arms a drag; the first motion starts it. order is
	// the floating visual order of model indices, view-only until drop.
	pressed  bool
	pressRow int
	pressY   int
	dragging bool
	block    []int
	order    []int

	// Confirm button hit ranges on the pending-delete row, x start/end.
	yesStart, yesEnd int
	noStart, noEnd   int

	prevFrame string
}

// New creates an editor view bound to the given controller.
func New(ctrl *Controller, confirmDelete bool) *View {
	ti := textinput.New()
	ti.Prompt = ""

	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Cursor.Color = styles.ColorPrimary
	ti.SetStyles(inputStyles)

	v := &View{
		ctrl:          ctrl,
		rows:          &rowBuffer{},
		input:         ti,
		confirmDelete: confirmDelete,
		editing:       noRow,
		pressRow:      noRow,
	}
	ctrl.SetRowSource(v.rows)
	v.syncRows()
	return v
}

// Init returns the initial command for the editor view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetSize updates the view dimensions.
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(max(width-gutterWidth-2, 10))
}

// SetOffsetY records where the editor's first line lands within the full
// program frame, needed to map mouse coordinates onto rows.
func (v *View) SetOffsetY(y int) {
	v.offsetY = y
}

// Editing reports whether an in-place edit is active, so the parent model
// can route keys here instead of acting on global bindings.
func (v *View) Editing() bool {
	return v.editing != noRow
}

// Dragging reports whether a drag is in flight.
func (v *View) Dragging() bool {
	return v.dragging
}

// Update handles messages for the editor view.
func (v *View) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case focusInsertedMsg:
		return v.startEditing(msg.index)
	case tea.KeyMsg:
		return v.handleKey(msg)
	case tea.MouseClickMsg:
		return v.handlePress(msg.Mouse())
	case tea.MouseMotionMsg:
		return v.handleMotion(msg.Mouse())
	case tea.MouseReleaseMsg:
		return v.handleRelease(msg.Mouse())
	}
	return nil
}

func (v *View) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.editing != noRow {
		return v.handleEditKey(msg)
	}

	// The confirm prompt swallows its keys while visible.
	if v.ctrl.PendingDelete() != noRow {
		switch msg.String() {
		case "y", "Y", "enter":
			v.ctrl.ConfirmDelete()
			v.syncRows()
			return nil
		case "n", "N", "esc":
			v.ctrl.CancelDelete()
			return nil
		}
		return nil
	}

	switch msg.String() {
	case "up", "k":
		v.moveCursor(-1)
	case "down", "j":
		v.moveCursor(1)
	case "space":
		v.ctrl.ToggleRow(v.cursor)
	case "enter", "i":
		return v.startEditing(v.cursor)
	case "o":
		return v.insertAt(v.cursor + 1)
	case "O":
		return v.insertAt(v.cursor)
	case "d":
		v.requestDelete(v.cursor)
	case "K":
		v.shiftBlock(-1)
	case "J":
		v.shiftBlock(1)
	case "esc":
		if v.dragging {
			v.resetDrag()
		} else {
			v.ctrl.Selection().Clear()
		}
	}
	return nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "esc":
		v.stopEditing()
		return nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.setLiveText(v.editing, v.input.Value())
	v.ctrl.TextChanged()
	return cmd
}

func (v *View) handlePress(m tea.Mouse) tea.Cmd {
	if m.Button != tea.MouseLeft {
		return nil
	}

	v.pressed = true
	v.pressY = m.Y
	if row, ok := v.rowAtY(m.Y); ok {
		v.pressRow = row
	} else {
		v.pressRow = noRow
	}
	return nil
}

func (v *View) handleMotion(m tea.Mouse) tea.Cmd {
	if !v.pressed || v.pressRow == noRow {
		return nil
	}

	if !v.dragging {
		if m.Y == v.pressY {
			return nil
		}
		if v.editing != noRow {
			v.stopEditing()
		}
		v.dragging = true
		v.block = v.ctrl.DragBlock(v.pressRow)
		v.order = identityOrder(v.ctrl.Doc().Len())
	}

	// Relocate the block before the static row nearest at or below the
	// pointer. View-only: the model is untouched until drop.
	anchor := reorder.AnchorFor(m.Y, v.staticRows())
	v.order = reorder.Float(v.ctrl.Doc().Len(), v.block, anchor)
	return nil
}

func (v *View) handleRelease(m tea.Mouse) tea.Cmd {
	if !v.pressed {
		return nil
	}
	v.pressed = false

	if v.dragging {
		v.ctrl.CommitDrag(v.order)
		v.resetDrag()
		v.syncRows()
		v.cursor = v.clampRow(v.cursor)
		v.pressRow = noRow
		return nil
	}

	// Press and release without motion is a click.
	cmd := v.handleClick(m)
	v.pressRow = noRow
	return cmd
}

func (v *View) handleClick(m tea.Mouse) tea.Cmd {
	if div, ok := v.dividerAtY(m.Y); ok {
		return v.insertAt(div)
	}

	row, ok := v.rowAtY(m.Y)
	if !ok || row != v.pressRow {
		return nil
	}

	if row == v.ctrl.PendingDelete() {
		switch {
		case m.X >= v.yesStart && m.X < v.yesEnd:
			v.ctrl.ConfirmDelete()
			v.syncRows()
		case m.X >= v.noStart && m.X < v.noEnd:
			v.ctrl.CancelDelete()
		}
		return nil
	}

	v.cursor = row
	if m.X < gutterWidth {
		v.ctrl.ToggleRow(row)
		return nil
	}
	return v.startEditing(row)
}

func (v *View) insertAt(index int) tea.Cmd {
	if v.editing != noRow {
		v.stopEditing()
	}
	inserted := v.ctrl.InsertAt(index)
	v.syncRows()
	v.cursor = inserted

	// Focus the new row only after the next render has rebuilt the view.
	return func() tea.Msg {
		return focusInsertedMsg{index: inserted}
	}
}

func (v *View) requestDelete(index int) {
	if v.editing != noRow {
		v.stopEditing()
	}
	if !v.confirmDelete {
		v.ctrl.DeleteNow(index)
		v.syncRows()
		v.cursor = v.clampRow(v.cursor)
		return
	}
	v.ctrl.RequestDelete(index)
}

// shiftBlock moves the cursor row (or the selected block containing it) one
// slot up or down using the same engine a pointer drag goes through.
func (v *View) shiftBlock(delta int) {
	n := v.ctrl.Doc().Len()
	if n == 0 {
		return
	}
	block := v.ctrl.DragBlock(v.clampRow(v.cursor))

	statics := make([]int, 0, n)
	inBlock := make(map[int]bool, len(block))
	for _, b := range block {
		inBlock[b] = true
	}
	for i := 0; i < n; i++ {
		if !inBlock[i] {
			statics = append(statics, i)
		}
	}

	pos := 0
	for _, s := range statics {
		if s < block[0] {
			pos++
		}
	}
	pos = max(0, min(pos+delta, len(statics)))

	var anchor reorder.Anchor
	if pos == len(statics) {
		anchor = reorder.Anchor{End: true}
	} else {
		anchor = reorder.Anchor{Before: statics[pos]}
	}

	order := reorder.Float(n, block, anchor)
	newCursor := indexOf(order, v.clampRow(v.cursor))

	v.ctrl.CommitDrag(order)
	v.syncRows()
	if newCursor != noRow {
		v.cursor = newCursor
	}
}

func (v *View) startEditing(index int) tea.Cmd {
	if index < 0 || index >= v.ctrl.Doc().Len() {
		return nil
	}
	v.editing = index
	v.cursor = index
	v.input.SetValue(v.ctrl.Lines()[index].Text)
	v.input.CursorEnd()
	return v.input.Focus()
}

func (v *View) stopEditing() {
	if v.editing == noRow {
		return
	}
	v.setLiveText(v.editing, v.input.Value())
	v.ctrl.Flush()
	v.editing = noRow
	v.input.Blur()
}

func (v *View) moveCursor(delta int) {
	v.cursor = v.clampRow(v.cursor + delta)
}

func (v *View) clampRow(i int) int {
	n := v.ctrl.Doc().Len()
	if n == 0 {
		return 0
	}
	return max(0, min(i, n-1))
}

func (v *View) resetDrag() {
	v.dragging = false
	v.pressed = false
	v.block = nil
	v.order = nil
}

// syncRows rebuilds the live text buffer from the model. Called after every
// structural change, when the view is re-derived from the document.
func (v *View) syncRows() {
	lines := v.ctrl.Lines()
	v.rows.texts = v.rows.texts[:0]
	for i, ln := range lines {
		v.rows.texts = append(v.rows.texts, RowText{Index: i, Text: ln.Text, OK: true})
	}
}

func (v *View) setLiveText(index int, text string) {
	if index < 0 || index >= len(v.rows.texts) {
		log.Debug().Int("index", index).Msg("live text update for unknown row")
		return
	}
	v.rows.texts[index].Text = text
}

// staticRows returns the rows not being dragged, with midpoints taken from
// their slots in the current floating layout.
func (v *View) staticRows() []reorder.Row {
	inBlock := make(map[int]bool, len(v.block))
	for _, b := range v.block {
		inBlock[b] = true
	}

	static := make([]reorder.Row, 0, len(v.order))
	for pos, idx := range v.order {
		if inBlock[idx] {
			continue
		}
		static = append(static, reorder.Row{ModelIndex: idx, Midpoint: v.rowY(pos)})
	}
	return static
}

// rowY maps a visual slot to its absolute frame line. Rows interleave with
// insert dividers: divider, row, divider, row, ..., divider.
func (v *View) rowY(visualPos int) int {
	return v.offsetY + visualPos*2 + 1
}

func (v *View) rowAtY(y int) (int, bool) {
	rel := y - v.offsetY
	if rel < 0 || rel%2 == 0 {
		return 0, false
	}
	pos := (rel - 1) / 2
	order := v.currentOrder()
	if pos >= len(order) {
		return 0, false
	}
	return order[pos], true
}

func (v *View) dividerAtY(y int) (int, bool) {
	rel := y - v.offsetY
	if rel < 0 || rel%2 != 0 {
		return 0, false
	}
	div := rel / 2
	if div > v.ctrl.Doc().Len() {
		return 0, false
	}
	return div, true
}

func (v *View) currentOrder() []int {
	if v.dragging {
		return v.order
	}
	return identityOrder(v.ctrl.Doc().Len())
}

// View renders the editor. A malformed document aborts the render and keeps
// the previous frame; nothing here is fatal to the host program.
func (v *View) View() string {
	if v.ctrl == nil || v.ctrl.Doc() == nil {
		log.Error().Msg("editor render aborted: no document")
		return v.prevFrame
	}

	var b strings.Builder
	order := v.currentOrder()
	lines := v.ctrl.Lines()

	// TODO: window rows once documents can exceed the viewport height.
	b.WriteString(v.renderDivider())
	b.WriteByte('\n')
	for pos, idx := range order {
		if idx < 0 || idx >= len(lines) {
			log.Error().Int("index", idx).Msg("editor render aborted: order references unknown row")
			return v.prevFrame
		}
		b.WriteString(v.renderRow(pos, idx, lines[idx]))
		b.WriteByte('\n')
		b.WriteString(v.renderDivider())
		b.WriteByte('\n')
	}

	if len(order) == 0 {
		b.WriteString(styles.TextMutedStyle.Render("  empty document • click a divider or press o to add a line"))
		b.WriteByte('\n')
	}

	v.prevFrame = strings.TrimSuffix(b.String(), "\n")
	return v.prevFrame
}

func (v *View) renderDivider() string {
	width := max(v.width-4, 8)
	return styles.InsertDividerStyle.Render("  " + strings.Repeat(styles.GlyphInsertDivider, width))
}

// renderRow draws one row: cursor bar, visual line number, mark glyph, drag
// handle, then either the text, the in-place editor, or the inline delete
// confirmation prompt.
func (v *View) renderRow(visualPos, idx int, line document.Line) string {
	var b strings.Builder

	if idx == v.cursor && !v.dragging {
		b.WriteString(styles.RowCursorStyle.Render("┃"))
		b.WriteString(" ")
	} else {
		b.WriteString("  ")
	}

	num := fmt.Sprintf("%3d", visualPos+1)
	mark := styles.GutterStyle.Render(styles.GlyphUnmarked)
	if v.ctrl.Selection().IsMarked(idx) {
		mark = styles.GutterMarkedStyle.Render(styles.GlyphMark)
	}
	b.WriteString(styles.GutterStyle.Render(num))
	b.WriteString(" ")
	b.WriteString(mark)
	b.WriteString(" ")
	b.WriteString(styles.DragHandleStyle.Render(styles.GlyphDragHandle))
	b.WriteString(" ")

	switch {
	case idx == v.ctrl.PendingDelete():
		b.WriteString(v.renderPendingDelete(line))
	case idx == v.editing:
		b.WriteString(v.input.View())
	default:
		textStyle := styles.RowTextStyle
		if v.dragging && v.inDragBlock(idx) {
			textStyle = styles.RowDraggedStyle
		} else if v.ctrl.Selection().IsMarked(idx) {
			textStyle = styles.RowMarkedStyle
		}
		b.WriteString(textStyle.Render(line.Text))
	}

	return b.String()
}

// renderPendingDelete draws the confirm/cancel prompt and records the x
// ranges of the two buttons for click hit-testing.
func (v *View) renderPendingDelete(line document.Line) string {
	text := line.Text
	if runes := []rune(text); len(runes) > 24 {
		text = string(runes[:23]) + "…"
	}

	prefix := fmt.Sprintf("%s %q ", styles.GlyphPendingDelete, text)
	x := gutterWidth + 2 + len([]rune(prefix))

	const yes, no = "[y]es", "[n]o"
	v.yesStart = x
	v.yesEnd = x + len(yes)
	v.noStart = v.yesEnd + 2
	v.noEnd = v.noStart + len(no)

	var b strings.Builder
	b.WriteString(styles.ConfirmPromptStyle.Render(prefix))
	b.WriteString(styles.ConfirmYesStyle.Render(yes))
	b.WriteString("  ")
	b.WriteString(styles.ConfirmNoStyle.Render(no))
	return b.String()
}

func (v *View) inDragBlock(idx int) bool {
	for _, b := range v.block {
		if b == idx {
			return true
		}
	}
	return false
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

func indexOf(s []int, val int) int {
	for i, x := range s {
		if x == val {
			return i
		}
	}
	return noRow
}
