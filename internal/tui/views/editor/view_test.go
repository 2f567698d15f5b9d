package editor

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/linedit/internal/core/document"
	"github.com/colonyops/linedit/pkg/tuitest"
)

func newView(texts ...string) (*View, *captureSink) {
	lines := make([]document.Line, len(texts))
	for i, t := range texts {
		lines[i] = document.Line{Text: t}
	}
	sink := &captureSink{}
	ctrl := NewController(document.New(lines), sink)
	v := New(ctrl, true)
	v.SetSize(80, 24)
	return v, sink
}

func press(v *View, code rune) tea.Cmd {
	return v.Update(tuitest.KeyPress(code))
}

func mousePress(v *View, x, y int) tea.Cmd {
	return v.Update(tuitest.MousePress(x, y))
}

func mouseMove(v *View, x, y int) tea.Cmd {
	return v.Update(tuitest.MouseMove(x, y))
}

func mouseRelease(v *View, x, y int) tea.Cmd {
	return v.Update(tuitest.MouseRelease(x, y))
}

func TestView_CursorMovement(t *testing.T) {
	v, _ := newView("A", "B", "C")

	press(v, 'j')
	press(v, 'j')
	assert.Equal(t, 2, v.cursor)

	press(v, 'j') // clamped at bottom
	assert.Equal(t, 2, v.cursor)

	press(v, 'k')
	assert.Equal(t, 1, v.cursor)
}

func TestView_ToggleSelection(t *testing.T) {
	v, _ := newView("A", "B", "C")

	press(v, ' ')
	press(v, 'j')
	press(v, ' ')

	assert.Equal(t, []int{0, 1}, v.ctrl.Selection().Marked())
}

func TestView_InsertFocusesNewRow(t *testing.T) {
	v, _ := newView("A", "B")

	cmd := press(v, 'o') // insert below cursor row 0
	require.NotNil(t, cmd)

	assert.Equal(t, []string{"A", "", "B"}, docTexts(v.ctrl))
	assert.False(t, v.Editing(), "focus is deferred until after the next render")

	// The deferred focus message lands after the render cycle.
	msg := cmd()
	focus, ok := msg.(focusInsertedMsg)
	require.True(t, ok)
	assert.Equal(t, 1, focus.index)

	v.Update(msg)
	assert.True(t, v.Editing())
	assert.Equal(t, 1, v.editing)
}

func TestView_EditKeystrokesSync(t *testing.T) {
	v, sink := newView("A")

	press(v, 'i')
	require.True(t, v.Editing())

	press(v, 'b')
	press(v, 'c')

	require.NotEmpty(t, sink.pushes)
	last := sink.pushes[len(sink.pushes)-1]
	assert.Equal(t, "Abc", last.Lines[0].Text)

	press(v, tea.KeyEnter)
	assert.False(t, v.Editing())
	assert.Equal(t, "Abc", v.ctrl.Lines()[0].Text)
}

func TestView_DeleteConfirmFlow(t *testing.T) {
	t.Run("d then y deletes the row", func(t *testing.T) {
		v, _ := newView("A", "B", "C")
		press(v, 'j')
		press(v, 'd')
		assert.Equal(t, 1, v.ctrl.PendingDelete())

		press(v, 'y')
		assert.Equal(t, []string{"A", "C"}, docTexts(v.ctrl))
		assert.Equal(t, -1, v.ctrl.PendingDelete())
	})

	t.Run("d then n cancels", func(t *testing.T) {
		v, _ := newView("A", "B", "C")
		press(v, 'd')
		press(v, 'n')

		assert.Equal(t, []string{"A", "B", "C"}, docTexts(v.ctrl))
		assert.Equal(t, -1, v.ctrl.PendingDelete())
	})

	t.Run("movement keys are swallowed while the prompt is open", func(t *testing.T) {
		v, _ := newView("A", "B")
		press(v, 'd')
		press(v, 'j')

		assert.Equal(t, 0, v.cursor)
		assert.Equal(t, 0, v.ctrl.PendingDelete())
	})

	t.Run("confirm disabled deletes immediately", func(t *testing.T) {
		ctrl := NewController(document.ParseText("A\nB"), nil)
		v := New(ctrl, false)
		v.SetSize(80, 24)

		press(v, 'd')
		assert.Equal(t, []string{"B"}, docTexts(ctrl))
	})
}

func TestView_MouseDrag(t *testing.T) {
	// Layout with offsetY 0: divider y=0, row0 y=1, divider, row1 y=3,
	// divider, row2 y=5, divider y=6.
	t.Run("drag first row onto last row's midpoint", func(t *testing.T) {
		v, _ := newView("A", "B", "C")

		mousePress(v, 10, 1)
		mouseMove(v, 10, 5)
		require.True(t, v.Dragging())

		mouseRelease(v, 10, 5)
		assert.Equal(t, []string{"B", "A", "C"}, docTexts(v.ctrl))
		assert.False(t, v.Dragging())
	})

	t.Run("drag below every row appends at the end", func(t *testing.T) {
		v, _ := newView("A", "B", "C")

		mousePress(v, 10, 1)
		mouseMove(v, 10, 7)
		mouseRelease(v, 10, 7)

		assert.Equal(t, []string{"B", "C", "A"}, docTexts(v.ctrl))
	})

	t.Run("selected block drags as one unit", func(t *testing.T) {
		v, _ := newView("W", "X", "Y", "Z")
		v.ctrl.ToggleRow(2)
		v.ctrl.ToggleRow(3)

		// Press on row Y (y=5) and drag above everything.
		mousePress(v, 10, 5)
		mouseMove(v, 10, 0)
		mouseRelease(v, 10, 0)

		assert.Equal(t, []string{"Y", "Z", "W", "X"}, docTexts(v.ctrl))
		assert.Zero(t, v.ctrl.Selection().Len(), "selection clears when the drag completes")
	})

	t.Run("drop at original position keeps order", func(t *testing.T) {
		v, sink := newView("A", "B", "C")

		mousePress(v, 10, 3)
		mouseMove(v, 10, 4)
		mouseMove(v, 10, 3)
		mouseRelease(v, 10, 3)

		assert.Equal(t, []string{"A", "B", "C"}, docTexts(v.ctrl))
		assert.NotEmpty(t, sink.pushes, "no-op drop still resyncs")
	})

	t.Run("escape abandons the drag without touching the model", func(t *testing.T) {
		v, sink := newView("A", "B", "C")

		mousePress(v, 10, 1)
		mouseMove(v, 10, 5)
		require.True(t, v.Dragging())

		press(v, tea.KeyEscape)
		assert.False(t, v.Dragging())
		assert.Equal(t, []string{"A", "B", "C"}, docTexts(v.ctrl))
		assert.Empty(t, sink.pushes)
	})
}

func TestView_MouseClicks(t *testing.T) {
	t.Run("click on divider inserts a row there", func(t *testing.T) {
		v, _ := newView("A", "B")

		mousePress(v, 5, 2) // divider between A and B
		mouseRelease(v, 5, 2)

		assert.Equal(t, []string{"A", "", "B"}, docTexts(v.ctrl))
	})

	t.Run("click in gutter toggles the row", func(t *testing.T) {
		v, _ := newView("A", "B")

		mousePress(v, 3, 3)
		mouseRelease(v, 3, 3)

		assert.Equal(t, []int{1}, v.ctrl.Selection().Marked())
	})

	t.Run("click on text starts editing", func(t *testing.T) {
		v, _ := newView("A", "B")

		mousePress(v, 12, 3)
		mouseRelease(v, 12, 3)

		assert.True(t, v.Editing())
		assert.Equal(t, 1, v.editing)
	})

	t.Run("click on prompt buttons confirms or cancels", func(t *testing.T) {
		v, _ := newView("A", "B")
		press(v, 'd')
		v.View() // render records the button hit ranges

		mousePress(v, v.noStart, 1)
		mouseRelease(v, v.noStart, 1)
		assert.Equal(t, -1, v.ctrl.PendingDelete())
		assert.Len(t, v.ctrl.Lines(), 2)

		press(v, 'd')
		v.View()
		mousePress(v, v.yesStart, 1)
		mouseRelease(v, v.yesStart, 1)
		assert.Equal(t, []string{"B"}, docTexts(v.ctrl))
	})
}

func TestView_KeyboardBlockMove(t *testing.T) {
	t.Run("J moves the cursor row down", func(t *testing.T) {
		v, _ := newView("A", "B", "C")

		press(v, 'J')
		assert.Equal(t, []string{"B", "A", "C"}, docTexts(v.ctrl))
		assert.Equal(t, 1, v.cursor, "cursor follows the moved row")
	})

	t.Run("K moves a selected block up", func(t *testing.T) {
		v, _ := newView("A", "B", "C", "D")
		v.ctrl.ToggleRow(2)
		v.ctrl.ToggleRow(3)
		v.cursor = 2

		press(v, 'K')
		assert.Equal(t, []string{"A", "C", "D", "B"}, docTexts(v.ctrl))
	})

	t.Run("J at the bottom is a no-op order-wise", func(t *testing.T) {
		v, _ := newView("A", "B")
		v.cursor = 1

		press(v, 'J')
		assert.Equal(t, []string{"A", "B"}, docTexts(v.ctrl))
	})
}

func TestView_RenderAbortKeepsPriorFrame(t *testing.T) {
	v, _ := newView("A")
	good := v.View()
	assert.Contains(t, good, "A")

	v.ctrl.doc = nil
	assert.Equal(t, good, v.View())
}

func TestView_Render(t *testing.T) {
	v, _ := newView("alpha", "beta")
	out := tuitest.StripANSI(v.View())

	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "beta")
	assert.Contains(t, out, "1")
	assert.Contains(t, out, "2")

	t.Run("pending delete prompt is rendered", func(t *testing.T) {
		press(v, 'd')
		out := tuitest.StripANSI(v.View())
		assert.Contains(t, out, "[y]es")
		assert.Contains(t, out, "[n]o")
	})
}
