package tui

import (
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/linedit/internal/core/config"
	"github.com/colonyops/linedit/internal/core/document"
	"github.com/colonyops/linedit/internal/tui/views/editor"
	"github.com/colonyops/linedit/pkg/tuitest"
)

func newTestModel(t *testing.T, save SaveFunc, saveOnQuit bool, texts ...string) Model {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Editor.SaveOnQuit = saveOnQuit

	m := New(Deps{
		Config:     &cfg,
		Controller: editor.NewController(document.ParseText(join(texts)), nil),
		Source:     "notes.txt",
		Save:       save,
	})

	mm, _ := m.Update(tuitest.WindowSize(100, 30))
	return mm.(Model)
}

func join(texts []string) string {
	out := ""
	for i, t := range texts {
		if i > 0 {
			out += "\n"
		}
		out += t
	}
	return out
}

func pressKey(m Model, code rune) (Model, tea.Cmd) {
	mm, cmd := m.Update(tuitest.KeyPress(code))
	return mm.(Model), cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_QuitClean(t *testing.T) {
	m := newTestModel(t, nil, false, "A", "B")

	_, cmd := pressKey(m, 'q')
	assert.True(t, isQuit(cmd))
}

func TestModel_QuitDirtyAsks(t *testing.T) {
	m := newTestModel(t, nil, false, "A", "B")
	m.ctrl.InsertAt(0)
	require.True(t, m.ctrl.Dirty())

	m, cmd := pressKey(m, 'q')
	assert.False(t, isQuit(cmd))
	assert.Contains(t, tuitest.StripANSI(m.View()), "Unsaved changes")

	t.Run("n returns to the editor", func(t *testing.T) {
		m, cmd := pressKey(m, 'n')
		assert.False(t, isQuit(cmd))
		assert.Equal(t, stateNormal, m.state)
	})

	t.Run("y quits without saving", func(t *testing.T) {
		_, cmd := pressKey(m, 'y')
		assert.True(t, isQuit(cmd))
	})
}

func TestModel_SaveOnQuit(t *testing.T) {
	t.Run("saves and quits", func(t *testing.T) {
		var saved *document.Document
		save := func(doc document.Document) error {
			saved = &doc
			return nil
		}

		m := newTestModel(t, save, true, "A", "B")
		m.ctrl.InsertAt(2)

		_, cmd := pressKey(m, 'q')
		assert.True(t, isQuit(cmd))
		require.NotNil(t, saved)
		assert.Len(t, saved.Lines, 3)
	})

	t.Run("save failure asks before quitting", func(t *testing.T) {
		save := func(document.Document) error {
			return errors.New("disk full")
		}

		m := newTestModel(t, save, true, "A")
		m.ctrl.InsertAt(0)

		m, cmd := pressKey(m, 'q')
		assert.False(t, isQuit(cmd))
		assert.Contains(t, tuitest.StripANSI(m.View()), "Saving failed")
	})
}

func TestModel_CtrlCAlwaysQuits(t *testing.T) {
	m := newTestModel(t, nil, false, "A")
	m.ctrl.InsertAt(0)

	_, cmd := m.Update(tea.KeyPressMsg(tea.Key{Code: 'c', Mod: tea.ModCtrl}))
	assert.True(t, isQuit(cmd))
}

func TestModel_HelpOverlay(t *testing.T) {
	m := newTestModel(t, nil, false, "A")

	m, _ = pressKey(m, '?')
	assert.Equal(t, stateShowingHelp, m.state)
	assert.Contains(t, tuitest.StripANSI(m.View()), "Keyboard Shortcuts")

	m, _ = pressKey(m, tea.KeyEscape)
	assert.Equal(t, stateNormal, m.state)
}

func TestModel_QWhileEditingTypesQ(t *testing.T) {
	m := newTestModel(t, nil, false, "A")

	m, _ = pressKey(m, 'i')
	require.True(t, m.editor.Editing())

	m, cmd := pressKey(m, 'q')
	assert.False(t, isQuit(cmd))
	assert.True(t, m.editor.Editing())
}

func TestModel_HeaderStatus(t *testing.T) {
	m := newTestModel(t, nil, false, "A")
	assert.Contains(t, tuitest.StripANSI(m.View()), "synced")

	m.ctrl.InsertAt(0)
	assert.Contains(t, tuitest.StripANSI(m.View()), "modified")
}
