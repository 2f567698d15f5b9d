// Package tui hosts the interactive line editor program.
package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/linedit/internal/core/config"
	"github.com/colonyops/linedit/internal/core/document"
	"github.com/colonyops/linedit/internal/core/styles"
	"github.com/colonyops/linedit/internal/tui/components"
	"github.com/colonyops/linedit/internal/tui/views/editor"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	stateShowingHelp
	stateConfirmingQuit
)

// headerHeight is the number of frame lines above the editor. The editor
// needs it to map mouse coordinates onto its rows.
const headerHeight = 2

// SaveFunc persists the document back to its source.
type SaveFunc func(document.Document) error

// Deps carries everything the TUI needs from the command layer.
type Deps struct {
	Config     *config.Config
	Controller *editor.Controller
	Source     string // display name of the document origin
	Save       SaveFunc
}

// Model is the main Bubble Tea model for the editor program.
type Model struct {
	cfg    *config.Config
	ctrl   *editor.Controller
	editor *editor.View
	save   SaveFunc
	source string

	state   UIState
	confirm components.ConfirmModal
	help    *components.HelpDialog

	width    int
	height   int
	quitting bool
}

// New creates the TUI model.
func New(deps Deps) Model {
	ed := editor.New(deps.Controller, deps.Config.ConfirmDelete())
	ed.SetOffsetY(headerHeight)

	return Model{
		cfg:    deps.Config,
		ctrl:   deps.Controller,
		editor: ed,
		save:   deps.Save,
		source: deps.Source,
		help:   components.NewHelpDialog("Keyboard Shortcuts", helpSections()),
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return m.editor.Init()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetSize(msg.Width, msg.Height-headerHeight-2)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state != stateNormal {
		return m, nil
	}
	return m, m.editor.Update(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.state {
	case stateShowingHelp:
		switch msg.String() {
		case "esc", "?", "q":
			m.state = stateNormal
		}
		return m, nil

	case stateConfirmingQuit:
		var cmd tea.Cmd
		m.confirm, cmd = m.confirm.Update(msg)
		switch {
		case m.confirm.Confirmed():
			return m.quit()
		case m.confirm.Cancelled():
			m.state = stateNormal
		}
		return m, cmd
	}

	if m.editor.Editing() {
		return m, m.editor.Update(msg)
	}

	switch msg.String() {
	case "q":
		return m.requestQuit()
	case "?":
		m.state = stateShowingHelp
		return m, nil
	}

	return m, m.editor.Update(msg)
}

// requestQuit decides between quitting, saving first, and asking. Unsaved
// changes never vanish silently.
func (m Model) requestQuit() (tea.Model, tea.Cmd) {
	m.ctrl.Flush()

	if !m.ctrl.Dirty() {
		return m.quit()
	}

	if m.save != nil && m.cfg.Editor.SaveOnQuit {
		if err := m.save(m.ctrl.Doc().Snapshot()); err != nil {
			log.Error().Err(err).Msg("failed to save document")
			m.confirm = components.NewConfirmModal(fmt.Sprintf("Saving failed: %v. Quit anyway?", err))
			m.state = stateConfirmingQuit
			return m, nil
		}
		m.ctrl.MarkClean()
		return m.quit()
	}

	m.confirm = components.NewConfirmModal("Unsaved changes will be lost.")
	m.state = stateConfirmingQuit
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// View renders the full program frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	base := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		m.editor.View(),
		"",
		m.renderFooter(),
	)

	switch m.state {
	case stateShowingHelp:
		return m.help.Overlay(base, m.width, m.height)
	case stateConfirmingQuit:
		return components.Overlay(base, m.confirm.View(), m.width, m.height)
	}
	return base
}

func (m Model) renderHeader() string {
	left := styles.TextPrimaryBoldStyle.Render("linedit")
	if m.source != "" {
		left += " " + styles.TextMutedStyle.Render(m.source)
	}

	status := styles.StatusSyncedStyle.Render(styles.GlyphSynced + " synced")
	if m.ctrl.Dirty() {
		status = styles.StatusDirtyStyle.Render(styles.GlyphDirty + " modified")
	}

	pad := m.width - lipgloss.Width(left) - lipgloss.Width(status)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + status
}

func (m Model) renderFooter() string {
	if m.editor.Editing() {
		return styles.FooterHelpStyle.Render("  enter/esc done editing")
	}
	return styles.FooterHelpStyle.Render("  j/k move • space mark • enter edit • o insert • d delete • J/K shift • ? help • q quit")
}

func helpSections() []components.HelpDialogSection {
	return []components.HelpDialogSection{
		{
			Title: "Navigation",
			Entries: []components.HelpEntry{
				{Key: "j/k, ↓/↑", Desc: "move cursor"},
				{Key: "space", Desc: "mark or unmark row"},
				{Key: "esc", Desc: "clear marks"},
			},
		},
		{
			Title: "Editing",
			Entries: []components.HelpEntry{
				{Key: "enter, i", Desc: "edit row in place"},
				{Key: "o / O", Desc: "insert line below / above"},
				{Key: "d", Desc: "delete row (y confirm, n cancel)"},
			},
		},
		{
			Title: "Reorder",
			Entries: []components.HelpEntry{
				{Key: "J / K", Desc: "move row or marked block"},
				{Key: "drag", Desc: "reorder with the mouse"},
			},
		},
		{
			Title: "General",
			Entries: []components.HelpEntry{
				{Key: "?", Desc: "toggle this help"},
				{Key: "q", Desc: "quit (saves when configured)"},
				{Key: "ctrl+c", Desc: "quit without saving"},
			},
		},
	}
}
