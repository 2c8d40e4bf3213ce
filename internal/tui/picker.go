// Package tui implements the interactive tmux pane picker.
package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/a3lem/replink/internal/config"
	"github.com/a3lem/replink/internal/repl"
	"github.com/a3lem/replink/internal/tmux"
)

// paneItem implements list.Item for one tmux pane.
type paneItem struct {
	pane tmux.Pane
}

func (i paneItem) Title() string {
	return fmt.Sprintf("%s  %s", i.pane.ID, i.pane.Command)
}

func (i paneItem) Description() string {
	if i.pane.Title != "" {
		return fmt.Sprintf("%s  %s", i.pane.Location, i.pane.Title)
	}
	return i.pane.Location
}

func (i paneItem) FilterValue() string {
	return i.pane.ID + " " + i.pane.Location + " " + i.pane.Command
}

// paneDelegate renders panes compactly, one line each, marking panes that
// look like Python REPLs.
type paneDelegate struct {
	selected lipgloss.Style
	repl     lipgloss.Style
}

func (d paneDelegate) Height() int                             { return 1 }
func (d paneDelegate) Spacing() int                            { return 0 }
func (d paneDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d paneDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(paneItem)
	if !ok {
		return
	}
	marker := " "
	if repl.IsPythonREPL(item.pane.Command) {
		marker = d.repl.Render("●")
	}
	s := fmt.Sprintf("%s %-4s %-18s %s", marker, item.pane.ID, item.pane.Location, item.pane.Command)
	if index == m.Index() {
		s = d.selected.Render("> " + s)
	} else {
		s = "  " + s
	}
	fmt.Fprint(w, s)
}

// Model is the bubbletea model for the pane picker.
type Model struct {
	list     list.Model
	title    lipgloss.Style
	selected *tmux.Pane
	quitting bool
}

// New creates a picker over the given panes. accentColor is a hex color;
// empty means the default.
func New(panes []tmux.Pane, accentColor string) Model {
	if accentColor == "" {
		accentColor = config.DefaultAccentColor
	}
	accent := lipgloss.Color(accentColor)

	delegate := paneDelegate{
		selected: lipgloss.NewStyle().Bold(true).Foreground(accent),
		repl:     lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
	}

	items := make([]list.Item, len(panes))
	for i, p := range panes {
		items[i] = paneItem{pane: p}
	}

	l := list.New(items, delegate, 60, len(items)+2)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return Model{
		list:  l,
		title: lipgloss.NewStyle().Background(accent).Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Padding(0, 1),
	}
}

// Selected returns the pane chosen by the user, or nil if the picker was
// cancelled.
func (m Model) Selected() *tmux.Pane {
	return m.selected
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(paneItem); ok {
				pane := item.pane
				m.selected = &pane
			}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.title.Render("Select a pane") + "\n" + m.list.View()
}

// Pick runs the picker and returns the chosen pane. ok is false when the
// user cancelled.
func Pick(panes []tmux.Pane, accentColor string) (tmux.Pane, bool, error) {
	final, err := tea.NewProgram(New(panes, accentColor)).Run()
	if err != nil {
		return tmux.Pane{}, false, fmt.Errorf("pane picker: %w", err)
	}
	m, ok := final.(Model)
	if !ok || m.Selected() == nil {
		return tmux.Pane{}, false, nil
	}
	return *m.Selected(), true, nil
}
