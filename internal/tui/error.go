package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrorModel shows a failed selection round on top of the network list.
// r dismisses it and starts a new round, any other key just dismisses it.
type ErrorModel struct {
	err   error
	width int
}

func NewErrorModel(err error) *ErrorModel {
	return &ErrorModel{err: err}
}

func (m *ErrorModel) Init() tea.Cmd {
	return nil
}

func (m *ErrorModel) Resize(width, height int) {
	m.width = width
}

func (m *ErrorModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.String() == "r" {
		return m, tea.Sequence(pop, func() tea.Msg { return scanMsg{} })
	}
	return m, pop
}

func (m *ErrorModel) View() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder(), true).
		BorderForeground(CurrentTheme.Error).
		Padding(1, 2)
	// Width covers the padding but not the margins or the border.
	if m.width > 20 {
		box = box.Width(m.width - 6)
	}
	hint := lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Render("r: retry, any key: back")
	body := lipgloss.JoinVertical(lipgloss.Left, fmt.Sprintf("Error: %s", m.err), "", hint)
	return lipgloss.NewStyle().Margin(1, 2).Render(box.Render(body))
}
