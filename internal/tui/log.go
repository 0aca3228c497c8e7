package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	wifilog "github.com/shazow/wifiselect/internal/log"
)

// LogViewModel shows the most recent log lines.
type LogViewModel struct {
	// lines is swapped out in tests.
	lines func() []string
}

// NewLogViewModel creates a new LogViewModel.
func NewLogViewModel() *LogViewModel {
	return &LogViewModel{lines: wifilog.Logs}
}

func (m *LogViewModel) Init() tea.Cmd {
	return nil
}

func (m *LogViewModel) Resize(width, height int) {}

func (m *LogViewModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "l":
			return m, pop
		}
	}
	return m, nil
}

func (m *LogViewModel) View() string {
	var s strings.Builder
	s.WriteString("Latest logs (press 'q' to return):\n\n")

	errStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Error)
	warnStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Primary)
	normalStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Normal)
	for _, line := range m.lines() {
		style := normalStyle
		switch {
		case strings.Contains(line, " ERR "):
			style = errStyle
		case strings.Contains(line, " WRN "):
			style = warnStyle
		}
		s.WriteString(style.Render(line))
		s.WriteString("\n")
	}
	return lipgloss.NewStyle().Margin(1, 2).Render(s.String())
}
