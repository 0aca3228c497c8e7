package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shazow/wifiselect/wifi"
)

// Component is the interface for a TUI component.
type Component interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Component, tea.Cmd)
	View() string
	Resize(width, height int)
}

// Bubbletea messages are used to communicate between the main loop and commands
type (
	// From the scan sink
	scanResultsMsg []wifi.ScanResult

	// From the selector
	selectionMsg struct {
		candidate *wifi.ConnectionCandidate
		err       error
	}
	errorMsg struct{ err error }

	// To main model
	scanMsg    struct{}
	pushMsg    struct{ component Component }
	popViewMsg struct{}
)

func push(c Component) tea.Cmd {
	return func() tea.Msg { return pushMsg{component: c} }
}

func pop() tea.Msg {
	return popViewMsg{}
}
