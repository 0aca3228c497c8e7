// Package tui implements the live watch view: scan results refreshed on a
// schedule with the current best candidate highlighted.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	wifilog "github.com/shazow/wifiselect/internal/log"
	"github.com/shazow/wifiselect/wifi"
	"github.com/shazow/wifiselect/wifi/scan"
)

// Selector is what the watch view drives on every tick.
type Selector interface {
	FindBestConnectionCandidate(ctx context.Context, ignore []wifi.NetworkIdentifier) (*wifi.ConnectionCandidate, error)
	AddObserver(sink scan.Sink)
}

// Sink forwards scan rounds to a running program.
type Sink struct {
	send func(tea.Msg)
}

func (s Sink) UpdateScanResults(ctx context.Context, results []wifi.ScanResult) error {
	s.send(scanResultsMsg(results))
	return nil
}

// The main model for our TUI application
type model struct {
	ctx      context.Context
	selector Selector
	stack    *ComponentStack
	schedule *ScanSchedule
	interval time.Duration

	spinner       spinner.Model
	loading       bool
	statusMessage string
	lastScan      time.Time
}

// NewModel creates the starting state of our application
func NewModel(ctx context.Context, sel Selector, interval time.Duration) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(CurrentTheme.Primary)

	m := &model{
		ctx:      ctx,
		selector: sel,
		stack:    NewComponentStack(NewListModel()),
		interval: interval,
		spinner:  s,
	}
	m.schedule = NewScanSchedule(func() tea.Msg { return scanMsg{} })
	return m
}

func selectBest(ctx context.Context, sel Selector) tea.Cmd {
	return func() tea.Msg {
		c, err := sel.FindBestConnectionCandidate(ctx, nil)
		return selectionMsg{candidate: c, err: err}
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.stack.Top().Init(), m.schedule.SetSchedule(m.interval))
}

// Update handles all incoming messages and updates the model accordingly
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Global messages that are not passed to components
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.stack.Resize(msg.Width, msg.Height)
	case pushMsg:
		return m, m.stack.Push(msg.component)
	case popViewMsg:
		m.stack.Pop()
		return m, nil
	case errorMsg:
		m.loading = false
		return m, m.stack.Push(NewErrorModel(msg.err))
	case scanMsg:
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.statusMessage = "Scanning for networks..."
		return m, selectBest(m.ctx, m.selector)
	case scanResultsMsg:
		m.lastScan = time.Now()
	case selectionMsg:
		m.loading = false
		m.statusMessage = describeSelection(msg)
		if msg.err != nil {
			cmds = append(cmds, func() tea.Msg { return errorMsg{msg.err} })
		}
	case wifilog.LogMsg:
		// Re-render so an open log view picks up the new line.
		return m, nil
	case tickMsg:
		return m, m.schedule.Update(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "p":
			if m.stack.Len() == 1 {
				enabled, cmd := m.schedule.Toggle()
				if enabled {
					m.statusMessage = "Resumed."
				} else {
					m.statusMessage = "Paused."
				}
				return m, cmd
			}
		}
	}

	// Scan results and selections always reach the list, even under another view.
	switch msg.(type) {
	case scanResultsMsg, selectionMsg:
		cmds = append(cmds, m.stack.UpdateBase(msg))
	default:
		cmds = append(cmds, m.stack.Update(msg))
	}

	var spinnerCmd tea.Cmd
	m.spinner, spinnerCmd = m.spinner.Update(msg)
	cmds = append(cmds, spinnerCmd)

	return m, tea.Batch(cmds...)
}

func describeSelection(msg selectionMsg) string {
	switch {
	case msg.err != nil:
		return "Selection failed."
	case msg.candidate == nil:
		return "No saved network in range."
	}
	return fmt.Sprintf("Best: %s via %s", msg.candidate.Network, msg.candidate.BSSID)
}

// View renders the UI based on the current model state
func (m *model) View() string {
	var s strings.Builder
	s.WriteString(m.stack.View())

	status := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(m.statusMessage)
	if m.loading {
		s.WriteString(fmt.Sprintf("\n\n%s %s", m.spinner.View(), status))
	} else if m.statusMessage != "" {
		s.WriteString(fmt.Sprintf("\n\n%s", status))
	}
	if !m.lastScan.IsZero() {
		s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Render("  last scan " + m.lastScan.Format(time.TimeOnly)))
	}
	if m.schedule.Interval() == ScanOff {
		s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Render("  [paused]"))
	}
	return s.String()
}

// Run runs the watch view until the user quits or ctx ends.
func Run(ctx context.Context, sel Selector, interval time.Duration) error {
	if interval <= 0 {
		interval = ScanDefault
	}
	m := NewModel(ctx, sel, interval)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	sel.AddObserver(Sink{send: p.Send})

	logs := make(chan tea.Msg, 16)
	wifilog.SetOutput(logs)
	defer wifilog.SetOutput(nil)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case msg := <-logs:
				p.Send(msg)
			case <-done:
				return
			}
		}
	}()

	_, err := p.Run()
	return err
}
