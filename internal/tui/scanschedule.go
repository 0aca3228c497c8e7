package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	ScanOff     = 0
	ScanDefault = 2 * time.Second
)

// ScanSchedule triggers selection rounds at a regular interval.
type ScanSchedule struct {
	callback func() tea.Msg
	interval time.Duration
	// paused keeps the configured interval so Toggle can resume it.
	paused time.Duration
	// gen invalidates ticks scheduled before the last restart.
	gen int
}

// NewScanSchedule creates a new ScanSchedule.
func NewScanSchedule(callback func() tea.Msg) *ScanSchedule {
	return &ScanSchedule{
		callback: callback,
		paused:   ScanDefault,
	}
}

// Interval returns the current interval, ScanOff when paused.
func (s *ScanSchedule) Interval() time.Duration {
	return s.interval
}

// Toggle pauses or resumes the schedule.
func (s *ScanSchedule) Toggle() (bool, tea.Cmd) {
	if s.interval == ScanOff {
		return true, s.SetSchedule(s.paused)
	}
	s.paused = s.interval
	return false, s.SetSchedule(ScanOff)
}

// SetSchedule sets the scan interval. Starting from off runs a scan right
// away.
func (s *ScanSchedule) SetSchedule(interval time.Duration) tea.Cmd {
	isStarting := s.interval == ScanOff && interval != ScanOff
	s.interval = interval
	s.gen++

	if isStarting {
		return tea.Batch(s.callback, s.tick())
	}
	return s.tick()
}

// Update handles messages for the ScanSchedule.
func (s *ScanSchedule) Update(msg tea.Msg) tea.Cmd {
	if s.interval == ScanOff {
		return nil
	}

	switch msg := msg.(type) {
	case tickMsg:
		if msg.gen != s.gen {
			return nil
		}
		return tea.Batch(s.callback, s.tick())
	}
	return nil
}

// internal message to trigger a tick
type tickMsg struct{ gen int }

func (s *ScanSchedule) tick() tea.Cmd {
	if s.interval == ScanOff {
		return nil
	}
	gen := s.gen
	return tea.Tick(s.interval, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}
