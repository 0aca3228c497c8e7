// Package log sets up the process logger and keeps the most recent lines in
// memory for the TUI.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// DefaultRingSize is how many recent lines Logs returns.
const DefaultRingSize = 20

type Config struct {
	Level string `toml:"level"`
	Debug bool   `toml:"debug"`
	// Output is one of stderr (default), stdout, console or none. console
	// is human readable on stderr. none only feeds the in-memory ring.
	Output     string `toml:"output"`
	TimeFormat string `toml:"time_format"`
	// File additionally receives every event. It is truncated on start.
	File string `toml:"file"`
}

// LogMsg is a tea.Msg carrying one formatted log line.
type LogMsg string

// Ring is an io.Writer that keeps the last lines written to it and forwards
// each one to a tea.Program when one is attached.
type Ring struct {
	mu    sync.Mutex
	limit int
	lines []string
	ch    chan<- tea.Msg
}

func NewRing(limit int) *Ring {
	return &Ring{limit: limit}
}

func (r *Ring) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
	if len(r.lines) > r.limit {
		r.lines = r.lines[len(r.lines)-r.limit:]
	}
	if r.ch != nil {
		// Never block logging on a slow UI.
		select {
		case r.ch <- LogMsg(line):
		default:
		}
	}
	return len(p), nil
}

// Lines returns a copy of the stored lines, oldest first.
func (r *Ring) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// SetOutput sets the channel new lines are sent to. nil detaches it.
func (r *Ring) SetOutput(ch chan<- tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ch = ch
}

var defaultRing = NewRing(DefaultRingSize)

// New builds a logger from cfg that also writes to ring.
func New(cfg Config, ring *Ring) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	} else if cfg.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), err
		}
	}

	timeFormat := time.RFC3339
	if cfg.TimeFormat != "" {
		timeFormat = cfg.TimeFormat
	}
	zerolog.TimeFieldFormat = timeFormat

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: ring, NoColor: true, TimeFormat: time.Kitchen},
	}
	switch cfg.Output {
	case "", "stderr":
		writers = append(writers, os.Stderr)
	case "stdout":
		writers = append(writers, os.Stdout)
	case "console":
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: timeFormat})
	case "none":
	default:
		writers = append(writers, os.Stderr)
	}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("opening log file: %w", err)
		}
		writers = append(writers, f)
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// Init builds a logger that writes to the default ring.
func Init(cfg Config) (zerolog.Logger, error) {
	return New(cfg, defaultRing)
}

// SetOutput sets the tea channel for the default ring.
func SetOutput(ch chan<- tea.Msg) {
	defaultRing.SetOutput(ch)
}

// Logs returns the most recent lines from the default logger.
func Logs() []string {
	return defaultRing.Lines()
}
