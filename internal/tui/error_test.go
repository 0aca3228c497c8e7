package tui

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestErrorModel_AnyKey(t *testing.T) {
	m := NewErrorModel(errors.New("test error"))
	anyKeyMsg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}
	_, cmd := m.Update(anyKeyMsg)

	msg := cmd()
	if _, ok := msg.(popViewMsg); !ok {
		t.Errorf("expected a popViewMsg but got %T", msg)
	}
}

func TestErrorModel_Retry(t *testing.T) {
	m := NewErrorModel(errors.New("test error"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Fatal("expected a command for r")
	}

	// tea.Sequence hides its commands in an unexported slice type.
	seq := reflect.ValueOf(cmd())
	if seq.Kind() != reflect.Slice {
		t.Fatalf("expected a sequence, got %T", cmd())
	}
	var msgs []tea.Msg
	for i := 0; i < seq.Len(); i++ {
		msgs = append(msgs, seq.Index(i).Interface().(tea.Cmd)())
	}
	want := []tea.Msg{popViewMsg{}, scanMsg{}}
	if !reflect.DeepEqual(msgs, want) {
		t.Errorf("got %#v, want %#v", msgs, want)
	}
}

func TestErrorModel_IgnoresNonKeys(t *testing.T) {
	m := NewErrorModel(errors.New("test error"))
	if _, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24}); cmd != nil {
		t.Error("expected no command for a non-key message")
	}
}

func TestErrorModel_View(t *testing.T) {
	m := NewErrorModel(errors.New("test error"))
	m.Resize(60, 20)
	view := m.View()
	for _, want := range []string{"Error: test error", "r: retry"} {
		if !strings.Contains(view, want) {
			t.Errorf("View does not contain %q in\n%s", want, view)
		}
	}
}

func TestLogViewModel(t *testing.T) {
	m := NewLogViewModel()
	m.lines = func() []string {
		return []string{"10:00:00 INF scan round started", "10:00:01 ERR scan failed"}
	}

	view := m.View()
	for _, want := range []string{"scan round started", "scan failed"} {
		if !strings.Contains(view, want) {
			t.Errorf("View does not contain %q in\n%s", want, view)
		}
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a command for esc")
	}
	if _, ok := cmd().(popViewMsg); !ok {
		t.Error("esc did not pop the log view")
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}); cmd != nil {
		t.Error("unexpected command for an unbound key")
	}
}
