package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestLoadTheme(t *testing.T) {
	tomlData := `
		Primary = "#FF0000"
		Subtle = ["#00FF00", "#00EE00"]
		SignalHigh = "#008000"
	`

	loadedTheme, err := LoadTheme(strings.NewReader(tomlData))
	if err != nil {
		t.Fatalf("LoadTheme failed: %v", err)
	}

	expectedColor := Color{lipgloss.Color("#FF0000")}
	if loadedTheme.Primary != expectedColor {
		t.Errorf("Expected Primary color to be %v, but got %v", expectedColor, loadedTheme.Primary)
	}

	adaptiveColor, ok := loadedTheme.Subtle.TerminalColor.(lipgloss.AdaptiveColor)
	if !ok {
		t.Fatalf("Expected Subtle color to be an AdaptiveColor, but it's not")
	}
	if adaptiveColor.Light != "#00FF00" || adaptiveColor.Dark != "#00EE00" {
		t.Errorf("Unexpected Subtle color %v", adaptiveColor)
	}

	// Colors missing from the file keep their defaults.
	if loadedTheme.Error != NewDefaultTheme().Error {
		t.Errorf("Expected default Error color, got %v", loadedTheme.Error)
	}
	if got := loadedTheme.SignalHigh.hex(); got != "#008000" {
		t.Errorf("Expected SignalHigh hex #008000, got %s", got)
	}
}

func TestLoadTheme_Errors(t *testing.T) {
	tests := map[string]string{
		"invalid toml":        `Primary = `,
		"unknown color":       `Sparkle = "#FFFFFF"`,
		"short adaptive":      `Primary = ["#FFFFFF"]`,
		"non-string adaptive": `Primary = [1, 2]`,
		"number":              `Primary = 7`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadTheme(strings.NewReader(data)); err == nil {
				t.Fatalf("LoadTheme should have failed")
			}
		})
	}

	if _, err := LoadTheme(nil); err == nil {
		t.Fatalf("LoadTheme(nil) should have returned an error")
	}
}

func TestLoadThemeFile(t *testing.T) {
	defer func() { CurrentTheme = NewDefaultTheme() }()

	if err := LoadThemeFile(""); err != nil {
		t.Fatalf("empty path should be a no-op: %v", err)
	}

	path := filepath.Join(t.TempDir(), "theme.toml")
	if err := os.WriteFile(path, []byte(`Border = "#123456"`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := LoadThemeFile(path); err != nil {
		t.Fatalf("LoadThemeFile failed: %v", err)
	}
	if CurrentTheme.Border != (Color{lipgloss.Color("#123456")}) {
		t.Errorf("CurrentTheme not updated: %v", CurrentTheme.Border)
	}

	if err := LoadThemeFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
