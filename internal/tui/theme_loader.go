package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// LoadTheme decodes a theme from r on top of the default theme, so a file
// only needs the colors it overrides.
func LoadTheme(r io.Reader) (Theme, error) {
	theme := NewDefaultTheme()
	if r == nil {
		return theme, errors.New("no theme reader")
	}
	md, err := toml.NewDecoder(r).Decode(&theme)
	if err != nil {
		return theme, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return theme, fmt.Errorf("unknown theme colors: %s", strings.Join(keys, ", "))
	}
	return theme, nil
}

// LoadThemeFile replaces CurrentTheme with the theme at path. An empty path
// does nothing.
func LoadThemeFile(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	theme, err := LoadTheme(f)
	if err != nil {
		return fmt.Errorf("theme %s: %w", path, err)
	}
	CurrentTheme = theme
	return nil
}
