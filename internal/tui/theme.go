package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color is a lipgloss color that can be read from TOML as either "#hex" or
// ["#light", "#dark"].
type Color struct {
	lipgloss.TerminalColor
}

func (c *Color) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		c.TerminalColor = lipgloss.Color(v)
	case []any:
		if len(v) != 2 {
			return fmt.Errorf("adaptive color needs [light, dark], got %d values", len(v))
		}
		light, lok := v[0].(string)
		dark, dok := v[1].(string)
		if !lok || !dok {
			return fmt.Errorf("adaptive color values must be strings")
		}
		c.TerminalColor = lipgloss.AdaptiveColor{Light: light, Dark: dark}
	default:
		return fmt.Errorf("unsupported color value %T", v)
	}
	return nil
}

// hex resolves the color for the current background.
func (c Color) hex() string {
	switch v := c.TerminalColor.(type) {
	case lipgloss.Color:
		return string(v)
	case lipgloss.AdaptiveColor:
		if lipgloss.HasDarkBackground() {
			return v.Dark
		}
		return v.Light
	}
	return ""
}

// Theme contains the colors for the application.
type Theme struct {
	Primary  Color `toml:"Primary"`
	Subtle   Color `toml:"Subtle"`
	Success  Color `toml:"Success"`
	Error    Color `toml:"Error"`
	Normal   Color `toml:"Normal"`
	Disabled Color `toml:"Disabled"`
	Border   Color `toml:"Border"`

	// Signal colors are the ends of the RSSI gradient.
	SignalHigh Color `toml:"SignalHigh"`
	SignalLow  Color `toml:"SignalLow"`
}

// CurrentTheme is the active theme for the application.
var CurrentTheme = NewDefaultTheme()

func adaptive(light, dark string) Color {
	return Color{lipgloss.AdaptiveColor{Light: light, Dark: dark}}
}

// NewDefaultTheme creates a new default theme.
func NewDefaultTheme() Theme {
	return Theme{
		Primary:  adaptive("#5A56E0", "#D359E3"), // Purple/Pink
		Subtle:   adaptive("#BDBDBD", "#616161"), // Gray
		Success:  adaptive("#388E3C", "#81C784"), // Green
		Error:    adaptive("#D32F2F", "#E57373"), // Red
		Normal:   adaptive("#212121", "#FFFFFF"), // Black/White
		Disabled: adaptive("#E0E0E0", "#424242"),
		Border:   adaptive("#BDBDBD", "#616161"),

		SignalHigh: adaptive("#00B300", "#00FF00"),
		SignalLow:  adaptive("#D05F00", "#BC3C00"),
	}
}
