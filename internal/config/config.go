// Package config loads wifiselect tunables from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/shazow/wifiselect/internal/log"
	"github.com/shazow/wifiselect/wifi/scan"
	"github.com/shazow/wifiselect/wifi/selection"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Duration is a time.Duration written as a Go duration string.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

type Config struct {
	Log       log.Config      `toml:"log"`
	Store     StoreConfig     `toml:"store"`
	Scan      ScanConfig      `toml:"scan"`
	Selection SelectionConfig `toml:"selection"`
	Location  LocationConfig  `toml:"location"`
	TUI       TUIConfig       `toml:"tui"`
}

type StoreConfig struct {
	Path string `toml:"path"`
}

type ScanConfig struct {
	RetryDelay          Duration `toml:"retry_delay"`
	ChunkSize           int      `toml:"chunk_size"`
	IteratorIdleTimeout Duration `toml:"iterator_idle_timeout"`
}

type SelectionConfig struct {
	StaleScanAge               Duration `toml:"stale_scan_age"`
	RecentFailureWindow        Duration `toml:"recent_failure_window"`
	RSSICutoff5G               int8     `toml:"rssi_cutoff_5g"`
	Boost5G                    int8     `toml:"boost_5g"`
	FailurePenalty             int8     `toml:"failure_penalty"`
	CredentialRejectedPenalty  int8     `toml:"credential_rejected_penalty"`
	LogLimit                   int      `toml:"log_limit"`
	HiddenProbabilityThreshold float64  `toml:"hidden_probability_threshold"`
	MaxActiveScanNetworks      int      `toml:"max_active_scan_networks"`
}

// LocationConfig points at the NATS server scan observations are published
// to. An empty URL disables publishing.
type LocationConfig struct {
	NATSURL string `toml:"nats_url"`
	Subject string `toml:"subject"`
}

type TUIConfig struct {
	Theme string `toml:"theme"`
}

// DefaultStorePath is networks.db in the user config directory, or in the
// working directory if there is none.
func DefaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "networks.db"
	}
	return filepath.Join(dir, "wifiselect", "networks.db")
}

// Default returns the built-in configuration.
func Default() Config {
	sc := scan.DefaultConfig()
	sel := selection.DefaultConfig()
	return Config{
		Log:   log.Config{Level: "info", Output: "stderr"},
		Store: StoreConfig{Path: DefaultStorePath()},
		Scan: ScanConfig{
			RetryDelay:          Duration(sc.RetryDelay),
			ChunkSize:           sc.ChunkSize,
			IteratorIdleTimeout: Duration(sc.IteratorIdleTimeout),
		},
		Selection: SelectionConfig{
			StaleScanAge:               Duration(sel.StaleScanAge),
			RecentFailureWindow:        Duration(sel.RecentFailureWindow),
			RSSICutoff5G:               sel.RSSICutoff5G,
			Boost5G:                    sel.Boost5G,
			FailurePenalty:             sel.GeneralFailurePenalty,
			CredentialRejectedPenalty:  sel.CredentialRejectedPenalty,
			LogLimit:                   sel.SelectionLogLimit,
			HiddenProbabilityThreshold: sel.HiddenProbabilityThreshold,
			MaxActiveScanNetworks:      sel.MaxActiveScanNetworks,
		},
		Location: LocationConfig{Subject: scan.DefaultLocationSubject},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("loading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Store.Path != "", "store.path is empty")
	check(c.Scan.ChunkSize > 0, "scan.chunk_size must be positive, got %d", c.Scan.ChunkSize)
	check(c.Scan.RetryDelay >= 0, "scan.retry_delay is negative")
	check(c.Scan.IteratorIdleTimeout > 0, "scan.iterator_idle_timeout must be positive")
	check(c.Selection.StaleScanAge >= 0, "selection.stale_scan_age is negative")
	check(c.Selection.RecentFailureWindow >= 0, "selection.recent_failure_window is negative")
	check(c.Selection.LogLimit > 0, "selection.log_limit must be positive, got %d", c.Selection.LogLimit)
	check(c.Selection.FailurePenalty >= 0, "selection.failure_penalty is negative")
	check(c.Selection.CredentialRejectedPenalty >= 0, "selection.credential_rejected_penalty is negative")
	check(c.Selection.HiddenProbabilityThreshold >= 0 && c.Selection.HiddenProbabilityThreshold <= 1,
		"selection.hidden_probability_threshold must be within [0, 1]")
	check(c.Selection.MaxActiveScanNetworks >= 0, "selection.max_active_scan_networks is negative")
	check(c.Location.NATSURL == "" || c.Location.Subject != "", "location.subject is empty")
	return errors.Join(errs...)
}

// ScanConfig converts the [scan] section.
func (c Config) ScanConfig() scan.Config {
	return scan.Config{
		RetryDelay:          time.Duration(c.Scan.RetryDelay),
		ChunkSize:           c.Scan.ChunkSize,
		IteratorIdleTimeout: time.Duration(c.Scan.IteratorIdleTimeout),
	}
}

// SelectionConfig converts the [selection] section.
func (c Config) SelectionConfig() selection.Config {
	s := c.Selection
	return selection.Config{
		StaleScanAge:               time.Duration(s.StaleScanAge),
		RecentFailureWindow:        time.Duration(s.RecentFailureWindow),
		RSSICutoff5G:               s.RSSICutoff5G,
		Boost5G:                    s.Boost5G,
		GeneralFailurePenalty:      s.FailurePenalty,
		CredentialRejectedPenalty:  s.CredentialRejectedPenalty,
		SelectionLogLimit:          s.LogLimit,
		HiddenProbabilityThreshold: s.HiddenProbabilityThreshold,
		MaxActiveScanNetworks:      s.MaxActiveScanNetworks,
	}
}
