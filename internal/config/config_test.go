package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shazow/wifiselect/wifi/scan"
	"github.com/shazow/wifiselect/wifi/selection"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wifiselect.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultMatchesPackages(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, scan.DefaultConfig(), cfg.ScanConfig())
	assert.Equal(t, selection.DefaultConfig(), cfg.SelectionConfig())
	assert.Equal(t, scan.DefaultLocationSubject, cfg.Location.Subject)
	assert.Empty(t, cfg.Location.NATSURL)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"
output = "console"

[store]
path = "/var/lib/wifiselect/networks.db"

[scan]
retry_delay = "250ms"
chunk_size = 8

[selection]
stale_scan_age = "1s"
rssi_cutoff_5g = -70
credential_rejected_penalty = 40

[location]
nats_url = "nats://127.0.0.1:4222"

[tui]
theme = "dracula.toml"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Output)
	assert.Equal(t, "/var/lib/wifiselect/networks.db", cfg.Store.Path)
	assert.Equal(t, "dracula.toml", cfg.TUI.Theme)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Location.NATSURL)
	assert.Equal(t, scan.DefaultLocationSubject, cfg.Location.Subject)

	sc := cfg.ScanConfig()
	assert.Equal(t, 250*time.Millisecond, sc.RetryDelay)
	assert.Equal(t, 8, sc.ChunkSize)
	assert.Equal(t, scan.DefaultIdleTimeout, sc.IteratorIdleTimeout)

	sel := cfg.SelectionConfig()
	assert.Equal(t, time.Second, sel.StaleScanAge)
	assert.Equal(t, int8(-70), sel.RSSICutoff5G)
	assert.Equal(t, int8(40), sel.CredentialRejectedPenalty)
	assert.Equal(t, int8(20), sel.Boost5G)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{name: "unknown key", content: "[scan]\nchunk = 3\n", invalid: true},
		{name: "zero chunk", content: "[scan]\nchunk_size = 0\n", invalid: true},
		{name: "negative duration", content: "[selection]\nstale_scan_age = \"-1s\"\n", invalid: true},
		{name: "zero log limit", content: "[selection]\nlog_limit = 0\n", invalid: true},
		{name: "threshold out of range", content: "[selection]\nhidden_probability_threshold = 1.5\n", invalid: true},
		{name: "bad duration", content: "[scan]\nretry_delay = \"soon\"\n"},
		{name: "bad toml", content: "[scan\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
