//go:build !linux

package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/shazow/wifiselect/wifi"
)

func platformBackend(name, iface string, logger zerolog.Logger) (wifi.IfaceManager, error) {
	return nil, fmt.Errorf("no %s backend on %s, try -backend mock: %w", name, runtime.GOOS, wifi.ErrNotSupported)
}

func runIfaces(w io.Writer, asJSON bool) error {
	return fmt.Errorf("listing interfaces on %s: %w", runtime.GOOS, wifi.ErrNotSupported)
}
