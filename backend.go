package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/shazow/wifiselect/wifi"
	"github.com/shazow/wifiselect/wifi/mock"
)

// Backend names accepted by -backend.
const (
	backendAuto           = "auto"
	backendNetworkManager = "networkmanager"
	backendIWD            = "iwd"
	backendMock           = "mock"
)

// openBackend returns the radio for name. auto picks the platform default.
func openBackend(name, iface string, logger zerolog.Logger) (wifi.IfaceManager, error) {
	switch name {
	case backendMock:
		return mock.New(), nil
	case "", backendAuto, backendNetworkManager, backendIWD:
		return platformBackend(name, iface, logger)
	}
	return nil, fmt.Errorf("unknown backend %q: %w", name, wifi.ErrNotSupported)
}
