//go:build linux

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/shazow/wifiselect/wifi"
	"github.com/shazow/wifiselect/wifi/iwd"
	"github.com/shazow/wifiselect/wifi/networkmanager"
)

func platformBackend(name, iface string, logger zerolog.Logger) (wifi.IfaceManager, error) {
	switch name {
	case backendNetworkManager:
		return networkmanager.New(iface, logger)
	case backendIWD:
		return iwd.New(iface, logger)
	}
	b, err := networkmanager.New(iface, logger)
	if err == nil {
		return b, nil
	}
	logger.Warn().Err(err).Msg("Failed to initialize networkmanager backend, falling back to iwd")
	// If networkmanager dbus backend failed to initialize, try the iwd backend
	return iwd.New(iface, logger)
}

func runIfaces(w io.Writer, asJSON bool) error {
	ifaces, err := networkmanager.ListInterfaces()
	if err != nil {
		return fmt.Errorf("failed to list interfaces: %w", err)
	}
	if asJSON {
		return json.NewEncoder(w).Encode(ifaces)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, ifi := range ifaces {
		connected := "-"
		if ifi.SSID != "" {
			connected = fmt.Sprintf("%s (%s, %d MHz)", ifi.SSID, ifi.BSSID, ifi.FrequencyMHz)
		}
		fmt.Fprintf(tw, "%s\tphy%d\t%s\t%s\n", ifi.Name, ifi.PHY, ifi.HardwareAddr, connected)
	}
	return tw.Flush()
}
