//go:build linux

package networkmanager

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/mdlayher/wifi"
)

// Interface is a wireless station interface as reported by nl80211.
type Interface struct {
	Name         string           `json:"name"`
	HardwareAddr net.HardwareAddr `json:"hardware_addr"`
	PHY          int              `json:"phy"`
	FrequencyMHz int              `json:"frequency_mhz,omitempty"`
	// SSID and BSSID are set when the interface is associated.
	SSID  string           `json:"ssid,omitempty"`
	BSSID net.HardwareAddr `json:"bssid,omitempty"`
}

// ListInterfaces lists station interfaces over nl80211, bypassing
// NetworkManager.
func ListInterfaces() ([]Interface, error) {
	c, err := wifi.New()
	if err != nil {
		return nil, fmt.Errorf("nl80211: %w", err)
	}
	defer c.Close()

	ifis, err := c.Interfaces()
	if err != nil {
		return nil, err
	}

	var out []Interface
	for _, ifi := range ifis {
		if ifi.Type != wifi.InterfaceTypeStation || ifi.Name == "" {
			continue
		}
		iface := Interface{
			Name:         ifi.Name,
			HardwareAddr: ifi.HardwareAddr,
			PHY:          ifi.PHY,
			FrequencyMHz: ifi.Frequency,
		}
		bss, err := c.BSS(ifi)
		switch {
		case err == nil:
			iface.SSID = bss.SSID
			iface.BSSID = bss.BSSID
		case errors.Is(err, os.ErrNotExist):
			// Not associated.
		default:
			return nil, fmt.Errorf("bss for %s: %w", ifi.Name, err)
		}
		out = append(out, iface)
	}
	return out, nil
}
