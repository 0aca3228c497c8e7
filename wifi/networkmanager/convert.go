// Package networkmanager scans through NetworkManager over D-Bus.
package networkmanager

import (
	"fmt"
	"strings"

	"github.com/shazow/wifiselect/wifi"
)

// NM_802_11_AP_FLAGS and NM_802_11_AP_SEC bits from NetworkManager's D-Bus API.
const (
	apFlagsPrivacy = 0x1

	apSecPairCCMP     = 0x8
	apSecKeyMgmtPSK   = 0x100
	apSecKeyMgmt8021X = 0x200
	apSecKeyMgmtSAE   = 0x400
	apSecKeyMgmtOWE   = 0x800
	apSecKeyMgmtOWETM = 0x1000
	apSecEAPSuiteB192 = 0x2000
)

// accessPoint is the subset of gonetworkmanager.AccessPoint used by scans.
type accessPoint interface {
	GetPropertySSID() (string, error)
	GetPropertyHWAddress() (string, error)
	GetPropertyStrength() (uint8, error)
	GetPropertyFrequency() (uint32, error)
	GetPropertyFlags() (uint32, error)
	GetPropertyWPAFlags() (uint32, error)
	GetPropertyRSNFlags() (uint32, error)
}

// apInfo is a snapshot of one access point's properties.
type apInfo struct {
	Path      string
	SSID      string
	HWAddress string
	Strength  uint8
	Frequency uint32
	Flags     uint32
	WPAFlags  uint32
	RSNFlags  uint32
}

func readAccessPoint(path string, ap accessPoint) (apInfo, error) {
	info := apInfo{Path: path}
	var err error
	if info.SSID, err = ap.GetPropertySSID(); err != nil {
		return info, fmt.Errorf("ssid: %w", err)
	}
	if info.HWAddress, err = ap.GetPropertyHWAddress(); err != nil {
		return info, fmt.Errorf("hw address: %w", err)
	}
	if info.Strength, err = ap.GetPropertyStrength(); err != nil {
		return info, fmt.Errorf("strength: %w", err)
	}
	if info.Frequency, err = ap.GetPropertyFrequency(); err != nil {
		return info, fmt.Errorf("frequency: %w", err)
	}
	if info.Flags, err = ap.GetPropertyFlags(); err != nil {
		return info, fmt.Errorf("flags: %w", err)
	}
	if info.WPAFlags, err = ap.GetPropertyWPAFlags(); err != nil {
		return info, fmt.Errorf("wpa flags: %w", err)
	}
	if info.RSNFlags, err = ap.GetPropertyRSNFlags(); err != nil {
		return info, fmt.Errorf("rsn flags: %w", err)
	}
	return info, nil
}

// strengthToDBm maps NetworkManager's 0-100 quality back to an estimated
// RSSI, the inverse of NetworkManager's own dBm to percent conversion.
func strengthToDBm(strength uint8) int8 {
	if strength > 100 {
		strength = 100
	}
	return int8(int(strength)/2 - 100)
}

// protectionFromFlags maps AP flag words to a Protection.
func protectionFromFlags(flags, wpaFlags, rsnFlags uint32) wifi.Protection {
	if wpaFlags == 0 && rsnFlags == 0 {
		if flags&apFlagsPrivacy != 0 {
			return wifi.ProtectionWEP
		}
		return wifi.ProtectionOpen
	}

	rsnCCMP := rsnFlags&apSecPairCCMP != 0
	switch {
	case rsnFlags&apSecKeyMgmtSAE != 0 && rsnFlags&apSecKeyMgmtPSK != 0:
		return wifi.ProtectionWPA2WPA3Personal
	case rsnFlags&apSecKeyMgmtSAE != 0:
		return wifi.ProtectionWPA3Personal
	case rsnFlags&apSecEAPSuiteB192 != 0:
		return wifi.ProtectionWPA3Enterprise
	case (rsnFlags|wpaFlags)&apSecKeyMgmt8021X != 0:
		return wifi.ProtectionWPA2Enterprise
	case rsnFlags&(apSecKeyMgmtOWE|apSecKeyMgmtOWETM) != 0:
		// Enhanced open has no saved-network security type.
		return wifi.ProtectionUnknown
	case rsnFlags&apSecKeyMgmtPSK != 0 && wpaFlags&apSecKeyMgmtPSK != 0:
		if rsnCCMP {
			return wifi.ProtectionWPA1WPA2Personal
		}
		return wifi.ProtectionWPA1WPA2PersonalTKIPOnly
	case rsnFlags&apSecKeyMgmtPSK != 0:
		if rsnCCMP {
			return wifi.ProtectionWPA2Personal
		}
		return wifi.ProtectionWPA2PersonalTKIPOnly
	case wpaFlags&apSecKeyMgmtPSK != 0:
		return wifi.ProtectionWPA1
	}
	return wifi.ProtectionUnknown
}

// toRawBss converts an access point. The D-Bus object path is kept as the
// descriptor since that is what NetworkManager needs to connect.
func toRawBss(info apInfo) (wifi.RawBss, error) {
	bssid, err := wifi.ParseBSSID(strings.ToLower(info.HWAddress))
	if err != nil {
		return wifi.RawBss{}, err
	}
	return wifi.RawBss{
		SSID:       wifi.SSID(info.SSID),
		Protection: protectionFromFlags(info.Flags, info.WPAFlags, info.RSNFlags),
		Bss: wifi.Bss{
			BSSID:      bssid,
			RSSI:       strengthToDBm(info.Strength),
			Channel:    wifi.ChannelFromFrequency(info.Frequency),
			Compatible: true,
			Descriptor: []byte(info.Path),
		},
	}, nil
}

// filterRaw keeps observations matching req. NetworkManager cannot restrict
// a scan to channels, so channel filtering happens here.
func filterRaw(raw []wifi.RawBss, req wifi.ScanRequest) []wifi.RawBss {
	if len(req.Channels) == 0 {
		return raw
	}
	var out []wifi.RawBss
	for _, r := range raw {
		for _, ch := range req.Channels {
			if r.Channel.Primary == ch {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
