// Package iwd scans through iwd over D-Bus.
//
// iwd reports signal per network rather than per access point and does not
// expose frequencies, so every BSS of a network shares the network's signal
// and has an unknown channel.
package iwd

import (
	"slices"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/shazow/wifiselect/wifi"
)

// IWD constants
const (
	iwdDest           = "net.connman.iwd"
	iwdRoot           = "/"
	iwdDeviceIface    = "net.connman.iwd.Device"
	iwdStationIface   = "net.connman.iwd.Station"
	iwdNetworkIface   = "net.connman.iwd.Network"
	iwdBSSIface       = "net.connman.iwd.BasicServiceSet"
	objectManagerCall = "org.freedesktop.DBus.ObjectManager.GetManagedObjects"
)

// managedObjects is the reply of GetManagedObjects.
type managedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// orderedNetwork is one entry of Station.GetOrderedNetworks. Signal is in
// 100 * dBm.
type orderedNetwork struct {
	Path   dbus.ObjectPath
	Signal int16
}

// networkInfo is a snapshot of one visible network.
type networkInfo struct {
	Path   string
	Name   string
	Type   string
	BSSIDs []string
	Signal int16
}

func prop[T any](props map[string]dbus.Variant, name string) (T, bool) {
	var zero T
	v, ok := props[name]
	if !ok {
		return zero, false
	}
	t, ok := v.Value().(T)
	return t, ok
}

// networkInfos joins ordered networks with their properties and access
// point addresses. Networks that vanished from objs are dropped.
func networkInfos(ordered []orderedNetwork, objs managedObjects) []networkInfo {
	out := make([]networkInfo, 0, len(ordered))
	for _, o := range ordered {
		props, ok := objs[o.Path][iwdNetworkIface]
		if !ok {
			continue
		}
		info := networkInfo{Path: string(o.Path), Signal: o.Signal}
		info.Name, _ = prop[string](props, "Name")
		info.Type, _ = prop[string](props, "Type")
		bssPaths, _ := prop[[]dbus.ObjectPath](props, "ExtendedServiceSet")
		for _, p := range bssPaths {
			if addr, ok := prop[string](objs[p][iwdBSSIface], "Address"); ok {
				info.BSSIDs = append(info.BSSIDs, addr)
			}
		}
		out = append(out, info)
	}
	return out
}

// protectionFromType maps iwd's network type. iwd folds WPA2 and WPA3
// personal into "psk".
func protectionFromType(t string) wifi.Protection {
	switch t {
	case "open":
		return wifi.ProtectionOpen
	case "wep":
		return wifi.ProtectionWEP
	case "psk":
		return wifi.ProtectionWPA2Personal
	case "8021x":
		return wifi.ProtectionWPA2Enterprise
	}
	return wifi.ProtectionUnknown
}

func signalToDBm(signal int16) int8 {
	dbm := int(signal) / 100
	return int8(min(max(dbm, -128), 0))
}

// toRawBss expands a network into one observation per access point. The
// network object path is the descriptor since that is what iwd connects to.
func toRawBss(info networkInfo) []wifi.RawBss {
	protection := protectionFromType(info.Type)
	var out []wifi.RawBss
	for _, addr := range info.BSSIDs {
		bssid, err := wifi.ParseBSSID(strings.ToLower(addr))
		if err != nil {
			continue
		}
		out = append(out, wifi.RawBss{
			SSID:       wifi.SSID(info.Name),
			Protection: protection,
			Bss: wifi.Bss{
				BSSID:      bssid,
				RSSI:       signalToDBm(info.Signal),
				Compatible: protection != wifi.ProtectionUnknown,
				Descriptor: []byte(info.Path),
			},
		})
	}
	return out
}

// filterRaw keeps observations matching req. iwd cannot probe for specific
// SSIDs, so active requests are answered from a full scan.
func filterRaw(raw []wifi.RawBss, req wifi.ScanRequest) []wifi.RawBss {
	if req.Kind != wifi.ScanActive || len(req.SSIDs) == 0 {
		return raw
	}
	var out []wifi.RawBss
	for _, r := range raw {
		if slices.Contains(req.SSIDs, r.SSID) {
			out = append(out, r)
		}
	}
	return out
}
