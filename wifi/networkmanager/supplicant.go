//go:build linux

package networkmanager

import (
	"context"
	"fmt"
	"slices"

	"github.com/godbus/dbus/v5"
)

const (
	supplicantBusName   = "fi.w1.wpa_supplicant1"
	supplicantPath      = "/fi/w1/wpa_supplicant1"
	supplicantIfaceProp = "fi.w1.wpa_supplicant1.Interface.Capabilities"
)

// supplicantSupportsSAE reports whether wpa_supplicant lists SAE among the
// key management suites of the named interface.
func supplicantSupportsSAE(ctx context.Context, iface string) (bool, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return false, err
	}

	var path dbus.ObjectPath
	err = conn.Object(supplicantBusName, supplicantPath).
		CallWithContext(ctx, supplicantBusName+".GetInterface", 0, iface).
		Store(&path)
	if err != nil {
		return false, fmt.Errorf("get supplicant interface %s: %w", iface, err)
	}

	v, err := conn.Object(supplicantBusName, path).GetProperty(supplicantIfaceProp)
	if err != nil {
		return false, err
	}
	caps, ok := v.Value().(map[string]dbus.Variant)
	if !ok {
		return false, fmt.Errorf("unexpected capabilities type %T", v.Value())
	}
	return hasKeyMgmt(caps, "sae"), nil
}

func hasKeyMgmt(caps map[string]dbus.Variant, suite string) bool {
	v, ok := caps["KeyMgmt"]
	if !ok {
		return false
	}
	suites, ok := v.Value().([]string)
	return ok && slices.Contains(suites, suite)
}
