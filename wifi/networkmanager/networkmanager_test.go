//go:build linux

package networkmanager

import (
	"context"
	"errors"
	"testing"
	"time"

	gonetworkmanager "github.com/Wifx/gonetworkmanager/v3"
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shazow/wifiselect/wifi"
)

type mockNM struct {
	gonetworkmanager.NetworkManager
	getDevicesFunc                 func() ([]gonetworkmanager.Device, error)
	getPropertyWirelessEnabledFunc func() (bool, error)
}

func (m *mockNM) GetDevices() ([]gonetworkmanager.Device, error) {
	if m.getDevicesFunc != nil {
		return m.getDevicesFunc()
	}
	return nil, nil
}

func (m *mockNM) GetPropertyWirelessEnabled() (bool, error) {
	if m.getPropertyWirelessEnabledFunc != nil {
		return m.getPropertyWirelessEnabledFunc()
	}
	return true, nil
}

type mockDeviceWireless struct {
	gonetworkmanager.DeviceWireless
	name string
	aps  []gonetworkmanager.AccessPoint
}

func (d *mockDeviceWireless) GetPropertyInterface() (string, error) {
	return d.name, nil
}

func (d *mockDeviceWireless) GetAllAccessPoints() ([]gonetworkmanager.AccessPoint, error) {
	return d.aps, nil
}

type mockAccessPoint struct {
	gonetworkmanager.AccessPoint
	fakeAP
	path dbus.ObjectPath
}

func (a *mockAccessPoint) GetPath() dbus.ObjectPath { return a.path }

func (a *mockAccessPoint) GetPropertySSID() (string, error)      { return a.fakeAP.GetPropertySSID() }
func (a *mockAccessPoint) GetPropertyHWAddress() (string, error) { return a.fakeAP.GetPropertyHWAddress() }
func (a *mockAccessPoint) GetPropertyStrength() (uint8, error)   { return a.fakeAP.GetPropertyStrength() }
func (a *mockAccessPoint) GetPropertyFrequency() (uint32, error) { return a.fakeAP.GetPropertyFrequency() }
func (a *mockAccessPoint) GetPropertyFlags() (uint32, error)     { return a.fakeAP.GetPropertyFlags() }
func (a *mockAccessPoint) GetPropertyWPAFlags() (uint32, error)  { return a.fakeAP.GetPropertyWPAFlags() }
func (a *mockAccessPoint) GetPropertyRSNFlags() (uint32, error)  { return a.fakeAP.GetPropertyRSNFlags() }

type mockBusObject struct {
	dbus.BusObject
	err   error
	calls []map[string]dbus.Variant
}

func (o *mockBusObject) CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	o.calls = append(o.calls, args[0].(map[string]dbus.Variant))
	return &dbus.Call{Err: o.err}
}

func TestGetWirelessDevice_Caching(t *testing.T) {
	callCount := 0
	mockDev := &mockDeviceWireless{name: "wlan0"}

	nm := &mockNM{
		getDevicesFunc: func() ([]gonetworkmanager.Device, error) {
			callCount++
			return []gonetworkmanager.Device{mockDev}, nil
		},
	}
	m := &Manager{NM: nm}

	dev, err := m.getWirelessDevice()
	require.NoError(t, err)
	assert.Equal(t, mockDev, dev)

	dev, err = m.getWirelessDevice()
	require.NoError(t, err)
	assert.Equal(t, mockDev, dev)
	assert.Equal(t, 1, callCount)
}

func TestGetWirelessDevice_Interface(t *testing.T) {
	wlan0 := &mockDeviceWireless{name: "wlan0"}
	wlan1 := &mockDeviceWireless{name: "wlan1"}
	nm := &mockNM{
		getDevicesFunc: func() ([]gonetworkmanager.Device, error) {
			return []gonetworkmanager.Device{wlan0, wlan1}, nil
		},
	}

	dev, err := (&Manager{NM: nm, Interface: "wlan1"}).getWirelessDevice()
	require.NoError(t, err)
	assert.Equal(t, wlan1, dev)

	_, err = (&Manager{NM: nm, Interface: "wlp3s0"}).getWirelessDevice()
	assert.ErrorIs(t, err, wifi.ErrNotFound)
}

func TestScanHandle_WirelessDisabled(t *testing.T) {
	expectedErr := errors.New("dbus went away")
	tests := []struct {
		name    string
		enabled func() (bool, error)
		want    error
	}{
		{"disabled", func() (bool, error) { return false, nil }, wifi.ErrWirelessDisabled},
		{"error", func() (bool, error) { return false, expectedErr }, expectedErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manager{NM: &mockNM{getPropertyWirelessEnabledFunc: tt.enabled}}
			_, err := m.ScanHandle(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func newTestHandle(obj dbus.BusObject, aps ...gonetworkmanager.AccessPoint) *scanHandle {
	var n int64
	return &scanHandle{
		dev:     &mockDeviceWireless{aps: aps},
		obj:     obj,
		poll:    time.Millisecond,
		timeout: time.Second,
		log:     zerolog.Nop(),
		// LastScan moves after the first poll.
		property: func() (int64, error) {
			n++
			return n / 2, nil
		},
	}
}

func drain(t *testing.T, ch <-chan wifi.ScanEvent) []wifi.ScanEvent {
	t.Helper()
	var events []wifi.ScanEvent
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func TestScan(t *testing.T) {
	ap := &mockAccessPoint{
		path: "/org/freedesktop/NetworkManager/AccessPoint/3",
		fakeAP: fakeAP{info: apInfo{
			SSID:      "Bill Wi the Science Fi",
			HWAddress: "02:00:5e:00:00:03",
			Strength:  70,
			Frequency: 2437,
			RSNFlags:  apSecKeyMgmtPSK | apSecPairCCMP,
		}},
	}
	bad := &mockAccessPoint{path: "/ap/bad", fakeAP: fakeAP{info: apInfo{HWAddress: "nope"}}}
	obj := &mockBusObject{}
	h := newTestHandle(obj, ap, bad)

	ch, err := h.Scan(context.Background(), wifi.ScanRequest{Kind: wifi.ScanActive, SSIDs: []wifi.SSID{"hidden"}})
	require.NoError(t, err)
	events := drain(t, ch)

	require.Len(t, events, 2)
	assert.Equal(t, wifi.ScanEventResult, events[0].Kind)
	require.Len(t, events[0].Results, 1)
	assert.Equal(t, wifi.SSID("Bill Wi the Science Fi"), events[0].Results[0].SSID)
	assert.Equal(t, uint8(6), events[0].Results[0].Channel.Primary)
	assert.Equal(t, wifi.ScanEventFinished, events[1].Kind)

	require.Len(t, obj.calls, 1)
	assert.Equal(t, dbus.MakeVariant([][]byte{[]byte("hidden")}), obj.calls[0]["ssids"])
}

func TestScan_PassiveHasNoSSIDs(t *testing.T) {
	obj := &mockBusObject{}
	h := newTestHandle(obj)

	ch, err := h.Scan(context.Background(), wifi.ScanRequest{Kind: wifi.ScanPassive, SSIDs: []wifi.SSID{"ignored"}})
	require.NoError(t, err)
	drain(t, ch)
	assert.Empty(t, obj.calls[0])
}

func TestScan_NotAllowedIsBusy(t *testing.T) {
	obj := &mockBusObject{err: dbus.Error{Name: errNameNotAllowed}}
	h := newTestHandle(obj)

	_, err := h.Scan(context.Background(), wifi.ScanRequest{Kind: wifi.ScanPassive})
	assert.ErrorIs(t, err, wifi.ErrTransportBusy)

	obj.err = dbus.Error{Name: "org.freedesktop.DBus.Error.AccessDenied"}
	_, err = h.Scan(context.Background(), wifi.ScanRequest{Kind: wifi.ScanPassive})
	require.Error(t, err)
	assert.NotErrorIs(t, err, wifi.ErrTransportBusy)
}

func TestScan_Timeout(t *testing.T) {
	h := newTestHandle(&mockBusObject{})
	h.property = func() (int64, error) { return 1, nil }
	h.timeout = 10 * time.Millisecond

	ch, err := h.Scan(context.Background(), wifi.ScanRequest{Kind: wifi.ScanPassive})
	require.NoError(t, err)
	events := drain(t, ch)
	require.Len(t, events, 1)
	assert.Equal(t, wifi.ScanEventError, events[0].Kind)
	assert.True(t, events[0].Code.Transient())
}

func TestHasKeyMgmt(t *testing.T) {
	caps := map[string]dbus.Variant{
		"KeyMgmt": dbus.MakeVariant([]string{"none", "wpa-psk", "sae"}),
	}
	assert.True(t, hasKeyMgmt(caps, "sae"))
	assert.False(t, hasKeyMgmt(caps, "owe"))
	assert.False(t, hasKeyMgmt(map[string]dbus.Variant{}, "sae"))
}
